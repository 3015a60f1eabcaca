package fakeapi

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/mmws/internal/fakeapi/handlers"
	"github.com/jroosing/mmws/internal/fakeapi/middleware"
	"github.com/jroosing/mmws/internal/transport"
)

// RegisterRoutes mounts the health check and the MMWS API. Object paths
// nest arbitrarily ("Groups/1/Roles/2"), so each method gets one catch-all
// route and the handlers dispatch on the path segments.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg Config) {
	r.GET("/health", h.Health)

	api := r.Group(strings.TrimSuffix(transport.APIPath, "/"))
	if cfg.Username != "" {
		api.Use(middleware.RequireBasicAuth(cfg.Username, cfg.Password))
	}

	api.GET("/*path", h.Get)
	api.POST("/*path", h.Post)
	api.PUT("/*path", h.Put)
	api.DELETE("/*path", h.Delete)
}
