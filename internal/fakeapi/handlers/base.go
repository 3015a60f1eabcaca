// Package handlers implements the endpoints of the fake MMWS API.
//
// Every request below /mmws/api/ is routed by its path segments:
//
//	<Kind>                                  GET list, POST create
//	<Kind>/<id|name>                        GET, PUT update, DELETE
//	<Kind>/<id>/Access                      GET, PUT
//	<Kind>/<id>/History                     GET
//	<Kind>/<id>/<SubKind>                   GET related objects
//	<Kind>/<id>/<SubKind>/<id>              PUT link, DELETE unlink
//	[<Kind>[/<id>]]/PropertyDefinitions[/<name>]
//	                                        GET, POST, PUT, DELETE
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/mmws/internal/fakeapi/models"
	"github.com/jroosing/mmws/internal/fakeapi/store"
)

const propertyDefinitions = "PropertyDefinitions"

// Handler contains dependencies for API handlers.
type Handler struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a Handler serving st.
func New(st *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{store: st, logger: logger}
}

// Store returns the backing store.
func (h *Handler) Store() *store.Store { return h.store }

// Health reports liveness and the number of stored objects.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok", Objects: h.store.Count()})
}

func segments(c *gin.Context) []string {
	p := strings.Trim(c.Param("path"), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func user(c *gin.Context) string {
	return c.GetString(gin.AuthUserKey)
}

func respondResult(c *gin.Context, status int, result any) {
	c.JSON(status, models.ResultResponse{Result: result})
}

func respondError(c *gin.Context, err error) {
	var se *store.Error
	if errors.As(err, &se) {
		c.JSON(se.Status, models.ErrorResponse{Error: models.ErrorBody{Code: se.Code, Message: se.Message}})
		return
	}
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: models.ErrorBody{Code: "InternalError", Message: err.Error()},
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: models.ErrorBody{Code: "InvalidRequest", Message: msg}})
}

func unknownPath(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrorBody{Code: "InvalidPath", Message: "no such endpoint: " + c.Request.URL.Path},
	})
}

// propertyScope reports whether seg addresses property definitions and
// splits it into the scope (kind path or reference) and optional name.
func propertyScope(seg []string) (scope, name string, ok bool) {
	for i, s := range seg {
		if s != propertyDefinitions {
			continue
		}
		if i == 0 || i > 2 || len(seg) > i+2 {
			return "", "", false
		}
		scope = strings.Join(seg[:i], "/")
		if len(seg) == i+2 {
			name = seg[i+1]
		}
		return scope, name, true
	}
	return "", "", false
}
