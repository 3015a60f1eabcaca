// Package middleware provides HTTP middleware for the fake MMWS API:
// basic authentication and request logging.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jroosing/mmws/internal/fakeapi/models"
)

// RequireBasicAuth accepts requests carrying the given credentials and
// rejects the rest with a 401 error envelope. The user name is stored under
// gin.AuthUserKey.
func RequireBasicAuth(username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, pass, ok := c.Request.BasicAuth()
		if ok &&
			subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1 {
			c.Set(gin.AuthUserKey, user)
			c.Next()
			return
		}
		c.Header("WWW-Authenticate", `Basic realm="mmws"`)
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
			Error: models.ErrorBody{Code: "Unauthorized", Message: "invalid username or password"},
		})
	}
}
