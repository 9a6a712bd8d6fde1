package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"shift-report/internal/dto"
	"shift-report/internal/service"
	"shift-report/pkg/response"
)

// SessionAuthenticator resolves a bearer token to an admin session.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*dto.AdminSession, error)
}

// AdminAuth admin session middleware.
// Reads Authorization: Bearer <token> and stores the session under "admin_session".
func AdminAuth(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing Authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.Unauthorized(c, 10002, "malformed Authorization header")
			c.Abort()
			return
		}

		sess, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrSessionInvalid) {
				response.Unauthorized(c, 10002, "session expired or invalid, log in again")
			} else {
				response.InternalError(c)
			}
			c.Abort()
			return
		}

		c.Set("admin_session", sess)
		c.Next()
	}
}
