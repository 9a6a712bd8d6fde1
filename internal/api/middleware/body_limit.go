package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shift-report/pkg/response"
)

// BodyLimit caps request bodies at maxBytes.
// Declared oversize bodies are rejected up front; chunked ones fail while binding.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
