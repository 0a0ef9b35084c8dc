package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/server/respond"
	"resume-review/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 envelope. The request id is returned in
// the details so a user can quote it.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			reqID := RequestIDFromContext(c)
			telemetry.Error("panic", map[string]any{
				"request_id": reqID,
				"session_id": SessionIDFromContext(c),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", map[string]any{
				"requestId": reqID,
			})
		}()
		c.Next()
	}
}
