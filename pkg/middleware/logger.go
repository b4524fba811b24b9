package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// RequestLogger tags each request with an ID, logs its outcome and recovers
// from panics with a JSON 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)

		defer func() {
			entry := log.WithFields(log.Fields{
				"request_id": id,
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"client_ip":  c.ClientIP(),
				"latency":    time.Since(start),
			})

			if recovered := recover(); recovered != nil {
				entry.WithField("stack", string(debug.Stack())).
					Errorf("panic: %v", recovered)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": fmt.Sprintf("Internal Server Error (request %s)", id),
					},
				})
				return
			}

			entry = entry.WithField("status", c.Writer.Status())
			switch {
			case len(c.Errors) > 0:
				entry.WithField("errors", c.Errors.String()).Error("Request failed")
			case c.Writer.Status() >= http.StatusInternalServerError:
				entry.Error("Request failed")
			default:
				entry.Info("Request handled")
			}
		}()

		c.Next()
	}
}
