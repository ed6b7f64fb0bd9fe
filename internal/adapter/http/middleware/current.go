package middleware

import (
	ct "todoapi/pkg/context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// CurrentMiddleware stores the request values in the request context and
// echoes the request id, generating one when the client sent none.
func CurrentMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		current := ct.NewCurrent()

		requestID := c.GetHeader(RequestIDHeader)

		if requestID == "" {
			requestID = uuid.New().String()
		}

		current.Set(ct.KeyRequestID, requestID)
		current.Set(ct.KeyUserAgent, c.Request.UserAgent())
		current.Set(ct.KeyIPAddress, c.ClientIP())
		current.Set(ct.KeyMethod, c.Request.Method)
		current.Set(ct.KeyPath, c.Request.URL.Path)

		c.Request = c.Request.WithContext(ct.WithCurrent(c.Request.Context(), current))
		c.Set("current", current)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func GetCurrent(c *gin.Context) *ct.Current {
	if current, ok := c.Get("current"); ok {
		if curr, ok := current.(*ct.Current); ok {
			return curr
		}
	}

	return ct.GetCurrent(c.Request.Context())
}
