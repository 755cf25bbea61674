package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDKey is the gin context key for the request ID.
	RequestIDKey = "request_id"

	// RequestIDHeader is the HTTP header used to propagate the request ID.
	RequestIDHeader = "X-Request-ID"

	clientRequestIDKey = "client_request_id"
)

// RequestID tags every request with a UUID. A renderer that sends a well-formed
// UUID in X-Request-ID keeps it; any other value is replaced and kept only as
// the "client_request_id" log field.
func RequestID(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sent := c.GetHeader(RequestIDHeader)

		id := sent
		if parsed, err := uuid.Parse(sent); err == nil {
			id = parsed.String()
		} else {
			id = uuid.New().String()
			if sent != "" {
				log.WithFields(logrus.Fields{
					"request_id":        id,
					"client_request_id": sent,
				}).Debug("replaced malformed client request ID")
				c.Set(clientRequestIDKey, sent)
			}
		}

		c.Set(RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
