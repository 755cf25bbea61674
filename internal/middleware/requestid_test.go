package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/mindmap/internal/middleware"
)

func requestIDRouter(seen, clientSeen *string) *gin.Engine {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	r := gin.New()
	r.Use(middleware.RequestID(log))
	r.GET("/test", func(c *gin.Context) {
		*seen = c.GetString(middleware.RequestIDKey)
		*clientSeen = c.GetString("client_request_id")
		c.Status(http.StatusOK)
	})

	return r
}

func TestRequestID(t *testing.T) {
	rendererID := uuid.New().String()

	tests := []struct {
		name       string
		header     string
		keep       bool
		wantClient string
	}{
		{"no header", "", false, ""},
		{"malformed header replaced", "from-client", false, "from-client"},
		{"uuid header kept", rendererID, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen, clientSeen string
			r := requestIDRouter(&seen, &clientSeen)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/test", http.NoBody)
			if tt.header != "" {
				req.Header.Set(middleware.RequestIDHeader, tt.header)
			}
			r.ServeHTTP(w, req)

			if _, err := uuid.Parse(seen); err != nil {
				t.Errorf("request id %q is not a UUID", seen)
			}
			if got := w.Header().Get(middleware.RequestIDHeader); got != seen {
				t.Errorf("header %q does not match context id %q", got, seen)
			}
			if tt.keep && seen != tt.header {
				t.Errorf("expected renderer id %q to be kept, got %q", tt.header, seen)
			}
			if !tt.keep && seen == tt.header {
				t.Errorf("expected header %q to be replaced", tt.header)
			}
			if clientSeen != tt.wantClient {
				t.Errorf("client request id: got %q, want %q", clientSeen, tt.wantClient)
			}
		})
	}
}
