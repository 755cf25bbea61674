package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/mindmap/internal/httputil"
	"github.com/persistorai/mindmap/internal/metrics"
)

// respondError counts the rejection and writes the standard error body.
func respondError(c *gin.Context, code int, errCode, message string) {
	metrics.ErrorsTotal.WithLabelValues(errCode).Inc()
	httputil.RespondError(c, code, errCode, message)
}
