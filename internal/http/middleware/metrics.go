package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"novi.com/app/internal/metrics"
)

// Metrics records every request in the HTTP histogram, labelled by route
// template so ids do not explode cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
