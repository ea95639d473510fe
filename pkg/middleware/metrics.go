package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/kart-io/recordguard/pkg/observability/metrics"
)

var (
	httpRequestsTotal = metrics.NewCounter(
		"recordguard_http_requests_total",
		"Total HTTP requests handled.",
	)
	httpRequestsInFlight = metrics.NewGauge(
		"recordguard_http_requests_in_flight",
		"HTTP requests currently being handled.",
	)
)

func init() {
	metrics.Register(httpRequestsTotal)
	metrics.Register(httpRequestsInFlight)
}

// Metrics tracks request throughput and in-flight load for the /metrics
// endpoint.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpRequestsInFlight.Inc()
		defer func() {
			httpRequestsInFlight.Dec()
			httpRequestsTotal.Inc()
		}()

		c.Next()
	}
}
