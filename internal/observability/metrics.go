package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts handled requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_http_requests_total",
		Help: "Total number of HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records handler latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "workforce_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ApprovalTransitionsTotal counts lifecycle transitions by family and
	// outcome (approved, rejected, fulfilled, processed, cancelled, conflict, forbidden).
	ApprovalTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_approval_transitions_total",
		Help: "Total number of request lifecycle transitions by family and outcome",
	}, []string{"family", "outcome"})

	// NotificationsTotal counts dispatch attempts by channel and result.
	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_notifications_total",
		Help: "Total number of status notifications by channel and result",
	}, []string{"channel", "result"})

	// OutboxEventsTotal counts outbox relay results.
	OutboxEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "workforce_outbox_events_total",
		Help: "Total number of outbox events relayed by result",
	}, []string{"result"})
)

// RecordTransition is a shorthand for ApprovalTransitionsTotal.
func RecordTransition(family, outcome string) {
	ApprovalTransitionsTotal.WithLabelValues(family, outcome).Inc()
}

func RecordNotification(channel, result string) {
	NotificationsTotal.WithLabelValues(channel, result).Inc()
}

// GinMiddleware records request count and latency keyed by the route
// template, so path ids do not explode label cardinality.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry for scraping.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
