package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "forum_ws_connections",
		Help: "Current number of active forum websocket subscriptions",
	})
	ForumMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "forum_messages_total",
		Help: "Total number of forum messages written",
	})
	PresenceUsers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "forum_presence_users",
		Help: "Distinct present users per college channel",
	}, []string{"college"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(WsConnections, ForumMessagesTotal, PresenceUsers, HttpRequestsTotal, HttpRequestDuration)
}

// GinMiddleware records request counts and latencies for Prometheus.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{"method": c.Request.Method, "path": path, "status": status}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	}
}
