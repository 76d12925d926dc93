package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
		[]string{"surface", "path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"surface", "path", "method"},
	)
	// 业务码（envelope 里的 code），HTTP 状态恒为 200
	httpRespCode = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_response_codes_total", Help: "Envelope codes written by handlers"},
		[]string{"surface", "code"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpRespCode) }

// KeyRespCode 由 ez 写入的响应码
const KeyRespCode = "respCode"

// Metrics surface 区分 api / admin 两个进程
func Metrics(surface string) gin.HandlerFunc {
	reqs := httpReqTotal.MustCurryWith(prometheus.Labels{"surface": surface})
	lat := httpLatency.MustCurryWith(prometheus.Labels{"surface": surface})
	codes := httpRespCode.MustCurryWith(prometheus.Labels{"surface": surface})
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		reqs.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		lat.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
		if code, ok := c.Get(KeyRespCode); ok {
			codes.WithLabelValues(strconv.Itoa(code.(int))).Inc()
		}
	}
}
