package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// VoteCounter 按目标类型（question/reply）和方向统计投票
	VoteCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debate_votes_total",
			Help: "Total number of votes cast",
		},
		[]string{"target", "direction"},
	)

	UploadCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debate_uploads_total",
			Help: "Total number of uploaded attachments",
		},
		[]string{"provider"},
	)

	UploadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "debate_upload_bytes_total",
			Help: "Total bytes of uploaded attachments",
		},
	)

	// LiveConnections 当前实例上的投票推送连接数
	LiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "debate_live_connections",
			Help: "Number of open live vote feed connections",
		},
	)

	LiveMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "debate_live_messages_total",
			Help: "Total number of live feed messages",
		},
		[]string{"type", "source"},
	)
)

var registerOnce sync.Once

// Init 注册指标，重复调用安全
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(VoteCounter)
		prometheus.MustRegister(UploadCounter)
		prometheus.MustRegister(UploadBytes)
		prometheus.MustRegister(LiveConnections)
		prometheus.MustRegister(LiveMessages)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		// 未匹配的路由统一归类，避免标签基数爆炸
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
