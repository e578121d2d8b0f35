package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 画像生成リクエストの結果ラベル
const (
	outcomeSuccess       = "success"
	outcomeInvalidInput  = "invalid_input"
	outcomeNotConfigured = "not_configured"
	outcomeNoImage       = "no_image"
	outcomeUpstream      = "upstream_error"
)

// Metrics は画像生成エンドポイントの Prometheus メトリクスです。
type Metrics struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewMetrics は reg にメトリクスを登録して返します。
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coinkit",
			Name:      "image_requests_total",
			Help:      "Number of image generation requests by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coinkit",
			Name:      "image_request_duration_seconds",
			Help:      "Latency of upstream image generation calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
	}
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeDuration(seconds float64) {
	if m == nil {
		return
	}
	m.duration.Observe(seconds)
}
