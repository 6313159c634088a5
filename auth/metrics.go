package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 认证指标.
type Metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics 创建认证指标并注册到 reg.
//
// reg 为 nil 时只创建不注册.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "app"
	}

	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "attempts_total",
				Help:      "Total number of token authentication attempts",
			},
			[]string{"result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "duration_seconds",
				Help:      "Token authentication duration in seconds",
				Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"result"},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.attempts, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Attempts 返回指定结果的计数器.
func (m *Metrics) Attempts(result string) prometheus.Counter {
	return m.attempts.WithLabelValues(result)
}

func (m *Metrics) observe(result string, d time.Duration) {
	m.attempts.WithLabelValues(result).Inc()
	m.duration.WithLabelValues(result).Observe(d.Seconds())
}
