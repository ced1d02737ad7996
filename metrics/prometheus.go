package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type PrometheusRecorder struct {
	payments *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewPrometheusRecorder() Recorder {
	payments := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "conversion_proxy",
			Name:      "payments_total",
			Help:      "Payment outcomes by currency",
		},
		[]string{"outcome", "currency"},
	)

	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "conversion_proxy",
			Name:      "call_duration_seconds",
			Help:      "Contract call latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	prometheus.MustRegister(payments, latency)

	return &PrometheusRecorder{
		payments: payments,
		latency:  latency,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.payments.With(prometheus.Labels{
		"outcome":  name,
		"currency": labels["currency"],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.latency.With(prometheus.Labels{
		"method": name,
	}).Observe(d.Seconds())
}
