package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Searches       *prometheus.CounterVec
	Feedback       *prometheus.CounterVec
	APIErrors      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	Markers        prometheus.Gauge
	InFlight       prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Searches: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_searches_total",
			Help: "Total number of search activations by outcome.",
		}, []string{"status"}),
		Feedback: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "compass_feedback_total",
			Help: "Total number of feedback submissions by action and outcome.",
		}, []string{"action", "status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "compass_backend_api_errors_total",
			Help: "Total number of errors received from the recommendation backend.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_backend_request_duration_seconds",
			Help:    "Duration of requests to the recommendation backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		Markers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "compass_map_markers",
			Help: "Current number of markers on the map surface.",
		}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "compass_searches_in_flight",
			Help: "Current number of search requests waiting for a response.",
		}),
	}
}
