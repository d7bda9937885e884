package runtime

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "codec_handler"

type metrics struct {
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	archived  *prometheus.CounterVec
	handler   http.Handler
}

func newMetrics(reg *prometheus.Registry) *metrics {
	m := &metrics{
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "responses_total",
			Help:      "Responses produced by wrapped handlers, by resource and status code.",
		}, []string{"resource", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent validating and handling a request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
		archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejected_requests_archived_total",
			Help:      "Rejected requests sent to the archive, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.responses, m.duration, m.archived)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// observe is nil-safe so that runtimes without metrics skip recording.
func (m *metrics) observe(resource string, status int, started time.Time) {
	if m == nil {
		return
	}
	m.responses.WithLabelValues(resource, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(resource).Observe(time.Since(started).Seconds())
}

func (m *metrics) archive(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.archived.WithLabelValues(result).Inc()
}
