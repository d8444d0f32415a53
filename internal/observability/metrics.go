package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	ExternalRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "condo", Name: "external_requests_total", Help: "Requests sent to the hosted backend."},
		[]string{"service", "endpoint", "status"},
	)
	ExternalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "condo", Name: "external_request_duration_seconds",
			Help:    "Hosted backend request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	SchemaStatements = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "condo", Name: "schema_statements_total", Help: "Schema statements executed."},
		[]string{"result"}, // result: ok|error
	)
)

// InitRegistry registers the tool's collectors in a fresh registry.
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ExternalRequests, ExternalLatency, SchemaStatements)
	return reg
}

// WriteTextfile dumps the registry in the textfile-collector format.
func WriteTextfile(path string, reg *prometheus.Registry) error {
	return prometheus.WriteToTextfile(path, reg)
}

// ObserveExternal records one outbound request. A status of 0 means the
// request never got a response.
func ObserveExternal(service, endpoint string, status int, dur time.Duration) {
	ExternalRequests.WithLabelValues(service, endpoint, statusLabel(status)).Inc()
	ExternalLatency.WithLabelValues(service, endpoint).Observe(dur.Seconds())
}

// ObserveStatement records the outcome of one schema statement.
func ObserveStatement(err error) {
	if err != nil {
		SchemaStatements.WithLabelValues("error").Inc()
		return
	}
	SchemaStatements.WithLabelValues("ok").Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
