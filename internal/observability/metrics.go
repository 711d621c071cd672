package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	commandsTotal         *prometheus.CounterVec
	commandLatencySeconds *prometheus.HistogramVec
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors used by the bot and its ops endpoints.
func RegisterMetrics() {
	registerOnce.Do(func() {
		commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of slash command invocations by outcome.",
		}, []string{"command", "outcome"})

		commandLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bot_command_latency_seconds",
			Help:    "Time from interaction receipt to reply.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 3.0, 5.0},
		}, []string{"command"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ops_http_requests_total",
			Help: "Total number of ops HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ops_http_latency_seconds",
			Help:    "Latency distribution for ops HTTP requests.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		}, []string{"method", "route"})

		prometheus.MustRegister(commandsTotal, commandLatencySeconds, httpRequestsTotal, httpLatencySeconds)
	})
}

// Commands exposes the command invocation counter.
func Commands() *prometheus.CounterVec {
	RegisterMetrics()
	return commandsTotal
}

// CommandLatency exposes the command latency histogram.
func CommandLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return commandLatencySeconds
}

// HTTPRequests exposes the ops request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the ops latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
