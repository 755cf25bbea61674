// Package metrics defines Prometheus metrics for the mind map viewer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindmap_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmap_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmap_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmap_commands_total",
			Help: "Mutating commands by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	CommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mindmap_command_duration_seconds",
			Help:    "Time from command start to settle, refresh included",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)

	RefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mindmap_graph_refreshes_total",
			Help: "Graph fetches by outcome",
		},
		[]string{"outcome"},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmap_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	NodeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmap_rendered_nodes",
			Help: "Nodes in the current filtered snapshot",
		},
	)

	LinkCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "mindmap_rendered_links",
			Help: "Links in the current filtered snapshot",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		CommandsTotal, CommandDuration, RefreshesTotal,
		WSConnections, NodeCount, LinkCount,
	)
}
