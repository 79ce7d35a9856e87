package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Store mutations by entity and operation
	Mutations *prometheus.CounterVec

	// Bulk reorder items skipped (missing or foreign ids)
	BulkReorderSkips prometheus.Counter

	// AI tool executions by tool name and outcome
	ToolExecutions *prometheus.CounterVec

	// AI tool execution latency
	ToolLatency prometheus.Histogram
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		Mutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "todoflow_mutations_total",
			Help: "Total number of store mutations by entity and operation",
		}, []string{"entity", "op"}),

		BulkReorderSkips: promauto.NewCounter(prometheus.CounterOpts{
			Name: "todoflow_bulk_reorder_skips_total",
			Help: "Total number of bulk reorder items skipped",
		}),

		ToolExecutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "todoflow_tool_executions_total",
			Help: "Total number of AI tool executions by tool and status",
		}, []string{"tool", "status"}),

		ToolLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "todoflow_tool_execution_duration_seconds",
			Help:    "AI tool execution latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		}),
	}

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}

// RecordMutation records a store mutation
func (m *Metrics) RecordMutation(entity, op string) {
	m.Mutations.WithLabelValues(entity, op).Inc()
}

// RecordBulkReorderSkips records skipped bulk reorder items
func (m *Metrics) RecordBulkReorderSkips(n int) {
	m.BulkReorderSkips.Add(float64(n))
}

// RecordToolExecution records an AI tool execution
func (m *Metrics) RecordToolExecution(tool, status string) {
	m.ToolExecutions.WithLabelValues(tool, status).Inc()
}

// RecordToolLatency records AI tool execution latency
func (m *Metrics) RecordToolLatency(seconds float64) {
	m.ToolLatency.Observe(seconds)
}
