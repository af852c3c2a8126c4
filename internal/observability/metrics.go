package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	chunksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Name:      "chunks_total",
			Help:      "Chunks received from range scans.",
		},
	)
	resetsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Name:      "resets_total",
			Help:      "Reset chunks received from range scans.",
		},
	)
	rowsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Name:      "rows_total",
			Help:      "Rows committed by the assembler.",
		},
	)
	cellsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Name:      "cells_total",
			Help:      "Cells contained in committed rows.",
		},
	)
	sequenceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Name:      "sequence_errors_total",
			Help:      "Malformed chunk groups reported by the assembler.",
		},
		[]string{"reason"},
	)
	servedStreams = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "litetable_readrows",
			Subsystem: "server",
			Name:      "streams_total",
			Help:      "ReadRows streams served, by result code.",
		},
		[]string{"code"},
	)
)

// RegisterMetrics registers the readrows collectors with the default registry. It is safe
// to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(chunksTotal, resetsTotal, rowsTotal, cellsTotal, sequenceErrors,
			servedStreams)
	})
}

// RecordChunk counts one received chunk.
func RecordChunk(reset bool) {
	RegisterMetrics()
	chunksTotal.Inc()
	if reset {
		resetsTotal.Inc()
	}
}

// RecordRow counts a committed row and its cells.
func RecordRow(cells int) {
	RegisterMetrics()
	rowsTotal.Inc()
	cellsTotal.Add(float64(cells))
}

// RecordSequenceError counts a malformed chunk group by its reason.
func RecordSequenceError(reason string) {
	RegisterMetrics()
	sequenceErrors.WithLabelValues(reason).Inc()
}

// RecordServedStream counts a served ReadRows stream by its gRPC status code.
func RecordServedStream(code string) {
	RegisterMetrics()
	servedStreams.WithLabelValues(code).Inc()
}
