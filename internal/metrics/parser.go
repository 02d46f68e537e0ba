package metrics

import (
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	parserFetchLatestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "fetch_latest_total",
		Help:      "Count of attempts to read the node tip height.",
	}, []string{"network", "status"})

	parserProcessChunkTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "process_chunk_total",
		Help:      "Count of processed height chunks.",
	}, []string{"network", "status"})

	parserProcessChunkDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "process_chunk_duration_seconds",
		Help:      "Duration of fetching, verifying and writing a chunk of heights.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	parserProcessChunkSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "process_chunk_size",
		Help:      "Number of heights processed per chunk.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	parserProcessHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "process_height_duration_seconds",
		Help:      "Duration of verifying a single block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	parserParsedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "parser",
		Name:      "parsed_height",
		Help:      "Height of the last verified block.",
	}, []string{"network"})
)

// Parser tracks metrics for the block parsing loop.
type Parser struct {
	network string
}

// NewParser constructs a Parser metrics collector.
func NewParser(network model.Network) *Parser {
	return &Parser{network: networkLabel(network)}
}

// ObserveFetchLatest records a tip height lookup.
func (m Parser) ObserveFetchLatest(err error, _ time.Time) {
	parserFetchLatestTotal.WithLabelValues(m.network, status(err)).Inc()
}

// ObserveProcessChunk records processing of a chunk of heights.
func (m Parser) ObserveProcessChunk(err error, heights int, started time.Time) {
	s := status(err)
	parserProcessChunkTotal.WithLabelValues(m.network, s).Inc()
	parserProcessChunkDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	parserProcessChunkSize.WithLabelValues(m.network).Observe(float64(heights))
}

// ObserveProcessHeight records verification of a single block and moves the
// parsed height gauge on success.
func (m Parser) ObserveProcessHeight(err error, height uint64, started time.Time) {
	parserProcessHeightDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
	if err == nil {
		parserParsedHeight.WithLabelValues(m.network).Set(float64(height))
	}
}
