package metrics

import (
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consensusOutputsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consensus",
		Name:      "outputs_total",
		Help:      "Count of outputs by classification.",
	}, []string{"network", "output_type"})

	consensusOpReturnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consensus",
		Name:      "op_returns_total",
		Help:      "Count of OP_RETURN dispatch outcomes by tag.",
	}, []string{"network", "op_return_type", "outcome"})

	consensusTxsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "consensus",
		Name:      "txs_total",
		Help:      "Count of BSQ transactions by type.",
	}, []string{"network", "tx_type"})

	consensusUnspentOutputs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "consensus",
		Name:      "unspent_outputs",
		Help:      "Number of unspent BSQ outputs after the last verified block.",
	}, []string{"network"})

	consensusUnspentValue = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "consensus",
		Name:      "unspent_value",
		Help:      "Total value of unspent BSQ outputs after the last verified block.",
	}, []string{"network"})
)

// Consensus counts classification results of the BSQ verifier.
type Consensus struct {
	network string
}

// NewConsensus constructs a Consensus metrics collector.
func NewConsensus(network model.Network) *Consensus {
	return &Consensus{network: networkLabel(network)}
}

func (m Consensus) ObserveOutput(outputType model.TxOutputType) {
	consensusOutputsTotal.WithLabelValues(m.network, string(outputType)).Inc()
}

func (m Consensus) ObserveOpReturn(opReturnType, outcome string) {
	consensusOpReturnsTotal.WithLabelValues(m.network, opReturnType, outcome).Inc()
}

func (m Consensus) ObserveTx(txType model.TxType) {
	consensusTxsTotal.WithLabelValues(m.network, string(txType)).Inc()
}

func (m Consensus) ObserveUnspent(count int, value int64) {
	consensusUnspentOutputs.WithLabelValues(m.network).Set(float64(count))
	consensusUnspentValue.WithLabelValues(m.network).Set(float64(value))
}
