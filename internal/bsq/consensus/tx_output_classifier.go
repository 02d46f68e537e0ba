package consensus

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"go.uber.org/zap"
)

// TxOutputClassifier decides for a single output whether it continues BSQ,
// is a BTC output, or carries DAO OP_RETURN data.
//
// Classify must be called once per output, in ascending index order, with one
// InputBalance and one MutableState shared by all outputs of the transaction.
// Calling it twice for the same output, or out of order, corrupts the
// balance and the candidate outputs.
type TxOutputClassifier struct {
	unspent  UnspentTxOutputWriter
	opReturn OpReturnProcessor
	metrics  Metrics
	logger   *zap.Logger
}

// NewTxOutputClassifier builds a classifier writing BSQ outputs to unspent and
// handing OP_RETURN outputs to opReturn.
func NewTxOutputClassifier(unspent UnspentTxOutputWriter, opReturn OpReturnProcessor, metrics Metrics, logger *zap.Logger) (*TxOutputClassifier, error) {
	if unspent == nil {
		return nil, errors.New("unspent tx output writer is required")
	}
	if opReturn == nil {
		return nil, errors.New("op return processor is required")
	}
	if metrics == nil {
		return nil, errors.New("consensus metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxOutputClassifier{
		unspent:  unspent,
		opReturn: opReturn,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Classify classifies output, the index-th output of tx, and updates balance,
// state and tx.TxType. A returned error is a broken caller invariant and
// verification of tx has to stop.
func (c *TxOutputClassifier) Classify(
	tx *model.Tx,
	output *model.TxOutput,
	index int,
	balance *InputBalance,
	blockHeight uint64,
	state *MutableState,
) error {
	if !balance.IsPositive() {
		if !balance.IsZero() {
			return fmt.Errorf("tx %s output %d balance %d: %w", tx.ID, index, balance.Value(), ErrNegativeInputBalance)
		}
		c.logger.Debug("no BSQ remaining", zap.String("txid", tx.ID), zap.Int("index", index))
		return nil
	}

	if output.OpReturnData != nil {
		// The dispatcher decides the output type; an OP_RETURN is never BSQ or BTC here.
		return c.opReturn.Process(output, tx, index, balance.Value(), blockHeight, state)
	}

	value := output.Value
	if value < 0 {
		return fmt.Errorf("tx %s output %d value %d: %w", tx.ID, index, value, ErrNegativeOutputValue)
	}

	switch {
	case balance.Value() >= value:
		if err := balance.Subtract(value); err != nil {
			return fmt.Errorf("tx %s output %d: %w", tx.ID, index, err)
		}
		c.applyBsqOutput(output)

		// Later outputs, the OP_RETURN or a burnt remainder may still change the type.
		tx.TxType = model.TxTypeTransferBsq

		state.setBsqOutput(output)
		state.setBlindVoteStakeOutput(output)
	case balance.IsPositive():
		// Burn scenario. Stays BTC unless a compensation request OP_RETURN claims it.
		state.setCompRequestIssuanceOutputCandidate(output)
		c.applyBtcOutput(output)
	default:
		c.applyBtcOutput(output)
		c.logger.Debug("btc output", zap.String("txid", tx.ID), zap.Int("index", index))
	}
	return nil
}

func (c *TxOutputClassifier) applyBsqOutput(output *model.TxOutput) {
	output.Verified = true
	output.Unspent = true
	output.Type = model.TxOutputBsq
	c.unspent.AddUnspentTxOutput(output)
	c.metrics.ObserveOutput(model.TxOutputBsq)
}

func (c *TxOutputClassifier) applyBtcOutput(output *model.TxOutput) {
	output.Type = model.TxOutputBtc
	c.metrics.ObserveOutput(model.TxOutputBtc)
}
