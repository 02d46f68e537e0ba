package consensus

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/opreturn"
	"go.uber.org/zap"
)

// Outcomes recorded for every OP_RETURN output reaching the dispatcher.
const (
	OpReturnRuleViolation = "rule_violation"
	OpReturnEmpty         = "empty"
	OpReturnUnknownType   = "unknown_type"
	OpReturnPlaceholder   = "placeholder"
	OpReturnRejected      = "rejected"
	OpReturnApplied       = "applied"
)

// OpReturnDispatcher routes a DAO OP_RETURN output to the verifier of its
// type byte.
type OpReturnDispatcher struct {
	verifiers map[opreturn.Type]OpReturnVerifier
	metrics   Metrics
	logger    *zap.Logger
}

// NewOpReturnDispatcher requires a verifier for every implemented type and
// rejects verifiers for any other type.
func NewOpReturnDispatcher(verifiers map[opreturn.Type]OpReturnVerifier, metrics Metrics, logger *zap.Logger) (*OpReturnDispatcher, error) {
	if metrics == nil {
		return nil, errors.New("consensus metrics is required")
	}
	for _, t := range opreturn.Implemented {
		if verifiers[t] == nil {
			return nil, fmt.Errorf("missing verifier for op return type %s", t)
		}
	}
	table := make(map[opreturn.Type]OpReturnVerifier, len(verifiers))
	for t, v := range verifiers {
		if _, kind := opreturn.Lookup(byte(t)); kind != opreturn.KindImplemented {
			return nil, fmt.Errorf("verifier registered for %s type %s", kind, t)
		}
		table[t] = v
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpReturnDispatcher{
		verifiers: table,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Process checks the structural DAO rules for the OP_RETURN output at index
// and, if they hold, lets the verifier of the payload's type byte apply its
// state change. bsqFee is the input balance left when the output is reached.
// Non-conforming outputs are logged and left alone; only a nil payload is
// returned as an error.
func (d *OpReturnDispatcher) Process(
	output *model.TxOutput,
	tx *model.Tx,
	index int,
	bsqFee int64,
	blockHeight uint64,
	state *MutableState,
) error {
	data := output.OpReturnData

	// A DAO OP_RETURN is the last output, carries no value and is paid for with a BSQ fee.
	if output.Value != 0 || !tx.IsLastOutput(index) || bsqFee <= 0 {
		d.logger.Warn("opReturnData is not matching DAO rules",
			zap.String("txid", tx.ID),
			zap.Int64("outValue", output.Value),
			zap.Int("index", index),
			zap.Int("outputs", len(tx.Outputs)),
			zap.Int64("bsqFee", bsqFee),
		)
		d.metrics.ObserveOpReturn(typeLabel(data), OpReturnRuleViolation)
		return nil
	}

	if data == nil {
		return fmt.Errorf("tx %s output %d: %w", tx.ID, index, ErrMissingOpReturnData)
	}
	if len(data) == 0 {
		d.logger.Warn("opReturnData has no content", zap.String("txid", tx.ID), zap.Int("index", index))
		d.metrics.ObserveOpReturn(typeLabel(data), OpReturnEmpty)
		return nil
	}

	t, kind := opreturn.Lookup(data[0])
	switch kind {
	case opreturn.KindImplemented:
		v := d.verifiers[t]
		if !v.Verify(data, bsqFee, blockHeight, state) {
			d.logger.Info("op return verification failed",
				zap.String("txid", tx.ID),
				zap.Stringer("type", t),
				zap.Int64("bsqFee", bsqFee),
				zap.Uint64("height", blockHeight),
			)
			d.metrics.ObserveOpReturn(t.String(), OpReturnRejected)
			return nil
		}
		v.ApplyStateChange(tx, output, state)
		d.metrics.ObserveOpReturn(t.String(), OpReturnApplied)
	case opreturn.KindPlaceholder:
		d.logger.Debug("op return type not implemented yet", zap.String("txid", tx.ID), zap.Stringer("type", t))
		d.metrics.ObserveOpReturn(t.String(), OpReturnPlaceholder)
	case opreturn.KindUnknown:
		d.logger.Warn("OP_RETURN version of the BSQ tx does not match expected version bytes",
			zap.String("txid", tx.ID),
			zap.String("opReturnData", hex.EncodeToString(data)),
		)
		d.metrics.ObserveOpReturn(typeLabel(data), OpReturnUnknownType)
	}
	return nil
}

func typeLabel(data []byte) string {
	if len(data) == 0 {
		return "none"
	}
	t, kind := opreturn.Lookup(data[0])
	if kind == opreturn.KindUnknown {
		return "unknown"
	}
	return t.String()
}
