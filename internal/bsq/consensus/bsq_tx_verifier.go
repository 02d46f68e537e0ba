package consensus

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"go.uber.org/zap"
)

// TxVerdict is the result of verifying one transaction.
type TxVerdict struct {
	Tx *model.Tx
	// IsBsq is set when the transaction spent BSQ or is the genesis transaction.
	IsBsq bool
	// SpentOutputs are the BSQ outputs consumed by the transaction's inputs.
	SpentOutputs []*model.TxOutput
	// State is the carry-forward state after the last output, nil when the
	// outputs were not classified.
	State *MutableState
}

// BsqTxVerifier is the verification loop owning the per-transaction input
// balance and mutable state.
type BsqTxVerifier struct {
	params     Params
	store      UnspentTxOutputStore
	classifier OutputClassifier
	metrics    Metrics
	logger     *zap.Logger
}

func NewBsqTxVerifier(params Params, store UnspentTxOutputStore, classifier OutputClassifier, metrics Metrics, logger *zap.Logger) (*BsqTxVerifier, error) {
	if store == nil {
		return nil, errors.New("unspent tx output store is required")
	}
	if classifier == nil {
		return nil, errors.New("output classifier is required")
	}
	if metrics == nil {
		return nil, errors.New("consensus metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BsqTxVerifier{
		params:     params,
		store:      store,
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

// Verify spends the BSQ inputs of tx and classifies its outputs. Transactions
// of one block have to be verified in block order since a transaction may
// spend BSQ outputs created earlier in the same block.
func (v *BsqTxVerifier) Verify(tx *model.Tx, blockHeight uint64) (*TxVerdict, error) {
	if v.params.IsGenesis(tx.ID, blockHeight) {
		v.applyGenesis(tx)
		v.metrics.ObserveTx(tx.TxType)
		return &TxVerdict{Tx: tx, IsBsq: true}, nil
	}

	verdict := &TxVerdict{Tx: tx}
	balance := NewInputBalance(0)
	for _, input := range tx.Inputs {
		spent, ok := v.store.SpendTxOutput(input.Outpoint())
		if !ok {
			continue
		}
		spent.Unspent = false
		balance.Add(spent.Value)
		verdict.SpentOutputs = append(verdict.SpentOutputs, spent)
	}
	if !balance.IsPositive() {
		return verdict, nil
	}

	state, err := v.iterateOutputs(tx, blockHeight, balance)
	if err != nil {
		return nil, err
	}
	verdict.IsBsq = true
	verdict.State = state

	// Whatever was not spent on BSQ outputs or a DAO fee is burnt.
	if balance.IsPositive() {
		tx.BurntFee = balance.Value()
		if tx.TxType == "" || tx.TxType == model.TxTypeUndefined || tx.TxType == model.TxTypeTransferBsq {
			tx.TxType = model.TxTypePayTradeFee
		}
	}
	v.metrics.ObserveTx(tx.TxType)
	return verdict, nil
}

// iterateOutputs runs the classifier over all outputs in index order with a
// fresh state.
func (v *BsqTxVerifier) iterateOutputs(tx *model.Tx, blockHeight uint64, balance *InputBalance) (*MutableState, error) {
	state := NewMutableState()
	for index, output := range tx.Outputs {
		if err := v.classifier.Classify(tx, output, index, balance, blockHeight, state); err != nil {
			return nil, fmt.Errorf("classify output %d of tx %s: %w", index, tx.ID, err)
		}
	}
	return state, nil
}

func (v *BsqTxVerifier) applyGenesis(tx *model.Tx) {
	for _, output := range tx.Outputs {
		output.Verified = true
		output.Unspent = true
		output.Type = model.TxOutputBsq
		v.store.AddUnspentTxOutput(output)
	}
	tx.TxType = model.TxTypeGenesis
	v.logger.Info("genesis tx applied", zap.String("txid", tx.ID), zap.Int("outputs", len(tx.Outputs)))
}
