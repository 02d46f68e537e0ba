package consensus

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

// BlockVerifier verifies the transactions of a block in block order.
type BlockVerifier struct {
	txVerifier TxVerifier
	unspent    UnspentTxOutputStats
	metrics    Metrics
}

func NewBlockVerifier(txVerifier TxVerifier, unspent UnspentTxOutputStats, metrics Metrics) (*BlockVerifier, error) {
	switch {
	case txVerifier == nil:
		return nil, errors.New("tx verifier is required")
	case unspent == nil:
		return nil, errors.New("unspent stats are required")
	case metrics == nil:
		return nil, errors.New("metrics are required")
	}
	return &BlockVerifier{txVerifier: txVerifier, unspent: unspent, metrics: metrics}, nil
}

// VerifyBlock returns the BSQ transactions of block together with every
// output they created or spent.
func (v *BlockVerifier) VerifyBlock(block *model.Block) (model.InsertBlock, error) {
	result := model.InsertBlock{Block: *block}
	result.Block.Txs = nil

	for _, tx := range block.Txs {
		verdict, err := v.txVerifier.Verify(tx, block.Height)
		if err != nil {
			return model.InsertBlock{}, fmt.Errorf("verify tx %s at height %d: %w", tx.ID, block.Height, err)
		}
		for _, spent := range verdict.SpentOutputs {
			result.Outputs = append(result.Outputs, *spent)
		}
		if !verdict.IsBsq {
			continue
		}
		result.Txs = append(result.Txs, tx)
		for _, output := range tx.Outputs {
			result.Outputs = append(result.Outputs, *output)
		}
	}

	v.metrics.ObserveUnspent(v.unspent.Count(), v.unspent.Balance())
	return result, nil
}
