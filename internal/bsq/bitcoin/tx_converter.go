package bitcoin

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/safe"
)

// txConverter converts rpc transactions into unclassified domain transactions.
type txConverter struct {
	decoder ScriptDecoder
}

// NewTxConverter constructs a converter using decoder for output scripts.
func NewTxConverter(decoder ScriptDecoder) TxConverter {
	return &txConverter{decoder: decoder}
}

func (c *txConverter) Convert(tx btcjson.TxRawResult, blockHeight uint64, blockTime time.Time) (*model.Tx, error) {
	result := &model.Tx{
		ID:          tx.Txid,
		BlockHeight: blockHeight,
		BlockHash:   tx.BlockHash,
		BlockTime:   blockTime,
		TxType:      model.TxTypeUndefined,
		Inputs:      make([]model.TxInput, 0, len(tx.Vin)),
		Outputs:     make([]*model.TxOutput, 0, len(tx.Vout)),
	}

	for _, vin := range tx.Vin {
		if vin.IsCoinBase() {
			continue
		}
		result.Inputs = append(result.Inputs, model.TxInput{PrevTxID: vin.Txid, PrevIndex: vin.Vout})
	}

	for idx, vout := range tx.Vout {
		index, err := safe.Uint32(idx)
		if err != nil {
			return nil, fmt.Errorf("tx %s output index overflow: %w", tx.Txid, err)
		}
		value, err := BtcToSatoshis(vout.Value)
		if err != nil {
			return nil, fmt.Errorf("tx %s output %d value: %w", tx.Txid, idx, err)
		}
		addresses, err := c.decoder.decodeAddresses(vout)
		if err != nil {
			return nil, fmt.Errorf("decode addresses for tx %s output %d: %w", tx.Txid, idx, err)
		}

		result.Outputs = append(result.Outputs, &model.TxOutput{
			TxID:         tx.Txid,
			Index:        index,
			Value:        value,
			BlockHeight:  blockHeight,
			BlockTime:    blockTime,
			Addresses:    addresses,
			OpReturnData: c.decoder.decodeOpReturn(vout),
			Type:         model.TxOutputUndefined,
		})
	}
	return result, nil
}
