package bitcoin

import (
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/safe"
)

// BtcToSatoshis converts a BTC amount reported by the node to satoshis.
func BtcToSatoshis(value float64) (int64, error) {
	amt, err := btcutil.NewAmount(value)
	if err != nil {
		return 0, err
	}
	if amt < 0 {
		return 0, fmt.Errorf("negative amount: %d", amt)
	}
	return int64(amt), nil
}

// BuildBlockFromVerbose maps a verbose block result into a model.Block without
// transactions.
func BuildBlockFromVerbose(src btcjson.GetBlockVerboseTxResult, network model.Network) (model.Block, error) {
	height, err := safe.Uint64(src.Height)
	if err != nil {
		return model.Block{}, fmt.Errorf("block %s height overflow: %w", src.Hash, err)
	}
	return model.Block{
		Network: network,
		Height:  height,
		Hash:    src.Hash,
		Time:    time.Unix(src.Time, 0).UTC(),
	}, nil
}
