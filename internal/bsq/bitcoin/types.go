// Package bitcoin converts Bitcoin node RPC results into BSQ domain models.
package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	RPCClient interface {
		GetBlockCount() (int64, error)
		GetBlockHash(blockHeight int64) (*chainhash.Hash, error)
		GetBlockVerboseTx(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error)
	}
	ScriptDecoder interface {
		decodeAddresses(vout btcjson.Vout) ([]string, error)
		decodeOpReturn(vout btcjson.Vout) []byte
	}
	TxConverter interface {
		Convert(tx btcjson.TxRawResult, blockHeight uint64, blockTime time.Time) (*model.Tx, error)
	}
)
