package bitcoin

import (
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

type (
	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)

// ObservedRPCClient wraps the btcd rpc client and records every call.
type ObservedRPCClient struct {
	client  *rpcclient.Client
	metrics RPCMetrics
}

// NewObservedRPCClient constructs an instrumented RPC client.
func NewObservedRPCClient(client *rpcclient.Client, metrics RPCMetrics) *ObservedRPCClient {
	return &ObservedRPCClient{client: client, metrics: metrics}
}

func (r *ObservedRPCClient) GetBlockCount() (int64, error) {
	return observe(r.metrics, "get_block_count", r.client.GetBlockCount)
}

func (r *ObservedRPCClient) GetBlockHash(blockHeight int64) (*chainhash.Hash, error) {
	return observe(r.metrics, "get_block_hash", func() (*chainhash.Hash, error) {
		return r.client.GetBlockHash(blockHeight)
	})
}

func (r *ObservedRPCClient) GetBlockVerboseTx(blockHash *chainhash.Hash) (*btcjson.GetBlockVerboseTxResult, error) {
	return observe(r.metrics, "get_block_verbose_tx", func() (*btcjson.GetBlockVerboseTxResult, error) {
		return r.client.GetBlockVerboseTx(blockHash)
	})
}

func observe[T any](metrics RPCMetrics, operation string, call func() (T, error)) (T, error) {
	started := time.Now()
	res, err := call()
	metrics.Observe(operation, err, started)
	return res, err
}
