package bitcoin

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/safe"
)

// BlockSource fetches blocks with all their transactions from a Bitcoin node.
type BlockSource struct {
	rpc       RPCClient
	converter TxConverter
	network   model.Network
}

// NewBlockSource creates a BlockSource for network.
func NewBlockSource(rpc RPCClient, converter TxConverter, network model.Network) (*BlockSource, error) {
	if rpc == nil {
		return nil, errors.New("rpc client is required")
	}
	if converter == nil {
		return nil, errors.New("tx converter is required")
	}
	return &BlockSource{
		rpc:       rpc,
		converter: converter,
		network:   network,
	}, nil
}

// LatestHeight returns the latest block height available from the node.
func (s *BlockSource) LatestHeight(_ context.Context) (uint64, error) {
	count, err := s.rpc.GetBlockCount()
	if err != nil {
		return 0, err
	}
	height, err := safe.Uint64(count)
	if err != nil {
		return 0, fmt.Errorf("block count overflow: %w", err)
	}
	return height, nil
}

// FetchBlock retrieves the block at height with its transactions in block order.
func (s *BlockSource) FetchBlock(ctx context.Context, height uint64) (*model.Block, error) {
	rpcHeight, err := safe.Int64(height)
	if err != nil {
		return nil, fmt.Errorf("block height exceeds rpc limit: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := s.rpc.GetBlockHash(rpcHeight)
	if err != nil {
		return nil, fmt.Errorf("get block hash at height %d: %w", height, err)
	}
	src, err := s.rpc.GetBlockVerboseTx(hash)
	if err != nil {
		return nil, fmt.Errorf("get block %s: %w", hash, err)
	}

	block, err := BuildBlockFromVerbose(*src, s.network)
	if err != nil {
		return nil, err
	}
	if block.Height != height {
		return nil, fmt.Errorf("node returned block %d for height %d", block.Height, height)
	}

	block.Txs = make([]*model.Tx, 0, len(src.Tx))
	for _, raw := range src.Tx {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tx, err := s.converter.Convert(raw, block.Height, block.Time)
		if err != nil {
			return nil, err
		}
		if tx.BlockHash == "" {
			tx.BlockHash = block.Hash
		}
		block.Txs = append(block.Txs, tx)
	}
	return &block, nil
}
