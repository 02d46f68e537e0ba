package parser

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/workerpool"
	"go.uber.org/zap"
)

// chunkFetcher downloads a run of heights concurrently and returns the blocks
// in height order.
type chunkFetcher struct {
	workerCount int
	source      BlockSource
	logger      *zap.Logger
}

func (f *chunkFetcher) Fetch(ctx context.Context, heights []uint64) ([]*model.Block, error) {
	return workerpool.Map(ctx, f.workerCount, heights, func(ctx context.Context, height uint64) (*model.Block, error) {
		block, err := f.source.FetchBlock(ctx, height)
		if err != nil {
			f.logger.Error("fetch block failed", zap.Uint64("height", height), zap.Error(err))
			return nil, fmt.Errorf("fetch block height %d: %w", height, err)
		}
		return block, nil
	})
}
