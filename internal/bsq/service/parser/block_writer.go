package parser

import (
	"context"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/batcher"
	"go.uber.org/zap"
)

type blockWriter struct {
	repo         ClickhouseRepository
	logger       *zap.Logger
	blockBatcher *batcher.Batcher[model.InsertBlock]
}

func newBlockWriter(repo ClickhouseRepository, logger *zap.Logger) (*blockWriter, error) {
	w := &blockWriter{
		repo:   repo,
		logger: logger,
	}

	b, err := batcher.New[model.InsertBlock](
		logger.Named("blockBatcher"),
		w.flush,
		batcher.Config{
			FlushSize:         blockBatcherCapacity,
			FlushInterval:     blockBatcherFlushInterval,
			RPS:               blockBatcherRPS,
			// A failed flush is retried rather than dropped: the verified
			// state has already moved past these blocks.
			RetryInitialDelay: retryInitialDelay,
			RetryMaxDelay:     retryMaxDelay,
		},
	)
	if err != nil {
		return nil, err
	}
	w.blockBatcher = b
	return w, nil
}

func (w *blockWriter) Start(ctx context.Context) {
	w.blockBatcher.Start(ctx)
}

func (w *blockWriter) Stop() {
	w.blockBatcher.Stop()
}

func (w *blockWriter) WriteBlock(ctx context.Context, b model.InsertBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return w.blockBatcher.Add(ctx, b)
}

// flush writes outputs, then transactions, then blocks, so a block row is
// only present once everything it references has been stored.
func (w *blockWriter) flush(ctx context.Context, insertBlocks []model.InsertBlock) error {
	txs := make([]*model.Tx, 0, txFlushThreshold)
	outputs := make([]model.TxOutput, 0, len(insertBlocks))

	for _, block := range insertBlocks {
		outputs = append(outputs, block.Outputs...)
		if len(outputs) >= outputFlushThreshold {
			if err := w.repo.InsertTxOutputs(ctx, outputs); err != nil {
				return err
			}
			w.logger.Debug("InsertTxOutputs", zap.Int("count", len(outputs)))
			outputs = outputs[:0]
		}

		txs = append(txs, block.Txs...)
		if len(txs) >= txFlushThreshold {
			if err := w.repo.InsertTxOutputs(ctx, outputs); err != nil {
				return err
			}
			outputs = outputs[:0]
			if err := w.repo.InsertTxs(ctx, txs); err != nil {
				return err
			}
			w.logger.Debug("InsertTxs", zap.Int("count", len(txs)))
			txs = txs[:0]
		}
	}

	if err := w.repo.InsertTxOutputs(ctx, outputs); err != nil {
		return err
	}
	if err := w.repo.InsertTxs(ctx, txs); err != nil {
		return err
	}
	return w.repo.InsertBlocks(ctx, insertBlocks)
}
