package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/safe"
)

const insertBlocksQuery = `
INSERT INTO bsq_blocks (
	network,
	height,
	hash,
	timestamp,
	bsq_tx_count
) VALUES`

// InsertBlocks stores parsed block rows together with their BSQ transaction count.
func (r *Repository) InsertBlocks(ctx context.Context, blocks []model.InsertBlock) (err error) {
	started := time.Now()
	defer func() {
		r.observe("insert_blocks", err, started)
	}()

	if len(blocks) == 0 {
		return nil
	}

	if err = insert(ctx, r.conn, insertBlocksQuery, blocks, func(batch Batch, b model.InsertBlock) error {
		txCount, err := safe.Uint32(len(b.Txs))
		if err != nil {
			return err
		}
		return batch.Append(
			string(r.network),
			b.Block.Height,
			b.Block.Hash,
			b.Block.Time,
			txCount,
		)
	}); err != nil {
		return fmt.Errorf("insert blocks: %w", err)
	}
	return nil
}
