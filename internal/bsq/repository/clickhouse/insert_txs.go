package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
	"github.com/goodnatureofminers/bsq-parser/pkg/safe"
)

const insertTxsQuery = `
INSERT INTO bsq_txs (
	network,
	txid,
	block_height,
	block_hash,
	block_time,
	tx_type,
	burnt_fee,
	input_count,
	output_count
) VALUES`

// InsertTxs stores BSQ transactions with their final type and burnt fee.
func (r *Repository) InsertTxs(ctx context.Context, txs []*model.Tx) (err error) {
	started := time.Now()
	defer func() {
		r.observe("insert_txs", err, started)
	}()

	if len(txs) == 0 {
		return nil
	}

	if err = insert(ctx, r.conn, insertTxsQuery, txs, func(batch Batch, tx *model.Tx) error {
		inputCount, err := safe.Uint32(len(tx.Inputs))
		if err != nil {
			return err
		}
		outputCount, err := safe.Uint32(len(tx.Outputs))
		if err != nil {
			return err
		}
		return batch.Append(
			string(r.network),
			tx.ID,
			tx.BlockHeight,
			tx.BlockHash,
			tx.BlockTime,
			string(tx.TxType),
			tx.BurntFee,
			inputCount,
			outputCount,
		)
	}); err != nil {
		return fmt.Errorf("insert txs: %w", err)
	}
	return nil
}
