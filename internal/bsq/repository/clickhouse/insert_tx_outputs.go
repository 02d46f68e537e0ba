package clickhouse

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/bsq/model"
)

const insertTxOutputsQuery = `
INSERT INTO bsq_tx_outputs (
	network,
	txid,
	output_index,
	block_height,
	block_time,
	value,
	addresses,
	op_return_data,
	output_type,
	verified,
	unspent,
	spent
) VALUES`

// InsertTxOutputs stores classified outputs. A spent output is written again
// with unspent = 0 and replaces its earlier row on merge.
func (r *Repository) InsertTxOutputs(ctx context.Context, outputs []model.TxOutput) (err error) {
	started := time.Now()
	defer func() {
		r.observe("insert_tx_outputs", err, started)
	}()

	if len(outputs) == 0 {
		return nil
	}

	if err = insert(ctx, r.conn, insertTxOutputsQuery, outputs, func(batch Batch, o model.TxOutput) error {
		return batch.Append(outputRow(r.network, o)...)
	}); err != nil {
		return fmt.Errorf("insert tx outputs: %w", err)
	}
	return nil
}

func outputRow(network model.Network, o model.TxOutput) []any {
	addresses := o.Addresses
	if addresses == nil {
		addresses = []string{}
	}
	spent := o.Verified && !o.Unspent
	return []any{
		string(network),
		o.TxID,
		o.Index,
		o.BlockHeight,
		o.BlockTime,
		o.Value,
		addresses,
		hex.EncodeToString(o.OpReturnData),
		string(o.Type),
		boolToUInt8(o.Verified),
		boolToUInt8(o.Unspent),
		boolToUInt8(spent),
	}
}
