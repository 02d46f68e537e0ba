package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const exportedHeightQuery = `
SELECT max(height), count()
FROM bsq_blocks
WHERE network = ?`

// ExportedHeight returns the highest block height already exported for the
// repository network. ok is false when nothing has been exported yet.
func (r *Repository) ExportedHeight(ctx context.Context) (height uint64, ok bool, err error) {
	started := time.Now()
	defer func() {
		r.observe("exported_height", err, started)
	}()

	rows, err := r.conn.Query(ctx, exportedHeightQuery, string(r.network))
	if err != nil {
		return 0, false, fmt.Errorf("query exported height: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return 0, false, fmt.Errorf("iterate exported height: %w", err)
		}
		return 0, false, errors.New("exported height: empty result")
	}

	var count uint64
	if err = rows.Scan(&height, &count); err != nil {
		return 0, false, fmt.Errorf("scan exported height: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate exported height: %w", err)
	}
	return height, count > 0, nil
}
