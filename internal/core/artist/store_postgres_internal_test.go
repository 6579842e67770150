// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package artist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRow replays fixed column values, or an error, into Scan.
type stubRow struct {
	values []any
	err    error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, value := range r.values {
		switch target := dest[i].(type) {
		case *int:
			*target = value.(int)
		case *string:
			*target = value.(string)
		case *bool:
			*target = value.(bool)
		case *time.Time:
			*target = value.(time.Time)
		case **time.Time:
			*target = value.(*time.Time)
		}
	}
	return nil
}

// stubTx answers QueryRow only. Any other call panics on the nil interface.
type stubTx struct {
	pgx.Tx
	row   stubRow
	query string
}

func (tx *stubTx) QueryRow(_ context.Context, query string, _ ...any) pgx.Row {
	tx.query = query
	return tx.row
}

func TestLockArtist(t *testing.T) {
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("locks and scans the row", func(t *testing.T) {
		tx := &stubTx{row: stubRow{values: []any{
			7, "Mai Tran", "mai-tran", "Hanoi", "Lacquer", joined, 3, true, &joined,
		}}}

		locked, err := lockArtist(context.Background(), tx, 7)

		require.NoError(t, err)
		assert.Equal(t, "mai-tran", locked.Slug)
		assert.True(t, locked.IsVerified)
		assert.Contains(t, tx.query, "FOR UPDATE")
	})

	t.Run("missing row stays distinguishable", func(t *testing.T) {
		tx := &stubTx{row: stubRow{err: pgx.ErrNoRows}}

		locked, err := lockArtist(context.Background(), tx, 99)

		assert.Nil(t, locked)
		assert.True(t, errors.Is(err, pgx.ErrNoRows))
	})
}
