// ABOUTME: Transaction helper shared by all write operations
// ABOUTME: Commits when fn succeeds, rolls back on error or panic

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs fn inside a transaction. fn returning nil commits; an error or a
// panic rolls back. A panic is re-raised after the rollback.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	if err := s.checkOpen(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("committing transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return
}
