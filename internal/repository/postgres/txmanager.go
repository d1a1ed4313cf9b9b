package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxManager runs repository calls inside one transaction carried by the context.
// Nested RunInTx calls reuse the outer transaction.
type TxManager struct {
	db *DB
}

// NewTxManager creates a new TxManager
func NewTxManager(db *DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx commits when fn succeeds, rolls back when it returns an error
// and rolls back then re-panics when it panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txCtxKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.Pool.Begin(ctx)
	if err != nil {
		return mapError(err, "begin transaction")
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError(err, "commit transaction")
	}
	return nil
}
