package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Transaction executes fn within a database transaction. The transaction is
// rolled back when fn returns an error or panics, and committed otherwise.
func Transaction(ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			err = fmt.Errorf("transaction panicked: %v", p)
			return
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", commitErr)
		}
	}()

	return fn(ctx, tx)
}

// TransactionWithResult executes fn within a transaction and returns its result
func TransactionWithResult[T any](ctx context.Context, db bun.IDB, fn func(ctx context.Context, tx bun.Tx) (T, error)) (T, error) {
	var result T
	err := Transaction(ctx, db, func(ctx context.Context, tx bun.Tx) error {
		var err error
		result, err = fn(ctx, tx)
		return err
	})
	return result, err
}

// FindByID is a helper to find a record by ID
func FindByID[T any](ctx context.Context, db bun.IDB, column string, id any) (*T, error) {
	return Query[T](db).Where(column, id).First(ctx)
}

// Create is a helper to insert a single record
func Create[T any](ctx context.Context, db bun.IDB, data *T) (*T, error) {
	return Query[T](db).Insert(ctx, data)
}

// DeleteByID is a helper to delete a record by ID and report whether it existed
func DeleteByID[T any](ctx context.Context, db bun.IDB, column string, id any) (bool, error) {
	n, err := Query[T](db).Where(column, id).Delete(ctx)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
