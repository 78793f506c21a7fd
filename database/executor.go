package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// withTimeout applies the builder timeout, if any
func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}

// All executes the query and returns all matching records with automatic retry
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data []T
	err := WithRetry(ctx, func() error {
		data = nil // Reset on retry
		return q.buildSelect(&data).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute select query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// First executes the query and returns the first matching record with automatic retry.
// It returns nil, nil when nothing matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	var data T
	err := WithRetry(ctx, func() error {
		return q.buildSelect(&data).Limit(1).Scan(ctx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute first query: %w (took %v)", err, time.Since(start))
	}

	return &data, nil
}

// ScanInto runs the query against T's table and scans the rows into dest.
// Use it together with ColumnExpr and GroupBy for aggregates.
func (q *QueryBuilder[T]) ScanInto(ctx context.Context, dest any) error {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := WithRetry(ctx, func() error {
		return q.buildSelect((*T)(nil)).Scan(ctx, dest)
	})
	if err != nil {
		return fmt.Errorf("failed to execute scan query: %w (took %v)", err, time.Since(start))
	}

	return nil
}

// Insert inserts a new record and returns it with all generated columns filled in.
// Writes are never retried.
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.NewInsert().Model(data).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// InsertMany inserts multiple records in one statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) ([]T, error) {
	start := time.Now()

	if len(data) == 0 {
		return data, nil
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	if _, err := q.db.NewInsert().Model(&data).Returning("*").Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute bulk insert query: %w (took %v)", err, time.Since(start))
	}

	return data, nil
}

// Update sets the given columns on every record matching the query
func (q *QueryBuilder[T]) Update(ctx context.Context, data map[string]any) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewUpdate().Model((*T)(nil))

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		query = query.Set("? = ?", bun.Ident(key), data[key])
	}

	query = q.applyWhereConditionsToUpdate(query)

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}

	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}

// UpdateModel writes the model back by primary key and refreshes it from RETURNING.
// It returns nil, nil when no row has that key.
func (q *QueryBuilder[T]) UpdateModel(ctx context.Context, data *T, columns ...string) (*T, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.db.NewUpdate().Model(data).WherePK().Returning("*")
	if len(columns) > 0 {
		query = query.Column(columns...)
	}
	query = q.applyWhereConditionsToUpdate(query)

	res, err := query.Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute update query: %w (took %v)", err, time.Since(start))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, nil
	}

	return data, nil
}

// Delete deletes records matching the query
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	query := q.applyWhereConditionsToDelete(q.db.NewDelete().Model((*T)(nil)))

	res, err := query.Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to execute delete query: %w (took %v)", err, time.Since(start))
	}

	rowsAffected, _ := res.RowsAffected()
	return int(rowsAffected), nil
}
