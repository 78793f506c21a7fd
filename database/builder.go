package database

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building database queries.
// It runs against any bun.IDB, so the same code works inside a transaction.
type QueryBuilder[T any] struct {
	db bun.IDB

	// Query clauses
	selectCols  []string
	columnExprs []string
	wheres      []*WhereClause
	orders      []*OrderClause
	groupBys    []string

	// Relations to preload
	relations []*relation

	// Timeout
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

type relation struct {
	name  string
	apply []func(*bun.SelectQuery) *bun.SelectQuery
}

// Query creates a new QueryBuilder instance
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Select specifies the columns to select
func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.selectCols = append(q.selectCols, columns...)
	return q
}

// ColumnExpr adds a raw column expression such as an aggregate
func (q *QueryBuilder[T]) ColumnExpr(expr string) *QueryBuilder[T] {
	q.columnExprs = append(q.columnExprs, expr)
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// GroupBy adds a GROUP BY clause
func (q *QueryBuilder[T]) GroupBy(columns ...string) *QueryBuilder[T] {
	q.groupBys = append(q.groupBys, columns...)
	return q
}

// With specifies a relation to preload, optionally customising its query
func (q *QueryBuilder[T]) With(name string, apply ...func(*bun.SelectQuery) *bun.SelectQuery) *QueryBuilder[T] {
	q.relations = append(q.relations, &relation{name: name, apply: apply})
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// condition renders a non-raw clause into bun placeholder syntax
func (w *WhereClause) condition() (string, []any) {
	if w.IsRaw {
		return w.RawSQL, w.RawArgs
	}
	return fmt.Sprintf("%s %s ?", w.Column, w.Operator), []any{w.Value}
}

// buildSelect assembles a bun SelectQuery over the given model
func (q *QueryBuilder[T]) buildSelect(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if len(q.selectCols) > 0 {
		query = query.Column(q.selectCols...)
	}
	for _, expr := range q.columnExprs {
		query = query.ColumnExpr(expr)
	}
	for _, rel := range q.relations {
		query = query.Relation(rel.name, rel.apply...)
	}
	for _, where := range q.wheres {
		sql, args := where.condition()
		query = query.Where(sql, args...)
	}
	if len(q.groupBys) > 0 {
		query = query.Group(q.groupBys...)
	}
	for _, order := range q.orders {
		query = query.OrderExpr(order.Column + " " + order.Direction)
	}

	return query
}

// applyWhereConditionsToUpdate applies WHERE conditions to a Bun UpdateQuery
func (q *QueryBuilder[T]) applyWhereConditionsToUpdate(query *bun.UpdateQuery) *bun.UpdateQuery {
	for _, where := range q.wheres {
		sql, args := where.condition()
		query = query.Where(sql, args...)
	}
	return query
}

// applyWhereConditionsToDelete applies WHERE conditions to a Bun DeleteQuery
func (q *QueryBuilder[T]) applyWhereConditionsToDelete(query *bun.DeleteQuery) *bun.DeleteQuery {
	for _, where := range q.wheres {
		sql, args := where.condition()
		query = query.Where(sql, args...)
	}
	return query
}
