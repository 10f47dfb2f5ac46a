package shelf

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
)

func (schema *ModelSchema[T]) writable() error {
	if schema.key == nil || schema.values == nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, schema.Table)
	}
	return nil
}

// Key returns the declared primary key, or nil.
func (schema *ModelSchema[T]) Key() *Key[T] {
	return schema.key
}

// Insert writes t and stores the auto-assigned key back into it. A key that
// is already set is written as given.
func (schema *ModelSchema[T]) Insert(ctx context.Context, db Runner, t *T) error {
	if err := schema.writable(); err != nil {
		return err
	}

	values := schema.values(*t)
	if id := schema.key.Get(*t); id != 0 {
		values[schema.key.Column] = id
	}

	result, err := squirrel.StatementBuilder.RunWith(db).
		Insert(schema.Table).
		SetMap(values).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert %s: %w", schema.Table, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert %s: %w", schema.Table, err)
	}
	schema.key.Set(t, id)

	return nil
}

// Update rewrites every value column of the row keyed by t. It returns
// sql.ErrNoRows when no such row exists.
func (schema *ModelSchema[T]) Update(ctx context.Context, db Runner, t T) error {
	if err := schema.writable(); err != nil {
		return err
	}

	result, err := squirrel.StatementBuilder.RunWith(db).
		Update(schema.Table).
		SetMap(schema.values(t)).
		Where(squirrel.Eq{schema.key.Column: schema.key.Get(t)}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("update %s: %w", schema.Table, err)
	}

	return expectAffected(result)
}

// Upsert inserts t, or updates every value column when a row with the same
// key already exists.
func (schema *ModelSchema[T]) Upsert(ctx context.Context, db Runner, t *T) error {
	if err := schema.writable(); err != nil {
		return err
	}

	values := schema.values(*t)
	cols := slices.Sorted(maps.Keys(values))
	if id := schema.key.Get(*t); id != 0 {
		values[schema.key.Column] = id
	}

	set := make([]string, 0, len(cols))
	for _, col := range cols {
		set = append(set, col+" = excluded."+col)
	}

	q := squirrel.StatementBuilder.RunWith(db).
		Insert(schema.Table).
		SetMap(values).
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s", schema.key.Column, strings.Join(set, ", ")))

	result, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", schema.Table, err)
	}

	if schema.key.Get(*t) == 0 {
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("upsert %s: %w", schema.Table, err)
		}
		schema.key.Set(t, id)
	}

	return nil
}

// Delete removes the row keyed by t. It returns sql.ErrNoRows when no such
// row exists.
func (schema *ModelSchema[T]) Delete(ctx context.Context, db Runner, t T) error {
	if err := schema.writable(); err != nil {
		return err
	}

	return schema.DeleteByKey(ctx, db, schema.key.Get(t))
}

// DeleteByKey removes the row with the given key.
func (schema *ModelSchema[T]) DeleteByKey(ctx context.Context, db Runner, id int64) error {
	if schema.key == nil {
		return fmt.Errorf("%w: %s", ErrNotWritable, schema.Table)
	}

	result, err := squirrel.StatementBuilder.RunWith(db).
		Delete(schema.Table).
		Where(squirrel.Eq{schema.key.Column: id}).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", schema.Table, err)
	}

	return expectAffected(result)
}

// ByKey loads a single model by its primary key.
func (schema *ModelSchema[T]) ByKey(ctx context.Context, db Runner, id int64, fields ...string) (*T, error) {
	if schema.key == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotWritable, schema.Table)
	}

	return schema.Query(fields...).
		ModifyQuery(WhereEq(schema.key.Column, id)).
		CollectOne(ctx, db)
}

func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
