package shelf

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
	"github.com/samber/lo"
)

// JoinTable is an association table holding (source, target) key pairs.
type JoinTable struct {
	Table     string
	SourceCol string
	TargetCol string
}

// Reverse swaps source and target, for the other side of the association.
func (jt JoinTable) Reverse() JoinTable {
	return JoinTable{Table: jt.Table, SourceCol: jt.TargetCol, TargetCol: jt.SourceCol}
}

// JoinPair holds a source–target pair read from a join table.
type JoinPair[S, T comparable] struct {
	Source S
	Target T
}

// QueryJoinTable reads the pairs of jt whose source is one of sourceIDs,
// in insertion order.
func QueryJoinTable[S, T comparable](
	ctx context.Context, db Runner, jt JoinTable, sourceIDs []S,
) (_ []JoinPair[S, T], err error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}

	rows, err := squirrel.StatementBuilder.RunWith(db).
		Select(TableCol(jt.Table, jt.SourceCol), TableCol(jt.Table, jt.TargetCol)).
		From(jt.Table).
		Where(squirrel.Eq{TableCol(jt.Table, jt.SourceCol): sourceIDs}).
		OrderBy(TableCol(jt.Table, "rowid")).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer closeInto(&err, rows)

	var pairs []JoinPair[S, T]
	for rows.Next() {
		var p JoinPair[S, T]
		if err := rows.Scan(&p.Source, &p.Target); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}

	return pairs, rows.Err()
}

// UniqueTargets extracts deduplicated target values from pairs.
func UniqueTargets[S, T comparable](pairs []JoinPair[S, T]) []T {
	return lo.Uniq(lo.Map(pairs, func(p JoinPair[S, T], _ int) T { return p.Target }))
}

// GroupBySource groups the targets of pairs by their source.
func GroupBySource[S, T comparable](pairs []JoinPair[S, T]) map[S][]T {
	m := make(map[S][]T)
	for _, p := range pairs {
		m[p.Source] = append(m[p.Source], p.Target)
	}
	return m
}

// Link inserts one (source, target) pair per target. Pairs that already
// exist are left alone.
func Link[S, T comparable](ctx context.Context, db Runner, jt JoinTable, source S, targets ...T) error {
	targets = lo.Uniq(targets)
	if len(targets) == 0 {
		return nil
	}

	q := squirrel.StatementBuilder.RunWith(db).
		Insert(jt.Table).
		Options("OR IGNORE").
		Columns(jt.SourceCol, jt.TargetCol)
	for _, target := range targets {
		q = q.Values(source, target)
	}

	if _, err := q.ExecContext(ctx); err != nil {
		return fmt.Errorf("link %s: %w", jt.Table, err)
	}
	return nil
}

// Unlink removes the given pairs, or every pair of source when no targets
// are given.
func Unlink[S, T comparable](ctx context.Context, db Runner, jt JoinTable, source S, targets ...T) error {
	where := squirrel.Eq{jt.SourceCol: source}
	if len(targets) > 0 {
		where[jt.TargetCol] = lo.Uniq(targets)
	}

	if _, err := squirrel.StatementBuilder.RunWith(db).
		Delete(jt.Table).
		Where(where).
		ExecContext(ctx); err != nil {
		return fmt.Errorf("unlink %s: %w", jt.Table, err)
	}
	return nil
}

// ManyToMany relates parents to children through jt. The parent key is read
// with parentID, the child key field childKey is always selected so children
// can be bound back.
func ManyToMany[M, N any, K comparable](
	child *ModelSchema[N],
	jt JoinTable,
	parentID func(M) K,
	childKey string,
	childID func(N) K,
	assign func(*M, []N),
	depends []string,
) Relation[M] {
	return Relation[M]{
		Check: func(field string) error {
			return child.Check(field)
		},
		Resolve: func(ctx context.Context, db Runner, parents []M, fields []string) error {
			ids := lo.Uniq(lo.Map(parents, func(p M, _ int) K { return parentID(p) }))

			pairs, err := QueryJoinTable[K, K](ctx, db, jt, ids)
			if err != nil {
				return err
			}

			var children []N
			if targets := UniqueTargets(pairs); len(targets) > 0 {
				children, err = child.Query(append(slices.Clip(fields), childKey)...).
					ModifyQuery(WhereEq(childKey, targets)).
					Collect(ctx, db)
				if err != nil {
					return err
				}
			}

			byID := lo.KeyBy(children, childID)
			grouped := GroupBySource(pairs)
			for ix := range parents {
				parent := &parents[ix]
				var collection []N
				for _, target := range grouped[parentID(*parent)] {
					if c, ok := byID[target]; ok {
						collection = append(collection, c)
					}
				}
				assign(parent, collection)
			}

			return nil
		},
		ModelQueryMod: selectDepends[M](depends),
	}
}
