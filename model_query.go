package shelf

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
)

type ModelQuery[T any] struct {
	schema ModelSchema[T]

	selectedFields         map[string]FieldType[T]
	selectedRelations      map[string]Relation[T]
	selectedRelationFields map[string][]string
	tableAlias             string
	queryMods              []QueryMod

	errors []error
}

func newModelQuery[T any](schema ModelSchema[T], fields ...string) ModelQuery[T] {
	query := ModelQuery[T]{
		schema:                 schema,
		selectedFields:         map[string]FieldType[T]{},
		selectedRelations:      map[string]Relation[T]{},
		selectedRelationFields: map[string][]string{},
		tableAlias:             schema.Table,
		queryMods:              []QueryMod{},
		errors:                 []error{},
	}

	return query.Select(fields...)
}

func (model ModelQuery[T]) ModifyQuery(mod QueryMod) ModelQuery[T] {
	model.queryMods = append(slices.Clip(model.queryMods), mod)

	return model
}

// Where adds a raw squirrel predicate, e.g. squirrel.Eq or "year > ?".
func (model ModelQuery[T]) Where(pred any, args ...any) ModelQuery[T] {
	return model.ModifyQuery(func(q Q, _ string) Q { return q.Where(pred, args...) })
}

func (model ModelQuery[T]) OrderBy(cols ...string) ModelQuery[T] {
	return model.ModifyQuery(OrderBy(cols...))
}

func (model ModelQuery[T]) Limit(n uint64) ModelQuery[T] {
	return model.ModifyQuery(func(q Q, _ string) Q { return q.Limit(n) })
}

func (model ModelQuery[T]) Select(fieldNames ...string) ModelQuery[T] {
	model = model.clone()

	if len(fieldNames) == 0 {
		model.selectAllFields()
		return model
	}

	for _, name := range fieldNames {
		model.resolveSelect(name)
	}

	return model
}

func (model *ModelQuery[T]) resolveSelect(name string) {
	field, rest := isNested(name)

	if field == "*" {
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}

		model.selectAllFields()
		return
	}

	if model.schema.hasRelation(field) {
		if rest != "" && rest != "*" {
			// Validate the chosen nested field.
			if err := model.schema.Relations[field].Check(rest); err != nil {
				model.addError(err)
				return
			}
		}
		model.selectRelation(field, rest)
		return
	}

	if model.schema.hasField(field) {
		// Fields cannot have nesting
		if rest != "" {
			model.addError(fmt.Errorf("%w: %s", ErrNoSuchRelation, field))
			return
		}
		model.selectField(field)
		return
	}

	model.addError(fmt.Errorf("%w: %s", ErrNoSuchField, field))
}

func (model *ModelQuery[T]) selectAllFields() {
	maps.Copy(model.selectedFields, model.schema.Fields)
}

func (model *ModelQuery[T]) selectField(name string) {
	model.selectedFields[name] = model.schema.Fields[name]
}

func (model *ModelQuery[T]) selectRelation(relName, relField string) {
	if relField == "" {
		relField = "*"
	}

	model.selectedRelations[relName] = model.schema.Relations[relName]
	model.selectedRelationFields[relName] = append(model.selectedRelationFields[relName], relField)
}

// =================
// Finishers
// =================

func (model ModelQuery[T]) Err() error {
	return errors.Join(model.errors...)
}

// ToSql renders the base select without running it. Relations are loaded
// by separate statements and are not part of the result.
func (model ModelQuery[T]) ToSql() (string, []any, error) {
	if err := model.Err(); err != nil {
		return "", nil, err
	}

	q, _ := model.withDependencies().buildBaseQuery(squirrel.StatementBuilder.Select())
	return q.ToSql()
}

func (model ModelQuery[T]) Collect(ctx context.Context, db Runner) ([]T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}
	model = model.withDependencies()

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return parents, nil
}

func (model ModelQuery[T]) CollectOne(ctx context.Context, db Runner) (*T, error) {
	if err := model.Err(); err != nil {
		return nil, err
	}
	model = model.withDependencies()

	parents, err := model.collectBaseModels(ctx, db)
	if err != nil {
		return nil, err
	}

	if len(parents) == 0 {
		return nil, sql.ErrNoRows
	} else if len(parents) > 1 {
		return nil, ErrTooManyResults
	}

	if err := model.resolveRelations(ctx, db, parents); err != nil {
		return nil, err
	}

	return &parents[0], nil
}

func (model ModelQuery[T]) buildBaseQuery(q Q) (Q, RowScan[T]) {
	q = q.From(model.schema.Table)

	// Apply schema mods
	q = applyMods(q, model.tableAlias, model.schema.QueryMods)
	// Apply runtime mods
	q = applyMods(q, model.tableAlias, model.queryMods)

	// Collapse fields in a stable order
	var scans []RowScan[T]
	for _, name := range slices.Sorted(maps.Keys(model.selectedFields)) {
		field := model.selectedFields[name]
		q = field.Mod(q, model.tableAlias)
		scans = append(scans, field.RowScan)
	}

	return q, flattenRowScan(scans)
}

func (model ModelQuery[T]) collectBaseModels(
	ctx context.Context,
	db Runner,
) ([]T, error) {
	q, scans := model.buildBaseQuery(squirrel.StatementBuilder.RunWith(db).Select())

	return Collect(ctx, q, scans)
}

func (model ModelQuery[T]) resolveRelations(
	ctx context.Context,
	db Runner,
	parents []T,
) error {
	if len(parents) == 0 {
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(model.selectedRelations)) {
		err := model.selectedRelations[name].Resolve(
			ctx,
			db,
			parents,
			model.selectedRelationFields[name],
		)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", name, err)
		}
	}

	return nil
}

// =================
// Utilities
// =================

// withDependencies selects the fields the chosen relations need to bind
// their results.
func (model ModelQuery[T]) withDependencies() ModelQuery[T] {
	for _, name := range slices.Sorted(maps.Keys(model.selectedRelations)) {
		if mod := model.selectedRelations[name].ModelQueryMod; mod != nil {
			model = mod(model)
		}
	}
	return model
}

// clone copies the selection so that changes to it stay local to the
// returned query.
func (model ModelQuery[T]) clone() ModelQuery[T] {
	model.selectedFields = maps.Clone(model.selectedFields)
	model.selectedRelations = maps.Clone(model.selectedRelations)
	model.selectedRelationFields = maps.Clone(model.selectedRelationFields)
	for name, fields := range model.selectedRelationFields {
		model.selectedRelationFields[name] = slices.Clone(fields)
	}
	model.errors = slices.Clip(model.errors)
	return model
}

func (model *ModelQuery[T]) addError(err error) {
	model.errors = append(model.errors, err)
}

func isNested(name string) (string, string) {
	field, rest, _ := strings.Cut(name, ".")
	return field, rest
}
