package shelf

import "fmt"

// ModelSchema declares how a Go type maps onto a table: its selectable
// fields, its relations and, for writable models, its key and column values.
type ModelSchema[T any] struct {
	Table     string
	Fields    map[string]FieldType[T]
	Relations map[string]Relation[T]
	QueryMods []QueryMod

	key    *Key[T]
	values func(T) map[string]any
}

// Key is the auto-assigned integer primary key of a model.
type Key[T any] struct {
	Column string
	Get    func(T) int64
	Set    func(*T, int64)
}

func New[T any](table string) *ModelSchema[T] {
	model := &ModelSchema[T]{
		Table:     table,
		Fields:    map[string]FieldType[T]{},
		Relations: make(map[string]Relation[T]),
	}

	return model
}

func (schema *ModelSchema[T]) AddField(
	name string,
	mod QueryMod,
	rowScan RowScan[T],
) *ModelSchema[T] {
	schema.Fields[name] = Field(mod, rowScan)

	return schema
}

func (schema *ModelSchema[T]) AddFieldType(name string, field FieldType[T]) *ModelSchema[T] {
	schema.Fields[name] = field

	return schema
}

// AddSimpleField When the field name is the same as the column name and maps directly, use this.
func (schema *ModelSchema[T]) AddSimpleField(name string, ptr func(t *T) any) *ModelSchema[T] {
	return schema.AddField(name, Col(name), Ptr(ptr))
}

func (schema *ModelSchema[T]) AddRelation(name string, relation Relation[T]) *ModelSchema[T] {
	schema.Relations[name] = relation

	return schema
}

func (schema *ModelSchema[T]) ModifyQuery(mod QueryMod) *ModelSchema[T] {
	schema.QueryMods = append(schema.QueryMods, mod)

	return schema
}

// WithKey declares the auto-assigned primary key column. The column is also
// registered as a simple field when no field of that name exists.
func (schema *ModelSchema[T]) WithKey(column string, get func(T) int64, set func(*T, int64)) *ModelSchema[T] {
	schema.key = &Key[T]{Column: column, Get: get, Set: set}
	if !schema.hasField(column) {
		schema.AddField(column, Col(column), Via(set))
	}

	return schema
}

// WithValues declares the non-key columns written on insert and update.
func (schema *ModelSchema[T]) WithValues(values func(T) map[string]any) *ModelSchema[T] {
	schema.values = values

	return schema
}

func (schema *ModelSchema[T]) Query(fields ...string) ModelQuery[T] {
	return newModelQuery(*schema, fields...)
}

func (schema *ModelSchema[T]) Check(field string) error {
	field, rest := isNested(field)

	if field == "" || field == "*" {
		return nil
	}

	if schema.hasRelation(field) {
		return schema.Relations[field].Check(rest)
	}

	if schema.hasField(field) {
		if rest != "" {
			return fmt.Errorf("%w: %s", ErrNoSuchRelation, field)
		}
		return nil
	}

	return fmt.Errorf("%w: %s", ErrNoSuchField, field)
}

func (schema *ModelSchema[T]) hasRelation(name string) bool {
	_, ok := schema.Relations[name]
	return ok
}

func (schema *ModelSchema[T]) hasField(name string) bool {
	_, ok := schema.Fields[name]
	return ok
}
