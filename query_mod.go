package shelf

import "github.com/Masterminds/squirrel"

type (
	Q        = squirrel.SelectBuilder
	QueryMod func(q Q, table string) Q
)

// Col selects one or more columns of the model table.
func Col(names ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, name := range names {
			q = q.Column(TableCol(table, name))
		}
		return q
	}
}

// OrderBy orders by the given columns of the model table.
func OrderBy(cols ...string) QueryMod {
	return func(q Q, table string) Q {
		for _, col := range cols {
			q = q.OrderBy(TableCol(table, col))
		}
		return q
	}
}

// WhereEq filters on col = value, or col IN (values) when value is a slice.
func WhereEq(col string, value any) QueryMod {
	return func(q Q, table string) Q {
		return q.Where(squirrel.Eq{TableCol(table, col): value})
	}
}

func TableCol(table, name string) string {
	if table == "" {
		return name
	}
	return table + "." + name
}

func applyMods(q Q, table string, mods []QueryMod) Q {
	for _, mod := range mods {
		q = mod(q, table)
	}

	return q
}
