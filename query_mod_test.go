package shelf_test

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"pollex.nl/shelf"
)

func TestQueryModColShouldWork(t *testing.T) {
	mod := shelf.Col("id")
	q := mod(squirrel.Select(), "table")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT table.id", queryString)
}

func TestQueryModColShouldWorkWithMany(t *testing.T) {
	mod := shelf.Col("id", "name")
	q := mod(squirrel.Select(), "table")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT table.id, table.name", queryString)
}

func TestQueryModWithoutTable(t *testing.T) {
	q := shelf.Col("id")(squirrel.Select(), "")
	q = shelf.OrderBy("id")(q.From("books"), "")
	queryString, _ := q.MustSql()
	assert.Equal(t, "SELECT id FROM books ORDER BY id", queryString)
}

func TestQueryModWhereEq(t *testing.T) {
	q := shelf.WhereEq("author_id", []int64{1, 2})(squirrel.Select("*").From("books"), "books")
	queryString, args := q.MustSql()
	assert.Equal(t, "SELECT * FROM books WHERE books.author_id IN (?,?)", queryString)
	assert.Equal(t, []any{int64(1), int64(2)}, args)
}
