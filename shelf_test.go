package shelf_test

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"pollex.nl/shelf"
)

type Author struct {
	ID      int64
	Name    string
	Aliases []string
	Books   []Book
}

type Book struct {
	ID       int64
	Title    string
	AuthorID int64
	Author   *Author
	Labels   []Label
}

type Label struct {
	ID    int64
	Name  string
	Books []Book
}

var bookLabels = shelf.JoinTable{Table: "book_labels", SourceCol: "book_id", TargetCol: "label_id"}

var (
	label = shelf.New[Label]("labels").
		WithKey("id", func(l Label) int64 { return l.ID }, func(l *Label, id int64) { l.ID = id }).
		AddSimpleField("name", func(t *Label) any { return &t.Name }).
		WithValues(func(l Label) map[string]any { return map[string]any{"name": l.Name} }).
		ModifyQuery(shelf.OrderBy("id"))

	book = shelf.New[Book]("books").
		WithKey("id", func(b Book) int64 { return b.ID }, func(b *Book, id int64) { b.ID = id }).
		AddSimpleField("title", func(t *Book) any { return &t.Title }).
		AddSimpleField("author_id", func(t *Book) any { return &t.AuthorID }).
		WithValues(func(b Book) map[string]any {
			return map[string]any{"title": b.Title, "author_id": b.AuthorID}
		}).
		ModifyQuery(shelf.OrderBy("id"))

	author = shelf.New[Author]("authors").
		WithKey("id", func(a Author) int64 { return a.ID }, func(a *Author, id int64) { a.ID = id }).
		AddSimpleField("name", func(t *Author) any { return &t.Name }).
		AddField(
			"aliases",
			shelf.Col("aliases"),
			func(t *Author) (shelf.Ptrs, shelf.Action) {
				var aliases string
				return shelf.Ptrs{&aliases}, func() {
					t.Aliases = strings.Split(aliases, ",")
				}
			},
		).
		WithValues(func(a Author) map[string]any {
			return map[string]any{"name": a.Name, "aliases": strings.Join(a.Aliases, ",")}
		}).
		ModifyQuery(shelf.OrderBy("id")).
		AddRelation(
			"books",
			shelf.HasMany(book,
				func(author Author, book Book) bool { return book.AuthorID == author.ID },
				func(author *Author, books []Book) { author.Books = books },
				shelf.WhereIDs("author_id", func(a Author) int64 { return a.ID }),
				shelf.DependsOn("id", "books.author_id"),
			),
		)
)

func init() {
	book.AddRelation(
		"author",
		shelf.HasOne(author,
			func(b Book, a Author) bool { return b.AuthorID == a.ID },
			func(b *Book, a Author) { b.Author = &a },
			shelf.WhereIDs("id", func(b Book) int64 { return b.AuthorID }),
			shelf.DependsOn("author_id", "author.id"),
		))
	book.AddRelation(
		"labels",
		shelf.ManyToMany(label, bookLabels,
			func(b Book) int64 { return b.ID },
			"id",
			func(l Label) int64 { return l.ID },
			func(b *Book, labels []Label) { b.Labels = labels },
			shelf.DependsOn("id"),
		))
	label.AddRelation(
		"books",
		shelf.ManyToMany(book, bookLabels.Reverse(),
			func(l Label) int64 { return l.ID },
			"id",
			func(b Book) int64 { return b.ID },
			func(l *Label, books []Book) { l.Books = books },
			shelf.DependsOn("id"),
		))
}

func setupDB(t testing.TB) (*sql.DB, squirrel.StatementBuilderType) {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "shelf.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(migrate)
	require.NoError(t, err)

	sq := squirrel.StatementBuilder.RunWith(db)

	return db, sq
}

// seed fills the tables with two authors, four books and three labels.
func seed(t testing.TB, sq squirrel.StatementBuilderType) {
	t.Helper()

	inserts := []squirrel.InsertBuilder{
		sq.Insert("authors").
			Values(1, "Jeff", "cool,awesome").
			Values(2, "Madonna", "vocal"),
		sq.Insert("books").
			Values(1, "Life of Jeff", 1).
			Values(2, "Cooking like Jeff", 1).
			Values(3, "Sing baby sing", 2).
			Values(4, "the singeth hath endeth", 2),
		sq.Insert("labels").
			Values(1, "memoir").
			Values(2, "food").
			Values(3, "music"),
		sq.Insert("book_labels").
			Values(1, 1).
			Values(2, 1).
			Values(2, 2).
			Values(3, 3).
			Values(4, 3),
	}
	for _, insert := range inserts {
		_, err := insert.Exec()
		require.NoError(t, err)
	}
}

const migrate = `
	create table authors (
		id integer primary key autoincrement,
		name text not null,
		aliases text not null default ''
	);
	create table books (
		id integer primary key autoincrement,
		title text not null,
		author_id integer not null
	);
	create table labels (
		id integer primary key autoincrement,
		name text not null
	);
	create table book_labels (
		book_id integer not null,
		label_id integer not null,
		unique (book_id, label_id)
	);
	`
