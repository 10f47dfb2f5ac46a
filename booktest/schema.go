package booktest

import (
	"fmt"

	"pollex.nl/shelf"
)

// AppLabel prefixes the framework-default table names.
const AppLabel = "booktest"

// Variant selects how the model's tables are named.
type Variant string

const (
	// Explicit uses the declared table names: tags, authors, books.
	Explicit Variant = "explicit"
	// FrameworkDefault leaves naming to the "<app>_<model>" convention.
	FrameworkDefault Variant = "default"
)

// Variants lists every supported Variant.
var Variants = []Variant{Explicit, FrameworkDefault}

func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown schema variant %q, expected one of %v", s, Variants)
}

func (v Variant) naming() shelf.Naming {
	if v == FrameworkDefault {
		return shelf.AppNaming{App: AppLabel}
	}
	return shelf.PluralNaming{}
}

// Tables holds the backing table names of a variant.
type Tables struct {
	Tag      string
	Author   string
	Book     string
	BookTags string
}

func (v Variant) Tables() Tables {
	naming := v.naming()
	book := naming.Table("Book")

	return Tables{
		Tag:      naming.Table("Tag"),
		Author:   naming.Table("Author"),
		Book:     book,
		BookTags: shelf.JoinTableName(book, "tags"),
	}
}

// List returns the table names in creation order.
func (t Tables) List() []string {
	return []string{t.Tag, t.Author, t.Book, t.BookTags}
}

// Schema is the booktest model declared against one variant's tables.
type Schema struct {
	Variant Variant
	Tables  Tables
	BookTag shelf.JoinTable

	Tags    *shelf.ModelSchema[Tag]
	Authors *shelf.ModelSchema[Author]
	Books   *shelf.ModelSchema[Book]
}

// bookTypeField reads the stored integer into a BookType.
var bookTypeField = shelf.Field(shelf.Col("book_type"),
	shelf.Via(func(b *Book, v int64) { b.BookType = BookType(v) }))

func NewSchema(variant Variant) *Schema {
	tables := variant.Tables()
	bookTag := shelf.JoinTable{Table: tables.BookTags, SourceCol: "book_id", TargetCol: "tag_id"}

	tags := shelf.New[Tag](tables.Tag).
		WithKey("tag_id", func(t Tag) int64 { return t.TagID }, func(t *Tag, id int64) { t.TagID = id }).
		AddSimpleField("tag", func(t *Tag) any { return &t.Tag }).
		WithValues(func(t Tag) map[string]any {
			return map[string]any{"tag": t.Tag}
		}).
		ModifyQuery(shelf.OrderBy("tag_id"))

	authors := shelf.New[Author](tables.Author).
		WithKey("author_id", func(a Author) int64 { return a.AuthorID }, func(a *Author, id int64) { a.AuthorID = id }).
		AddSimpleField("name", func(a *Author) any { return &a.Name }).
		WithValues(func(a Author) map[string]any {
			return map[string]any{"name": a.Name}
		}).
		ModifyQuery(shelf.OrderBy("author_id"))

	books := shelf.New[Book](tables.Book).
		WithKey("book_id", func(b Book) int64 { return b.BookID }, func(b *Book, id int64) { b.BookID = id }).
		AddSimpleField("author_id", func(b *Book) any { return &b.AuthorID }).
		AddSimpleField("isbn", func(b *Book) any { return &b.ISBN }).
		AddFieldType("book_type", bookTypeField).
		AddSimpleField("title", func(b *Book) any { return &b.Title }).
		AddSimpleField("year", func(b *Book) any { return &b.Year }).
		AddSimpleField("available", func(b *Book) any { return &b.Available }).
		WithValues(func(b Book) map[string]any {
			return map[string]any{
				"author_id": b.AuthorID,
				"isbn":      b.ISBN,
				"book_type": int64(b.BookType),
				"title":     b.Title,
				"year":      b.Year,
				"available": b.Available.UTC(),
			}
		}).
		ModifyQuery(shelf.OrderBy("book_id"))

	authors.AddRelation("books",
		shelf.HasMany(books,
			func(a Author, b Book) bool { return b.AuthorID == a.AuthorID },
			func(a *Author, books []Book) { a.Books = books },
			shelf.WhereIDs("author_id", func(a Author) int64 { return a.AuthorID }),
			shelf.DependsOn("author_id", "books.author_id"),
		))

	books.AddRelation("author",
		shelf.HasOne(authors,
			func(b Book, a Author) bool { return b.AuthorID == a.AuthorID },
			func(b *Book, a Author) { b.Author = &a },
			shelf.WhereIDs("author_id", func(b Book) int64 { return b.AuthorID }),
			shelf.DependsOn("author_id", "author.author_id"),
		))

	books.AddRelation("tags",
		shelf.ManyToMany(tags, bookTag,
			func(b Book) int64 { return b.BookID },
			"tag_id",
			func(t Tag) int64 { return t.TagID },
			func(b *Book, tags []Tag) { b.Tags = tags },
			shelf.DependsOn("book_id"),
		))

	tags.AddRelation("books",
		shelf.ManyToMany(books, bookTag.Reverse(),
			func(t Tag) int64 { return t.TagID },
			"book_id",
			func(b Book) int64 { return b.BookID },
			func(t *Tag, books []Book) { t.Books = books },
			shelf.DependsOn("tag_id"),
		))

	return &Schema{
		Variant: variant,
		Tables:  tables,
		BookTag: bookTag,
		Tags:    tags,
		Authors: authors,
		Books:   books,
	}
}
