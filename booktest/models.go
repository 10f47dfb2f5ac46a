package booktest

import "time"

// DefaultYear is stored for books inserted without a publication year.
const DefaultYear = 2000

type Tag struct {
	TagID int64  `json:"tag_id"`
	Tag   string `json:"tag" validate:"required,max=50"`

	Books []Book `json:"books,omitempty" validate:"-"`
}

type Author struct {
	AuthorID int64  `json:"author_id"`
	Name     string `json:"name"`

	Books []Book `json:"books,omitempty" validate:"-"`
}

type Book struct {
	BookID    int64     `json:"book_id"`
	AuthorID  int64     `json:"author_id" validate:"required"`
	ISBN      string    `json:"isbn" validate:"max=255"`
	BookType  BookType  `json:"book_type" validate:"required,oneof=1 2"`
	Title     string    `json:"title" validate:"max=255"`
	Year      int       `json:"year"`
	Available time.Time `json:"available"`

	Author *Author `json:"author,omitempty" validate:"-"`
	Tags   []Tag   `json:"tags,omitempty" validate:"-"`
}

// BooksTag is one row of the book/tag association table.
type BooksTag struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"book_id"`
	TagID  int64 `json:"tag_id"`
}

// AuthorBookResult is a book matched by tag search, flattened with its
// author. BookTags holds every tag of the book separated by spaces.
type AuthorBookResult struct {
	AuthorID   int64  `json:"author_id"`
	AuthorName string `json:"author_name"`
	BookID     int64  `json:"book_id"`
	BookISBN   string `json:"book_isbn"`
	BookTitle  string `json:"book_title"`
	BookTags   string `json:"book_tags"`
}
