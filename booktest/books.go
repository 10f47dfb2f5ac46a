package booktest

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"pollex.nl/shelf"
)

// applyDefaults fills the columns a new book gets when left unset.
func (b *Book) applyDefaults(ctx context.Context) {
	if b.Year == 0 {
		b.Year = DefaultYear
	}
	if b.Available.IsZero() {
		b.Available = shelf.Now(ctx)
	}
}

// InsertBook writes a new book and links any saved tags already set on it.
func (s *Store) InsertBook(ctx context.Context, b *Book) error {
	b.applyDefaults(ctx)
	if err := s.valid.Validate("book", b); err != nil {
		return err
	}

	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.schema.Books.Insert(ctx, tx.run, b); err != nil {
			return classify(err, "insert book")
		}
		return tx.AddBookTags(ctx, b.BookID, tagIDs(b.Tags)...)
	})
}

// UpdateBook rewrites the stored book. When b.Tags is non-nil the book's
// links are made to match it; a nil Tags leaves them as they are.
func (s *Store) UpdateBook(ctx context.Context, b Book) error {
	if err := s.valid.Validate("book", b); err != nil {
		return err
	}

	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.schema.Books.Update(ctx, tx.run, b); err != nil {
			return classify(err, fmt.Sprintf("book %d", b.BookID))
		}
		return tx.syncBookTags(ctx, b)
	})
}

// SaveBook inserts the book when it has no id yet and updates it otherwise.
func (s *Store) SaveBook(ctx context.Context, b *Book) error {
	if b.BookID == 0 {
		return s.InsertBook(ctx, b)
	}
	return s.UpdateBook(ctx, *b)
}

// UpsertBook inserts the book, or overwrites the stored book with the same
// id. Tags are synced the way UpdateBook does.
func (s *Store) UpsertBook(ctx context.Context, b *Book) error {
	b.applyDefaults(ctx)
	if err := s.valid.Validate("book", b); err != nil {
		return err
	}

	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.schema.Books.Upsert(ctx, tx.run, b); err != nil {
			return classify(err, fmt.Sprintf("upsert book %d", b.BookID))
		}
		return tx.syncBookTags(ctx, *b)
	})
}

// syncBookTags links b to exactly the saved tags in b.Tags. Links that are
// kept keep their position.
func (s *Store) syncBookTags(ctx context.Context, b Book) error {
	if b.Tags == nil {
		return nil
	}

	rows, err := s.BooksTags(ctx, b.BookID)
	if err != nil {
		return err
	}
	current := lo.Map(rows, func(bt BooksTag, _ int) int64 { return bt.TagID })
	want := tagIDs(b.Tags)

	if stale := lo.Without(current, want...); len(stale) > 0 {
		if err := s.RemoveBookTags(ctx, b.BookID, stale...); err != nil {
			return err
		}
	}
	return s.AddBookTags(ctx, b.BookID, lo.Without(want, current...)...)
}

// DeleteBook removes the book and its tag links.
func (s *Store) DeleteBook(ctx context.Context, b Book) error {
	return classify(s.schema.Books.Delete(ctx, s.run, b), fmt.Sprintf("book %d", b.BookID))
}

// BookByBookID loads one book. fields may name relations, e.g. "author"
// or "tags.tag".
func (s *Store) BookByBookID(ctx context.Context, id int64, fields ...string) (*Book, error) {
	b, err := s.schema.Books.ByKey(ctx, s.run, id, fields...)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("book %d", id))
	}
	return b, nil
}

func (s *Store) BooksByAuthorID(ctx context.Context, authorID int64, fields ...string) ([]Book, error) {
	books, err := s.schema.Books.Query(fields...).
		ModifyQuery(shelf.WhereEq("author_id", authorID)).
		Collect(ctx, s.run)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("books of author %d", authorID))
	}
	return books, nil
}

func (s *Store) BooksByTitleYear(ctx context.Context, title string, year int, fields ...string) ([]Book, error) {
	books, err := s.schema.booksByTitleYear(title, year, fields...).Collect(ctx, s.run)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("books titled %q in %d", title, year))
	}
	return books, nil
}

func (schema *Schema) booksByTitleYear(title string, year int, fields ...string) shelf.ModelQuery[Book] {
	return schema.Books.Query(fields...).
		ModifyQuery(shelf.WhereEq("title", title)).
		ModifyQuery(shelf.WhereEq("year", year))
}

// BookAuthor loads the author the book references.
func (s *Store) BookAuthor(ctx context.Context, b Book, fields ...string) (*Author, error) {
	return s.AuthorByAuthorID(ctx, b.AuthorID, fields...)
}

func tagIDs(tags []Tag) []int64 {
	return lo.FilterMap(tags, func(t Tag, _ int) (int64, bool) { return t.TagID, t.TagID != 0 })
}
