package booktest

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"pollex.nl/shelf"
)

// AuthorBookResultsByTag finds every book carrying tag, together with its
// author and its full tag list.
func (s *Store) AuthorBookResultsByTag(ctx context.Context, tag string) ([]AuthorBookResult, error) {
	q := s.schema.authorBookResultsByTag(tag).RunWith(s.run)

	results, err := shelf.Collect(ctx, q, func(r *AuthorBookResult) (shelf.Ptrs, shelf.Action) {
		return shelf.Ptrs{&r.AuthorID, &r.AuthorName, &r.BookID, &r.BookISBN, &r.BookTitle, &r.BookTags}, nil
	})
	if err != nil {
		return nil, classify(err, fmt.Sprintf("books tagged %q", tag))
	}
	return results, nil
}

func (schema *Schema) authorBookResultsByTag(tag string) shelf.Q {
	t := schema.Tables
	col := shelf.TableCol

	// Tags of the outer book, in the order they were linked.
	bookTags := fmt.Sprintf(
		"(SELECT group_concat(tg.tag, ' ' ORDER BY bt.id) FROM %s bt JOIN %s tg ON tg.tag_id = bt.tag_id WHERE bt.book_id = %s) AS book_tags",
		t.BookTags, t.Tag, col(t.Book, "book_id"),
	)
	hasTag := fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s bt JOIN %s tg ON tg.tag_id = bt.tag_id WHERE bt.book_id = %s AND tg.tag = ?)",
		t.BookTags, t.Tag, col(t.Book, "book_id"),
	)

	return squirrel.StatementBuilder.
		Select(
			col(t.Author, "author_id"),
			col(t.Author, "name"),
			col(t.Book, "book_id"),
			col(t.Book, "isbn"),
			col(t.Book, "title"),
			bookTags,
		).
		From(t.Book).
		Join(fmt.Sprintf("%s ON %s = %s", t.Author, col(t.Author, "author_id"), col(t.Book, "author_id"))).
		Where(hasTag, tag).
		OrderBy(col(t.Book, "book_id"))
}
