package booktest

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"pollex.nl/shelf"
)

func (s *Store) InsertTag(ctx context.Context, t *Tag) error {
	if err := s.valid.Validate("tag", t); err != nil {
		return err
	}
	return classify(s.schema.Tags.Insert(ctx, s.run, t), "insert tag")
}

func (s *Store) UpdateTag(ctx context.Context, t Tag) error {
	if err := s.valid.Validate("tag", t); err != nil {
		return err
	}
	return classify(s.schema.Tags.Update(ctx, s.run, t), fmt.Sprintf("tag %d", t.TagID))
}

// DeleteTag removes the tag and unlinks it from every book.
func (s *Store) DeleteTag(ctx context.Context, t Tag) error {
	return classify(s.schema.Tags.Delete(ctx, s.run, t), fmt.Sprintf("tag %d", t.TagID))
}

func (s *Store) TagByTagID(ctx context.Context, id int64, fields ...string) (*Tag, error) {
	t, err := s.schema.Tags.ByKey(ctx, s.run, id, fields...)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("tag %d", id))
	}
	return t, nil
}

func (s *Store) Tags(ctx context.Context, fields ...string) ([]Tag, error) {
	tags, err := s.schema.Tags.Query(fields...).Collect(ctx, s.run)
	if err != nil {
		return nil, classify(err, "list tags")
	}
	return tags, nil
}

// TagsByBookID returns the tags of a book in the order they were added.
func (s *Store) TagsByBookID(ctx context.Context, bookID int64) ([]Tag, error) {
	b, err := s.BookByBookID(ctx, bookID, "book_id", "tags")
	if err != nil {
		return nil, err
	}
	return b.Tags, nil
}

// AddBookTags links the tags to the book. Existing links are kept as is.
func (s *Store) AddBookTags(ctx context.Context, bookID int64, tagIDs ...int64) error {
	return classify(shelf.Link(ctx, s.run, s.schema.BookTag, bookID, tagIDs...), fmt.Sprintf("tag book %d", bookID))
}

// RemoveBookTags unlinks the tags from the book, or every tag when none
// are given.
func (s *Store) RemoveBookTags(ctx context.Context, bookID int64, tagIDs ...int64) error {
	return classify(shelf.Unlink(ctx, s.run, s.schema.BookTag, bookID, tagIDs...), fmt.Sprintf("untag book %d", bookID))
}

// BooksTags returns the association rows of a book.
func (s *Store) BooksTags(ctx context.Context, bookID int64) ([]BooksTag, error) {
	jt := s.schema.BookTag
	q := squirrel.StatementBuilder.RunWith(s.run).
		Select("id", jt.SourceCol, jt.TargetCol).
		From(jt.Table).
		Where(squirrel.Eq{jt.SourceCol: bookID}).
		OrderBy("id")

	rows, err := shelf.Collect(ctx, q, func(bt *BooksTag) (shelf.Ptrs, shelf.Action) {
		return shelf.Ptrs{&bt.ID, &bt.BookID, &bt.TagID}, nil
	})
	if err != nil {
		return nil, classify(err, fmt.Sprintf("tags of book %d", bookID))
	}
	return rows, nil
}
