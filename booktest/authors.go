package booktest

import (
	"context"
	"fmt"
)

func (s *Store) InsertAuthor(ctx context.Context, a *Author) error {
	if err := s.valid.Validate("author", a); err != nil {
		return err
	}
	return classify(s.schema.Authors.Insert(ctx, s.run, a), "insert author")
}

func (s *Store) UpdateAuthor(ctx context.Context, a Author) error {
	if err := s.valid.Validate("author", a); err != nil {
		return err
	}
	return classify(s.schema.Authors.Update(ctx, s.run, a), fmt.Sprintf("author %d", a.AuthorID))
}

// DeleteAuthor removes the author. Its books, and their tag links, go with it.
func (s *Store) DeleteAuthor(ctx context.Context, a Author) error {
	return classify(s.schema.Authors.Delete(ctx, s.run, a), fmt.Sprintf("author %d", a.AuthorID))
}

// AuthorByAuthorID loads one author. fields may name relations, e.g.
// "books" or "books.tags".
func (s *Store) AuthorByAuthorID(ctx context.Context, id int64, fields ...string) (*Author, error) {
	a, err := s.schema.Authors.ByKey(ctx, s.run, id, fields...)
	if err != nil {
		return nil, classify(err, fmt.Sprintf("author %d", id))
	}
	return a, nil
}

func (s *Store) Authors(ctx context.Context, fields ...string) ([]Author, error) {
	authors, err := s.schema.Authors.Query(fields...).Collect(ctx, s.run)
	if err != nil {
		return nil, classify(err, "list authors")
	}
	return authors, nil
}
