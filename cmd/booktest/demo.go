package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"pollex.nl/shelf"
	"pollex.nl/shelf/booktest"
)

func newDemoCommand(rootOpts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Migrate, then write and query a small library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := rootOpts.openDB(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := booktest.Migrate(db, rootOpts.cfg.SchemaVariant(), rootOpts.logger); err != nil {
				return err
			}

			return runDemo(cmd.Context(), rootOpts.newStore(db), cmd.OutOrStdout())
		},
	}
}

// tagger creates tags on first use. Tags are given as one space separated
// string, the way they are shown in search results.
type tagger struct {
	known map[string]booktest.Tag
}

func (tg *tagger) tags(ctx context.Context, s *booktest.Store, names string) ([]booktest.Tag, error) {
	var tags []booktest.Tag
	for _, name := range strings.Fields(names) {
		t, ok := tg.known[name]
		if !ok {
			t = booktest.Tag{Tag: name}
			if err := s.InsertTag(ctx, &t); err != nil {
				return nil, err
			}
			tg.known[name] = t
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// retag replaces every tag of the book.
func (tg *tagger) retag(ctx context.Context, s *booktest.Store, b *booktest.Book, names string) error {
	tags, err := tg.tags(ctx, s, names)
	if err != nil {
		return err
	}
	if err := s.RemoveBookTags(ctx, b.BookID); err != nil {
		return err
	}

	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.TagID)
	}
	b.Tags = tags
	return s.AddBookTags(ctx, b.BookID, ids...)
}

func runDemo(ctx context.Context, s *booktest.Store, out io.Writer) error {
	tg := &tagger{known: map[string]booktest.Tag{}}

	a := booktest.Author{Name: "Unknown Master"}
	if err := s.InsertAuthor(ctx, &a); err != nil {
		return err
	}

	now := shelf.Now(ctx)
	var b3 booktest.Book
	err := s.InTx(ctx, func(tx *booktest.Store) error {
		newBook := func(isbn, title string, year int, tags string) (booktest.Book, error) {
			b := booktest.Book{
				AuthorID:  a.AuthorID,
				ISBN:      isbn,
				BookType:  booktest.Fiction,
				Title:     title,
				Year:      year,
				Available: now,
			}
			var err error
			if b.Tags, err = tg.tags(ctx, tx, tags); err != nil {
				return b, err
			}
			err = tx.SaveBook(ctx, &b)
			return b, err
		}

		if _, err := newBook("1", "my book title", 2016, ""); err != nil {
			return err
		}
		b1, err := newBook("2", "the second book", 2016, "cool unique")
		if err != nil {
			return err
		}

		b1.Title = "changed second title"
		if err := tx.SaveBook(ctx, &b1); err != nil {
			return err
		}
		if err := tg.retag(ctx, tx, &b1, "cool disastor"); err != nil {
			return err
		}

		if _, err := newBook("3", "the third book", 2001, "cool"); err != nil {
			return err
		}
		b3, err = newBook("4", "4th place finisher", 2011, "other")
		return err
	})
	if err != nil {
		return err
	}

	b4 := booktest.Book{
		BookID:    b3.BookID,
		AuthorID:  a.AuthorID,
		ISBN:      "NEW ISBN",
		BookType:  booktest.NonFiction,
		Title:     "never ever gonna finish, a quatrain",
		Year:      b3.Year,
		Available: b3.Available,
	}
	if err := s.UpsertBook(ctx, &b4); err != nil {
		return err
	}
	if err := tg.retag(ctx, s, &b4, "someother"); err != nil {
		return err
	}

	books, err := s.BooksByTitleYear(ctx, "my book title", 2016)
	if err != nil {
		return err
	}
	for _, book := range books {
		fmt.Fprintf(out, "Book %d: %q available: %q\n", book.BookID, book.Title, book.Available.Format(time.RFC822Z))
		author, err := s.BookAuthor(ctx, book)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Book %d author: %q\n", book.BookID, author.Name)
	}

	fmt.Fprintf(out, "---------\nTag search results:\n")
	results, err := s.AuthorBookResultsByTag(ctx, "someother")
	if err != nil {
		return err
	}
	printResults(out, results)

	b5, err := s.BookByBookID(ctx, b4.BookID)
	if err != nil {
		return err
	}
	return s.DeleteBook(ctx, *b5)
}
