package booktest_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pollex.nl/shelf"
	"pollex.nl/shelf/booktest"
	"pollex.nl/shelf/sqlitefk"
)

var now = time.Date(2016, 3, 14, 15, 9, 26, 0, time.UTC)

func testContext() context.Context {
	return shelf.WithClock(context.Background(), shelf.ClockFunc(func() time.Time { return now }))
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func slogTo(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func openDB(t testing.TB, variant booktest.Variant) *sql.DB {
	t.Helper()

	db, err := sqlitefk.Open(context.Background(), filepath.Join(t.TempDir(), "booktest.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, booktest.Migrate(db, variant, quiet))

	return db
}

func newStore(t testing.TB, variant booktest.Variant) (*booktest.Store, *sql.DB) {
	t.Helper()

	db := openDB(t, variant)
	return booktest.NewStore(db, booktest.NewSchema(variant), booktest.WithLogger(quiet)), db
}

func count(t testing.TB, db *sql.DB, table string) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow("SELECT count(*) FROM "+table).Scan(&n))
	return n
}

func mustAuthor(t testing.TB, s *booktest.Store, name string) booktest.Author {
	t.Helper()

	a := booktest.Author{Name: name}
	require.NoError(t, s.InsertAuthor(testContext(), &a))
	return a
}

func mustTag(t testing.TB, s *booktest.Store, tag string) booktest.Tag {
	t.Helper()

	tg := booktest.Tag{Tag: tag}
	require.NoError(t, s.InsertTag(testContext(), &tg))
	return tg
}

func mustBook(t testing.TB, s *booktest.Store, b booktest.Book) booktest.Book {
	t.Helper()

	require.NoError(t, s.InsertBook(testContext(), &b))
	return b
}
