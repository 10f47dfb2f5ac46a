package shelf_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/shelf"
)

func TestLogRunner(t *testing.T) {
	db, sq := setupDB(t)
	seed(t, sq)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	runner := shelf.WithLogging(db, logger)

	authors, err := author.Query("name", "books").Collect(context.Background(), runner)
	require.NoError(t, err)
	require.Len(t, authors, 2)

	out := buf.String()
	assert.Contains(t, out, "SELECT authors.id, authors.name FROM authors")
	assert.Contains(t, out, "FROM books WHERE books.author_id IN (?,?)")
}

func TestClock(t *testing.T) {
	fixed := time.Date(2016, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := shelf.WithClock(context.Background(), shelf.ClockFunc(func() time.Time { return fixed }))

	assert.Equal(t, fixed, shelf.Now(ctx))
	assert.WithinDuration(t, time.Now(), shelf.Now(context.Background()), time.Minute)
}
