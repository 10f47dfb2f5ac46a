package shelf_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pollex.nl/shelf"
)

func TestBasicModelUsage(t *testing.T) {
	// Arrange
	db, sq := setupDB(t)
	seed(t, sq)

	t.Run("select fields", func(t *testing.T) {
		authors, err := author.Query("id", "aliases").Collect(context.Background(), db)
		require.NoError(t, err)

		// Assert
		assert.Len(t, authors, 2)
		for i := range 2 {
			assert.Empty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
			assert.NotEmpty(t, authors[i].Aliases)
		}
		assert.Equal(t, []string{"cool", "awesome"}, authors[0].Aliases)
	})

	t.Run("select all by not providing fields", func(t *testing.T) {
		authors, err := author.Query().Collect(context.Background(), db)
		require.NoError(t, err)

		// Assert
		assert.Len(t, authors, 2)
		for i := range 2 {
			assert.NotEmpty(t, authors[i].Name)
			assert.NotEmpty(t, authors[i].ID)
			assert.NotEmpty(t, authors[i].Aliases)
		}
	})

	t.Run("where and limit", func(t *testing.T) {
		authors, err := author.Query("name").
			Where(squirrel.Eq{"authors.name": "Madonna"}).
			Limit(1).
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 1)
		assert.Equal(t, "Madonna", authors[0].Name)
	})

	t.Run("unknown names accumulate errors", func(t *testing.T) {
		_, err := author.Query("nope", "name.first", "books.nope").Collect(context.Background(), db)
		require.Error(t, err)
		assert.ErrorIs(t, err, shelf.ErrNoSuchField)
		assert.ErrorIs(t, err, shelf.ErrNoSuchRelation)
	})
}

func TestBasicModelRelation(t *testing.T) {
	// Arrange
	db, sq := setupDB(t)
	seed(t, sq)

	t.Run("relation all fields", func(t *testing.T) {
		authors, err := author.Query("id", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.NotEmpty(t, authors[0].Books[0].Title)
		require.NotEmpty(t, authors[0].Books[1].Title)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[1].AuthorID)
	})

	t.Run("base and relation all fields", func(t *testing.T) {
		authors, err := author.Query("*", "books").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		assert.Equal(t, "Jeff", authors[0].Name)
		assert.Equal(t, "Life of Jeff", authors[0].Books[0].Title)
		assert.Equal(t, "Cooking like Jeff", authors[0].Books[1].Title)
	})

	t.Run("nested relations with specific fields", func(t *testing.T) {
		authors, err := author.Query("id", "name", "books.title", "books.labels.name").
			Collect(context.Background(), db)
		require.NoError(t, err)

		// Assert
		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)
		require.Len(t, authors[0].Books[0].Labels, 1)
		require.Len(t, authors[0].Books[1].Labels, 2)
		require.Len(t, authors[1].Books[0].Labels, 1)
		require.Len(t, authors[1].Books[1].Labels, 1)

		assert.Equal(t, "memoir", authors[0].Books[1].Labels[0].Name)
		assert.Equal(t, "food", authors[0].Books[1].Labels[1].Name)
		assert.NotEmpty(t, authors[0].Books[0].Labels[0].ID)
	})

	t.Run("backref", func(t *testing.T) {
		books, err := book.Query("*", "author").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, books, 4)
		for _, book := range books {
			require.NotNil(t, book.Author)
			assert.Equal(t, book.AuthorID, book.Author.ID)
		}
	})

	t.Run("many to many from the other side", func(t *testing.T) {
		labels, err := label.Query("name", "books.title").
			Collect(context.Background(), db)
		require.NoError(t, err)

		require.Len(t, labels, 3)
		require.Len(t, labels[0].Books, 2)
		require.Len(t, labels[1].Books, 1)
		require.Len(t, labels[2].Books, 2)
		assert.Equal(t, "Cooking like Jeff", labels[1].Books[0].Title)
	})

	t.Run("automatically select fields required for relation", func(t *testing.T) {
		authors, err := author.Query("books.title").
			Collect(context.Background(), db)
		require.NoError(t, err)

		// Assert
		require.Len(t, authors, 2)
		require.Len(t, authors[0].Books, 2)
		require.Len(t, authors[1].Books, 2)

		require.NotEmpty(t, authors[0].ID)
		require.NotEmpty(t, authors[0].Books[0].AuthorID)
		require.NotEmpty(t, authors[0].Books[0].Title)
		require.Empty(t, authors[0].Books[0].ID)
	})

	t.Run("CollectOne should return one item", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q shelf.Q, table string) shelf.Q { return q.Where("id = ?", 2) }).
			CollectOne(context.Background(), db)
		require.NoError(t, err)
		assert.NotNil(t, author)
		assert.NotEmpty(t, author.ID)
		assert.NotEmpty(t, author.Name)
		assert.Empty(t, author.Books)
	})

	t.Run("CollectOne should error on many returns", func(t *testing.T) {
		author, err := author.Query().
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, shelf.ErrTooManyResults)
		assert.Nil(t, author)
	})

	t.Run("CollectOne should error on no returns", func(t *testing.T) {
		author, err := author.Query().
			ModifyQuery(func(q shelf.Q, table string) shelf.Q { return q.Where("false") }).
			CollectOne(context.Background(), db)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, author)
	})
}

func TestModelQueryToSql(t *testing.T) {
	query, args, err := author.Query("name", "id").
		Where(squirrel.Eq{"authors.id": 1}).
		ToSql()
	require.NoError(t, err)

	assert.Equal(t, "SELECT authors.id, authors.name FROM authors WHERE authors.id = ? ORDER BY authors.id", query)
	assert.Equal(t, []any{1}, args)
}

func TestSelectLeavesBaseQueryAlone(t *testing.T) {
	base := book.Query("title")
	before, _, err := base.ToSql()
	require.NoError(t, err)

	derived := base.Select("author_id")
	withAuthor := base.Select("author.name")

	after, _, err := base.ToSql()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, "SELECT books.title FROM books ORDER BY books.id", after)

	got, _, err := derived.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT books.author_id, books.title FROM books ORDER BY books.id", got)

	// Relation dependencies are added to the derived query only.
	got, _, err = withAuthor.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT books.author_id, books.title FROM books ORDER BY books.id", got)

	after, _, err = base.ToSql()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSelectedRelationsStillBind(t *testing.T) {
	db, sq := setupDB(t)
	seed(t, sq)

	base := book.Query("title")
	books, err := base.Select("author.name").Collect(context.Background(), db)
	require.NoError(t, err)
	require.NotEmpty(t, books)
	for _, b := range books {
		require.NotNil(t, b.Author)
		assert.NotEmpty(t, b.Author.Name)
	}

	plain, err := base.Collect(context.Background(), db)
	require.NoError(t, err)
	for _, b := range plain {
		assert.Nil(t, b.Author)
		assert.Zero(t, b.AuthorID)
	}
}
