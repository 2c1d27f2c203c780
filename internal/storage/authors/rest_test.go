package authors_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/fakebackend"
	"bookshelf/internal/storage/rest"
	"bookshelf/internal/types"
)

func setup(t *testing.T) (authors.Repository, *fakebackend.Backend) {
	fb := fakebackend.New()
	srv := httptest.NewServer(fb.Handler())
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return authors.NewRESTRepository(rest.NewClient(srv.Client(), u, l), l), fb
}

func TestRESTRepository_CRUD(t *testing.T) {
	repo, fb := setup(t)
	ctx := context.Background()

	bookId := fb.SeedBook(types.BookPayload{Isbn: "111", Title: "Emma", Category: "Novel", PublicationYear: 1815})
	dob, err := types.ParseDate("1775-12-16")
	require.NoError(t, err)

	created, err := repo.Create(ctx, &types.AuthorPayload{Name: "Jane Austen", Nationality: "British", DateOfBirth: dob, BookIds: []int64{bookId}})
	require.NoError(t, err)
	require.NotNil(t, created.DateOfBirth)
	assert.Equal(t, "1775-12-16", created.DateOfBirth.String())
	require.Len(t, created.Books, 1)
	assert.Equal(t, "Emma", created.Books[0].Title)

	updated, err := repo.Update(ctx, created.Id, &types.AuthorPayload{Name: "J. Austen"})
	require.NoError(t, err)
	assert.Equal(t, "J. Austen", updated.Name)
	assert.Nil(t, updated.DateOfBirth)
	assert.Empty(t, updated.BookIds)

	got, err := repo.GetById(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, "J. Austen", got.Name)

	require.NoError(t, repo.Delete(ctx, created.Id))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRESTRepository_Relations(t *testing.T) {
	repo, fb := setup(t)
	ctx := context.Background()

	authorId := fb.SeedAuthor(types.AuthorPayload{Name: "Ursula K. Le Guin"})
	b1 := fb.SeedBook(types.BookPayload{Isbn: "1", Title: "A Wizard of Earthsea", Category: "Fantasy", PublicationYear: 1968})
	b2 := fb.SeedBook(types.BookPayload{Isbn: "2", Title: "The Dispossessed", Category: "SF", PublicationYear: 1974})

	a, err := repo.AddBooks(ctx, authorId, b1, b2)
	require.NoError(t, err)
	assert.Equal(t, []int64{b1, b2}, a.BookIds)

	a, err = repo.RemoveBooks(ctx, authorId, b1)
	require.NoError(t, err)
	assert.Equal(t, []int64{b2}, a.BookIds)

	_, err = repo.AddBooks(ctx, authorId, 99)
	var re *rest.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, http.StatusNotFound, re.Status)
	assert.Equal(t, "Book not found with id: 99", re.Message)
}
