package authors_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/notify"
	authorstore "bookshelf/internal/storage/authors"
	bookstore "bookshelf/internal/storage/books"
	"bookshelf/internal/storage/fakebackend"
	"bookshelf/internal/storage/rest"
	"bookshelf/internal/types"
	"bookshelf/internal/views/authors"
	"bookshelf/internal/views/confirm"
	"bookshelf/internal/views/form"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *recorder) Notify(kind notify.Kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, string(kind)+": "+message)
}

func (r *recorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.messages...)
}

func setup(t *testing.T) (*authors.ViewModel, *fakebackend.Backend, *recorder, *confirm.Dialog) {
	fb := fakebackend.New()
	srv := httptest.NewServer(fb.Handler())
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := rest.NewClient(srv.Client(), u, l)

	rec := &recorder{}
	d := &confirm.Dialog{}
	vm := authors.New(authorstore.NewRESTRepository(c, l), bookstore.NewRESTRepository(c, l), rec, d, l)

	return vm, fb, rec, d
}

func date(s string) *types.Date {
	d, err := types.ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

func mutations(calls []string) []string {
	ret := make([]string, 0)
	for _, c := range calls {
		if !strings.HasPrefix(c, http.MethodGet+" ") {
			ret = append(ret, c)
		}
	}

	return ret
}

func TestViewModel_InitAndRows(t *testing.T) {
	vm, fb, rec, _ := setup(t)

	bookId := fb.SeedBook(types.BookPayload{Isbn: "1", Title: "Emma", Category: "Fiction", PublicationYear: 1815})
	fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen", Nationality: "British", DateOfBirth: date("1775-12-16"),
		BookIds: []int64{bookId}})
	fb.SeedAuthor(types.AuthorPayload{Name: "Anonymous"})

	require.NoError(t, vm.Init(context.Background()))

	v := vm.View()
	require.Len(t, v.Rows, 2)
	assert.Equal(t, "Jane Austen", v.Rows[0].Author.Name)
	assert.Equal(t, "Emma", v.Rows[0].BookTitles)
	assert.Equal(t, "Dec 16, 1775", v.Rows[0].DateOfBirth)
	assert.Equal(t, "N/A", v.Rows[1].DateOfBirth)
	assert.Empty(t, v.Rows[1].BookTitles)
	require.Len(t, v.Books, 1)
	assert.Empty(t, rec.all())
}

func TestViewModel_CreateAndUpdate(t *testing.T) {
	vm, fb, rec, _ := setup(t)
	ctx := context.Background()

	bookId := fb.SeedBook(types.BookPayload{Isbn: "1", Title: "Solaris", Category: "Fiction", PublicationYear: 1961})
	require.NoError(t, vm.Init(ctx))

	vm.OpenCreate()
	assert.Equal(t, "Add Author", vm.View().Form.Title)

	require.NoError(t, vm.Save(ctx, form.Author{Name: "Stanislaw Lem", Nationality: "Polish", DateOfBirth: "1921-09-12",
		BookIds: []int64{bookId}}))

	v := vm.View()
	assert.False(t, v.Form.Open)
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Solaris", v.Rows[0].BookTitles)
	assert.Equal(t, "Sep 12, 1921", v.Rows[0].DateOfBirth)

	id := v.Rows[0].Author.Id
	require.NoError(t, vm.OpenEdit(ctx, id))

	v = vm.View()
	assert.Equal(t, "Edit Author", v.Form.Title)
	assert.Equal(t, "1921-09-12", v.Form.Values.DateOfBirth)
	assert.Equal(t, []int64{bookId}, v.Form.Values.BookIds)

	values := v.Form.Values
	values.DateOfBirth = ""
	values.BookIds = nil
	require.NoError(t, vm.Save(ctx, values))

	v = vm.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "N/A", v.Rows[0].DateOfBirth)
	assert.Empty(t, v.Rows[0].BookTitles)

	assert.Equal(t, []string{"POST /authors", "PUT /authors/1"}, mutations(fb.Calls()))
	assert.Equal(t, []string{"success: Author created successfully", "success: Author updated successfully"}, rec.all())
}

func TestViewModel_ValidationMakesNoCall(t *testing.T) {
	tests := []struct {
		name    string
		values  form.Author
		message string
	}{
		{"no name", form.Author{Nationality: "British"}, "Name is required"},
		{"bad date", form.Author{Name: "X", DateOfBirth: "16/12/1775"}, "Date of birth must be a valid date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm, fb, rec, _ := setup(t)

			vm.OpenCreate()
			assert.Error(t, vm.Save(context.Background(), tt.values))
			assert.Empty(t, fb.Calls())
			assert.Equal(t, []string{"danger: " + tt.message}, rec.all())
			assert.True(t, vm.View().Form.Open)
		})
	}
}

func TestViewModel_EditCancel(t *testing.T) {
	vm, fb, rec, _ := setup(t)
	ctx := context.Background()

	id := fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen"})
	require.NoError(t, vm.Init(ctx))

	require.NoError(t, vm.OpenEdit(ctx, id))
	vm.Cancel()

	assert.False(t, vm.View().Form.Open)
	assert.Empty(t, mutations(fb.Calls()))
	assert.Empty(t, rec.all())

	assert.Error(t, vm.OpenEdit(ctx, 42))
	assert.False(t, vm.View().Form.Open)
	assert.Equal(t, []string{"danger: Error loading author details"}, rec.all())
}

func TestViewModel_Delete(t *testing.T) {
	vm, fb, rec, d := setup(t)
	ctx := context.Background()

	id := fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen"})
	fb.SeedAuthor(types.AuthorPayload{Name: "Leo Tolstoy"})
	require.NoError(t, vm.Init(ctx))
	require.NoError(t, vm.ShowDetails(ctx, id))

	require.True(t, vm.RequestDelete(id))
	assert.Equal(t, `Are you sure you want to delete the author "Jane Austen"?`, d.State().Message)
	require.True(t, d.Confirm(ctx))

	v := vm.View()
	require.Len(t, v.Rows, 1)
	assert.Equal(t, "Leo Tolstoy", v.Rows[0].Author.Name)
	assert.Nil(t, v.Details)
	assert.Equal(t, []string{"success: Author deleted successfully"}, rec.all())
}

func TestViewModel_SecondRequestReplacesPendingDelete(t *testing.T) {
	vm, fb, _, d := setup(t)
	ctx := context.Background()

	first := fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen"})
	second := fb.SeedAuthor(types.AuthorPayload{Name: "Leo Tolstoy"})
	require.NoError(t, vm.Init(ctx))

	require.True(t, vm.RequestDelete(first))
	require.True(t, vm.RequestDelete(second))
	require.True(t, d.Confirm(ctx))

	assert.Equal(t, []string{"DELETE /authors/2"}, mutations(fb.Calls()))
	require.Len(t, vm.View().Rows, 1)
	assert.Equal(t, "Jane Austen", vm.View().Rows[0].Author.Name)
}

func TestViewModel_LoadFailureKeepsState(t *testing.T) {
	vm, fb, rec, _ := setup(t)
	ctx := context.Background()

	fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen"})
	require.NoError(t, vm.Init(ctx))

	fb.FailWith(http.StatusInternalServerError, "boom")
	assert.Error(t, vm.Refresh(ctx))

	assert.Len(t, vm.View().Rows, 1)
	assert.ElementsMatch(t, []string{"danger: Error loading authors", "danger: Error loading books"}, rec.all())
}

func TestViewModel_Search(t *testing.T) {
	vm, fb, _, _ := setup(t)
	ctx := context.Background()

	fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen", Nationality: "British"})
	fb.SeedAuthor(types.AuthorPayload{Name: "Leo Tolstoy", Nationality: "Russian"})
	fb.SeedAuthor(types.AuthorPayload{Name: "Homer"})
	require.NoError(t, vm.Init(ctx))

	names := func() []string {
		ret := make([]string, 0)
		for _, r := range vm.View().Rows {
			ret = append(ret, r.Author.Name)
		}
		return ret
	}

	vm.Search("russ")
	assert.Equal(t, []string{"Leo Tolstoy"}, names())

	vm.Search("JANE")
	assert.Equal(t, []string{"Jane Austen"}, names())

	vm.Search("o")
	assert.Equal(t, []string{"Leo Tolstoy", "Homer"}, names())

	vm.Search("nobody")
	assert.Empty(t, names())
	assert.True(t, vm.View().NoResults)

	vm.Search("")
	assert.Len(t, names(), 3)
	assert.False(t, vm.View().NoResults)
}

func TestViewModel_Relations(t *testing.T) {
	vm, fb, rec, _ := setup(t)
	ctx := context.Background()

	b1 := fb.SeedBook(types.BookPayload{Isbn: "1", Title: "Emma", Category: "Fiction", PublicationYear: 1815})
	b2 := fb.SeedBook(types.BookPayload{Isbn: "2", Title: "Persuasion", Category: "Fiction", PublicationYear: 1817})
	id := fb.SeedAuthor(types.AuthorPayload{Name: "Jane Austen", DateOfBirth: date("1775-12-16")})
	require.NoError(t, vm.Init(ctx))
	require.NoError(t, vm.ShowDetails(ctx, id))
	assert.Equal(t, "Dec 16, 1775", vm.View().DetailsDateOfBirth)

	require.NoError(t, vm.AttachBooks(ctx, id, b1, b2))
	v := vm.View()
	assert.Equal(t, "Emma, Persuasion", v.Rows[0].BookTitles)
	assert.Len(t, v.Details.Books, 2)

	require.NoError(t, vm.DetachBooks(ctx, id, b1))
	assert.Equal(t, "Persuasion", vm.View().Rows[0].BookTitles)

	assert.Equal(t, []string{"success: Books added to author", "success: Books removed from author"}, rec.all())
}

func TestViewModel_NetworkFailure(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	u, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)

	c := rest.NewClient(&http.Client{Timeout: time.Second}, u, l)
	rec := &recorder{}
	vm := authors.New(authorstore.NewRESTRepository(c, l), bookstore.NewRESTRepository(c, l), rec, &confirm.Dialog{}, l)

	vm.OpenCreate()
	err = vm.Save(context.Background(), form.Author{Name: "Jane Austen"})

	var re *rest.RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, rest.KindNetwork, re.Kind)
	assert.Equal(t, []string{"danger: Error: Failed to save author"}, rec.all())
	assert.True(t, vm.View().Form.Open)
}
