package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	return NewClient(srv.Client(), u, slog.New(slog.NewTextHandler(io.Discard, nil))), srv
}

func TestClient_Do_DecodesResponse(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotType string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		bs, _ := io.ReadAll(r.Body)
		gotBody = string(bs)
		_, _ = w.Write([]byte(`{"id":7,"title":"Dune"}`))
	})

	var out struct {
		Id    int64  `json:"id"`
		Title string `json:"title"`
	}
	err := c.Do(context.Background(), "create book", http.MethodPost, "/books", map[string]string{"title": "Dune"}, &out)

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/books", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.JSONEq(t, `{"title":"Dune"}`, gotBody)
	assert.Equal(t, int64(7), out.Id)
	assert.Equal(t, "Dune", out.Title)
}

func TestClient_Do_DeleteWithBody(t *testing.T) {
	var gotBody string

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		bs, _ := io.ReadAll(r.Body)
		gotBody = string(bs)
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Do(context.Background(), "remove authors", http.MethodDelete, "/books/1/authors", []int64{2, 3}, nil)

	require.NoError(t, err)
	assert.JSONEq(t, `[2,3]`, gotBody)
}

func TestClient_Do_NoContentKeepsTarget(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	out := map[string]string{"kept": "yes"}
	err := c.Do(context.Background(), "delete book", http.MethodDelete, "/books/1", nil, &out)

	require.NoError(t, err)
	assert.Equal(t, "yes", out["kept"])
}

func TestClient_Do_BackendError(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"api error", http.StatusNotFound, `{"status":404,"message":"Book not found with id: 9","timestamp":"2024-01-01T00:00:00"}`, "Book not found with id: 9"},
		{"validation map", http.StatusBadRequest, `{"title":"Title is required","isbn":"ISBN is required"}`, "isbn: ISBN is required, title: Title is required"},
		{"empty body", http.StatusInternalServerError, ``, ""},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := c.Do(context.Background(), "get book", http.MethodGet, "/books/9", nil, nil)

			var re *RequestError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, KindBackend, re.Kind)
			assert.Equal(t, tc.status, re.Status)
			assert.Equal(t, tc.message, re.Message)
			assert.Equal(t, tc.message, BackendMessage(err))
			assert.Equal(t, tc.status == http.StatusNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_Do_NetworkFailure(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := c.Do(context.Background(), "list books", http.MethodGet, "/books", nil, nil)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindNetwork, re.Kind)
	assert.Zero(t, re.Status)
	assert.Empty(t, BackendMessage(err))
	assert.Contains(t, err.Error(), "list books (GET /books): request failed")
}

func TestClient_Do_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, "list books", http.MethodGet, "/books", nil, nil)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindNetwork, re.Kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Do_DecodeFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"not a number"`))
	})

	var out struct {
		Id int64 `json:"id"`
	}
	err := c.Do(context.Background(), "get book", http.MethodGet, "/books/1", nil, &out)

	var re *RequestError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindDecode, re.Kind)
	assert.Equal(t, http.StatusOK, re.Status)
}

func TestClient_resolve(t *testing.T) {
	u, _ := url.Parse("http://backend:8080/api/")
	c := NewClient(nil, u, slog.Default())

	assert.Equal(t, "http://backend:8080/api/books/1", c.resolve("/books/1"))
	assert.Same(t, http.DefaultClient, c.HTTP)
}
