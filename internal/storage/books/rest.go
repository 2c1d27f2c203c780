package books

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"bookshelf/internal/storage/rest"
	"bookshelf/internal/types"
)

func NewRESTRepository(c *rest.Client, l *slog.Logger) Repository {
	return &restRepo{c: c, l: l}
}

type restRepo struct {
	c *rest.Client
	l *slog.Logger
}

func bookPath(id int64) string {
	return "/books/" + strconv.FormatInt(id, 10)
}

func (r *restRepo) GetAll(ctx context.Context) ([]*types.Book, error) {
	var rows []*types.Book

	err := r.c.Do(ctx, "list books", http.MethodGet, "/books", nil, &rows)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = make([]*types.Book, 0)
	}

	return rows, nil
}

func (r *restRepo) GetById(ctx context.Context, id int64) (*types.Book, error) {
	var row types.Book

	err := r.c.Do(ctx, "get book", http.MethodGet, bookPath(id), nil, &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) Create(ctx context.Context, book *types.BookPayload) (*types.Book, error) {
	var row types.Book

	err := r.c.Do(ctx, "create book", http.MethodPost, "/books", withIds(book), &row)
	if err != nil {
		return nil, err
	}

	r.l.DebugContext(ctx, "Created book "+strconv.FormatInt(row.Id, 10)+" ("+row.Title+")")
	return &row, nil
}

func (r *restRepo) Update(ctx context.Context, id int64, book *types.BookPayload) (*types.Book, error) {
	var row types.Book

	err := r.c.Do(ctx, "update book", http.MethodPut, bookPath(id), withIds(book), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) Delete(ctx context.Context, id int64) error {
	return r.c.Do(ctx, "delete book", http.MethodDelete, bookPath(id), nil, nil)
}

func (r *restRepo) AddAuthors(ctx context.Context, bookId int64, authorIds ...int64) (*types.Book, error) {
	var row types.Book

	err := r.c.Do(ctx, "add authors to book", http.MethodPost, bookPath(bookId)+"/authors", ids(authorIds), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) RemoveAuthors(ctx context.Context, bookId int64, authorIds ...int64) (*types.Book, error) {
	var row types.Book

	err := r.c.Do(ctx, "remove authors from book", http.MethodDelete, bookPath(bookId)+"/authors", ids(authorIds), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

// The backend expects arrays, never null
func ids(in []int64) []int64 {
	if in == nil {
		return make([]int64, 0)
	}

	return in
}

func withIds(book *types.BookPayload) *types.BookPayload {
	cp := *book
	cp.AuthorIds = ids(cp.AuthorIds)
	return &cp
}
