package authors

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

func authorPath(id int64) string {
	return "/authors/" + strconv.FormatInt(id, 10)
}

func (r *restRepo) GetAll(ctx context.Context) ([]*types.Author, error) {
	var rows []*types.Author

	err := r.c.Do(ctx, "list authors", http.MethodGet, "/authors", nil, &rows)
	if err != nil {
		return nil, err
	}

	if rows == nil {
		rows = make([]*types.Author, 0)
	}

	return rows, nil
}

func (r *restRepo) GetById(ctx context.Context, id int64) (*types.Author, error) {
	var row types.Author

	err := r.c.Do(ctx, "get author", http.MethodGet, authorPath(id), nil, &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) Create(ctx context.Context, author *types.AuthorPayload) (*types.Author, error) {
	var row types.Author

	err := r.c.Do(ctx, "create author", http.MethodPost, "/authors", withIds(author), &row)
	if err != nil {
		return nil, err
	}

	r.l.DebugContext(ctx, "Created author "+strconv.FormatInt(row.Id, 10)+" ("+row.Name+")")
	return &row, nil
}

func (r *restRepo) Update(ctx context.Context, id int64, author *types.AuthorPayload) (*types.Author, error) {
	var row types.Author

	err := r.c.Do(ctx, "update author", http.MethodPut, authorPath(id), withIds(author), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) Delete(ctx context.Context, id int64) error {
	return r.c.Do(ctx, "delete author", http.MethodDelete, authorPath(id), nil, nil)
}

func (r *restRepo) AddBooks(ctx context.Context, authorId int64, bookIds ...int64) (*types.Author, error) {
	var row types.Author

	err := r.c.Do(ctx, "add books to author", http.MethodPost, authorPath(authorId)+"/books", ids(bookIds), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func (r *restRepo) RemoveBooks(ctx context.Context, authorId int64, bookIds ...int64) (*types.Author, error) {
	var row types.Author

	err := r.c.Do(ctx, "remove books from author", http.MethodDelete, authorPath(authorId)+"/books", ids(bookIds), &row)
	if err != nil {
		return nil, err
	}

	return &row, nil
}

func ids(in []int64) []int64 {
	if in == nil {
		return make([]int64, 0)
	}

	return in
}

func withIds(author *types.AuthorPayload) *types.AuthorPayload {
	cp := *author
	cp.BookIds = ids(cp.BookIds)
	return &cp
}
