package authors

import (
	"context"

	"bookshelf/internal/types"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*types.Author, error)
	GetById(ctx context.Context, id int64) (*types.Author, error)

	Create(ctx context.Context, author *types.AuthorPayload) (*types.Author, error)
	Update(ctx context.Context, id int64, author *types.AuthorPayload) (*types.Author, error)
	Delete(ctx context.Context, id int64) error

	AddBooks(ctx context.Context, authorId int64, bookIds ...int64) (*types.Author, error)
	// RemoveBooks sends the ids as a body of DELETE request
	RemoveBooks(ctx context.Context, authorId int64, bookIds ...int64) (*types.Author, error)
}
