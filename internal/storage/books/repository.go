package books

import (
	"context"

	"bookshelf/internal/types"
)

type Repository interface {
	GetAll(ctx context.Context) ([]*types.Book, error)
	GetById(ctx context.Context, id int64) (*types.Book, error)

	Create(ctx context.Context, book *types.BookPayload) (*types.Book, error)
	Update(ctx context.Context, id int64, book *types.BookPayload) (*types.Book, error)
	Delete(ctx context.Context, id int64) error

	AddAuthors(ctx context.Context, bookId int64, authorIds ...int64) (*types.Book, error)
	// RemoveAuthors sends the ids as a body of DELETE request
	RemoveAuthors(ctx context.Context, bookId int64, authorIds ...int64) (*types.Book, error)
}
