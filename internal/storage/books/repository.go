package books

import (
	"context"

	"bookshelf/internal/types"
)

type Repository interface {
	// GetAll returns every book with its genres, in the order books were first saved
	GetAll(ctx context.Context) ([]*types.Book, error)

	// Save upserts the books and replaces their genre links
	Save(ctx context.Context, books ...*types.Book) error

	LinkBookAndGenres(ctx context.Context, bookId string, genreIds ...string) error
}
