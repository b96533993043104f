package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"bookshelf/internal/types"
)

// Data is the raw reference data produced by a Source, before integrity checks.
type Data struct {
	Books   []*types.Book
	Authors []types.Author
	Genres  []types.Genre
}

type Source interface {
	Load(ctx context.Context) (*Data, error)
}

// Load reads the source and builds the Store. Any integrity error aborts loading.
func Load(ctx context.Context, src Source, l *slog.Logger) (*Store, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	s, err := New(data.Books, data.Authors, data.Genres)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}

	l.InfoContext(ctx, "Catalog loaded",
		slog.Int("books", len(s.books)),
		slog.Int("authors", len(s.authors)),
		slog.Int("genres", len(s.genres)))

	return s, nil
}
