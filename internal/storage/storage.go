// Package storage reads and writes the catalog reference data in PostgreSQL.
package storage

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"bookshelf/internal/catalog"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/genres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, pg *pgxpool.Pool) error {
	db := stdlib.OpenDBFromPool(pg)
	defer func() {
		_ = db.Close()
	}()

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, "migrations")
}

// Source loads the catalog from the database. It implements catalog.Source.
type Source struct {
	Books   books.Repository
	Authors authors.Repository
	Genres  genres.Repository
	Timeout time.Duration
}

func NewSource(pg *pgxpool.Pool, l *slog.Logger) *Source {
	return &Source{
		Books:   books.NewPGXRepository(pg, l),
		Authors: authors.NewPGXRepository(pg, l),
		Genres:  genres.NewPGXRepository(pg, l),
		Timeout: 30 * time.Second,
	}
}

func (s *Source) Load(ctx context.Context) (*catalog.Data, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	as, err := s.Authors.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading authors: %w", err)
	}

	gs, err := s.Genres.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading genres: %w", err)
	}

	bs, err := s.Books.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading books: %w", err)
	}

	return &catalog.Data{Books: bs, Authors: as, Genres: gs}, nil
}
