// Package sources turns a CATALOG_SOURCE value into a catalog.Source.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/catalog"
	"bookshelf/internal/crawler"
	"bookshelf/internal/logger"
	"bookshelf/internal/storage"
)

type Kind string

const (
	KindFile     Kind = "file"
	KindOPDS     Kind = "opds"
	KindPostgres Kind = "postgres"
)

// Location is a parsed source description: file:<path>, opds:<path> or postgres.
type Location struct {
	Kind Kind
	Path string
}

func (s Location) String() string {
	if s.Path == "" {
		return string(s.Kind)
	}

	return string(s.Kind) + ":" + s.Path
}

func Parse(s string) (Location, error) {
	s = strings.TrimSpace(s)
	kind, path, _ := strings.Cut(s, ":")

	switch Kind(kind) {
	case KindFile, KindOPDS:
		if path == "" {
			return Location{}, fmt.Errorf("catalog source %q needs a path", s)
		}
		return Location{Kind: Kind(kind), Path: path}, nil
	case KindPostgres:
		return Location{Kind: KindPostgres}, nil
	}

	return Location{}, fmt.Errorf("unknown catalog source %q, one of file:<path>, opds:<path> or postgres expected", s)
}

// Connect opens a pool whose queries are logged through l.
func Connect(ctx context.Context, dbConnStr string, l *slog.Logger) (*pgxpool.Pool, error) {
	if dbConnStr == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	cfg, err := pgxpool.ParseConfig(dbConnStr)
	if err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	cfg.ConnConfig.Tracer = logger.NewPGXTracer(l)

	pg, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}

	return pg, nil
}

// Open returns the source described by loc. The returned func releases
// whatever the source holds and must be called once loading is done.
func Open(ctx context.Context, loc Location, dbConnStr string, l *slog.Logger) (catalog.Source, func(), error) {
	switch loc.Kind {
	case KindFile:
		return catalog.FileSource{Path: loc.Path}, func() {}, nil

	case KindOPDS:
		return &crawler.Feed{Path: loc.Path, Logger: l}, func() {}, nil

	case KindPostgres:
		pg, err := Connect(ctx, dbConnStr, l)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSource(pg, l), pg.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown catalog source kind %q", loc.Kind)
}

// Load opens loc, loads the catalog and releases the source.
func Load(ctx context.Context, loc Location, dbConnStr string, l *slog.Logger) (*catalog.Store, error) {
	src, closeFn, err := Open(ctx, loc, dbConnStr, l)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return catalog.Load(ctx, src, l.With(slog.String("source", loc.String())))
}
