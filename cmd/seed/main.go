package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strings"
	"time"

	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/joho/godotenv/autoload"

	"bookshelf/internal/catalog"
	"bookshelf/internal/crawler"
	"bookshelf/internal/logger"
	"bookshelf/internal/sources"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/genres"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	dbConnStr = os.Getenv("DATABASE_URL")
	timeout   = getEnvOrDefault("SEED_TIMEOUT", "10m")
	dryRun    = getBoolEnv("DRY_RUN")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	lvl, err := logger.ParseLevel(logLevel)
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), nil)

	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	if len(os.Args) != 2 {
		slog.Error("Usage: seed <file|opds>:<path>")
		os.Exit(1)
	}

	loc, err := sources.Parse(os.Args[1])
	if err == nil && loc.Kind == sources.KindPostgres {
		err = errors.New("cannot seed the database from itself")
	}
	if err != nil {
		slog.Error("Invalid source: " + err.Error())
		os.Exit(1)
	}

	d, err := time.ParseDuration(timeout)
	if err != nil {
		slog.Error("Invalid SEED_TIMEOUT: " + err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()

	if err := seed(ctx, loc); err != nil {
		slog.Error("Seeding failed: " + err.Error())
		cancel()
		os.Exit(1)
	}
}

func seed(ctx context.Context, loc sources.Location) error {
	l := slog.Default().With(slog.String("source", loc.String()))

	src, closeSrc, err := sources.Open(ctx, loc, "", l)
	if err != nil {
		return err
	}
	defer closeSrc()

	data, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	// refuse to store a catalog the server would refuse to load
	if _, err := catalog.New(data.Books, data.Authors, data.Genres); err != nil {
		return fmt.Errorf("checking catalog: %w", err)
	}

	if dryRun {
		return crawler.Replay(ctx, data, &crawler.LoggerConsumer{Logger: l})
	}

	pg, err := sources.Connect(ctx, dbConnStr, slog.Default())
	if err != nil {
		return err
	}
	defer pg.Close()

	if err := storage.Migrate(ctx, pg); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}

	consumer := crawler.StoringConsumer{
		Logger:  l,
		Books:   books.NewPGXRepository(pg, slog.Default()),
		Authors: authors.NewPGXRepository(pg, slog.Default()),
		Genres:  genres.NewPGXRepository(pg, slog.Default()),
	}

	if err := crawler.Replay(ctx, data, &consumer); err != nil {
		return fmt.Errorf("storing catalog: %w", err)
	}

	l.Info("Catalog seeded",
		slog.Int("books", len(data.Books)),
		slog.Int("authors", len(data.Authors)),
		slog.Int("genres", len(data.Genres)))

	return nil
}
