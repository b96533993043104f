package crawler

import (
	"context"
	"log/slog"

	"bookshelf/internal/catalog"
	"bookshelf/internal/storage/authors"
	"bookshelf/internal/storage/books"
	"bookshelf/internal/storage/genres"
	"bookshelf/internal/types"
)

// Consumer receives catalog records. Authors and genres are always consumed
// before the first book that references them.
type Consumer interface {
	ConsumeAuthor(ctx context.Context, author *types.Author) error
	ConsumeGenre(ctx context.Context, genre *types.Genre) error
	ConsumeBooks(ctx context.Context, books []*types.Book) error
}

// Replay feeds already loaded catalog data to consumer, keeping that ordering.
func Replay(ctx context.Context, data *catalog.Data, consumer Consumer) error {
	for i := range data.Authors {
		if err := consumer.ConsumeAuthor(ctx, &data.Authors[i]); err != nil {
			return err
		}
	}

	for i := range data.Genres {
		if err := consumer.ConsumeGenre(ctx, &data.Genres[i]); err != nil {
			return err
		}
	}

	if len(data.Books) == 0 {
		return nil
	}

	return consumer.ConsumeBooks(ctx, data.Books)
}

type LoggerConsumer struct {
	Logger *slog.Logger
}

func (c *LoggerConsumer) ConsumeAuthor(_ context.Context, author *types.Author) error {
	c.Logger.Info("Consumed author " + author.Id + " (" + author.Name + ")")
	return nil
}

func (c *LoggerConsumer) ConsumeGenre(_ context.Context, genre *types.Genre) error {
	c.Logger.Info("Consumed genre " + genre.Id + " (" + genre.Name + ")")
	return nil
}

func (c *LoggerConsumer) ConsumeBooks(_ context.Context, books []*types.Book) error {
	for _, b := range books {
		c.Logger.Info("Consumed book " + b.Id + " (" + b.Title + ") by author " + b.Author)
	}

	return nil
}

// CollectingConsumer accumulates records in memory, in consumption order.
type CollectingConsumer struct {
	Data catalog.Data
}

func (c *CollectingConsumer) ConsumeAuthor(_ context.Context, author *types.Author) error {
	c.Data.Authors = append(c.Data.Authors, *author)
	return nil
}

func (c *CollectingConsumer) ConsumeGenre(_ context.Context, genre *types.Genre) error {
	c.Data.Genres = append(c.Data.Genres, *genre)
	return nil
}

func (c *CollectingConsumer) ConsumeBooks(_ context.Context, books []*types.Book) error {
	c.Data.Books = append(c.Data.Books, books...)
	return nil
}

type StoringConsumer struct {
	Logger  *slog.Logger
	Books   books.Repository
	Authors authors.Repository
	Genres  genres.Repository
}

func (s *StoringConsumer) ConsumeAuthor(ctx context.Context, author *types.Author) error {
	return s.Authors.Save(ctx, *author)
}

func (s *StoringConsumer) ConsumeGenre(ctx context.Context, genre *types.Genre) error {
	return s.Genres.Save(ctx, *genre)
}

func (s *StoringConsumer) ConsumeBooks(ctx context.Context, books []*types.Book) error {
	err := s.Books.Save(ctx, books...)
	if err == nil {
		s.Logger.InfoContext(ctx, "Stored books", slog.Int("count", len(books)))
	}

	return err
}
