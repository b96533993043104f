package books

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/types"
)

var (
	subGenres = goqu.Select(goqu.L("coalesce(array_agg(genre_id order by genre_order), '{}')")).
		From("book_genre").
		Where(goqu.C("book_id").Eq(goqu.C("id").Table("book")))
)

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxBook struct {
	Id          string    `db:"id"`
	Title       string    `db:"title"`
	AuthorId    string    `db:"author_id"`
	Description string    `db:"description"`
	ImageUrl    string    `db:"image_url"`
	Published   time.Time `db:"published"`
}

type pgxBookFull struct {
	Base   pgxBook  `db:""` // follow
	Genres []string `db:"genres"`
}

func (b *pgxBook) intoCommon(genres []string, l *slog.Logger, ctx context.Context) *types.Book {
	var u *url.URL
	if b.ImageUrl != "" {
		var err error
		u, err = url.Parse(b.ImageUrl)
		if err != nil {
			l.ErrorContext(ctx, "Failed to parse image URL stored in DB ("+b.ImageUrl+"): "+err.Error())
			u = nil
		}
	}

	us := ""
	if u != nil {
		us = u.String()
	}

	return &types.Book{
		Id:          b.Id,
		Title:       b.Title,
		Author:      b.AuthorId,
		Genres:      genres,
		Description: b.Description,
		Image:       us,
		Published:   b.Published,
	}
}

func (p *pgxRepo) GetAll(ctx context.Context) ([]*types.Book, error) {
	sql, params, err := p.g.From("book").
		Select(
			goqu.C("id").Table("book"),
			goqu.C("title"),
			goqu.C("author_id"),
			goqu.C("description"),
			goqu.C("image_url"),
			goqu.C("published"),
			subGenres.As("genres")).
		Order(goqu.C("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxBookFull

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]*types.Book, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, row.Base.intoCommon(row.Genres, p.l, ctx))
	}

	return ret, nil
}

func (p *pgxRepo) Save(ctx context.Context, books ...*types.Book) error {
	if len(books) == 0 {
		return nil
	}

	rows := make([]any, 0, len(books))
	for _, book := range books {
		rows = append(rows, pgxBook{
			Id:          book.Id,
			Title:       book.Title,
			AuthorId:    book.Author,
			Description: book.Description,
			ImageUrl:    book.Image,
			Published:   book.Published,
		})
	}

	sql, params, err := p.g.Insert("book").
		Rows(rows...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"title":       goqu.L("excluded.title"),
			"author_id":   goqu.L("excluded.author_id"),
			"description": goqu.L("excluded.description"),
			"image_url":   goqu.L("excluded.image_url"),
			"published":   goqu.L("excluded.published"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	if err != nil {
		return err
	}

	for _, book := range books {
		if err := p.LinkBookAndGenres(ctx, book.Id, book.Genres...); err != nil {
			return fmt.Errorf("linking genres of book %s: %w", book.Id, err)
		}
	}

	return nil
}

func (p *pgxRepo) LinkBookAndGenres(ctx context.Context, bookId string, genreIds ...string) error {
	sql, params, err := p.g.Delete("book_genre").
		Where(goqu.C("book_id").Eq(bookId)).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	if err != nil {
		return err
	}

	if len(genreIds) == 0 {
		return nil
	}

	type row struct {
		BookId     string `db:"book_id"`
		GenreId    string `db:"genre_id"`
		GenreOrder uint16 `db:"genre_order"`
	}

	rows := make([]any, 0, len(genreIds))

	for ix, genreId := range genreIds {
		rows = append(rows, row{
			BookId:     bookId,
			GenreId:    genreId,
			GenreOrder: uint16(ix + 1),
		})
	}

	sql, params, err = p.g.Insert("book_genre").
		Rows(rows...).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	return err
}
