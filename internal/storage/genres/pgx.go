package genres

import (
	"context"
	"log/slog"

	"github.com/doug-martin/goqu/v9"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookshelf/internal/types"
)

func NewPGXRepository(pg *pgxpool.Pool, l *slog.Logger) Repository {
	return &pgxRepo{pg: pg, g: goqu.Dialect("postgres"), l: l}
}

type pgxRepo struct {
	pg *pgxpool.Pool
	g  goqu.DialectWrapper
	l  *slog.Logger
}

type pgxGenre struct {
	Id   string `db:"id"`
	Name string `db:"name"`
}

func (p *pgxRepo) GetAll(ctx context.Context) ([]types.Genre, error) {
	sql, params, err := p.g.From("genre").
		Select("id", "name").
		Order(goqu.C("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []pgxGenre

	err = pgxscan.Select(ctx, p.pg, &rows, sql, params...)
	if err != nil {
		return nil, err
	}

	ret := make([]types.Genre, 0, len(rows))
	for _, row := range rows {
		ret = append(ret, types.Genre{Id: row.Id, Name: row.Name})
	}

	return ret, nil
}

func (p *pgxRepo) Save(ctx context.Context, genres ...types.Genre) error {
	if len(genres) == 0 {
		return nil
	}

	vals := make([][]any, 0, len(genres))
	for _, genre := range genres {
		vals = append(vals, []any{genre.Id, genre.Name})
	}

	sql, params, err := p.g.Insert("genre").
		Cols("id", "name").
		Vals(vals...).
		OnConflict(goqu.DoUpdate("id", map[string]any{
			"name": goqu.L("excluded.name"),
		})).
		ToSQL()
	if err != nil {
		return err
	}

	_, err = p.pg.Exec(ctx, sql, params...)
	if err == nil {
		p.l.DebugContext(ctx, "Saved genres", slog.Int("count", len(genres)))
	}

	return err
}
