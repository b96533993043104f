package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/types"
)

type fakeAuthors struct {
	rows []types.Author
	err  error
}

func (f *fakeAuthors) GetAll(context.Context) ([]types.Author, error) { return f.rows, f.err }
func (f *fakeAuthors) Save(context.Context, ...types.Author) error    { return nil }

type fakeGenres struct {
	rows []types.Genre
}

func (f *fakeGenres) GetAll(context.Context) ([]types.Genre, error) { return f.rows, nil }
func (f *fakeGenres) Save(context.Context, ...types.Genre) error    { return nil }

type fakeBooks struct {
	rows     []*types.Book
	deadline bool
}

func (f *fakeBooks) GetAll(ctx context.Context) ([]*types.Book, error) {
	_, f.deadline = ctx.Deadline()
	return f.rows, nil
}
func (f *fakeBooks) Save(context.Context, ...*types.Book) error                 { return nil }
func (f *fakeBooks) LinkBookAndGenres(context.Context, string, ...string) error { return nil }

func TestSource_Load(t *testing.T) {
	bs := &fakeBooks{rows: []*types.Book{{Id: "1", Author: "a", Genres: []string{"g"}}}}
	src := &Source{
		Books:   bs,
		Authors: &fakeAuthors{rows: []types.Author{{Id: "a", Name: "A"}}},
		Genres:  &fakeGenres{rows: []types.Genre{{Id: "g", Name: "G"}}},
		Timeout: time.Second,
	}

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, data.Books, 1)
	assert.Len(t, data.Authors, 1)
	assert.Len(t, data.Genres, 1)
	assert.True(t, bs.deadline)
}

func TestSource_LoadError(t *testing.T) {
	src := &Source{
		Books:   &fakeBooks{},
		Authors: &fakeAuthors{err: errors.New("boom")},
		Genres:  &fakeGenres{},
	}

	_, err := src.Load(context.Background())
	assert.EqualError(t, err, "reading authors: boom")
}
