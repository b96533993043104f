package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/types"
)

const yamlDoc = `
books:
  - id: "1"
    title: Dune
    author: a1
    genres: [sf]
    description: Desert planet
    image: https://example.com/dune.jpg
    published: "1965-08-01T00:00:00.000Z"
  - id: "2"
    title: Emma
    author: a2
    genres: [romance, classic]
    published: "1815-12-23"
authors:
  a2: Jane Austen
  a1: Frank Herbert
genres:
  sf: Science Fiction
  romance: Romance
  classic: Classic
`

func TestDecode(t *testing.T) {
	data, err := Decode(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	require.Len(t, data.Books, 2)
	assert.Equal(t, "Dune", data.Books[0].Title)
	assert.Equal(t, 1965, data.Books[0].Published.Year())
	assert.Equal(t, time.December, data.Books[1].Published.Month())
	assert.Equal(t, []string{"romance", "classic"}, data.Books[1].Genres)

	assert.Equal(t, []types.Author{
		{Id: "a2", Name: "Jane Austen"},
		{Id: "a1", Name: "Frank Herbert"},
	}, data.Authors)
	assert.Equal(t, "classic", data.Genres[2].Id)
}

func TestDecode_JSON(t *testing.T) {
	doc := `{"books":[{"id":"x","title":"T","author":"a","genres":["g"],"published":"2020-01-02"}],
		"authors":{"a":"A"},"genres":{"g":"G"}}`

	data, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	s, err := New(data.Books, data.Authors, data.Genres)
	require.NoError(t, err)
	assert.Len(t, s.AllBooks(), 1)
}

func TestDecode_Invalid(t *testing.T) {
	t.Run("missing title", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`books: [{id: "1", author: a, published: "2020-01-01"}]`))
		assert.ErrorContains(t, err, "validating catalog document")
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`books: [{id: "1", title: t, author: a, published: "yesterday"}]`))
		assert.ErrorContains(t, err, "invalid published date")
	})

	t.Run("authors not a mapping", func(t *testing.T) {
		_, err := Decode(strings.NewReader(`authors: [a, b]`))
		assert.ErrorContains(t, err, "expected a mapping")
	})

	t.Run("empty document", func(t *testing.T) {
		data, err := Decode(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, data.Books)
	})
}

func TestLoad_FileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	s, err := Load(context.Background(), FileSource{Path: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Len(t, s.AllBooks(), 2)
}

func TestLoad_DanglingReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(yamlDoc, "a1: Frank Herbert", "", 1)), 0o600))

	_, err := Load(context.Background(), FileSource{Path: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
