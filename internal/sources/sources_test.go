package sources

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/crawler"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Location
	}{
		{"file:catalog.yaml", Location{Kind: KindFile, Path: "catalog.yaml"}},
		{" opds:/srv/feed.xml ", Location{Kind: KindOPDS, Path: "/srv/feed.xml"}},
		{"postgres", Location{Kind: KindPostgres}},
		{"file:C:/data/catalog.json", Location{Kind: KindFile, Path: "C:/data/catalog.json"}},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := Parse(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	for _, bad := range []string{"", "file:", "opds", "http://example.com/feed"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := Parse(bad)
			assert.Error(t, err)
		})
	}
}

func TestLocation_String(t *testing.T) {
	assert.Equal(t, "postgres", Location{Kind: KindPostgres}.String())
	assert.Equal(t, "file:a.yaml", Location{Kind: KindFile, Path: "a.yaml"}.String())
}

func TestOpen(t *testing.T) {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))

	src, closeFn, err := Open(context.Background(), Location{Kind: KindOPDS, Path: "feed.xml"}, "", l)
	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &crawler.Feed{}, src)

	_, _, err = Open(context.Background(), Location{Kind: KindPostgres}, "", l)
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `
books:
  - {id: "1", title: Dune, author: a1, genres: [sf], published: "1965-08-01"}
authors:
  a1: Frank Herbert
genres:
  sf: Science Fiction
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	s, err := Load(context.Background(), Location{Kind: KindFile, Path: path}, "", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.Len(t, s.AllBooks(), 1)
}
