package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"bookshelf/internal/types"
)

var validate = validator.New()

type fileBook struct {
	Id          string   `yaml:"id" validate:"required"`
	Title       string   `yaml:"title" validate:"required"`
	Author      string   `yaml:"author" validate:"required"`
	Genres      []string `yaml:"genres" validate:"dive,required"`
	Description string   `yaml:"description"`
	Image       string   `yaml:"image" validate:"omitempty,uri"`
	Published   string   `yaml:"published" validate:"required"`
}

type fileDocument struct {
	Books   []fileBook `yaml:"books" validate:"dive"`
	Authors yaml.Node  `yaml:"authors"`
	Genres  yaml.Node  `yaml:"genres"`
}

// FileSource reads a YAML (or JSON) document of the form
//
//	books: [{id, title, author, genres, description, image, published}]
//	authors: {id: name}
//	genres: {id: name}
//
// Author and genre order follows the document.
type FileSource struct {
	Path string
}

func (f FileSource) Load(_ context.Context) (*Data, error) {
	fd, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = fd.Close()
	}()

	return Decode(fd)
}

func Decode(r io.Reader) (*Data, error) {
	var doc fileDocument

	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Data{}, nil
		}
		return nil, fmt.Errorf("decoding catalog document: %w", err)
	}

	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("validating catalog document: %w", err)
	}

	authors, err := namePairs(&doc.Authors)
	if err != nil {
		return nil, fmt.Errorf("authors: %w", err)
	}

	genres, err := namePairs(&doc.Genres)
	if err != nil {
		return nil, fmt.Errorf("genres: %w", err)
	}

	data := &Data{
		Books:   make([]*types.Book, 0, len(doc.Books)),
		Authors: make([]types.Author, 0, len(authors)),
		Genres:  make([]types.Genre, 0, len(genres)),
	}

	for _, p := range authors {
		data.Authors = append(data.Authors, types.Author{Id: p[0], Name: p[1]})
	}

	for _, p := range genres {
		data.Genres = append(data.Genres, types.Genre{Id: p[0], Name: p[1]})
	}

	for _, fb := range doc.Books {
		published, err := ParsePublished(fb.Published)
		if err != nil {
			return nil, fmt.Errorf("book %s: %w", fb.Id, err)
		}

		data.Books = append(data.Books, &types.Book{
			Id:          fb.Id,
			Title:       fb.Title,
			Author:      fb.Author,
			Genres:      fb.Genres,
			Description: fb.Description,
			Image:       fb.Image,
			Published:   published,
		})
	}

	return data, nil
}

var publishedLayouts = []string{time.RFC3339, time.DateOnly, "2006"}

// ParsePublished accepts RFC 3339 timestamps, bare dates and bare years.
func ParsePublished(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid published date %q", s)
}

func namePairs(n *yaml.Node) ([][2]string, error) {
	if n.Kind == 0 {
		return nil, nil
	}

	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of id to name", n.Line)
	}

	ret := make([][2]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: id and name must be scalars", k.Line)
		}

		ret = append(ret, [2]string{k.Value, v.Value})
	}

	return ret, nil
}
