package browse

import (
	"fmt"

	"bookshelf/internal/types"
)

// Catalog is the read side of the catalog the views and the dispatcher need.
type Catalog interface {
	AllBooks() []*types.Book
	Book(id string) (*types.Book, error)
	AuthorName(authorId string) (string, error)
	GenreName(genreId string) (string, error)
	Authors() []types.Author
	Genres() []types.Genre
}

type Preview struct {
	Id     string `json:"id"`
	Title  string `json:"title"`
	Image  string `json:"image_url"`
	Author string `json:"author"`
}

type Detail struct {
	Book   *types.Book `json:"book"`
	Author string      `json:"author"`
	Year   int         `json:"year"`
}

// Subtitle renders as "Author Name (1965)".
func (d Detail) Subtitle() string {
	return fmt.Sprintf("%s (%d)", d.Author, d.Year)
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func Previews(cat Catalog, books []*types.Book) ([]Preview, error) {
	ret := make([]Preview, 0, len(books))
	for _, b := range books {
		name, err := cat.AuthorName(b.Author)
		if err != nil {
			return nil, err
		}

		ret = append(ret, Preview{Id: b.Id, Title: b.Title, Image: b.Image, Author: name})
	}

	return ret, nil
}

// DetailOf looks the book up in the whole catalog, not the current match set.
func DetailOf(cat Catalog, bookId string) (*Detail, error) {
	b, err := cat.Book(bookId)
	if err != nil {
		return nil, err
	}

	name, err := cat.AuthorName(b.Author)
	if err != nil {
		return nil, err
	}

	return &Detail{Book: b, Author: name, Year: b.Published.Year()}, nil
}

func AuthorOptions(cat Catalog) []Option {
	authors := cat.Authors()

	ret := make([]Option, 0, len(authors)+1)
	ret = append(ret, Option{Value: Any, Label: "All Authors"})
	for _, a := range authors {
		ret = append(ret, Option{Value: a.Id, Label: a.Name})
	}

	return ret
}

func GenreOptions(cat Catalog) []Option {
	genres := cat.Genres()

	ret := make([]Option, 0, len(genres)+1)
	ret = append(ret, Option{Value: Any, Label: "All Genres"})
	for _, g := range genres {
		ret = append(ret, Option{Value: g.Id, Label: g.Name})
	}

	return ret
}
