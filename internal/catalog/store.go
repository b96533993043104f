package catalog

import (
	"fmt"

	"bookshelf/internal/types"
)

// Store holds the immutable catalog. It is safe for concurrent reads.
type Store struct {
	books   []*types.Book
	byId    map[string]*types.Book
	authors []types.Author
	author  map[string]string
	genres  []types.Genre
	genre   map[string]string
}

// New builds a Store, checking that ids are unique and that every book
// references known authors and genres. Slices keep their order.
func New(books []*types.Book, authors []types.Author, genres []types.Genre) (*Store, error) {
	s := &Store{
		books:   make([]*types.Book, 0, len(books)),
		byId:    make(map[string]*types.Book, len(books)),
		authors: make([]types.Author, 0, len(authors)),
		author:  make(map[string]string, len(authors)),
		genres:  make([]types.Genre, 0, len(genres)),
		genre:   make(map[string]string, len(genres)),
	}

	for _, a := range authors {
		if _, ok := s.author[a.Id]; ok {
			return nil, &DuplicateError{Kind: KindAuthor, Id: a.Id}
		}
		s.author[a.Id] = a.Name
		s.authors = append(s.authors, a)
	}

	for _, g := range genres {
		if _, ok := s.genre[g.Id]; ok {
			return nil, &DuplicateError{Kind: KindGenre, Id: g.Id}
		}
		s.genre[g.Id] = g.Name
		s.genres = append(s.genres, g)
	}

	for i, b := range books {
		if b == nil {
			return nil, fmt.Errorf("book at position %d is missing", i)
		}

		if _, ok := s.byId[b.Id]; ok {
			return nil, &DuplicateError{Kind: KindBook, Id: b.Id}
		}

		if _, err := s.AuthorName(b.Author); err != nil {
			return nil, fmt.Errorf("book %s: %w", b.Id, err)
		}

		for _, g := range b.Genres {
			if _, err := s.GenreName(g); err != nil {
				return nil, fmt.Errorf("book %s: %w", b.Id, err)
			}
		}

		s.byId[b.Id] = b
		s.books = append(s.books, b)
	}

	return s, nil
}

// AllBooks returns the catalog in insertion order. Callers must not modify it.
func (s *Store) AllBooks() []*types.Book {
	return s.books
}

func (s *Store) AuthorName(authorId string) (string, error) {
	name, ok := s.author[authorId]
	if !ok {
		return "", &NotFoundError{Kind: KindAuthor, Id: authorId}
	}

	return name, nil
}

func (s *Store) GenreName(genreId string) (string, error) {
	name, ok := s.genre[genreId]
	if !ok {
		return "", &NotFoundError{Kind: KindGenre, Id: genreId}
	}

	return name, nil
}

func (s *Store) Book(id string) (*types.Book, error) {
	b, ok := s.byId[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindBook, Id: id}
	}

	return b, nil
}

func (s *Store) Authors() []types.Author {
	return s.authors
}

func (s *Store) Genres() []types.Genre {
	return s.genres
}
