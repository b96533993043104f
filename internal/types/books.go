package types

import "time"

type Author struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Genre struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author_id"`
	Genres      []string  `json:"genres"`
	Description string    `json:"description"`
	Image       string    `json:"image_url"`
	Published   time.Time `json:"published"`
}

// HasGenre reports whether genreId is one of the book genres
func (b *Book) HasGenre(genreId string) bool {
	for _, g := range b.Genres {
		if g == genreId {
			return true
		}
	}

	return false
}
