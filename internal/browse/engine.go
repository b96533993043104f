// Package browse filters and paginates the catalog. All functions are pure:
// they never modify the slices they are given and keep catalog order.
package browse

import (
	"strings"

	"bookshelf/internal/types"
)

// Any matches every author or genre.
const Any = "any"

// DefaultPageSize is the number of books revealed per page.
const DefaultPageSize = 36

type Criteria struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

// AllCriteria matches the whole catalog.
func AllCriteria() Criteria {
	return Criteria{Author: Any, Genre: Any}
}

// Normalize trims author and genre and turns blank ones into Any.
func (c Criteria) Normalize() Criteria {
	c.Author = strings.TrimSpace(c.Author)
	if c.Author == "" {
		c.Author = Any
	}
	c.Genre = strings.TrimSpace(c.Genre)
	if c.Genre == "" {
		c.Genre = Any
	}

	return c
}

func (c Criteria) Match(b *types.Book) bool {
	if c.Genre != Any && !b.HasGenre(c.Genre) {
		return false
	}

	if strings.TrimSpace(c.Title) != "" &&
		!strings.Contains(strings.ToLower(b.Title), strings.ToLower(c.Title)) {
		return false
	}

	return c.Author == Any || b.Author == c.Author
}

// ApplyFilters returns the books matching c in their original order.
// The result is never nil, so an empty match set encodes as [].
func ApplyFilters(books []*types.Book, c Criteria) []*types.Book {
	ret := make([]*types.Book, 0, len(books))
	for _, b := range books {
		if c.Match(b) {
			ret = append(ret, b)
		}
	}

	return ret
}

// GetPage returns matches[(cursor-1)*pageSize : cursor*pageSize], clamped to
// the available items.
func GetPage(matches []*types.Book, cursor, pageSize int) []*types.Book {
	if cursor < 1 || pageSize < 1 {
		return []*types.Book{}
	}

	return window(matches, revealed(len(matches), cursor-1, pageSize), revealed(len(matches), cursor, pageSize))
}

// Visible returns every item revealed so far, i.e. pages 1..cursor.
func Visible(matches []*types.Book, cursor, pageSize int) []*types.Book {
	if cursor < 1 || pageSize < 1 {
		return []*types.Book{}
	}

	return window(matches, 0, revealed(len(matches), cursor, pageSize))
}

func RemainingCount(matches []*types.Book, cursor, pageSize int) int {
	return len(matches) - revealed(len(matches), cursor, pageSize)
}

func HasMore(matches []*types.Book, cursor, pageSize int) bool {
	return RemainingCount(matches, cursor, pageSize) > 0
}

// revealed is min(cursor*pageSize, n) without overflowing for huge cursors.
func revealed(n, cursor, pageSize int) int {
	if cursor < 1 || pageSize < 1 {
		return 0
	}
	if cursor > n/pageSize {
		return n
	}

	return cursor * pageSize
}

func window(matches []*types.Book, from, to int) []*types.Book {
	from = min(from, len(matches))
	to = min(to, len(matches))
	if from >= to {
		return []*types.Book{}
	}

	return matches[from:to:to]
}
