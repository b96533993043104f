package browse

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf/internal/types"
)

func twoBooks() []*types.Book {
	return []*types.Book{
		{Id: "1", Title: "Dune", Author: "a1", Genres: []string{"sf"}},
		{Id: "2", Title: "Emma", Author: "a2", Genres: []string{"romance"}},
	}
}

func numbered(n int) []*types.Book {
	ret := make([]*types.Book, 0, n)
	for i := 1; i <= n; i++ {
		ret = append(ret, &types.Book{Id: fmt.Sprint(i), Title: fmt.Sprintf("Book %d", i), Author: "a"})
	}
	return ret
}

func TestApplyFilters(t *testing.T) {
	books := []*types.Book{
		{Id: "1", Title: "Dune", Author: "a1", Genres: []string{"sf"}},
		{Id: "2", Title: "Emma", Author: "a2", Genres: []string{"romance"}},
		{Id: "3", Title: "Dune Messiah", Author: "a1", Genres: []string{"sf", "classic"}},
		{Id: "4", Title: "Persuasion", Author: "a2", Genres: []string{"romance", "classic"}},
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no filter", AllCriteria(), []string{"1", "2", "3", "4"}},
		{"genre", Criteria{Genre: "sf", Author: Any}, []string{"1", "3"}},
		{"author", Criteria{Genre: Any, Author: "a2"}, []string{"2", "4"}},
		{"title case insensitive", Criteria{Title: "DUNE", Genre: Any, Author: Any}, []string{"1", "3"}},
		{"blank title matches all", Criteria{Title: "   ", Genre: Any, Author: Any}, []string{"1", "2", "3", "4"}},
		{"all three", Criteria{Title: "mess", Genre: "classic", Author: "a1"}, []string{"3"}},
		{"genre and author disjoint", Criteria{Genre: "sf", Author: "a2"}, []string{}},
		{"unknown genre", Criteria{Genre: "horror", Author: Any}, []string{}},
		{"query is not trimmed for matching", Criteria{Title: " dune", Genre: Any, Author: Any}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(books, tt.criteria)

			ids := make([]string, 0, len(got))
			for _, b := range got {
				ids = append(ids, b.Id)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestApplyFilters_Scenario(t *testing.T) {
	books := twoBooks()

	got := ApplyFilters(books, Criteria{Genre: "sf", Author: Any, Title: ""})

	assert.Equal(t, []*types.Book{books[0]}, got)
}

func TestApplyFilters_Idempotent(t *testing.T) {
	books := numbered(10)
	c := Criteria{Title: "1", Genre: Any, Author: Any}

	first := ApplyFilters(books, c)
	assert.Equal(t, first, ApplyFilters(books, c))
	assert.Equal(t, first, ApplyFilters(first, c))
}

func TestApplyFilters_EmptyIsNotNil(t *testing.T) {
	got := ApplyFilters(nil, AllCriteria())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGetPage(t *testing.T) {
	books := numbered(5)

	assert.Equal(t, books[:2], GetPage(books, 1, 2))
	assert.Equal(t, books[2:4], GetPage(books, 2, 2))
	assert.Equal(t, books[4:], GetPage(books, 3, 2))
	assert.Empty(t, GetPage(books, 4, 2))
	assert.Empty(t, GetPage(books, 0, 2))
	assert.Empty(t, GetPage(books, 1, 0))
	assert.Equal(t, books, GetPage(books, 1, 36))
}

func TestGetPage_Scenario(t *testing.T) {
	matches := twoBooks()

	assert.Equal(t, []*types.Book{matches[1]}, GetPage(matches, 2, 1))
	assert.Equal(t, 0, RemainingCount(matches, 2, 1))
}

func TestEmptyMatches(t *testing.T) {
	for cursor := 1; cursor < 4; cursor++ {
		assert.Empty(t, GetPage(nil, cursor, 36))
		assert.Equal(t, 0, RemainingCount(nil, cursor, 36))
		assert.False(t, HasMore(nil, cursor, 36))
	}
}

func TestRemainingCount_Monotonic(t *testing.T) {
	books := numbered(100)

	prev := len(books)
	for cursor := 1; cursor < 6; cursor++ {
		r := RemainingCount(books, cursor, 36)
		assert.GreaterOrEqual(t, r, 0)
		assert.LessOrEqual(t, r, prev)
		prev = r
	}

	assert.Equal(t, 64, RemainingCount(books, 1, 36))
	assert.Equal(t, 28, RemainingCount(books, 2, 36))
	assert.Equal(t, 0, RemainingCount(books, 3, 36))
}

func TestVisible(t *testing.T) {
	books := numbered(5)

	assert.Equal(t, books[:2], Visible(books, 1, 2))
	assert.Equal(t, books[:4], Visible(books, 2, 2))
	assert.Equal(t, books, Visible(books, 9, 2))
}

func TestGetPage_DoesNotAliasAppend(t *testing.T) {
	books := numbered(4)

	page := GetPage(books, 1, 2)
	_ = append(page, &types.Book{Id: "x"})

	assert.Equal(t, "3", books[2].Id)
}

func TestPagination_HugeCursor(t *testing.T) {
	books := numbered(5)

	cases := []struct {
		name     string
		cursor   int
		pageSize int
	}{
		{"max int, default page", math.MaxInt, DefaultPageSize},
		{"max int, page of one", math.MaxInt, 1},
		{"1<<62, page of four", 1 << 62, 4},
		{"1<<62+1, page of four", 1<<62 + 1, 4},
		{"product wraps to zero", 1 << 61, 8},
		{"both huge", math.MaxInt, math.MaxInt},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Empty(t, GetPage(books, c.cursor, c.pageSize))
				assert.Equal(t, books, Visible(books, c.cursor, c.pageSize))
			})
			assert.Equal(t, 0, RemainingCount(books, c.cursor, c.pageSize))
			assert.False(t, HasMore(books, c.cursor, c.pageSize))
		})
	}
}

func TestRemainingCount_Bounds(t *testing.T) {
	books := numbered(5)

	for _, cursor := range []int{math.MinInt, -1, 0, 1, 2, 5, 1 << 40, math.MaxInt} {
		r := RemainingCount(books, cursor, 2)
		assert.GreaterOrEqual(t, r, 0, "cursor %d", cursor)
		assert.LessOrEqual(t, r, len(books), "cursor %d", cursor)
	}
}

func TestCriteria_NormalizeTrims(t *testing.T) {
	c := Criteria{Title: " du", Author: " a1 ", Genre: "\tsf\n"}.Normalize()
	assert.Equal(t, Criteria{Title: " du", Author: "a1", Genre: "sf"}, c)

	assert.Equal(t, AllCriteria(), Criteria{Author: "  ", Genre: ""}.Normalize())
}
