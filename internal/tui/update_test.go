package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/browse"
	"bookshelf/internal/catalog"
	"bookshelf/internal/types"
)

func testCatalog(t *testing.T) *catalog.Store {
	t.Helper()

	s, err := catalog.New(
		[]*types.Book{
			{Id: "1", Title: "Dune", Author: "herbert", Genres: []string{"sf"}, Description: "Desert planet",
				Published: time.Date(1965, time.August, 1, 0, 0, 0, 0, time.UTC)},
			{Id: "2", Title: "Emma", Author: "austen", Genres: []string{"romance"},
				Published: time.Date(1815, time.December, 23, 0, 0, 0, 0, time.UTC)},
			{Id: "3", Title: "Dune Messiah", Author: "herbert", Genres: []string{"sf"},
				Published: time.Date(1969, time.January, 1, 0, 0, 0, 0, time.UTC)},
		},
		[]types.Author{{Id: "herbert", Name: "Frank Herbert"}, {Id: "austen", Name: "Jane Austen"}},
		[]types.Genre{{Id: "sf", Name: "Science Fiction"}, {Id: "romance", Name: "Romance"}},
	)
	require.NoError(t, err)

	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}

	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}

	return m
}

func TestNewModel(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeNight)

	assert.Equal(t, ViewGrid, m.Mode())
	assert.Len(t, m.Items(), 2)
	assert.Equal(t, 1, m.Remaining())
	assert.Equal(t, "Frank Herbert", m.Items()[0].Author)
	assert.Equal(t, browse.AllCriteria(), m.Criteria())
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Nil(t, cmd)

	m = next.(Model)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 4, m.columns())
}

func TestUpdate_RevealMore(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "m")
	assert.Len(t, m.Items(), 3)
	assert.Equal(t, 0, m.Remaining())
	assert.False(t, m.hasMore)

	m = press(t, m, "m")
	assert.Len(t, m.Items(), 3)
	assert.Empty(t, m.errorMsg)
}

func TestUpdate_Detail(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "right", "enter")
	require.Equal(t, ViewDetail, m.Mode())
	require.NotNil(t, m.detail)
	assert.Equal(t, "Emma", m.detail.Book.Title)
	assert.Equal(t, "Jane Austen (1815)", m.detail.Subtitle())

	m = press(t, m, "esc")
	assert.Equal(t, ViewGrid, m.Mode())
	assert.Nil(t, m.detail)
}

func TestUpdate_CursorStaysInBounds(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "left", "up")
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, "right", "right", "right")
	assert.Equal(t, 1, m.cursor)
}

func TestUpdate_Search(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)
	m = press(t, m, "m", "right")

	m = press(t, m, "/")
	require.Equal(t, ViewSearch, m.Mode())
	assert.True(t, m.search.title.Focused())

	m.search.title.SetValue("dune")
	m = press(t, m, "tab", "right")
	assert.Equal(t, "herbert", m.search.criteria().Author)

	m = press(t, m, "tab", "left", "left")
	assert.Equal(t, "sf", m.search.criteria().Genre)

	m = press(t, m, "enter")
	assert.Equal(t, ViewGrid, m.Mode())
	assert.Equal(t, browse.Criteria{Title: "dune", Author: "herbert", Genre: "sf"}, m.Criteria())
	assert.Equal(t, 0, m.cursor)
	require.Len(t, m.Items(), 2)
	assert.Equal(t, "Dune", m.Items()[0].Title)
	assert.Equal(t, "Dune Messiah", m.Items()[1].Title)
	assert.Equal(t, 0, m.Remaining())
}

func TestUpdate_SearchCancel(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "/")
	m.search.title.SetValue("zzz")
	m = press(t, m, "esc")

	assert.Equal(t, ViewGrid, m.Mode())
	assert.Equal(t, browse.AllCriteria(), m.Criteria())
	assert.Len(t, m.Items(), 2)
}

func TestUpdate_TypingGoesToTitle(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "/", "e", "m")
	assert.Equal(t, "em", m.search.title.Value())
	assert.Len(t, m.Items(), 2)
}

func TestUpdate_Settings(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	m = press(t, m, "s")
	require.Equal(t, ViewSettings, m.Mode())

	m = press(t, m, "t")
	assert.Equal(t, ThemeNight, m.Theme())

	m = press(t, m, "d", "esc")
	assert.Equal(t, ThemeDay, m.Theme())
	assert.Equal(t, ViewGrid, m.Mode())
}

func TestUpdate_Quit(t *testing.T) {
	m := NewModel(testCatalog(t), 2, ThemeDay)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestParseTheme(t *testing.T) {
	th, err := ParseTheme("night")
	require.NoError(t, err)
	assert.Equal(t, ThemeNight, th)

	th, err = ParseTheme("auto")
	require.NoError(t, err)
	assert.Contains(t, []Theme{ThemeDay, ThemeNight}, th)

	_, err = ParseTheme("sepia")
	assert.Error(t, err)

	assert.Equal(t, ThemeDay, ThemeNight.Toggle())
}

func TestCycle(t *testing.T) {
	assert.Equal(t, 2, cycle(0, -1, 3))
	assert.Equal(t, 0, cycle(2, 1, 3))
}
