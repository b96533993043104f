// Package tui is the interactive terminal browser: a grid of book previews
// with detail, search and settings overlays.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookshelf/internal/browse"
)

// ViewMode selects which overlay, if any, is on top of the grid
type ViewMode int

const (
	ViewGrid ViewMode = iota
	ViewDetail
	ViewSearch
	ViewSettings
)

type Theme string

const (
	ThemeDay   Theme = "day"
	ThemeNight Theme = "night"
)

// ParseTheme accepts day, night, or auto (and empty) to follow the terminal background.
func ParseTheme(s string) (Theme, error) {
	switch s {
	case "", "auto":
		return DetectTheme(), nil
	case string(ThemeDay):
		return ThemeDay, nil
	case string(ThemeNight):
		return ThemeNight, nil
	}

	return "", fmt.Errorf("unknown theme %q, one of day, night or auto expected", s)
}

// DetectTheme picks night on a dark terminal background.
func DetectTheme() Theme {
	if lipgloss.HasDarkBackground() {
		return ThemeNight
	}

	return ThemeDay
}

func (t Theme) Toggle() Theme {
	if t == ThemeNight {
		return ThemeDay
	}

	return ThemeNight
}

const (
	focusTitle = iota
	focusAuthor
	focusGenre
	focusCount
)

type searchForm struct {
	title   textinput.Model
	authors []browse.Option
	genres  []browse.Option
	author  int
	genre   int
	focus   int
}

func newSearchForm(cat browse.Catalog) searchForm {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 120
	ti.Prompt = ""

	return searchForm{
		title:   ti,
		authors: browse.AuthorOptions(cat),
		genres:  browse.GenreOptions(cat),
	}
}

func (f searchForm) criteria() browse.Criteria {
	return browse.Criteria{
		Title:  f.title.Value(),
		Author: f.authors[f.author].Value,
		Genre:  f.genres[f.genre].Value,
	}
}

// Model is the terminal browser state. The rendered list is kept apart from
// the session so that reveals append to it and submissions replace it.
type Model struct {
	dispatcher *browse.Dispatcher
	session    browse.Session

	items     []browse.Preview
	remaining int
	hasMore   bool
	empty     bool
	detail    *browse.Detail

	mode   ViewMode
	cursor int
	search searchForm

	theme  Theme
	styles styles

	errorMsg string

	width  int
	height int
}

func NewModel(cat browse.Catalog, pageSize int, theme Theme) Model {
	m := Model{
		dispatcher: &browse.Dispatcher{Catalog: cat},
		session:    browse.NewSession(cat.AllBooks(), pageSize),
		search:     newSearchForm(cat),
		theme:      theme,
		styles:     newStyles(theme),
		width:      80,
		height:     24,
	}

	items, err := browse.Previews(cat, m.session.Page())
	if err != nil {
		m.errorMsg = err.Error()
	}

	m.items = items
	m.remaining = m.session.Remaining()
	m.hasMore = m.session.HasMore()
	m.empty = m.session.Empty()

	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Mode() ViewMode {
	return m.mode
}

func (m Model) Theme() Theme {
	return m.theme
}

// Items is what the grid currently shows.
func (m Model) Items() []browse.Preview {
	return m.items
}

func (m Model) Remaining() int {
	return m.remaining
}

func (m Model) Criteria() browse.Criteria {
	return m.session.Criteria
}

func (m *Model) setTheme(t Theme) {
	m.theme = t
	m.styles = newStyles(t)
}

func (m Model) columns() int {
	return max(1, (m.width-2)/cardWidth)
}
