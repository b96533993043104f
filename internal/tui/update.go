package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"bookshelf/internal/browse"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case ViewDetail:
			return m.handleDetailKeys(msg)
		case ViewSearch:
			return m.handleSearchKeys(msg)
		case ViewSettings:
			return m.handleSettingsKeys(msg)
		default:
			return m.handleGridKeys(msg)
		}
	}

	return m, nil
}

// dispatch runs a through the engine and folds the outcome into the rendered list.
func (m *Model) dispatch(a browse.Action) (browse.Outcome, error) {
	s, o, err := m.dispatcher.Dispatch(m.session, a)
	if err != nil {
		return o, err
	}

	items, err := browse.Previews(m.dispatcher.Catalog, o.Page)
	if err != nil {
		return o, err
	}

	m.session = s
	if o.Reset {
		m.items = items
		m.cursor = 0
	} else {
		m.items = append(m.items, items...)
	}
	m.remaining = o.Remaining
	m.hasMore = o.HasMore
	m.empty = o.Empty
	m.errorMsg = ""

	return o, nil
}

func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := m.columns()

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "left", "h":
		m.moveCursor(-1)
	case "right", "l":
		m.moveCursor(1)
	case "up", "k":
		m.moveCursor(-cols)
	case "down", "j":
		m.moveCursor(cols)

	case "enter":
		if len(m.items) == 0 {
			return m, nil
		}

		o, err := m.dispatch(browse.SelectBook{Id: m.items[m.cursor].Id})
		if err != nil {
			m.errorMsg = err.Error()
			return m, nil
		}
		m.detail = o.Selected
		m.mode = ViewDetail

	case "m":
		if _, err := m.dispatch(browse.RevealMore{}); err != nil && !errors.Is(err, browse.ErrNoMoreResults) {
			m.errorMsg = err.Error()
		}

	case "/":
		m.mode = ViewSearch
		return m, m.focusSearch(focusTitle)

	case "s":
		m.mode = ViewSettings

	case "x", "esc":
		m.errorMsg = ""
	}

	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.items) == 0 {
		m.cursor = 0
		return
	}

	next := m.cursor + delta
	if next < 0 || next >= len(m.items) {
		return
	}
	m.cursor = next
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "enter", "q":
		m.mode = ViewGrid
		m.detail = nil
	}

	return m, nil
}

func (m *Model) focusSearch(focus int) tea.Cmd {
	m.search.focus = focus
	if focus == focusTitle {
		return m.search.title.Focus()
	}

	m.search.title.Blur()
	return nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.search

	switch msg.String() {
	case "esc":
		m.mode = ViewGrid
		f.title.Blur()
		return m, nil

	case "tab", "down":
		return m, m.focusSearch((f.focus + 1) % focusCount)

	case "shift+tab", "up":
		return m, m.focusSearch((f.focus + focusCount - 1) % focusCount)

	case "enter":
		if _, err := m.dispatch(browse.SubmitFilter{Criteria: f.criteria()}); err != nil {
			m.errorMsg = err.Error()
		}
		m.mode = ViewGrid
		f.title.Blur()
		return m, nil

	case "left", "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}

		switch f.focus {
		case focusAuthor:
			f.author = cycle(f.author, step, len(f.authors))
			return m, nil
		case focusGenre:
			f.genre = cycle(f.genre, step, len(f.genres))
			return m, nil
		}
	}

	if f.focus != focusTitle {
		return m, nil
	}

	var cmd tea.Cmd
	f.title, cmd = f.title.Update(msg)
	return m, cmd
}

func cycle(i, step, n int) int {
	return ((i+step)%n + n) % n
}

func (m Model) handleSettingsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "s", "q":
		m.mode = ViewGrid
	case "t", " ", "left", "right":
		m.setTheme(m.theme.Toggle())
	case "d":
		m.setTheme(ThemeDay)
	case "n":
		m.setTheme(ThemeNight)
	}

	return m, nil
}
