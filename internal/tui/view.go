package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"bookshelf/internal/browse"
)

const (
	EmptyMessage = "No results found. Your filters might be too narrow."

	// rendered height of a card including its border
	cardHeight = 4
	// lines taken by header, footer and margins
	chromeHeight = 8
)

func (m Model) View() string {
	switch m.mode {
	case ViewDetail:
		return m.renderOverlay(m.renderDetail())
	case ViewSearch:
		return m.renderOverlay(m.renderSearch())
	case ViewSettings:
		return m.renderOverlay(m.renderSettings())
	default:
		return m.renderGridView()
	}
}

func (m Model) renderGridView() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.errorMsg != "" {
		b.WriteString(m.styles.errorBanner.Render("Error: " + m.errorMsg))
		b.WriteString("\n")
	}

	b.WriteString(m.renderGrid())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.styles.title.Render("Bookshelf")

	c := m.session.Criteria
	var filters []string
	if c.Title != "" {
		filters = append(filters, fmt.Sprintf("title %q", c.Title))
	}
	if c.Author != browse.Any {
		filters = append(filters, "author "+m.optionLabel(m.search.authors, c.Author))
	}
	if c.Genre != browse.Any {
		filters = append(filters, "genre "+m.optionLabel(m.search.genres, c.Genre))
	}

	summary := "All books"
	if len(filters) > 0 {
		summary = "Filtered by " + strings.Join(filters, ", ")
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, m.styles.subtitle.Render(summary))
}

func (m Model) optionLabel(opts []browse.Option, value string) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}

	return value
}

func (m Model) renderGrid() string {
	if m.empty {
		return m.styles.emptyState.Render(EmptyMessage)
	}

	cols := m.columns()
	visibleRows := max(1, (m.height-chromeHeight)/cardHeight)
	firstRow := max(0, m.cursor/cols-visibleRows+1)

	var rows []string
	for start := firstRow * cols; start < len(m.items) && len(rows) < visibleRows; start += cols {
		end := min(start+cols, len(m.items))

		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.renderCard(m.items[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCard(p browse.Preview, selected bool) string {
	style := m.styles.card
	if selected {
		style = m.styles.selectedCard
	}

	inner := cardWidth - 4
	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.cardTitle.Render(truncate(p.Title, inner)),
		m.styles.cardAuthor.Render(truncate(p.Author, inner)),
	))
}

func (m Model) renderFooter() string {
	more := fmt.Sprintf("Show more (%d)", m.remaining)
	if m.hasMore {
		more = m.styles.more.Render(more)
	} else {
		more = m.styles.moreDisabled.Render(more)
	}

	help := m.styles.help.Render("←↑↓→ move • enter open • m more • / search • s settings • q quit")

	return m.styles.footer.Render(lipgloss.JoinVertical(lipgloss.Left, more, help))
}

func (m Model) renderOverlay(content string) string {
	box := m.styles.overlay.Width(max(20, min(m.width-4, 72))).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderDetail() string {
	if m.detail == nil {
		return ""
	}

	d := m.detail
	parts := []string{
		m.styles.title.Render(d.Book.Title),
		m.styles.subtitle.Render(d.Subtitle()),
	}
	if d.Book.Description != "" {
		parts = append(parts, "", d.Book.Description)
	}
	parts = append(parts, "", m.styles.help.Render("esc close"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderSearch() string {
	f := m.search

	line := func(focus int, label, value string) string {
		if f.focus == focus {
			value = m.styles.focused.Render(value)
		}
		return m.styles.label.Render(label) + " " + value
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Search"),
		line(focusTitle, "Title", f.title.View()),
		line(focusAuthor, "Author", "‹ "+f.authors[f.author].Label+" ›"),
		line(focusGenre, "Genre", "‹ "+f.genres[f.genre].Label+" ›"),
		"",
		m.styles.help.Render("tab next field • ←/→ change • enter search • esc cancel"),
	)
}

func (m Model) renderSettings() string {
	day, night := string(ThemeDay), string(ThemeNight)
	if m.theme == ThemeDay {
		day = m.styles.focused.Render("[" + day + "]")
	} else {
		night = m.styles.focused.Render("[" + night + "]")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render("Settings"),
		m.styles.label.Render("Theme")+" "+day+"  "+night,
		"",
		m.styles.help.Render("t toggle • esc close"),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
