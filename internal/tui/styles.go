package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const cardWidth = 28

type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	primary lipgloss.Color
	accent  lipgloss.Color
	surface lipgloss.Color
	danger  lipgloss.Color
}

var palettes = map[Theme]palette{
	ThemeDay: {
		text:    lipgloss.Color("#1f2937"),
		muted:   lipgloss.Color("#6b7280"),
		primary: lipgloss.Color("#1d4ed8"),
		accent:  lipgloss.Color("#b45309"),
		surface: lipgloss.Color("#f9fafb"),
		danger:  lipgloss.Color("#b91c1c"),
	},
	ThemeNight: {
		text:    lipgloss.Color("#e5e7eb"),
		muted:   lipgloss.Color("#9ca3af"),
		primary: lipgloss.Color("#60a5fa"),
		accent:  lipgloss.Color("#fbbf24"),
		surface: lipgloss.Color("#111827"),
		danger:  lipgloss.Color("#f87171"),
	},
}

type styles struct {
	title        lipgloss.Style
	subtitle     lipgloss.Style
	card         lipgloss.Style
	selectedCard lipgloss.Style
	cardTitle    lipgloss.Style
	cardAuthor   lipgloss.Style
	footer       lipgloss.Style
	more         lipgloss.Style
	moreDisabled lipgloss.Style
	help         lipgloss.Style
	overlay      lipgloss.Style
	label        lipgloss.Style
	focused      lipgloss.Style
	emptyState   lipgloss.Style
	errorBanner  lipgloss.Style
}

func newStyles(t Theme) styles {
	p, ok := palettes[t]
	if !ok {
		p = palettes[ThemeDay]
	}

	card := lipgloss.NewStyle().
		Width(cardWidth-2).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.muted)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			MarginBottom(1),
		subtitle: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true),
		card: card,
		selectedCard: card.
			BorderForeground(p.accent),
		cardTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.text),
		cardAuthor: lipgloss.NewStyle().
			Foreground(p.muted),
		footer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.muted).
			MarginTop(1),
		more: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary),
		moreDisabled: lipgloss.NewStyle().
			Foreground(p.muted).
			Strikethrough(true),
		help: lipgloss.NewStyle().
			Foreground(p.muted),
		overlay: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Foreground(p.text).
			Background(p.surface).
			Padding(1, 3),
		label: lipgloss.NewStyle().
			Foreground(p.muted).
			Bold(true).
			Width(8),
		focused: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),
		emptyState: lipgloss.NewStyle().
			Foreground(p.muted).
			Italic(true).
			PaddingTop(2).
			PaddingBottom(2),
		errorBanner: lipgloss.NewStyle().
			Foreground(p.danger).
			Bold(true).
			MarginBottom(1),
	}
}
