package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LeafScan/internal/theme"
)

// Theme is a palette expanded with the semantic colours the TUI needs
type Theme struct {
	Name string

	// Palette colours
	Background lipgloss.Color
	Foreground lipgloss.Color
	Card       lipgloss.Color
	Primary    lipgloss.Color
	Highlight  lipgloss.Color

	// Semantic colours
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Muted   lipgloss.Color
}

// ThemeFor expands p. Semantic colours are picked for contrast against the
// palette's card background.
func ThemeFor(p theme.Palette) Theme {
	t := Theme{
		Name:       p.Name,
		Background: lipgloss.Color(p.Background),
		Foreground: lipgloss.Color(p.Text),
		Card:       lipgloss.Color(p.CardBackground),
		Primary:    lipgloss.Color(p.ButtonBackground),
		Highlight:  lipgloss.Color(p.ButtonHover),
	}

	if p.Name == theme.Dark.Name {
		t.Success = lipgloss.Color("#2ecc71")
		t.Warning = lipgloss.Color("#f1c40f")
		t.Error = lipgloss.Color("#e74c3c")
		t.Muted = lipgloss.Color("#95a5a6")
	} else {
		t.Success = lipgloss.Color("#27ae60")
		t.Warning = lipgloss.Color("#d35400")
		t.Error = lipgloss.Color("#c0392b")
		t.Muted = lipgloss.Color("#7f8c8d")
	}
	return t
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	// Base styles
	Title  lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Muted  lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Layout styles
	Screen lipgloss.Style
	Card   lipgloss.Style
	Key    lipgloss.Style

	// Special styles
	Progress  lipgloss.Style
	Highlight lipgloss.Style
}

// GetStyles builds the styles for palette p. With noColor every style is
// left uncoloured but keeps its layout.
func GetStyles(p theme.Palette, noColor bool) *Styles {
	t := ThemeFor(p)
	if noColor || IsColorDisabled() {
		return plainStyles(t)
	}

	return &Styles{
		Theme: t,

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(t.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(t.Muted),

		Success: lipgloss.NewStyle().
			Foreground(t.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		Screen: lipgloss.NewStyle().
			Background(t.Background).
			Foreground(t.Foreground),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Background(t.Card).
			Foreground(t.Foreground).
			Padding(1, 2),

		Key: lipgloss.NewStyle().
			Foreground(t.Card).
			Background(t.Primary).
			Padding(0, 1),

		Progress: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Highlight: lipgloss.NewStyle().
			Foreground(t.Highlight).
			Bold(true),
	}
}

func plainStyles(t Theme) *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Theme:     t,
		Title:     plain.Bold(true).Padding(0, 1),
		Header:    plain.Bold(true),
		Body:      plain,
		Muted:     plain,
		Success:   plain.Bold(true),
		Warning:   plain.Bold(true),
		Error:     plain.Bold(true),
		Screen:    plain,
		Card:      plain.Border(lipgloss.RoundedBorder()).Padding(1, 2),
		Key:       plain.Padding(0, 1),
		Progress:  plain.Bold(true),
		Highlight: plain.Bold(true),
	}
}
