package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a percentage as a fixed-width bar
type ProgressBar struct {
	Width   int
	Percent int
	Label   string

	Fill  lipgloss.Color
	Empty lipgloss.Color
}

// NewProgressBar creates a new progress bar
func NewProgressBar(width int) *ProgressBar {
	return &ProgressBar{
		Width: width,
		Fill:  lipgloss.Color("#3498db"),
		Empty: lipgloss.Color("#95a5a6"),
	}
}

// SetProgress updates the percentage, clamped to 0..100
func (p *ProgressBar) SetProgress(percent int) {
	p.Percent = max(0, min(100, percent))
}

// SetLabel sets the progress label
func (p *ProgressBar) SetLabel(label string) {
	p.Label = label
}

// SetColors sets the filled and empty segment colours
func (p *ProgressBar) SetColors(fill, empty lipgloss.Color) {
	p.Fill = fill
	p.Empty = empty
}

// Render renders the progress bar
func (p *ProgressBar) Render() string {
	fillStyle := lipgloss.NewStyle().Foreground(p.Fill).Bold(true)
	emptyStyle := lipgloss.NewStyle().Foreground(p.Empty)

	width := max(1, p.Width)
	filledWidth := width * p.Percent / 100
	emptyWidth := width - filledWidth

	bar := fillStyle.Render(strings.Repeat("█", filledWidth)) + emptyStyle.Render(strings.Repeat("░", emptyWidth))
	result := fmt.Sprintf("[%s] %3d%%", bar, p.Percent)

	if p.Label != "" {
		result = p.Label + " " + result
	}
	return result
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame int
	Label string
	Color lipgloss.Color
}

// NewSpinner creates a new spinner
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label, Color: lipgloss.Color("#3498db")}
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Render renders the spinner
func (s *Spinner) Render() string {
	char := lipgloss.NewStyle().Foreground(s.Color).Bold(true).Render(spinnerFrames[s.Frame%len(spinnerFrames)])
	if s.Label != "" {
		return fmt.Sprintf("%s %s", char, s.Label)
	}
	return char
}
