package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var confettiColors = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#96CEB4", "#FFEAA7", "#DDA0DD", "#98D8C8",
}

var confettiChars = []string{"*", "+", "o", "~", "^"}

// Celebration is the banner shown after a successful prediction
type Celebration struct {
	Width   int
	Frame   int
	Message string
	NoColor bool
}

// NewCelebration creates a banner of the given width
func NewCelebration(width int, message string) *Celebration {
	return &Celebration{Width: width, Message: message}
}

// Tick advances the confetti animation
func (c *Celebration) Tick() {
	c.Frame++
}

// Render renders two rows of confetti around the message
func (c *Celebration) Render() string {
	width := max(len(c.Message)+4, c.Width)

	message := lipgloss.NewStyle().Bold(true)
	if !c.NoColor {
		message = message.Foreground(lipgloss.Color(confettiColors[c.Frame%len(confettiColors)]))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		c.confettiRow(width, 0),
		message.Render(c.Message),
		c.confettiRow(width, 3),
	)
}

func (c *Celebration) confettiRow(width, offset int) string {
	var row strings.Builder
	for i := 0; i < width; i++ {
		if (i+c.Frame+offset)%3 != 0 {
			row.WriteString(" ")
			continue
		}

		char := confettiChars[(i+c.Frame)%len(confettiChars)]
		if c.NoColor {
			row.WriteString(char)
			continue
		}
		color := confettiColors[(i+offset+c.Frame)%len(confettiColors)]
		row.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(char))
	}
	return row.String()
}
