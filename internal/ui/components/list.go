package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LeafScan/internal/predict"
)

// ListItem represents an item in a list
type ListItem struct {
	Title       string
	Description string
	Status      string
	Icon        string
}

// ListColors are the colours a list renders with
type ListColors struct {
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Selected lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
}

// List represents a navigable list component
type List struct {
	Title       string
	Items       []ListItem
	Selected    int
	Width       int
	Height      int
	ShowNumbers bool
	Colors      ListColors
}

// NewList creates a new list component
func NewList(title string, width, height int) *List {
	return &List{
		Title:       title,
		Width:       width,
		Height:      height,
		ShowNumbers: true,
		Colors: ListColors{
			Primary:  lipgloss.Color("#3498db"),
			Muted:    lipgloss.Color("#7f8c8d"),
			Selected: lipgloss.Color("#2980b9"),
			Success:  lipgloss.Color("#27ae60"),
			Warning:  lipgloss.Color("#d35400"),
			Error:    lipgloss.Color("#c0392b"),
		},
	}
}

// SetItems sets all items in the list and keeps the selection in range
func (l *List) SetItems(items []ListItem) {
	l.Items = items
	if l.Selected >= len(items) {
		l.Selected = max(0, len(items)-1)
	}
}

// GetSelectedItem returns the currently selected item
func (l *List) GetSelectedItem() *ListItem {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// MoveUp moves selection up
func (l *List) MoveUp() {
	if l.Selected > 0 {
		l.Selected--
	}
}

// MoveDown moves selection down
func (l *List) MoveDown() {
	if l.Selected < len(l.Items)-1 {
		l.Selected++
	}
}

// Render renders the list
func (l *List) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(l.Colors.Primary).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(l.Colors.Muted)

	content := []string{headerStyle.Render(l.Title), ""}

	if len(l.Items) == 0 {
		content = append(content, mutedStyle.Render("No predictions yet"))
		return lipgloss.JoinVertical(lipgloss.Left, content...)
	}

	// Title and spacing take the first rows
	maxVisible := max(1, l.Height-4)

	start := 0
	if l.Selected >= maxVisible {
		start = l.Selected - maxVisible + 1
	}
	end := min(len(l.Items), start+maxVisible)

	for i := start; i < end; i++ {
		content = append(content, l.renderItem(&l.Items[i], i+1, i == l.Selected))
	}

	if len(l.Items) > maxVisible {
		content = append(content, "", mutedStyle.Render(fmt.Sprintf("(%d-%d of %d)", start+1, end, len(l.Items))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, content...)
}

// renderItem renders a single list item
func (l *List) renderItem(item *ListItem, number int, selected bool) string {
	var parts []string

	if l.ShowNumbers {
		parts = append(parts, fmt.Sprintf("%2d.", number))
	}
	if item.Icon != "" {
		parts = append(parts, item.Icon)
	}

	title := item.Title
	if item.Description != "" {
		title += " - " + item.Description
	}
	parts = append(parts, title)

	line := strings.Join(parts, " ")

	style := lipgloss.NewStyle().Foreground(l.Colors.Muted)
	if selected {
		style = style.Foreground(l.Colors.Selected).Bold(true)
		line = "▶ " + line
	} else {
		line = "  " + line
		switch item.Status {
		case "success":
			style = style.Foreground(l.Colors.Success)
		case "warning":
			style = style.Foreground(l.Colors.Warning)
		case "error":
			style = style.Foreground(l.Colors.Error)
		}
	}

	if l.Width > 4 {
		style = style.Width(l.Width - 4)
	}
	return style.Render(line)
}

// NewHistoryList creates a list of past predictions, oldest first
func NewHistoryList(history []predict.Result, width, height int) *List {
	list := NewList("Prediction History", width, height)
	list.SetItems(HistoryItems(history))
	return list
}

// HistoryItems converts predictions into list items. Status follows the
// model's confidence.
func HistoryItems(history []predict.Result) []ListItem {
	items := make([]ListItem, 0, len(history))
	for _, r := range history {
		status := "success"
		switch {
		case r.Confidence < 0.5:
			status = "error"
		case r.Confidence < 0.8:
			status = "warning"
		}

		items = append(items, ListItem{
			Title:       r.PredictedDisease,
			Description: r.ConfidencePercent(),
			Status:      status,
		})
	}
	return items
}
