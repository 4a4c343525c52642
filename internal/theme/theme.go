// Package theme holds the two static colour palettes and the named style
// variables published whenever the active palette changes.
package theme

import "sort"

// Variable names published for the active palette
const (
	VarBackground       = "--background-color"
	VarText             = "--text-color"
	VarCardBackground   = "--card-background"
	VarButtonBackground = "--button-background"
	VarButtonHover      = "--button-hover"
)

// Palette is one of the two static colour sets
type Palette struct {
	Name             string
	Background       string
	Text             string
	CardBackground   string
	ButtonBackground string
	ButtonHover      string
}

var (
	// Light is the default palette
	Light = Palette{
		Name:             "light",
		Background:       "#f5f7fa",
		Text:             "#2c3e50",
		CardBackground:   "#fff",
		ButtonBackground: "#3498db",
		ButtonHover:      "#2980b9",
	}

	// Dark is used while dark mode is on
	Dark = Palette{
		Name:             "dark",
		Background:       "#2c3e50",
		Text:             "#f5f7fa",
		CardBackground:   "#34495e",
		ButtonBackground: "#2980b9",
		ButtonHover:      "#3498db",
	}
)

// For returns the palette for the given dark mode flag
func For(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}

// Variables returns the named style variables for the palette
func (p Palette) Variables() map[string]string {
	return map[string]string{
		VarBackground:       p.Background,
		VarText:             p.Text,
		VarCardBackground:   p.CardBackground,
		VarButtonBackground: p.ButtonBackground,
		VarButtonHover:      p.ButtonHover,
	}
}

// VariableNames returns the published variable names in a stable order
func VariableNames() []string {
	names := []string{VarBackground, VarText, VarCardBackground, VarButtonBackground, VarButtonHover}
	sort.Strings(names)
	return names
}

// Listener receives the named style variables each time they are republished
type Listener func(vars map[string]string)
