// Package ui provides the interactive terminal front end for tree-select.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeselect/pkg/model"
)

// Theme holds the colors and styles used by the tree view.
// All styles must be created through Renderer so tests can force a profile.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	Checked   lipgloss.AdaptiveColor
	Partial   lipgloss.AdaptiveColor
	Unchecked lipgloss.AdaptiveColor

	Selected lipgloss.Style
}

// DefaultTheme returns the standard palette bound to r. A nil renderer
// falls back to lipgloss's default.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	t := Theme{
		Renderer:  r,
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#F1FA8C"},
		Highlight: lipgloss.AdaptiveColor{Light: "#0077B6", Dark: "#8BE9FD"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Checked:   lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#50FA7B"},
		Partial:   lipgloss.AdaptiveColor{Light: "#EF6C00", Dark: "#FFB86C"},
		Unchecked: lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
	}
	t.Selected = r.NewStyle().
		Background(lipgloss.AdaptiveColor{Light: "#E8E8F8", Dark: "#44475A"}).
		Bold(true)
	return t
}

// StateColor returns the glyph color for a check state.
func (t Theme) StateColor(s model.CheckState) lipgloss.AdaptiveColor {
	switch s {
	case model.Checked:
		return t.Checked
	case model.PartiallyChecked:
		return t.Partial
	default:
		return t.Unchecked
	}
}
