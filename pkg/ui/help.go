package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpContent is the quick reference shown by the ? overlay.
// It should fit on one screen (~20 lines) without scrolling.
const helpContent = `Navigation
  j/k  ↓/↑     Move down/up
  h/l  ←/→     Collapse or parent / expand or first child
  p            Jump to parent
  g/G          Jump to top/bottom
  ctrl+d/u     Half page down/up

Selection
  space  x     Click the node under the cursor
               leaf: toggle
               unchecked or partial parent: check all leaves
               checked parent: uncheck all leaves

Tree
  enter        Expand/collapse
  E / C        Expand all / collapse all

Other
  y            Copy the rendering to the clipboard
  ?            Toggle this help
  q            Finish and print the selection
  ctrl+c       Abort without printing`

// RenderHelp renders the help modal at most width cells wide.
func RenderHelp(theme Theme, width int) string {
	r := theme.Renderer

	modalWidth := 64
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleStyle := r.NewStyle().Bold(true).Foreground(theme.Primary)
	contentStyle := r.NewStyle().Foreground(theme.Subtext)
	footerStyle := r.NewStyle().Foreground(theme.Muted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(helpContent))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("j/k to scroll │ Esc or ? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	return modalStyle.Render(b.String())
}
