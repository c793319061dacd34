package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/treeselect/pkg/model"
	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// taskBox maps a check state to a markdown task-list box.
// Partial has no GitHub equivalent; "[-]" is the common convention.
func taskBox(s model.CheckState) string {
	switch s {
	case model.Unchecked:
		return "[ ]"
	case model.Checked:
		return "[x]"
	case model.PartiallyChecked:
		return "[-]"
	}
	return "[?]"
}

// GenerateMarkdown renders the forest as a nested markdown task list with a
// short summary header.
func GenerateMarkdown(f *tree.Forest, title string, now time.Time) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	var sum model.Summary
	f.Walk(func(n *tree.Node) {
		sum.Add(n.State(), n.IsLeaf())
	})

	checkedLeaves := len(f.Checked())
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Nodes**: %d\n", sum.Total))
	sb.WriteString(fmt.Sprintf("- **Selected leaves**: %d of %d\n", checkedLeaves, sum.Leaves))
	sb.WriteString(fmt.Sprintf("- **Partially selected**: %d\n\n", sum.Partial))

	sb.WriteString("## Selection\n\n")
	// Nested lists need every item under its parent
	f.WalkRoots(func(n *tree.Node) {
		sb.WriteString(strings.Repeat("  ", n.Depth()))
		sb.WriteString("- ")
		sb.WriteString(taskBox(n.State()))
		sb.WriteString(" ")
		sb.WriteString(escapeMarkdown(n.Name()))
		sb.WriteString("\n")
	})

	return sb.String()
}

// escapeMarkdown protects characters that would change list rendering.
func escapeMarkdown(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		"*", `\*`,
		"_", `\_`,
		"`", "\\`",
		"[", `\[`,
		"]", `\]`,
	)
	return r.Replace(s)
}

// SaveMarkdown writes the markdown report to path.
func SaveMarkdown(f *tree.Forest, title, path string) error {
	content := GenerateMarkdown(f, title, time.Now())
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown formats markdown for the terminal. An empty style selects
// glamour's automatic dark/light detection.
func RenderMarkdown(md string, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
