package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// LeafOptions lists every leaf as a picker option labeled with its full
// path, in render order.
func LeafOptions(f *tree.Forest, sep string) []huh.Option[string] {
	leaves := f.Leaves()
	opts := make([]huh.Option[string], 0, len(leaves))
	for _, leaf := range leaves {
		opts = append(opts, huh.NewOption(leaf.Path(sep), leaf.Name()))
	}
	return opts
}

// NewLeafPicker builds a multi-select form over the leaves of f. The form
// starts from the forest's current selection and writes the chosen leaf
// names into picked.
func NewLeafPicker(f *tree.Forest, sep string, picked *[]string) *huh.Form {
	*picked = f.Checked()

	leaves := len(f.Leaves())
	height := leaves + 2
	if height > 20 {
		height = 20
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Select leaves").
				Description(fmt.Sprintf("%d leaves; space toggles, enter confirms", leaves)).
				Value(picked).
				Options(LeafOptions(f, sep)...).
				Filterable(true).
				Height(height),
		),
	)
}

// ApplyPicks makes picked the exact set of checked leaves and returns the
// resulting rendering.
func ApplyPicks(f *tree.Forest, picked []string, style tree.Style) []string {
	f.Restore(picked)
	return tree.Render(f, style)
}
