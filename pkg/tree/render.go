package tree

import (
	"fmt"

	"github.com/vanderheijden86/treeselect/pkg/model"
)

// Style controls the text rendering of a node line.
type Style struct {
	Indent    string // Repeated once per depth level
	Checked   string
	Unchecked string
	Partial   string
}

// DefaultStyle returns the ".", "[v]", "[]", "[o]" rendering.
func DefaultStyle() Style {
	return Style{
		Indent:    ".",
		Checked:   model.GlyphChecked,
		Unchecked: model.GlyphUnchecked,
		Partial:   model.GlyphPartial,
	}
}

// Glyph returns the checkbox token for a state.
func (s Style) Glyph(state model.CheckState) string {
	switch state {
	case model.Unchecked:
		return s.Unchecked
	case model.Checked:
		return s.Checked
	case model.PartiallyChecked:
		return s.Partial
	}
	return state.Glyph()
}

// Validate checks that every glyph is set and distinguishable.
func (s Style) Validate() error {
	glyphs := map[string]string{
		"checked":   s.Checked,
		"unchecked": s.Unchecked,
		"partial":   s.Partial,
	}
	seen := make(map[string]string)
	for _, name := range []string{"checked", "unchecked", "partial"} {
		g := glyphs[name]
		if g == "" {
			return fmt.Errorf("%s glyph cannot be empty", name)
		}
		if other, ok := seen[g]; ok {
			return fmt.Errorf("%s and %s glyphs are both %q", other, name, g)
		}
		seen[g] = name
	}
	return nil
}

// Render returns one line per node in depth-first pre-order.
//
// Traversal starts from every registry entry in the order names were first
// seen while building, so a child registered before its parent begins its
// own block. Siblings follow their sorted order. The visited set guarantees
// that each node is printed once.
func Render(f *Forest, style Style) []string {
	var lines []string
	f.Walk(func(n *Node) {
		lines = append(lines, n.Line(style))
	})
	return lines
}

// Walk calls fn for every node in render order.
func (f *Forest) Walk(fn func(n *Node)) {
	starts := make([]*Node, 0, len(f.order))
	for _, name := range f.order {
		starts = append(starts, f.nodes[name])
	}
	walkFrom(starts, fn)
}

// WalkRoots calls fn for every node, starting only from parentless nodes,
// so each subtree is visited as a whole beneath its root.
func (f *Forest) WalkRoots(fn func(n *Node)) {
	walkFrom(f.Roots(), fn)
}

func walkFrom(starts []*Node, fn func(n *Node)) {
	visited := make(map[*Node]bool)

	var traverse func(n *Node)
	traverse = func(n *Node) {
		if visited[n] {
			return
		}
		visited[n] = true
		fn(n)
		for _, child := range n.children {
			traverse(child)
		}
	}

	for _, n := range starts {
		traverse(n)
	}
}
