// Package tree implements the tri-state tree-select model: nodes built from
// slash-separated paths whose checkboxes always reflect their leaves.
package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vanderheijden86/treeselect/pkg/model"
)

var (
	// ErrConflictingParent is returned when a name is wired under a second parent.
	ErrConflictingParent = errors.New("node already has a different parent")
	// ErrCycle is returned when wiring a child would make it its own ancestor.
	ErrCycle = errors.New("edge would create a cycle")
)

// Node is a vertex of the tree-select forest.
//
// A node owns its children; parent is a plain back-reference used only for
// upward walks (depth, bubbling). State is never written from outside the
// package: it changes through Click and the bubbling it triggers.
type Node struct {
	name     string
	state    model.CheckState
	parent   *Node
	children []*Node // sorted by name
}

// NewNode creates an unchecked, parentless node.
func NewNode(name string) *Node {
	return &Node{name: name}
}

// Name returns the node's identifier
func (n *Node) Name() string { return n.name }

// State returns the current checkbox state
func (n *Node) State() model.CheckState { return n.state }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the sorted child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Depth is the number of ancestors (0 for a root).
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Path reconstructs the path from the root to this node joined by sep.
func (n *Node) Path(sep string) string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, sep)
}

// AddChild wires child under n. Re-adding an existing child is a no-op.
func (n *Node) AddChild(child *Node) error {
	if child.parent == n {
		return nil
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %q is under %q, not %q", ErrConflictingParent, child.name, child.parent.name, n.name)
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("%w: %q is an ancestor of %q", ErrCycle, child.name, n.name)
		}
	}

	child.parent = n
	n.children = append(n.children, child)
	sort.SliceStable(n.children, func(i, j int) bool {
		return n.children[i].name < n.children[j].name
	})

	// A leaf that gains its first child stops being authoritative; its
	// state must follow the new subtree.
	n.bubble()
	return nil
}

// subtree returns every node under n (n included) using an explicit stack.
// Children are pushed in reverse so the result is in sorted pre-order.
func (n *Node) subtree() []*Node {
	var result []*Node
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, node)
		for i := len(node.children) - 1; i >= 0; i-- {
			stack = append(stack, node.children[i])
		}
	}
	return result
}

// Leaves returns the leaves of n's subtree in sorted pre-order.
// A leaf's only leaf is itself.
func (n *Node) Leaves() []*Node {
	var leaves []*Node
	for _, node := range n.subtree() {
		if node.IsLeaf() {
			leaves = append(leaves, node)
		}
	}
	return leaves
}

// setState overwrites n's state and re-derives every ancestor.
func (n *Node) setState(state model.CheckState) {
	n.state = state
	for p := n.parent; p != nil; p = p.parent {
		p.state = p.derive()
	}
}

// bubble recomputes n from its leaves and cascades upward.
func (n *Node) bubble() {
	n.setState(n.derive())
}

// derive computes the state implied by the leaves of n's subtree:
// all unchecked -> Unchecked, all checked -> Checked, otherwise partial.
func (n *Node) derive() model.CheckState {
	leaves := n.Leaves()
	checked := 0
	for _, leaf := range leaves {
		if leaf.state == model.Checked {
			checked++
		}
	}
	switch checked {
	case 0:
		return model.Unchecked
	case len(leaves):
		return model.Checked
	default:
		return model.PartiallyChecked
	}
}

// Toggle flips a leaf between Checked and Unchecked. Any state other than
// Checked becomes Checked. Calling Toggle on an internal node is a no-op.
func (n *Node) Toggle() {
	if !n.IsLeaf() {
		return
	}
	if n.state == model.Checked {
		n.setState(model.Unchecked)
	} else {
		n.setState(model.Checked)
	}
}

// Click applies the user-facing click behavior.
//
// A leaf toggles. An internal node never changes in place: Unchecked and
// PartiallyChecked check every leaf below it, Checked unchecks every leaf.
// The target is chosen from the state before the click.
func (n *Node) Click() {
	if n.IsLeaf() {
		n.Toggle()
		return
	}

	var target model.CheckState
	switch n.state {
	case model.Unchecked, model.PartiallyChecked:
		target = model.Checked
	case model.Checked:
		target = model.Unchecked
	}

	for _, leaf := range n.Leaves() {
		leaf.setState(target)
	}
}

// Line renders the node as a single line using style.
func (n *Node) Line(style Style) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat(style.Indent, n.Depth()))
	sb.WriteString(style.Glyph(n.state))
	sb.WriteString(n.name)
	return sb.String()
}

// String renders the node with the default style.
func (n *Node) String() string {
	return n.Line(DefaultStyle())
}
