package tree

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/treeselect/pkg/model"
)

// Forest owns every node of a tree-select, keyed by name.
// It is not safe for concurrent use.
type Forest struct {
	nodes map[string]*Node // Quick lookup by name
	order []string         // Names in first-seen order
}

// NewForest creates an empty forest
func NewForest() *Forest {
	return &Forest{nodes: make(map[string]*Node)}
}

func (f *Forest) getOrCreate(name string) *Node {
	if node, ok := f.nodes[name]; ok {
		return node
	}
	node := NewNode(name)
	f.nodes[name] = node
	f.order = append(f.order, name)
	return node
}

// Lookup returns the node with the given name.
func (f *Forest) Lookup(name string) (*Node, bool) {
	node, ok := f.nodes[name]
	return node, ok
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Names returns every name in first-seen order.
func (f *Forest) Names() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Roots returns the parentless nodes in first-seen order.
func (f *Forest) Roots() []*Node {
	var roots []*Node
	for _, name := range f.order {
		if node := f.nodes[name]; node.parent == nil {
			roots = append(roots, node)
		}
	}
	return roots
}

// Click clicks the named node. Unknown names are ignored and report false.
func (f *Forest) Click(name string) bool {
	node, ok := f.nodes[name]
	if !ok {
		return false
	}
	node.Click()
	return true
}

// ClickAll applies clicks strictly in order and returns how many names
// matched a node.
func (f *Forest) ClickAll(names []string) int {
	applied := 0
	for _, name := range names {
		if f.Click(name) {
			applied++
		}
	}
	return applied
}

// Leaves returns all leaves in render order.
func (f *Forest) Leaves() []*Node {
	var leaves []*Node
	f.Walk(func(n *Node) {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	})
	return leaves
}

// Checked returns the names of checked leaves in render order.
func (f *Forest) Checked() []string {
	var names []string
	for _, leaf := range f.Leaves() {
		if leaf.state == model.Checked {
			names = append(names, leaf.name)
		}
	}
	return names
}

// SetLeafState forces a leaf to Checked or Unchecked and bubbles the change.
// It reports false for unknown names, internal nodes and partial states.
func (f *Forest) SetLeafState(name string, state model.CheckState) bool {
	node, ok := f.nodes[name]
	if !ok || !node.IsLeaf() || state == model.PartiallyChecked || !state.IsValid() {
		return false
	}
	if node.state != state {
		node.setState(state)
	}
	return true
}

// Restore checks exactly the named leaves and unchecks every other leaf.
// Names that are not leaves of this forest are skipped.
func (f *Forest) Restore(checked []string) {
	want := make(map[string]bool, len(checked))
	for _, name := range checked {
		want[name] = true
	}
	for _, leaf := range f.Leaves() {
		target := model.Unchecked
		if want[leaf.name] {
			target = model.Checked
		}
		if leaf.state != target {
			leaf.setState(target)
		}
	}
}

// Verify re-checks the structural and tri-state invariants over the whole
// forest and returns the first violation found.
func (f *Forest) Verify() error {
	// Acyclicity first: derive walks subtrees and would not terminate.
	for _, name := range f.order {
		node := f.nodes[name]
		if node.name != name {
			return fmt.Errorf("registry key %q holds node %q", name, node.name)
		}
		steps := 0
		for p := node.parent; p != nil; p = p.parent {
			steps++
			if steps > len(f.nodes) {
				return fmt.Errorf("%w: ancestor chain of %q does not terminate", ErrCycle, name)
			}
		}
	}

	for _, name := range f.order {
		node := f.nodes[name]
		if !sort.SliceIsSorted(node.children, func(i, j int) bool {
			return node.children[i].name < node.children[j].name
		}) {
			return fmt.Errorf("children of %q are not sorted", name)
		}

		for _, child := range node.children {
			if child.parent != node {
				return fmt.Errorf("child %q of %q points at a different parent", child.name, name)
			}
			if f.nodes[child.name] != child {
				return fmt.Errorf("child %q of %q is not registered", child.name, name)
			}
		}

		if node.IsLeaf() {
			if node.state == model.PartiallyChecked || !node.state.IsValid() {
				return fmt.Errorf("leaf %q has state %v", name, node.state)
			}
			continue
		}
		if want := node.derive(); node.state != want {
			return fmt.Errorf("node %q is %v but its leaves imply %v", name, node.state, want)
		}
	}
	return nil
}

// Report flattens the forest into the JSON report structure.
func (f *Forest) Report(style Style, sep string, clicks []string) model.SelectionReport {
	if sep == "" {
		sep = DefaultSeparator
	}
	report := model.SelectionReport{
		Clicks:  clicks,
		Checked: f.Checked(),
		Lines:   Render(f, style),
	}
	if report.Checked == nil {
		report.Checked = []string{}
	}
	f.Walk(func(n *Node) {
		nr := model.NodeReport{
			Name:  n.name,
			Path:  n.Path(sep),
			Depth: n.Depth(),
			State: n.state,
			Leaf:  n.IsLeaf(),
		}
		if n.parent != nil {
			nr.Parent = n.parent.name
		}
		report.Nodes = append(report.Nodes, nr)
		report.Summary.Add(n.state, n.IsLeaf())
	})
	return report
}

// RenderTreeSelect builds a forest from paths, applies clicks in order and
// returns the rendered lines using the default style.
func RenderTreeSelect(paths, clicks []string) ([]string, error) {
	f, err := Build(paths)
	if err != nil {
		return nil, err
	}
	f.ClickAll(clicks)
	return Render(f, DefaultStyle()), nil
}
