package tree

import (
	"errors"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeselect/pkg/model"
)

// newFamily wires leaves under a parent and seeds explicit states, the way a
// partially edited tree looks before a click.
func newFamily(t *testing.T, parentState model.CheckState, leafStates ...model.CheckState) (*Node, []*Node) {
	t.Helper()
	parent := NewNode("A")
	var leaves []*Node
	for i, s := range leafStates {
		leaf := NewNode(string(rune('B' + i)))
		if err := parent.AddChild(leaf); err != nil {
			t.Fatalf("AddChild failed: %v", err)
		}
		leaf.state = s
		leaves = append(leaves, leaf)
	}
	parent.state = parentState
	return parent, leaves
}

func TestNewNode(t *testing.T) {
	node := NewNode("A")

	if node.Name() != "A" {
		t.Errorf("expected name A, got %s", node.Name())
	}
	if node.State() != model.Unchecked {
		t.Errorf("expected Unchecked, got %v", node.State())
	}
	if node.Parent() != nil {
		t.Error("expected no parent")
	}
	if len(node.Children()) != 0 {
		t.Errorf("expected no children, got %d", len(node.Children()))
	}
	if !node.IsLeaf() {
		t.Error("expected a fresh node to be a leaf")
	}
}

func TestToggle(t *testing.T) {
	node := NewNode("A")
	node.Toggle()
	if node.State() != model.Checked {
		t.Errorf("expected Checked after first toggle, got %v", node.State())
	}
	node.Toggle()
	if node.State() != model.Unchecked {
		t.Errorf("expected Unchecked after second toggle, got %v", node.State())
	}
}

func TestToggleIgnoresInternalNode(t *testing.T) {
	parent, _ := newFamily(t, model.Unchecked, model.Unchecked)
	parent.Toggle()
	if parent.State() != model.Unchecked {
		t.Errorf("Toggle on internal node changed state to %v", parent.State())
	}
}

func TestClick(t *testing.T) {
	t.Run("leaf becomes checked", func(t *testing.T) {
		leaf := NewNode("A")
		leaf.Click()
		if leaf.State() != model.Checked {
			t.Errorf("expected Checked, got %v", leaf.State())
		}
	})

	t.Run("unchecking last checked leaf unchecks parent", func(t *testing.T) {
		parent, leaves := newFamily(t, model.PartiallyChecked, model.Unchecked, model.Checked)
		leaves[1].Click()

		if leaves[0].State() != model.Unchecked || leaves[1].State() != model.Unchecked {
			t.Errorf("expected both leaves Unchecked, got %v %v", leaves[0].State(), leaves[1].State())
		}
		if parent.State() != model.Unchecked {
			t.Errorf("expected parent Unchecked, got %v", parent.State())
		}
	})

	t.Run("only child checked checks parent", func(t *testing.T) {
		parent, leaves := newFamily(t, model.Unchecked, model.Unchecked)
		leaves[0].Click()
		if parent.State() != model.Checked {
			t.Errorf("expected parent Checked, got %v", parent.State())
		}
	})

	t.Run("one of two leaves checked makes parent partial", func(t *testing.T) {
		parent, leaves := newFamily(t, model.Unchecked, model.Unchecked, model.Unchecked)
		leaves[1].Click()

		if leaves[0].State() != model.Unchecked {
			t.Errorf("expected B Unchecked, got %v", leaves[0].State())
		}
		if leaves[1].State() != model.Checked {
			t.Errorf("expected C Checked, got %v", leaves[1].State())
		}
		if parent.State() != model.PartiallyChecked {
			t.Errorf("expected parent PartiallyChecked, got %v", parent.State())
		}
	})

	t.Run("checked parent unchecks all leaves", func(t *testing.T) {
		parent, leaves := newFamily(t, model.Checked, model.Checked, model.Checked)
		parent.Click()
		for _, leaf := range leaves {
			if leaf.State() != model.Unchecked {
				t.Errorf("expected %s Unchecked, got %v", leaf.Name(), leaf.State())
			}
		}
		if parent.State() != model.Unchecked {
			t.Errorf("expected parent Unchecked, got %v", parent.State())
		}
	})

	t.Run("unchecked parent checks all leaves", func(t *testing.T) {
		parent, leaves := newFamily(t, model.Unchecked, model.Unchecked, model.Unchecked)
		parent.Click()
		for _, leaf := range leaves {
			if leaf.State() != model.Checked {
				t.Errorf("expected %s Checked, got %v", leaf.Name(), leaf.State())
			}
		}
		if parent.State() != model.Checked {
			t.Errorf("expected parent Checked, got %v", parent.State())
		}
	})

	t.Run("partial parent checks all leaves", func(t *testing.T) {
		parent, leaves := newFamily(t, model.PartiallyChecked, model.Unchecked, model.Checked)
		parent.Click()
		for _, leaf := range leaves {
			if leaf.State() != model.Checked {
				t.Errorf("expected %s Checked, got %v", leaf.Name(), leaf.State())
			}
		}
		if parent.State() != model.Checked {
			t.Errorf("expected parent Checked, got %v", parent.State())
		}
	})
}

func TestClickBubblesThroughGrandparents(t *testing.T) {
	f, err := Build([]string{"A/B/C", "A/B/D", "A/E"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	c, _ := f.Lookup("C")
	c.Click()

	want := map[string]model.CheckState{
		"A": model.PartiallyChecked,
		"B": model.PartiallyChecked,
		"C": model.Checked,
		"D": model.Unchecked,
		"E": model.Unchecked,
	}
	for name, state := range want {
		node, _ := f.Lookup(name)
		if node.State() != state {
			t.Errorf("%s: expected %v, got %v", name, state, node.State())
		}
	}
}

func TestAddChildIdempotent(t *testing.T) {
	parent := NewNode("A")
	child := NewNode("B")
	for i := 0; i < 3; i++ {
		if err := parent.AddChild(child); err != nil {
			t.Fatalf("AddChild #%d failed: %v", i, err)
		}
	}
	if got := len(parent.Children()); got != 1 {
		t.Errorf("expected 1 child edge, got %d", got)
	}
	if child.Parent() != parent {
		t.Error("expected child's parent to be set")
	}
}

func TestAddChildSortsByName(t *testing.T) {
	parent := NewNode("root")
	for _, name := range []string{"F", "D", "E", "A"} {
		if err := parent.AddChild(NewNode(name)); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, c := range parent.Children() {
		got = append(got, c.Name())
	}
	want := []string{"A", "D", "E", "F"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected children %v, got %v", want, got)
		}
	}
}

func TestAddChildRejectsSecondParent(t *testing.T) {
	a, x, b := NewNode("A"), NewNode("X"), NewNode("B")
	if err := a.AddChild(b); err != nil {
		t.Fatal(err)
	}
	err := x.AddChild(b)
	if !errors.Is(err, ErrConflictingParent) {
		t.Fatalf("expected ErrConflictingParent, got %v", err)
	}
	if b.Parent() != a {
		t.Error("rejected edge must not rewire the child")
	}
	if len(x.Children()) != 0 {
		t.Error("rejected edge must not add a child")
	}
}

func TestAddChildRejectsCycle(t *testing.T) {
	a, b := NewNode("A"), NewNode("B")
	if err := a.AddChild(b); err != nil {
		t.Fatal(err)
	}
	if err := b.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	if err := a.AddChild(a); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle for self edge, got %v", err)
	}
}

func TestAddChildToCheckedLeafRederives(t *testing.T) {
	a := NewNode("A")
	a.Click()
	if a.State() != model.Checked {
		t.Fatalf("expected A Checked, got %v", a.State())
	}
	if err := a.AddChild(NewNode("B")); err != nil {
		t.Fatal(err)
	}
	if a.State() != model.Unchecked {
		t.Errorf("expected A to follow its new unchecked leaf, got %v", a.State())
	}
}

func TestDepthAndPath(t *testing.T) {
	f, err := Build([]string{"A/B/F"})
	if err != nil {
		t.Fatal(err)
	}
	node, _ := f.Lookup("F")
	if node.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", node.Depth())
	}
	if got := node.Path("/"); got != "A/B/F" {
		t.Errorf("expected path A/B/F, got %s", got)
	}
	root, _ := f.Lookup("A")
	if root.Depth() != 0 {
		t.Errorf("expected root depth 0, got %d", root.Depth())
	}
}

func TestLeavesPreOrder(t *testing.T) {
	f, err := Build([]string{"A/B/F", "A/B/D", "A/C", "A/B/E"})
	if err != nil {
		t.Fatal(err)
	}
	a, _ := f.Lookup("A")
	var got []string
	for _, l := range a.Leaves() {
		got = append(got, l.Name())
	}
	want := []string{"D", "E", "F", "C"}
	if len(got) != len(want) {
		t.Fatalf("expected leaves %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected leaves %v, got %v", want, got)
		}
	}

	d, _ := f.Lookup("D")
	if leaves := d.Leaves(); len(leaves) != 1 || leaves[0] != d {
		t.Errorf("a leaf's only leaf should be itself, got %v", leaves)
	}
}

func TestLine(t *testing.T) {
	f, err := Build([]string{"A/B"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := f.Lookup("B")
	if got := b.String(); got != ".[]B" {
		t.Errorf("expected .[]B, got %q", got)
	}
	b.Click()
	a, _ := f.Lookup("A")
	if got := a.String(); got != "[v]A" {
		t.Errorf("expected [v]A, got %q", got)
	}

	custom := Style{Indent: "  ", Checked: "[x]", Unchecked: "[ ]", Partial: "[-]"}
	if got := b.Line(custom); got != "  [x]B" {
		t.Errorf("expected custom line, got %q", got)
	}
}

func TestChildrenSortByteWise(t *testing.T) {
	f, err := Build([]string{"r/a", "r/B", "r/C"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := f.Lookup("r")
	var names []string
	for _, c := range r.Children() {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "B,C,a" {
		t.Errorf("expected upper case before lower case, got %s", got)
	}
}
