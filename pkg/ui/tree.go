package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeselect/pkg/tree"
)

// TreeModel is a navigable, collapsible view over a tree-select forest.
//
// Nodes are expanded unless the user collapsed them. Collapse state is keyed
// by node name so it survives a reload of the forest.
type TreeModel struct {
	forest    *tree.Forest
	roots     []*tree.Node
	flatList  []*tree.Node    // Flattened visible nodes for navigation
	collapsed map[string]bool // Node name -> collapsed by the user
	cursor    int             // Current selection index in flatList

	theme Theme
	style tree.Style

	width          int
	height         int
	viewportOffset int // Index of first visible node
}

// NewTreeModel creates an empty tree model.
func NewTreeModel(theme Theme, style tree.Style) TreeModel {
	return TreeModel{
		theme:     theme,
		style:     style,
		collapsed: make(map[string]bool),
	}
}

// SetSize updates the available dimensions for the tree view.
func (t *TreeModel) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.ensureCursorVisible()
}

// SetForest replaces the displayed forest, keeping the cursor on the same
// node name when it still exists.
func (t *TreeModel) SetForest(f *tree.Forest) {
	selected := t.SelectedName()

	t.forest = f
	t.roots = nil
	if f != nil {
		t.roots = f.Roots()
	}
	t.rebuildFlatList()

	if selected == "" || !t.SelectByName(selected) {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// Forest returns the forest being displayed.
func (t *TreeModel) Forest() *tree.Forest {
	return t.forest
}

// View renders the visible window of the tree.
func (t *TreeModel) View() string {
	if len(t.flatList) == 0 {
		return t.renderEmptyState()
	}

	var sb strings.Builder
	start, end := t.visibleRange()
	for i := start; i < end; i++ {
		isSelected := i == t.cursor
		line := t.renderNode(t.flatList[i])
		if isSelected {
			line = t.theme.Selected.Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *TreeModel) renderEmptyState() string {
	r := t.theme.Renderer
	titleStyle := r.NewStyle().Foreground(t.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(t.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Tree Select"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("No nodes to display."))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("Provide paths with --input or --paths."))
	return sb.String()
}

// renderNode renders a single node with branch characters and its
// state-colored glyph.
func (t *TreeModel) renderNode(node *tree.Node) string {
	r := t.theme.Renderer
	var sb strings.Builder

	prefix := t.buildTreePrefix(node)
	sb.WriteString(prefix)

	indicator := t.getExpandIndicator(node)
	sb.WriteString(r.NewStyle().Foreground(t.theme.Secondary).Render(indicator))
	sb.WriteString(" ")

	glyph := t.style.Glyph(node.State())
	glyphStyle := r.NewStyle().Foreground(t.theme.StateColor(node.State())).Bold(true)
	sb.WriteString(glyphStyle.Render(glyph))
	sb.WriteString(" ")

	maxNameLen := t.width - lipgloss.Width(prefix) - runewidth.StringWidth(glyph) - 4
	if maxNameLen < 10 {
		maxNameLen = 10
	}
	sb.WriteString(t.truncateName(node.Name(), maxNameLen))

	return sb.String()
}

// buildTreePrefix builds the indentation and branch characters for a node.
func (t *TreeModel) buildTreePrefix(node *tree.Node) string {
	if node.Parent() == nil {
		return ""
	}

	treeStyle := t.theme.Renderer.NewStyle().Foreground(t.theme.Muted)
	var prefixParts []string

	ancestors := t.getAncestors(node)
	// ancestors[0] is a root; it never draws a rail
	for i := 1; i < len(ancestors)-1; i++ {
		if t.hasSiblingsBelow(ancestors[i]) {
			prefixParts = append(prefixParts, "│   ")
		} else {
			prefixParts = append(prefixParts, "    ")
		}
	}

	if t.isLastChild(node) {
		prefixParts = append(prefixParts, "└── ")
	} else {
		prefixParts = append(prefixParts, "├── ")
	}

	return treeStyle.Render(strings.Join(prefixParts, ""))
}

// getAncestors returns the path from the root down to node, node included.
func (t *TreeModel) getAncestors(node *tree.Node) []*tree.Node {
	var ancestors []*tree.Node
	for current := node; current != nil; current = current.Parent() {
		ancestors = append(ancestors, current)
	}
	for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
		ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
	}
	return ancestors
}

// hasSiblingsBelow reports whether node is followed by a sibling.
func (t *TreeModel) hasSiblingsBelow(node *tree.Node) bool {
	siblings := t.roots
	if node.Parent() != nil {
		siblings = node.Parent().Children()
	}
	for i, sibling := range siblings {
		if sibling == node {
			return i < len(siblings)-1
		}
	}
	return false
}

func (t *TreeModel) isLastChild(node *tree.Node) bool {
	return !t.hasSiblingsBelow(node)
}

func (t *TreeModel) getExpandIndicator(node *tree.Node) string {
	if node.IsLeaf() {
		return "•"
	}
	if t.collapsed[node.Name()] {
		return "▸"
	}
	return "▾"
}

// truncateName shortens name to maxWidth display cells with an ellipsis.
func (t *TreeModel) truncateName(name string, maxWidth int) string {
	if runewidth.StringWidth(name) <= maxWidth {
		return name
	}
	return runewidth.Truncate(name, maxWidth, "…")
}

// SelectedNode returns the node under the cursor, or nil.
func (t *TreeModel) SelectedNode() *tree.Node {
	if t.cursor >= 0 && t.cursor < len(t.flatList) {
		return t.flatList[t.cursor]
	}
	return nil
}

// SelectedName returns the name of the node under the cursor, or "".
func (t *TreeModel) SelectedName() string {
	if node := t.SelectedNode(); node != nil {
		return node.Name()
	}
	return ""
}

// SelectByName moves the cursor to the named node if it is visible.
func (t *TreeModel) SelectByName(name string) bool {
	for i, node := range t.flatList {
		if node.Name() == name {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// ClickSelected clicks the node under the cursor.
func (t *TreeModel) ClickSelected() bool {
	node := t.SelectedNode()
	if node == nil {
		return false
	}
	node.Click()
	return true
}

func (t *TreeModel) MoveDown() {
	if t.cursor < len(t.flatList)-1 {
		t.cursor++
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureCursorVisible()
}

// ToggleExpand expands or collapses the selected node.
func (t *TreeModel) ToggleExpand() {
	node := t.SelectedNode()
	if node == nil || node.IsLeaf() {
		return
	}
	t.setCollapsed(node, !t.collapsed[node.Name()])
	t.rebuildFlatList()
}

// ExpandAll expands every node.
func (t *TreeModel) ExpandAll() {
	t.collapsed = make(map[string]bool)
	t.rebuildFlatList()
	t.ensureCursorVisible()
}

// CollapseAll collapses every internal node and moves the cursor to the
// root that contained it.
func (t *TreeModel) CollapseAll() {
	var top string
	if node := t.SelectedNode(); node != nil {
		ancestors := t.getAncestors(node)
		top = ancestors[0].Name()
	}
	if t.forest != nil {
		t.forest.Walk(func(n *tree.Node) {
			if !n.IsLeaf() {
				t.collapsed[n.Name()] = true
			}
		})
	}
	t.rebuildFlatList()
	if top != "" {
		t.SelectByName(top)
	}
}

func (t *TreeModel) JumpToTop() {
	t.cursor = 0
	t.ensureCursorVisible()
}

func (t *TreeModel) JumpToBottom() {
	if len(t.flatList) > 0 {
		t.cursor = len(t.flatList) - 1
	}
	t.ensureCursorVisible()
}

// JumpToParent moves the cursor to the parent of the selected node.
// Does nothing on a root.
func (t *TreeModel) JumpToParent() {
	node := t.SelectedNode()
	if node == nil || node.Parent() == nil {
		return
	}
	t.SelectByName(node.Parent().Name())
}

// ExpandOrMoveToChild handles the → / l key: a collapsed node expands, an
// expanded node moves the cursor to its first child.
func (t *TreeModel) ExpandOrMoveToChild() {
	node := t.SelectedNode()
	if node == nil || node.IsLeaf() {
		return
	}
	if t.collapsed[node.Name()] {
		t.setCollapsed(node, false)
		t.rebuildFlatList()
		return
	}
	t.SelectByName(node.Children()[0].Name())
}

// CollapseOrJumpToParent handles the ← / h key: an expanded node collapses,
// anything else jumps to the parent.
func (t *TreeModel) CollapseOrJumpToParent() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	if !node.IsLeaf() && !t.collapsed[node.Name()] {
		t.setCollapsed(node, true)
		t.rebuildFlatList()
		return
	}
	t.JumpToParent()
}

// PageDown moves the cursor down by half a viewport.
func (t *TreeModel) PageDown() {
	t.cursor += t.pageSize()
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// PageUp moves the cursor up by half a viewport.
func (t *TreeModel) PageUp() {
	t.cursor -= t.pageSize()
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeModel) pageSize() int {
	pageSize := t.height / 2
	if pageSize < 1 {
		pageSize = 5
	}
	return pageSize
}

func (t *TreeModel) visibleCount() int {
	if t.height <= 0 {
		return 20
	}
	return t.height
}

// visibleRange returns the half-open index range of nodes in the viewport.
func (t *TreeModel) visibleRange() (start, end int) {
	if len(t.flatList) == 0 {
		return 0, 0
	}
	visible := t.visibleCount()

	start = t.viewportOffset
	end = start + visible
	if end > len(t.flatList) {
		end = len(t.flatList)
		start = end - visible
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// ensureCursorVisible scrolls so the cursor is inside the viewport.
func (t *TreeModel) ensureCursorVisible() {
	visible := t.visibleCount()
	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visible {
		t.viewportOffset = t.cursor - visible + 1
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

func (t *TreeModel) setCollapsed(node *tree.Node, collapsed bool) {
	if collapsed {
		t.collapsed[node.Name()] = true
	} else {
		delete(t.collapsed, node.Name())
	}
}

// rebuildFlatList rebuilds the flattened list of visible nodes.
func (t *TreeModel) rebuildFlatList() {
	t.flatList = t.flatList[:0]
	for _, root := range t.roots {
		t.appendVisible(root)
	}
	if t.cursor >= len(t.flatList) {
		t.cursor = len(t.flatList) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
}

func (t *TreeModel) appendVisible(node *tree.Node) {
	t.flatList = append(t.flatList, node)
	if t.collapsed[node.Name()] {
		return
	}
	for _, child := range node.Children() {
		t.appendVisible(child)
	}
}

// NodeCount returns the number of visible nodes.
func (t *TreeModel) NodeCount() int {
	return len(t.flatList)
}

// RootCount returns the number of root nodes.
func (t *TreeModel) RootCount() int {
	return len(t.roots)
}

// PlainLines renders the whole forest in the plain tree-select format,
// ignoring collapse state.
func (t *TreeModel) PlainLines() []string {
	if t.forest == nil {
		return nil
	}
	return tree.Render(t.forest, t.style)
}
