package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeselect/pkg/tree"
)

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Click       key.Binding
	Expand      key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Parent      key.Binding
	Top         key.Binding
	Bottom      key.Binding
	PageDown    key.Binding
	PageUp      key.Binding
	Copy        key.Binding
	Help        key.Binding
	Quit        key.Binding
	Abort       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		Left:        key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "collapse")),
		Right:       key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "expand")),
		Click:       key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "click")),
		Expand:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "fold")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Parent:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parent")),
		Top:         key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		PageDown:    key.NewBinding(key.WithKeys("ctrl+d", "pgdown"), key.WithHelp("ctrl+d", "page down")),
		PageUp:      key.NewBinding(key.WithKeys("ctrl+u", "pgup"), key.WithHelp("ctrl+u", "page up")),
		Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "done")),
		Abort:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "abort")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Expand, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Parent},
		{k.Top, k.Bottom, k.PageDown, k.PageUp},
		{k.Click, k.Expand, k.ExpandAll, k.CollapseAll},
		{k.Copy, k.Help, k.Quit, k.Abort},
	}
}

// Options configures the interactive model.
type Options struct {
	Title     string
	Style     tree.Style
	Theme     Theme
	Clipboard func(string) error // defaults to the system clipboard
}

// Model is the bubbletea model for interactive tree selection.
type Model struct {
	tree     TreeModel
	keys     keyMap
	help     help.Model
	helpView viewport.Model
	theme    Theme
	title    string
	copy     func(string) error

	showHelp bool
	status   string
	ready    bool
	aborted  bool
	width    int
	height   int

	clicks []string // Names clicked this session, in order
}

// NewModel creates a model displaying f.
func NewModel(f *tree.Forest, opts Options) Model {
	if opts.Theme.Renderer == nil {
		opts.Theme = DefaultTheme(nil)
	}
	if opts.Style == (tree.Style{}) {
		opts.Style = tree.DefaultStyle()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Title == "" {
		opts.Title = "tsel"
	}

	t := NewTreeModel(opts.Theme, opts.Style)
	t.SetForest(f)

	return Model{
		tree:  t,
		keys:  defaultKeyMap(),
		help:  help.New(),
		theme: opts.Theme,
		title: opts.Title,
		copy:  opts.Clipboard,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		bodyHeight := msg.Height - 2 // header + footer
		if bodyHeight < 1 {
			bodyHeight = 1
		}
		m.tree.SetSize(msg.Width, bodyHeight)
		m.help.Width = msg.Width
		m.helpView = viewport.New(msg.Width, bodyHeight)
		m.helpView.SetContent(RenderHelp(m.theme, msg.Width))
		return m, nil

	case ReloadedMsg:
		if msg.Forest == nil {
			return m, nil
		}
		if prev := m.tree.Forest(); prev != nil {
			msg.Forest.Restore(prev.Checked())
		}
		m.tree.SetForest(msg.Forest)
		m.status = fmt.Sprintf("reloaded: %d nodes", msg.Forest.Len())
		return m, nil

	case ReloadErrorMsg:
		m.status = fmt.Sprintf("reload failed: %v", msg.Err)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Abort) {
			m.aborted = true
			return m, tea.Quit
		}
		if m.showHelp {
			return m.updateHelp(msg)
		}
		return m.updateTree(msg)
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), msg.String() == "esc", key.Matches(msg, m.keys.Quit):
		m.showHelp = false
		return m, nil
	}
	var cmd tea.Cmd
	m.helpView, cmd = m.helpView.Update(msg)
	return m, cmd
}

func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView.GotoTop()
	case key.Matches(msg, m.keys.Up):
		m.tree.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.tree.MoveDown()
	case key.Matches(msg, m.keys.Left):
		m.tree.CollapseOrJumpToParent()
	case key.Matches(msg, m.keys.Right):
		m.tree.ExpandOrMoveToChild()
	case key.Matches(msg, m.keys.Parent):
		m.tree.JumpToParent()
	case key.Matches(msg, m.keys.Top):
		m.tree.JumpToTop()
	case key.Matches(msg, m.keys.Bottom):
		m.tree.JumpToBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.tree.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.tree.PageUp()
	case key.Matches(msg, m.keys.Expand):
		m.tree.ToggleExpand()
	case key.Matches(msg, m.keys.ExpandAll):
		m.tree.ExpandAll()
	case key.Matches(msg, m.keys.CollapseAll):
		m.tree.CollapseAll()
	case key.Matches(msg, m.keys.Click):
		name := m.tree.SelectedName()
		if m.tree.ClickSelected() {
			m.clicks = append(m.clicks, name)
		}
	case key.Matches(msg, m.keys.Copy):
		if err := m.copy(strings.Join(m.tree.PlainLines(), "\n")); err != nil {
			m.status = fmt.Sprintf("copy failed: %v", err)
		} else {
			m.status = "copied selection to clipboard"
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var body string
	if m.showHelp {
		body = m.helpView.View()
	} else {
		body = m.tree.View()
	}

	bodyHeight := m.height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = m.theme.Renderer.NewStyle().Height(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) renderHeader() string {
	r := m.theme.Renderer
	titleStyle := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Padding(0, 1)
	countStyle := r.NewStyle().Foreground(m.theme.Subtext)

	var selected, leaves int
	if f := m.tree.Forest(); f != nil {
		selected = len(f.Checked())
		leaves = len(f.Leaves())
	}
	count := fmt.Sprintf("%d/%d leaves selected", selected, leaves)
	return titleStyle.Render(m.title) + countStyle.Render(count)
}

func (m Model) renderFooter() string {
	if m.status != "" {
		return m.theme.Renderer.NewStyle().Foreground(m.theme.Highlight).Padding(0, 1).Render(m.status)
	}
	return m.theme.Renderer.NewStyle().Padding(0, 1).Render(m.help.View(m.keys))
}

// Forest returns the forest currently displayed.
func (m Model) Forest() *tree.Forest {
	return m.tree.Forest()
}

// Aborted reports whether the user quit with ctrl+c.
func (m Model) Aborted() bool {
	return m.aborted
}

// Clicks returns the names clicked during the session, in order.
func (m Model) Clicks() []string {
	out := make([]string, len(m.clicks))
	copy(out, m.clicks)
	return out
}

// Status returns the footer status message.
func (m Model) Status() string {
	return m.status
}
