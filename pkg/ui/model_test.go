package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treeselect/pkg/tree"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

// send feeds msgs through Update and returns the final model.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func newTestModel(t *testing.T, clip func(string) error) Model {
	t.Helper()
	m := NewModel(buildSample(t), Options{
		Title:     "test",
		Theme:     testTheme(),
		Clipboard: clip,
	})
	return send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
}

func TestModel_ClickSequenceMatchesRendering(t *testing.T) {
	m := newTestModel(t, nil)

	// A, B, D, E are the first four visible rows
	m = send(t, m,
		keySpace, keyRune('j'),
		keySpace, keyRune('j'),
		keySpace, keyRune('j'),
		keySpace,
	)

	got := strings.Join(tree.Render(m.Forest(), tree.DefaultStyle()), "\n")
	want := strings.Join([]string{
		"[o]A", ".[o]B", "..[v]D", "..[v]E", "..[]F", ".[v]C", "[]X", ".[]Y", ".[]Z",
	}, "\n")
	if got != want {
		t.Errorf("unexpected rendering\nwant:\n%s\ngot:\n%s", want, got)
	}
	if strings.Join(m.Clicks(), ",") != "A,B,D,E" {
		t.Errorf("unexpected click log: %v", m.Clicks())
	}
	if err := m.Forest().Verify(); err != nil {
		t.Errorf("forest invariants broken: %v", err)
	}
}

func TestModel_ViewShowsHeaderAndCount(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, keyRune('G'), keySpace) // Z

	view := m.View()
	if !strings.Contains(view, "test") {
		t.Errorf("expected title in view:\n%s", view)
	}
	if !strings.Contains(view, "1/6 leaves selected") {
		t.Errorf("expected selection count in view:\n%s", view)
	}
}

func TestModel_NotReadyView(t *testing.T) {
	m := NewModel(buildSample(t), Options{Theme: testTheme()})
	if m.View() != "Initializing..." {
		t.Errorf("unexpected view before size: %q", m.View())
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, nil)

	m = send(t, m, keyRune('?'))
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Errorf("expected help overlay:\n%s", m.View())
	}

	// Keys do not reach the tree while help is open
	m = send(t, m, keySpace)
	if len(m.Forest().Checked()) != 0 {
		t.Error("click leaked through the help overlay")
	}

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if strings.Contains(m.View(), "Quick Reference") {
		t.Error("expected esc to close help")
	}
}

func TestModel_CopyToClipboard(t *testing.T) {
	var copied string
	m := newTestModel(t, func(s string) error {
		copied = s
		return nil
	})

	m = send(t, m, keySpace, keyRune('y'))
	if !strings.HasPrefix(copied, "[v]A\n.[v]B") {
		t.Errorf("unexpected clipboard content:\n%s", copied)
	}
	if m.Status() != "copied selection to clipboard" {
		t.Errorf("unexpected status %q", m.Status())
	}

	m = send(t, m, keyRune('j'))
	if m.Status() != "" {
		t.Errorf("expected status cleared on next key, got %q", m.Status())
	}
}

func TestModel_CopyFailure(t *testing.T) {
	m := newTestModel(t, func(string) error { return errors.New("no clipboard") })
	m = send(t, m, keyRune('y'))
	if !strings.Contains(m.Status(), "no clipboard") {
		t.Errorf("expected failure status, got %q", m.Status())
	}
}

func TestModel_QuitAndAbort(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg from q")
	}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !next.(Model).Aborted() {
		t.Error("expected ctrl+c to mark the model aborted")
	}
}

func TestModel_ReloadPreservesSelection(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, keyRune('G'), keySpace) // check Z
	if got := m.Forest().Checked(); len(got) != 1 || got[0] != "Z" {
		t.Fatalf("unexpected selection before reload: %v", got)
	}

	f, err := tree.Build([]string{"X/Y", "X/Z", "X/W"})
	if err != nil {
		t.Fatal(err)
	}
	m = send(t, m, ReloadedMsg{Forest: f})

	if m.Forest() != f {
		t.Fatal("expected reloaded forest to be displayed")
	}
	if got := m.Forest().Checked(); len(got) != 1 || got[0] != "Z" {
		t.Errorf("expected Z still checked, got %v", got)
	}
	node, _ := f.Lookup("X")
	if node.State().String() != "partial" {
		t.Errorf("expected X partial after restore, got %v", node.State())
	}
	if !strings.Contains(m.Status(), "reloaded") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestModel_ReloadError(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.Forest()
	m = send(t, m, ReloadErrorMsg{Err: errors.New("bad input"), Recoverable: true})
	if m.Forest() != before {
		t.Error("forest should be kept on reload failure")
	}
	if !strings.Contains(m.Status(), "bad input") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestModel_CollapseKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m = send(t, m, keyRune('C'))
	if strings.Contains(m.View(), "[] D") {
		t.Errorf("expected D hidden after collapse all:\n%s", m.View())
	}
	m = send(t, m, keyRune('E'))
	if !strings.Contains(m.View(), "[] D") {
		t.Errorf("expected D visible after expand all:\n%s", m.View())
	}
}
