package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(key(k))
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned unexpected model type %T", next)
		}
	}
	return m
}

func TestEnterSelectsFirstItem(t *testing.T) {
	m := update(t, New("Profile", []string{"fast", "careful"}), "enter")
	if m.Choice() != "fast" {
		t.Errorf("choice = %q, want %q", m.Choice(), "fast")
	}
	if m.Aborted() {
		t.Error("expected not aborted")
	}
}

func TestNavigationMovesCursor(t *testing.T) {
	m := update(t, New("Profile", []string{"a", "b", "c"}), "down", "down", "enter")
	if m.Choice() != "c" {
		t.Errorf("choice = %q, want %q", m.Choice(), "c")
	}
}

func TestVimKeysNavigate(t *testing.T) {
	m := update(t, New("Profile", []string{"a", "b", "c"}), "j", "j", "k", "enter")
	if m.Choice() != "b" {
		t.Errorf("choice = %q, want %q", m.Choice(), "b")
	}
}

func TestCursorClampedAtBounds(t *testing.T) {
	m := update(t, New("Profile", []string{"a", "b"}), "up", "up", "enter")
	if m.Choice() != "a" {
		t.Errorf("choice after up at top = %q, want %q", m.Choice(), "a")
	}

	m = update(t, New("Profile", []string{"a", "b"}), "down", "down", "down", "enter")
	if m.Choice() != "b" {
		t.Errorf("choice after down at bottom = %q, want %q", m.Choice(), "b")
	}
}

func TestAbortKeys(t *testing.T) {
	for _, k := range []string{"q", "esc", "ctrl+c"} {
		m := update(t, New("Profile", []string{"a"}), k)
		if !m.Aborted() {
			t.Errorf("key %q: expected aborted", k)
		}
		if m.Choice() != "" {
			t.Errorf("key %q: choice = %q, want empty", k, m.Choice())
		}
	}
}

func TestEnterOnEmptyListLeavesNoChoice(t *testing.T) {
	m := update(t, New("Profile", nil), "enter")
	if m.Choice() != "" {
		t.Errorf("choice = %q, want empty", m.Choice())
	}
}

func TestViewShowsCursorOnSelectedItem(t *testing.T) {
	m := update(t, New("Profile", []string{"a", "b"}), "down")
	view := m.View()
	if !strings.Contains(view, "Profile") {
		t.Error("view missing title")
	}
	if !strings.Contains(view, "a") || !strings.Contains(view, "b") {
		t.Error("view missing items")
	}
}
