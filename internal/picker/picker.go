// Package picker provides a minimal terminal list-selection widget, used to
// choose a launch profile when none is given on the command line.
package picker

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrAborted is returned when the user dismisses the picker without choosing.
var ErrAborted = errors.New("selection aborted")

// Model is the Bubble Tea model for the selection list.
type Model struct {
	title   string
	items   []string
	cursor  int
	choice  string
	aborted bool
}

// New creates a picker over the given items.
func New(title string, items []string) Model {
	return Model{title: title, items: items}
}

// Choice returns the selected item, or "" if nothing was chosen.
func (m Model) Choice() string {
	return m.choice
}

// Aborted reports whether the user dismissed the picker.
func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			if len(m.items) > 0 {
				m.choice = m.items[m.cursor]
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("  " + titleStyle.Render(m.title) + "\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", cursorStyle.Render(">"), selectedStyle.Render(item)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", itemStyle.Render(item)))
		}
	}

	b.WriteString("\n  " + footerStyle.Render("↑/↓: move   enter: select   q: cancel") + "\n")

	return b.String()
}

// Pick runs the picker and returns the chosen item. Returns ErrAborted when
// the user cancels.
func Pick(title string, items []string) (string, error) {
	p := tea.NewProgram(New(title, items))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	m, ok := final.(Model)
	if !ok || m.Aborted() || m.Choice() == "" {
		return "", ErrAborted
	}
	return m.Choice(), nil
}
