package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// MultiChoice is a multiple-choice selector. Options are picked with the
// arrow keys and enter, or directly with their number.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Selected     int
	Submitted    bool
	ChosenIndex  int
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(question string, options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "left", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "right", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter", "space":
		m.choose(m.Selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			m.choose(n - 1)
		}
	}

	return m, nil
}

func (m *MultiChoice) choose(i int) {
	m.Submitted = true
	m.ChosenIndex = i
}

// Retry reopens the question after a wrong answer, keeping the wrong option
// marked.
func (m *MultiChoice) Retry() {
	m.Submitted = false
}

// Chosen returns the option text picked last, or "".
func (m MultiChoice) Chosen() string {
	if m.ChosenIndex < 0 || m.ChosenIndex >= len(m.Options) {
		return ""
	}
	return m.Options[m.ChosenIndex]
}

// View renders the options side by side as big buttons.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	base := lipgloss.NewStyle().
		Width(9).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	var buttons []string
	for i, opt := range m.Options {
		label := fmt.Sprintf("%d  %s", i+1, opt)
		style := base.BorderForeground(theme.Border).Foreground(theme.Text)

		switch {
		case m.Submitted && i == m.CorrectIndex && m.ChosenIndex == m.CorrectIndex:
			style = base.BorderForeground(theme.Success).Foreground(theme.Success).Bold(true)
		case i == m.ChosenIndex && m.ChosenIndex != m.CorrectIndex:
			style = base.BorderForeground(theme.Error).Foreground(theme.Error)
		case i == m.Selected && !m.Submitted:
			style = base.BorderForeground(theme.ArcadeYellow).Foreground(theme.ArcadeYellow).Bold(true)
		}
		buttons = append(buttons, style.Render(label))
	}

	return s + lipgloss.JoinHorizontal(lipgloss.Top, buttons...)
}

// IsCorrect returns true if the user chose the correct answer.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.ChosenIndex == m.CorrectIndex
}
