package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/dustin/go-humanize"

	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

const maxSessions = 50

type historyLoadedMsg struct {
	Sessions []progress.SessionSummary
	Err      error
}

// HistoryScreen lists past reward video sessions.
type HistoryScreen struct {
	progress *progress.Service
	sessions []progress.SessionSummary
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(svc *progress.Service) *HistoryScreen {
	return &HistoryScreen{
		progress: svc,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.progress.Sessions(context.Background(), maxSessions)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "Video Log"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func outcomeLabel(sum progress.SessionSummary) (string, lipgloss.Style) {
	switch sum.Outcome {
	case "end":
		return "watched", lipgloss.NewStyle().Foreground(theme.Success)
	case "abort":
		return "stopped", lipgloss.NewStyle().Foreground(theme.Error)
	default:
		return "unfinished", lipgloss.NewStyle().Foreground(theme.TextDim)
	}
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading video log...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No videos yet. Learn letters to unlock one!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sum := range s.sessions {
		label, outcomeStyle := outcomeLabel(sum)

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		flags := ""
		if sum.Resumed {
			flags += " ↻"
		}
		if sum.Skips > 0 {
			flags += fmt.Sprintf(" %d skipped", sum.Skips)
		}

		line := fmt.Sprintf("%s%-16s  %6s  ", prefix, humanize.Time(sum.Started), sum.Duration().Round(1e9))

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+outcomeStyle.Render(label)+style.Render(flags)))
		b.WriteString("\n")

		if s.expanded[i] {
			dim := lipgloss.NewStyle().Foreground(theme.TextDim)
			details := []string{"    videos: " + strings.Join(sum.Videos, " → ")}
			if sum.Reason != "" {
				details = append(details, "    reason: "+sum.Reason)
			}
			details = append(details, "    session: "+sum.SessionID)
			for _, d := range details {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, dim.Render(d)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}
