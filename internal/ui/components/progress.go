package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar. When Total is set the
// bar is labelled with a count ("2/3") instead of a percentage.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int

	Done  int
	Total int
	Fill  lipgloss.Style
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
		Fill:        lipgloss.NewStyle().Background(theme.Secondary),
	}
}

// NewCountBar creates a bar for done out of total steps.
func NewCountBar(label string, done, total, width int) ProgressBar {
	p := NewProgressBar(label, 0, false, width)
	p.Done = done
	p.Total = total
	if total > 0 {
		p.Percent = float64(done) / float64(total)
	}
	return p
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	suffix := ""
	switch {
	case p.Total > 0:
		suffix = fmt.Sprintf("  %d/%d", p.Done, p.Total)
	case p.ShowPercent:
		suffix = fmt.Sprintf("  %d%%", int(p.Percent*100))
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	empty := barWidth - filled

	result += p.Fill.Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", empty))

	if suffix != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}

	return result
}
