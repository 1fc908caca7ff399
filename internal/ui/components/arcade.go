package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for all arcade sections.
// All boxes are rendered at this width so they visually align.
func ContentWidth(frameWidth int) int {
	// Leave room for cabinet border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// CabinetFrame wraps content in a double-border cabinet frame,
// centering vertically and horizontally within the given dimensions.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card at the given content width.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// LetterTile renders one letter of the alphabet strip. The current letter
// is highlighted; learned letters are green.
func LetterTile(letter string, learned, current bool) string {
	style := lipgloss.NewStyle()
	switch {
	case current:
		style = style.Foreground(theme.BgDark).Background(theme.ArcadeYellow).Bold(true)
	case learned:
		style = style.Inherit(theme.Learned)
	default:
		style = style.Inherit(theme.Unlearned)
	}
	return style.Render(letter)
}
