package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default purple
	MascotCelebrating                      // Gold, star eyes: a video is unlocked
	MascotProud                            // Green, graduation cap: every letter learned
)

const mascotIdle = `  ,___,
  (o,o)
  /)_)
 ""ABC""`

const mascotCelebrating = `  ,___,
  (*,*)  ♪
 \/)_)/
 ""ABC""`

const mascotProud = `  _▄▄▄_
  (^,^)
  /)_)
 ""A-Z""`

// MascotFor picks the variant for the learner's progress.
func MascotFor(allLearned, rewardReady bool) MascotVariant {
	switch {
	case rewardReady:
		return MascotCelebrating
	case allLearned:
		return MascotProud
	default:
		return MascotIdle
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.ArcadeYellow
	case MascotProud:
		art = mascotProud
		fg = theme.Success
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
