package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

const arcadeTitleFull = `  █████╗ ██████╗  ██████╗
 ██╔══██╗██╔══██╗██╔════╝
 ███████║██████╔╝██║
 ██╔══██║██╔══██╗██║
 ██║  ██║██████╔╝╚██████╗
 ╚═╝  ╚═╝╚═════╝  ╚═════╝`

const arcadeTitleCompact = "A · B · C   A D V E N T U R E"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := arcadeTitleFull
	if compact {
		title = arcadeTitleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderLetterCard shows the selected letter with its picture word. The
// hint line tracks which of the two sounds were played.
func renderLetterCard(item letters.Item, learned, heardLetter, heardWord bool, cw int, compact bool) string {
	letter := theme.BigLetter.Render(item.Letter + " " + strings.ToLower(item.Letter))
	word := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(item.Emoji + "  " + item.Word)

	badge := ""
	if learned {
		badge = "  " + theme.Learned.Render("✓ learned")
	}

	check := func(done bool, label string) string {
		if done {
			return theme.Correct.Render("✓ " + label)
		}
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ " + label)
	}
	hint := check(heardLetter, "[S] say letter") + "   " + check(heardWord, "[W] say word")

	if compact {
		return lipgloss.NewStyle().
			Width(cw).
			Align(lipgloss.Center).
			Render(letter + "   " + word + badge + "\n" + hint)
	}
	return components.ArcadeCard(letter+"\n\n"+word+badge+"\n\n"+hint, cw)
}

// renderAlphabet draws the 26-letter strip.
func renderAlphabet(current int, learned map[string]bool, cw int) string {
	tiles := make([]string, 0, len(letters.All))
	for i, item := range letters.All {
		tiles = append(tiles, components.LetterTile(item.Letter, learned[item.Letter], i == current))
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(tiles, " "))
}

// renderStatsBar renders the dashboard stats in a bordered box matching content width.
func renderStatsBar(learned, score, available, cw int, compact bool) string {
	learnedStyle := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	videoStyle := lipgloss.NewStyle().Foreground(theme.ArcadePink).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	videos := dimStyle.Render("🎬 0")
	if available > 0 {
		videos = videoStyle.Render(fmt.Sprintf("🎬 %d", available))
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			learnedStyle.Render(fmt.Sprintf("✓%d/%d", learned, len(letters.All))),
			scoreStyle.Render(fmt.Sprintf("★%d", score)),
			videos,
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			learnedStyle.Render(fmt.Sprintf("✓ %d/%d LETTERS", learned, len(letters.All))),
			scoreStyle.Render(fmt.Sprintf("★ %d POINTS", score)),
			videos+videoStyle.Render(" READY"),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// rewardStatusText explains how far the next reward video is.
func rewardStatusText(settings reward.Settings, status reward.Status) string {
	switch {
	case !settings.RewardEnabled:
		return "Video rewards are off (a parent can turn them on)."
	case status.AvailableSessions > 0:
		return fmt.Sprintf("You unlocked %d video reward%s! Watch now.", status.AvailableSessions, plural(status.AvailableSessions))
	default:
		remain := status.LettersPerReward - status.ProgressToNextReward
		return fmt.Sprintf("Learn %d more letter%s to watch a %d-second video.", remain, plural(remain), settings.RewardSeconds)
	}
}

func renderRewardProgress(settings reward.Settings, status reward.Status, cw int) string {
	bar := components.NewCountBar("🎬", status.ProgressToNextReward, status.LettersPerReward, cw)
	if status.AvailableSessions > 0 {
		bar = components.NewCountBar("🎬", status.LettersPerReward, status.LettersPerReward, cw)
	}
	text := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(rewardStatusText(settings, status))
	if !settings.RewardEnabled {
		return text
	}
	return bar.View() + "\n" + text
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a fixed-width button.
func renderArcadeMenu(items []components.MenuItem, selected int, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.ArcadeYellow).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.ArcadeYellow).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	var buttons []string
	for i, item := range items {
		switch {
		case item.Disabled:
			buttons = append(buttons, disabledBtn.Render(item.Label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, normalBtn.Render(item.Label))
		}
	}

	// Two columns keep the menu short enough to sit under the letter card.
	half := (len(buttons) + 1) / 2
	left := strings.Join(buttons[:half], "\n")
	right := strings.Join(buttons[half:], "\n")

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
}

// renderArcadeMenuCompact renders menu items as simple text lines (no borders)
// for very small terminals where bordered buttons would overflow.
func renderArcadeMenuCompact(items []components.MenuItem, selected int, cw int) string {
	var parts []string
	for i, item := range items {
		var part string
		switch {
		case item.Disabled:
			part = lipgloss.NewStyle().
				Foreground(theme.TextDim).
				Render(" " + item.Label + " ")
		case i == selected:
			part = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render("▸" + item.Label + " ")
		default:
			part = lipgloss.NewStyle().
				Foreground(theme.Text).
				Render(" " + item.Label + " ")
		}
		parts = append(parts, part)
	}

	// Wrap into lines that fit the content width.
	var lines []string
	line := ""
	for _, p := range parts {
		if line != "" && lipgloss.Width(line)+lipgloss.Width(p) > cw {
			lines = append(lines, line)
			line = ""
		}
		line += p
	}
	if line != "" {
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
