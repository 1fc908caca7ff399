// Package rewardplay renders the full-screen reward video overlay and turns
// keyboard and mouse input into orchestrator calls. While a session is live
// every other input is swallowed.
package rewardplay

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
	"github.com/abhisek/abcadventure/internal/ui/theme"
)

// Pointer ids handed to the lock gesture.
const (
	keyPointer   = 0
	mousePointer = 1
)

const seekStep = 10

// holdGap is how long a keyboard hold survives without another press when
// the terminal cannot report releases. It covers the usual auto-repeat
// delay before the first repeat.
const holdGap = 750 * time.Millisecond

// HoldCheckMsg asks the overlay whether a keyboard hold still sees presses.
type HoldCheckMsg struct {
	seq int
}

// Overlay is the reward playback view.
type Overlay struct {
	orch     *playback.Orchestrator
	settings func() reward.Settings

	pin     components.TextInput
	pinOpen bool
	resume  components.Button

	// keyRelease is true once the terminal confirmed it reports key
	// releases. Without it a single press of the lock key starts the hold.
	keyRelease bool
	// keyHold is set while a hold started by the keyboard has no release
	// coming.
	keyHold bool
	// holdSeq counts lock key presses during a keyHold.
	holdSeq int
}

// New creates the overlay for orch. settings supplies the live reward
// settings (duration and orientation).
func New(orch *playback.Orchestrator, settings func() reward.Settings) *Overlay {
	o := &Overlay{orch: orch, settings: settings}
	o.resume = components.NewButton("Continue watching", true, func() tea.Cmd {
		_ = o.orch.Continue()
		return nil
	})
	return o
}

// SetKeyRelease records whether the terminal reports key releases.
func (o *Overlay) SetKeyRelease(ok bool) {
	o.keyRelease = ok
}

// Sync aligns the PIN input with the orchestrator's prompt state. The
// prompt opens from a timer, so the app calls this after every message.
func (o *Overlay) Sync() tea.Cmd {
	_, prompting := o.orch.PINPurpose()
	switch {
	case prompting && !o.pinOpen:
		if o.keyHold {
			// Stand in for the release that ends the hold.
			o.keyHold = false
			o.orch.ClickLock()
		}
		o.pin = components.NewPINInput()
		o.pinOpen = true
		return o.pin.Init()
	case !prompting:
		o.pinOpen = false
	}
	return nil
}

// Update handles input while a session is live.
func (o *Overlay) Update(msg tea.Msg) tea.Cmd {
	// Hold checks and releases end the gesture even after the PIN prompt opened.
	switch msg := msg.(type) {
	case HoldCheckMsg:
		if o.keyHold && msg.seq == o.holdSeq && o.orch.LockState() == playback.Holding {
			o.orch.CancelLock(keyPointer)
			o.keyHold = false
		}
		return nil
	case tea.KeyReleaseMsg:
		if isLockKey(msg.String()) {
			o.orch.ReleaseLock(keyPointer)
			o.orch.ClickLock()
		}
		return nil
	case tea.MouseReleaseMsg:
		o.orch.ReleaseLock(mousePointer)
		o.orch.ClickLock()
		return nil
	}

	if o.pinOpen {
		return o.updatePIN(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return o.handleKey(msg)
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			o.orch.PressLock(mousePointer)
		}
	}
	return nil
}

func (o *Overlay) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if isLockKey(key) {
		if msg.IsRepeat {
			return nil
		}
		if !o.keyRelease && o.orch.LockState() == playback.Unlocked {
			o.orch.ClickLock()
			return nil
		}
		if o.keyHold && o.orch.LockState() == playback.Holding {
			// Auto-repeat keeps the hold alive without restarting it.
			return o.expectPress()
		}
		o.orch.PressLock(keyPointer)
		o.keyHold = !o.keyRelease && o.orch.LockState() == playback.Holding
		if o.keyHold {
			return o.expectPress()
		}
		return nil
	}

	if o.keyHold && o.orch.LockState() == playback.Holding {
		o.orch.CancelLock(keyPointer)
	}
	o.keyHold = false

	if o.orch.State() == playback.AwaitingManualResume {
		var cmd tea.Cmd
		o.resume, cmd = o.resume.Update(msg)
		return cmd
	}

	if o.orch.LockState() != playback.Unlocked {
		return nil
	}
	switch key {
	case "space", "p":
		o.orch.TogglePause()
	case "left":
		o.orch.SeekBy(-seekStep)
	case "right":
		o.orch.SeekBy(seekStep)
	case "x", "esc":
		o.orch.Exit()
	}
	return nil
}

// expectPress cancels the keyboard hold unless another press arrives
// within holdGap.
func (o *Overlay) expectPress() tea.Cmd {
	o.holdSeq++
	seq := o.holdSeq
	return tea.Tick(holdGap, func(time.Time) tea.Msg {
		return HoldCheckMsg{seq: seq}
	})
}

func (o *Overlay) updatePIN(msg tea.Msg) tea.Cmd {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch kmsg.String() {
	case "enter":
		if err := o.orch.SubmitPIN(o.pin.Value()); err != nil {
			o.pin.Submit(false)
			return nil
		}
		o.pinOpen = false
		return nil
	case "esc":
		o.orch.DismissPIN()
		o.pinOpen = false
		return nil
	}
	var cmd tea.Cmd
	o.pin, cmd = o.pin.Update(msg)
	return cmd
}

func isLockKey(key string) bool {
	return key == "l" || key == "L"
}

// KeyHints lists the keys that do something right now.
func (o *Overlay) KeyHints() []layout.KeyHint {
	if o.pinOpen {
		return []layout.KeyHint{
			{Key: "0-9", Description: "PIN"},
			{Key: "Enter", Description: "Unlock"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	if o.orch.State() == playback.AwaitingManualResume {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	}
	if o.orch.LockState() == playback.Unlocked {
		return []layout.KeyHint{
			{Key: "Space", Description: "Pause"},
			{Key: "←→", Description: "Seek"},
			{Key: "X", Description: "Exit video"},
			{Key: "L", Description: "Lock"},
		}
	}
	return []layout.KeyHint{{Key: "Hold L", Description: "Parent unlock"}}
}

// View renders the overlay inside width x height.
func (o *Overlay) View(width, height int) string {
	cw := components.ContentWidth(width)
	settings := o.settings()

	var sections []string
	sections = append(sections, lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true).
		Width(cw).
		Align(lipgloss.Center).
		Render("🎬 REWARD TIME!"))

	sections = append(sections, o.renderScreen(cw, settings.RewardOrientation))
	sections = append(sections, o.renderCountdown(cw, settings.RewardSeconds))

	switch {
	case o.pinOpen:
		sections = append(sections, o.renderPIN(cw))
	case o.orch.State() == playback.AwaitingManualResume:
		sections = append(sections, lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(o.resume.View()))
	}

	sections = append(sections, o.renderLock(cw))

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (o *Overlay) renderScreen(cw int, orientation reward.Orientation) string {
	id, idx := o.orch.CurrentVideo()
	total := len(o.orch.Candidates())

	var status string
	switch o.orch.State() {
	case playback.Starting:
		status = "Getting the video ready…"
	case playback.AwaitingManualResume:
		status = "Your video is waiting for you."
	case playback.PlayingCandidate:
		status = fmt.Sprintf("Starting video %d of %d…", idx+1, total)
	case playback.CountingDown:
		if o.orch.Paused() {
			status = "❚❚ Paused by a parent"
		} else {
			status = "▶ Playing"
		}
	default:
		status = o.orch.State().String()
	}

	body := status
	if id != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(
			fmt.Sprintf("youtu.be/%s  ·  %s", id, playback.FormatCountdown(o.orch.Playhead())))
	}

	w := cw - 2
	h := 5
	if orientation == reward.Portrait {
		w = cw / 2
		h = 9
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(theme.ArcadePink).
			Width(w).
			Height(h).
			Align(lipgloss.Center, lipgloss.Center).
			Render(body))
}

func (o *Overlay) renderCountdown(cw, totalSeconds int) string {
	label := lipgloss.NewStyle().
		Foreground(theme.ArcadeCyan).
		Bold(true).
		Render("⏱ " + o.orch.CountdownLabel())

	bar := components.NewProgressBar("", 0, false, cw-4)
	if totalSeconds > 0 {
		bar.Percent = float64(o.orch.Remaining()) / float64(totalSeconds)
	}
	bar.Fill = lipgloss.NewStyle().Background(theme.ArcadeCyan)

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(label + "\n" + bar.View())
}

func (o *Overlay) renderPIN(cw int) string {
	content := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Parent PIN") +
		"\n\n" + o.pin.View()
	return components.ArcadeCard(content, cw)
}

func (o *Overlay) renderLock(cw int) string {
	var button string
	switch o.orch.LockState() {
	case playback.Holding:
		button = theme.LockHolding.Render("🔒 Keep holding…")
	case playback.PromptingPIN:
		button = theme.LockHolding.Render("🔒 Waiting for PIN")
	case playback.Unlocked:
		button = theme.LockOpen.Render("🔓 Unlocked · press L to lock")
	default:
		button = theme.LockClosed.Render("🔒 Parents: hold L")
	}
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(button)
}
