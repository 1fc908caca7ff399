package home

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/abcadventure/internal/letters"
	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/screens/history"
	"github.com/abhisek/abcadventure/internal/screens/learncheck"
	"github.com/abhisek/abcadventure/internal/screens/parent"
	"github.com/abhisek/abcadventure/internal/screens/quiz"
	"github.com/abhisek/abcadventure/internal/ui/components"
	"github.com/abhisek/abcadventure/internal/ui/layout"
)

// RewardStarter starts a reward session on request.
type RewardStarter interface {
	Start(trigger playback.Trigger) error
}

// Deps are the services the home screen and the screens it opens use.
type Deps struct {
	Progress *progress.Service
	Narrator screen.Narrator
	Rewards  RewardStarter
	Rand     *rand.Rand
}

const (
	itemLearned = iota
	itemNext
	itemQuiz
	itemWatch
	itemParents
	itemHistory
	itemExit
)

// HomeScreen is the letter card with the main menu under it.
type HomeScreen struct {
	deps    Deps
	current int

	// The learn button unlocks once both sounds were played for the
	// current letter.
	heardLetter bool
	heardWord   bool

	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen showing the letter after the last one learned.
func New(deps Deps) *HomeScreen {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	h := &HomeScreen{deps: deps}
	if last := deps.Progress.State().LastLearnedLetter; last != "" {
		if i := letters.IndexOf(last); i >= 0 {
			h.current = i
		}
	}
	h.menu = components.NewMenu(h.menuItems())
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Learn"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Letter"},
		{Key: "S/W", Description: "Say it"},
		{Key: "↑↓", Description: "Menu"},
		{Key: "Enter", Description: "Select"},
	}
}

// Current returns the letter on the card.
func (h *HomeScreen) Current() letters.Item {
	return letters.All[h.current]
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// Progress may have changed on another screen.
	h.refresh()

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return h, nil
	}

	switch kmsg.String() {
	case "left", "h":
		h.selectIndex(h.current - 1)
		return h, nil
	case "right":
		h.selectIndex(h.current + 1)
		return h, nil
	case "s":
		item := h.Current()
		h.say(item.Letter)
		h.heardLetter = true
		h.refresh()
		return h, nil
	case "w":
		item := h.Current()
		h.say(item.Word)
		h.heardWord = true
		h.refresh()
		return h, nil
	case "r":
		return h, h.pickNext(true)
	case "n":
		return h, h.pickNext(false)
	case "q":
		return h, h.openQuiz()
	case "v":
		return h, h.watch()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	h.refresh()
	return h, cmd
}

func (h *HomeScreen) selectIndex(i int) {
	n := len(letters.All)
	next := ((i % n) + n) % n
	if next != h.current {
		h.heardLetter = false
		h.heardWord = false
	}
	h.current = next
	h.refresh()
}

func (h *HomeScreen) say(text string) {
	if h.deps.Narrator != nil {
		h.deps.Narrator.Say(text, nil)
	}
}

// refresh rebuilds the menu so enabled items follow the progress state.
func (h *HomeScreen) refresh() {
	selected := h.menu.Selected
	h.menu = components.NewMenu(h.menuItems())
	if selected >= 0 && selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	st := h.deps.Progress.State()
	status := st.Status()
	canWatch := st.Settings.RewardEnabled && status.AvailableSessions > 0

	return []components.MenuItem{
		itemLearned: {Label: "I LEARNED IT!", Disabled: !(h.heardLetter && h.heardWord), Action: h.learn},
		itemNext:    {Label: "NEXT NEW LETTER", Action: func() tea.Cmd { return h.pickNext(false) }},
		itemQuiz:    {Label: "QUIZ TIME", Action: h.openQuiz},
		itemWatch:   {Label: "WATCH VIDEO", Disabled: !canWatch, Action: h.watch},
		itemParents: {Label: "PARENTS", Action: h.openParents},
		itemHistory: {Label: "VIDEO LOG", Action: h.openHistory},
		itemExit:    {Label: "EXIT GAME", Action: func() tea.Cmd { return tea.Quit }},
	}
}

func (h *HomeScreen) learn() tea.Cmd {
	item := h.Current()
	if h.deps.Progress.State().IsLearned(item.Letter) {
		return screen.Toast(fmt.Sprintf("%s is already learned. Keep going!", item.Letter))
	}
	check := learncheck.New(item, h.deps.Progress, h.deps.Narrator, h.deps.Rand)
	return func() tea.Msg { return router.PushScreenMsg{Screen: check} }
}

func (h *HomeScreen) pickNext(random bool) tea.Cmd {
	st := h.deps.Progress.State()
	i, ok := letters.PickNextUnlearnedIndex(letters.All, st.LearnedLetters, h.Current().Letter, random, h.deps.Rand.IntN)
	if !ok {
		return screen.Toast("You learned every letter! 🎉")
	}
	h.selectIndex(i)
	return nil
}

func (h *HomeScreen) openQuiz() tea.Cmd {
	q := quiz.New(h.deps.Progress, h.deps.Narrator, h.deps.Rand)
	return func() tea.Msg { return router.PushScreenMsg{Screen: q} }
}

func (h *HomeScreen) openParents() tea.Cmd {
	if h.deps.Narrator != nil {
		h.deps.Narrator.Stop()
	}
	pin := parent.NewPINScreen(h.deps.Progress)
	return func() tea.Msg { return router.PushScreenMsg{Screen: pin} }
}

func (h *HomeScreen) openHistory() tea.Cmd {
	s := history.New(h.deps.Progress)
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (h *HomeScreen) watch() tea.Cmd {
	if h.deps.Rewards == nil {
		return nil
	}
	err := h.deps.Rewards.Start(playback.TriggerManual)
	switch {
	case err == nil, errors.Is(err, playback.ErrSessionActive):
		return nil
	case errors.Is(err, playback.ErrRewardsDisabled):
		return screen.Toast("Video rewards are turned off in the parent area.")
	case errors.Is(err, playback.ErrNoSessionAvailable):
		status := h.deps.Progress.Status()
		remain := status.LettersPerReward - status.ProgressToNextReward
		return screen.Toast(fmt.Sprintf("Learn %d more letter%s to unlock a video!", remain, plural(remain)))
	default:
		return screen.Toast(err.Error())
	}
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; estimate full terminal height
	// by adding back header (3) + footer (3) + frame gaps
	termHeight := height + 8
	compact := termHeight < 40 || width < 100

	cw := components.ContentWidth(width)
	st := h.deps.Progress.State()
	status := st.Status()

	learned := make(map[string]bool, len(st.LearnedLetters))
	for _, l := range st.LearnedLetters {
		learned[l] = true
	}
	item := h.Current()

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		variant := MascotFor(len(learned) == len(letters.All), st.Settings.RewardEnabled && status.AvailableSessions > 0)
		sections = append(sections, renderMascotBox(variant, cw))
	}
	sections = append(sections,
		renderLetterCard(item, learned[item.Letter], h.heardLetter, h.heardWord, cw, compact),
		renderAlphabet(h.current, learned, cw),
		renderStatsBar(len(learned), st.Score, status.AvailableSessions, cw, compact),
		renderRewardProgress(st.Settings, status, cw),
	)
	if compact {
		sections = append(sections, renderArcadeMenuCompact(h.menu.Items, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderArcadeMenu(h.menu.Items, h.menu.Selected, cw))
	}

	sep := "\n\n"
	if compact {
		sep = "\n"
	}
	return components.CabinetFrame(strings.Join(sections, sep), width, height)
}
