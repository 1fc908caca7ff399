package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/abcadventure/internal/config"
	"github.com/abhisek/abcadventure/internal/narration"
	"github.com/abhisek/abcadventure/internal/playback"
	"github.com/abhisek/abcadventure/internal/player"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/reward"
	"github.com/abhisek/abcadventure/internal/router"
	"github.com/abhisek/abcadventure/internal/screen"
	"github.com/abhisek/abcadventure/internal/screens/home"
	"github.com/abhisek/abcadventure/internal/screens/rewardplay"
	"github.com/abhisek/abcadventure/internal/ui/layout"
)

const toastDuration = 3 * time.Second

// Deps are the services the TUI runs on.
type Deps struct {
	Config   *config.Config
	Progress *progress.Service
	Narrator *narration.Narrator
	Logger   *slog.Logger
}

type bootMsg struct{}

type toastExpiredMsg struct {
	seq int
}

// toaster holds the notice line. The orchestrator reports notices
// synchronously from inside Update, so show only records the text and the
// model schedules expiry afterwards.
type toaster struct {
	text    string
	seq     int
	pending bool
}

func (t *toaster) show(text string) {
	t.text = text
	t.seq++
	t.pending = true
}

// expiry returns the tick that clears the current toast, once per show.
func (t *toaster) expiry() tea.Cmd {
	if !t.pending {
		return nil
	}
	t.pending = false
	seq := t.seq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	orch     *playback.Orchestrator
	overlay  *rewardplay.Overlay
	progress *progress.Service
	narrator *narration.Narrator
	toast    *toaster
	width    int
	height   int
}

// newAppModel wires the screens around an orchestrator.
func newAppModel(deps Deps, orch *playback.Orchestrator, toast *toaster) AppModel {
	homeScreen := home.New(home.Deps{
		Progress: deps.Progress,
		Narrator: deps.Narrator,
		Rewards:  orch,
		Rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	})
	return AppModel{
		router:   router.New(homeScreen),
		orch:     orch,
		overlay:  rewardplay.New(orch, func() reward.Settings { return deps.Progress.State().Settings }),
		progress: deps.Progress,
		narrator: deps.Narrator,
		toast:    toast,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Active().Init(),
		func() tea.Msg { return bootMsg{} },
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.overlay.Sync(), m.toast.expiry())
}

func (m *AppModel) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return nil

	case bootMsg:
		m.orch.Resume()
		return nil

	case callbackMsg:
		msg.fn()
		return nil

	case screen.ToastMsg:
		m.toast.show(msg.Text)
		return nil

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast.text = ""
		}
		return nil

	case screen.ProgressChangedMsg:
		m.orch.MaybeStart()
		return nil

	case tea.KeyboardEnhancementsMsg:
		m.overlay.SetKeyRelease(msg.SupportsEventTypes())
		return nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			if m.narrator != nil {
				m.narrator.Stop()
			}
			return tea.Quit
		}
	}

	if m.orch.Active() {
		if _, ok := msg.(rewardplay.HoldCheckMsg); ok || isInput(msg) {
			return m.overlay.Update(msg)
		}
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok && kmsg.String() == "esc" {
		if h, ok := m.router.Active().(screen.EscapeHandler); !ok || !h.HandlesEscape() {
			if m.router.Depth() > 1 {
				if m.narrator != nil {
					m.narrator.Stop()
				}
				return func() tea.Msg { return router.PopScreenMsg{} }
			}
			return nil
		}
	}

	return m.router.Update(msg)
}

// isInput reports whether msg comes from the keyboard or mouse. Those are
// owned by the overlay while a reward session is live.
func isInput(msg tea.Msg) bool {
	switch msg.(type) {
	case tea.KeyPressMsg, tea.KeyReleaseMsg, tea.MouseClickMsg, tea.MouseReleaseMsg,
		tea.MouseMotionMsg, tea.MouseWheelMsg, tea.PasteMsg:
		return true
	}
	return false
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.KeyboardEnhancements.ReportEventTypes = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	st := m.progress.State()
	title := ""
	if !m.orch.Active() {
		title = m.router.Active().Title()
	}
	header := layout.RenderHeader(title, st.Score, st.Streak, m.width)

	var hints []layout.KeyHint
	if m.orch.Active() {
		hints = m.overlay.KeyHints()
	} else if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(hints, m.width)
	if toast := layout.RenderToast(m.toast.text, m.width); toast != "" {
		footer = toast + "\n" + footer
	}

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.orch.Active() {
		content = m.overlay.View(m.width, contentHeight)
	} else {
		content = m.router.View(m.width, contentHeight)
	}

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, deps Deps) error {
	cfg := deps.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	if deps.Narrator == nil {
		deps.Narrator = narration.New(narration.Silent{}, narration.DefaultVoice(), deps.Logger)
	}

	sched := &loopScheduler{}
	toast := &toaster{}
	orch := playback.New(ctx, playback.Deps{
		Progress:  deps.Progress,
		Scheduler: sched,
		NewPlayer: player.NewFactory(sched, player.OptionsFromConfig(cfg.Player)),
		Narrator:  deps.Narrator,
		Notify:    toast.show,
		Logger:    deps.Logger,
		Options:   playback.OptionsFromConfig(cfg.Reward),
	})

	p := tea.NewProgram(newAppModel(deps, orch, toast), tea.WithContext(ctx))
	sched.bind(p.Send)
	defer sched.bind(nil)

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
