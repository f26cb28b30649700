// Package tui provides the Bubble Tea timer interface. It is the host loop
// the engine is designed around: every frame it passes time.Now into Tick,
// drains the completion mailboxes, and persists what needs persisting.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/hxwen/tomato/internal/config"
	"github.com/hxwen/tomato/internal/history"
	"github.com/hxwen/tomato/internal/pomodoro"
	"github.com/hxwen/tomato/internal/session"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	timerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	// Phase accents: focus green, short break yellow, long break red.
	phaseStyles = map[pomodoro.Phase]lipgloss.Style{
		pomodoro.PhaseFocus:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		pomodoro.PhaseShortBreak: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		pomodoro.PhaseLongBreak:  lipgloss.NewStyle().Foreground(lipgloss.Color("197")).Bold(true),
	}

	doneDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	todoDotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// frameInterval is how often the host wakes the engine. The engine computes
// elapsed time from timestamps, so the exact cadence only affects display
// smoothness, never accuracy.
const frameInterval = 250 * time.Millisecond

// recentShown caps the history lines rendered under the timer.
const recentShown = 5

// ── Messages ────────────

type tickMsg time.Time

type configChangedMsg struct{}

type watchClosedMsg struct{}

// ── Options / Model ────────────

// Options carries everything the host loop needs from the CLI layer.
type Options struct {
	Task     string
	Timer    pomodoro.Config
	Sound    bool
	Snapshot *session.Snapshot // restored state, already downgraded by Load

	History  *history.Store // nil when the store could not be opened
	Sessions session.Store
	Records  []history.FocusRecord // preloaded cache, newest first

	ConfigPath string // global config file watched for live edits
}

// Model is the root Bubble Tea model for the timer.
type Model struct {
	pomo      *pomodoro.Pomodoro
	sessionID string
	sound     bool

	histStore *history.Store
	sessStore session.Store
	records   []history.FocusRecord

	taskInput   textinput.Model
	task        string
	editingTask bool

	bar     progress.Model
	watcher *fsnotify.Watcher

	// pendingTimer holds a config reloaded from disk, applied on the next
	// Start rather than to a running countdown.
	pendingTimer *pomodoro.Config

	width   int
	height  int
	warning string
}

// New builds the timer model, restoring the snapshot when one is present.
func New(opts Options) Model {
	p := pomodoro.New(opts.Timer)
	id := uuid.New().String()
	task := opts.Task

	if s := opts.Snapshot; s != nil {
		p.Restore(s.Phase, s.State, s.RemainingSeconds, s.PhaseTotalSeconds, s.CompletedPomodoros)
		if s.ID != "" {
			id = s.ID
		}
		if s.Task != "" {
			task = s.Task
		}
	}

	ti := textinput.New()
	ti.Placeholder = "what are you working on?"
	ti.CharLimit = 120
	ti.SetValue(task)

	bar := progress.New(progress.WithDefaultGradient())

	return Model{
		pomo:      p,
		sessionID: id,
		sound:     opts.Sound,
		histStore: opts.History,
		sessStore: opts.Sessions,
		records:   opts.Records,
		taskInput: ti,
		task:      task,
		bar:       bar,
		watcher:   newConfigWatcher(opts.ConfigPath),
	}
}

// newConfigWatcher watches the directory holding the global config so
// atomic saves (write temp + rename) are still seen. Returns nil when
// watching is unavailable; live reload is then simply off.
func newConfigWatcher(path string) *fsnotify.Watcher {
	if path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil
	}
	return w
}

// ── Bubble Tea interface ────────────

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{frameTick()}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForConfigChange blocks until the watched config file is written.
func waitForConfigChange(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return watchClosedMsg{}
				}
				if strings.HasSuffix(ev.Name, "config.json") &&
					ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					return configChangedMsg{}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return watchClosedMsg{}
				}
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m.onTick(time.Time(msg))

	case configChangedMsg:
		m.reloadConfig()
		return m, waitForConfigChange(m.watcher)

	case watchClosedMsg:
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 8
		if w > 60 {
			w = 60
		}
		if w < 10 {
			w = 10
		}
		m.bar.Width = w
		return m, nil
	}
	return m, nil
}

// onTick drives the engine one frame and drains the completion mailboxes.
func (m Model) onTick(now time.Time) (tea.Model, tea.Cmd) {
	m.pomo.Tick(now)

	var cmds []tea.Cmd
	if ended, ok := m.pomo.TakeFinishedPhase(); ok {
		if m.sound {
			cmds = append(cmds, ringBell)
		}
		if ended == pomodoro.PhaseFocus {
			if duration, ok := m.pomo.TakeLastCompletedFocusDuration(); ok {
				m.recordFocus(now, duration)
			}
		}
	}

	cmds = append(cmds, frameTick())
	return m, tea.Batch(cmds...)
}

// recordFocus persists one completed focus phase. Persistence is
// best-effort: on failure the in-memory cache is still updated so the
// session display stays correct, and the error surfaces only as a status
// line warning.
func (m *Model) recordFocus(now time.Time, duration int64) {
	rec := history.FocusRecord{
		Task:               m.task,
		DurationSeconds:    duration,
		CompletedAt:        history.Timestamp(now),
		CompletedPomodoros: m.pomo.CompletedPomodoros(),
	}

	if m.histStore != nil {
		if err := m.histStore.Append(context.Background(), rec); err != nil {
			m.warning = "history not saved: " + err.Error()
		}
	} else {
		m.warning = "history store unavailable; this session is not being saved"
	}

	// Cache update happens regardless of the write outcome.
	m.records = append([]history.FocusRecord{rec}, m.records...)
}

// reloadConfig picks up an edited config file. The new durations apply to
// the next Start, never to a countdown already in flight.
func (m *Model) reloadConfig() {
	cfg, err := config.LoadGlobal()
	if err != nil || cfg == nil {
		return
	}
	timer := config.Merge(cfg, nil).Timer()
	m.pendingTimer = &timer
	m.warning = "settings changed on disk — applied on next start"
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editingTask {
		switch msg.String() {
		case "enter":
			m.task = strings.TrimSpace(m.taskInput.Value())
			m.editingTask = false
			m.taskInput.Blur()
			return m, nil
		case "esc":
			m.taskInput.SetValue(m.task)
			m.editingTask = false
			m.taskInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		return m, cmd
	}

	now := time.Now()
	switch msg.String() {
	case "q", "ctrl+c":
		m.saveSnapshot()
		m.closeWatcher()
		return m, tea.Quit

	case "s", "enter":
		if timer := m.pendingTimer; timer != nil && m.pomo.State() == pomodoro.StateIdle {
			// Rebuild the engine with the reloaded durations, carrying the
			// phase and pomodoro count over.
			fresh := pomodoro.New(*timer)
			fresh.Restore(m.pomo.Phase(), pomodoro.StateIdle, 0, 0, m.pomo.CompletedPomodoros())
			m.pomo = fresh
			m.pendingTimer = nil
			m.warning = ""
		}
		m.pomo.Start(now)

	case " ", "p":
		m.pomo.TogglePause(now)

	case "x":
		m.pomo.Stop()

	case "r":
		m.pomo.ResetAndStop()

	case "1", "2", "3":
		// Phase selection only makes sense on an idle timer.
		if m.pomo.State() == pomodoro.StateIdle {
			phases := map[string]pomodoro.Phase{
				"1": pomodoro.PhaseFocus,
				"2": pomodoro.PhaseShortBreak,
				"3": pomodoro.PhaseLongBreak,
			}
			m.pomo.SetPhase(phases[msg.String()])
		}

	case "t":
		m.editingTask = true
		m.taskInput.SetValue(m.task)
		return m, m.taskInput.Focus()
	}
	return m, nil
}

// saveSnapshot writes the session state for the next run. Best-effort: a
// failed save only costs the restore, never the exit.
func (m *Model) saveSnapshot() {
	if m.sessStore == nil {
		return
	}
	_ = m.sessStore.Save(&session.Snapshot{
		ID:                 m.sessionID,
		Task:               m.task,
		Phase:              m.pomo.Phase(),
		State:              m.pomo.State(),
		RemainingSeconds:   m.pomo.RemainingSeconds(),
		PhaseTotalSeconds:  m.pomo.PhaseTotalSeconds(),
		CompletedPomodoros: m.pomo.CompletedPomodoros(),
		SavedAt:            time.Now(),
	})
}

func (m *Model) closeWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
	}
}

// ringBell plays the notification side effect.
func ringBell() tea.Msg {
	os.Stdout.WriteString("\a")
	return nil
}

// ── View ────────────

func (m Model) View() string {
	var sb strings.Builder

	width := m.width
	if width <= 0 {
		width = 64
	}

	sb.WriteString(titleStyle.Width(width).Render("  tomato"))
	sb.WriteString("\n\n")

	phase := m.pomo.Phase()
	accent := phaseStyles[phase]
	sb.WriteString("  " + accent.Render(phase.Label()))
	if m.pomo.State() == pomodoro.StatePaused {
		sb.WriteString(dimStyle.Render("  (paused)"))
	}
	sb.WriteString("\n\n")

	sb.WriteString("  " + timerStyle.Render(bigDigits(m.pomo.RemainingDisplay())))
	sb.WriteString("\n\n")

	sb.WriteString("  " + m.bar.ViewAs(m.pomo.Progress()))
	sb.WriteString("\n\n")

	sb.WriteString("  " + labelStyle.Render("Task:") + "  ")
	if m.editingTask {
		sb.WriteString(m.taskInput.View())
	} else if m.task != "" {
		sb.WriteString(m.task)
	} else {
		sb.WriteString(dimStyle.Render("(none — press t to set)"))
	}
	sb.WriteString("\n")

	sb.WriteString("  " + labelStyle.Render("Round:") + " " + m.pomodoroDots())
	sb.WriteString("\n\n")

	sb.WriteString(m.renderRecent())

	hint := "  s start  space pause  x stop  r reset  1/2/3 phase  t task  q quit"
	bar := statusBarStyle.Width(width).Render(hint)
	sb.WriteString("\n" + bar)
	if m.warning != "" {
		sb.WriteString("\n  " + warnStyle.Render(m.warning))
	}
	return sb.String()
}

// pomodoroDots renders the completed-pomodoro counter as a row of dots,
// filled up to the current count.
func (m Model) pomodoroDots() string {
	total := m.pomo.Config().PomodorosBeforeLong
	done := m.pomo.CompletedPomodoros()
	var sb strings.Builder
	for i := 0; i < total; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		if i < done {
			sb.WriteString(doneDotStyle.Render("●"))
		} else {
			sb.WriteString(todoDotStyle.Render("○"))
		}
	}
	return sb.String()
}

func (m Model) renderRecent() string {
	var sb strings.Builder
	sb.WriteString("  " + labelStyle.Render("Recent:") + "\n")
	if len(m.records) == 0 {
		sb.WriteString(dimStyle.Render("    (no focus history yet)") + "\n")
		return sb.String()
	}

	counted := history.WithCumulative(m.records)
	shown := counted
	if len(shown) > recentShown {
		shown = shown[:recentShown]
	}
	for _, r := range shown {
		ts := r.CompletedTime()
		when := r.CompletedAt
		if !ts.IsZero() {
			when = ts.Format("01-02 15:04")
		}
		task := r.Task
		if task == "" {
			task = "(no task)"
		}
		sb.WriteString(fmt.Sprintf("    %s  %-24s %s\n",
			timeStyle.Render(when),
			task,
			dimStyle.Render(fmt.Sprintf("🍅 ×%d", r.Cumulative)),
		))
	}
	return sb.String()
}

// bigDigits widens the MM:SS readout a little so it reads as the centrepiece.
func bigDigits(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if i > 0 {
			sb.WriteRune(' ')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Run starts the timer UI and blocks until the user quits.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
