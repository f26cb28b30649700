// Package pomodoro implements the timer state machine. The timer never
// samples a clock itself: the host passes "now" into Tick, which makes the
// countdown immune to missed frames and lets tests drive it with synthetic
// timestamps.
package pomodoro

import (
	"fmt"
	"time"
)

// Pomodoro is the mutable timer core. It is not safe for concurrent use;
// a single host loop owns it and drives it through the methods below.
type Pomodoro struct {
	cfg   Config
	phase Phase
	state State

	remainingSeconds  int64
	phaseTotalSeconds int64

	// completedPomodoros counts focus phases finished since the last long
	// break (or since an explicit reset).
	completedPomodoros int

	// lastTickAt is non-zero exactly while state == StateRunning.
	lastTickAt time.Time

	// One-shot mailboxes drained by the host each frame. finishedPhase is
	// set whenever a countdown reaches zero; lastFocusDuration only when
	// the finished phase was a focus phase.
	finishedPhase     Phase
	lastFocusDuration int64
}

// New returns an idle timer in the focus phase. Non-positive config fields
// fall back to the defaults.
func New(cfg Config) *Pomodoro {
	def := DefaultConfig()
	if cfg.FocusSeconds <= 0 {
		cfg.FocusSeconds = def.FocusSeconds
	}
	if cfg.ShortBreakSeconds <= 0 {
		cfg.ShortBreakSeconds = def.ShortBreakSeconds
	}
	if cfg.LongBreakSeconds <= 0 {
		cfg.LongBreakSeconds = def.LongBreakSeconds
	}
	if cfg.PomodorosBeforeLong <= 0 {
		cfg.PomodorosBeforeLong = def.PomodorosBeforeLong
	}
	return &Pomodoro{
		cfg:   cfg,
		phase: PhaseFocus,
		state: StateIdle,
	}
}

// Start begins (or restarts) the current phase from its full configured
// duration and stamps the tick clock. Valid in any state.
func (p *Pomodoro) Start(now time.Time) {
	total := p.cfg.Duration(p.phase)
	p.phaseTotalSeconds = total
	p.remainingSeconds = total
	p.state = StateRunning
	p.lastTickAt = now
}

// TogglePause freezes a running countdown or resumes a paused one. Pausing
// clears the tick clock so no time accrues; resuming re-stamps it so the
// paused interval is never counted. No-op when idle.
func (p *Pomodoro) TogglePause(now time.Time) {
	switch p.state {
	case StateRunning:
		p.state = StatePaused
		p.lastTickAt = time.Time{}
	case StatePaused:
		p.state = StateRunning
		p.lastTickAt = now
	}
}

// Stop abandons the current countdown and returns to idle. The phase and
// the completed-pomodoro count are untouched.
func (p *Pomodoro) Stop() {
	p.state = StateIdle
	p.remainingSeconds = 0
	p.phaseTotalSeconds = 0
	p.lastTickAt = time.Time{}
}

// ResetAndStop zeroes the pomodoro counter, returns the phase to focus and
// stops. History already written is unaffected.
func (p *Pomodoro) ResetAndStop() {
	p.completedPomodoros = 0
	p.phase = PhaseFocus
	p.Stop()
}

// SetPhase selects a phase and stops. Callers are expected to gate this on
// an idle timer; calling it mid-countdown simply also stops the countdown.
func (p *Pomodoro) SetPhase(phase Phase) {
	p.phase = phase
	p.Stop()
}

// Tick advances the countdown by the whole seconds elapsed since the last
// tick. Non-positive elapsed time (clock jitter, same-second re-entry) is
// absorbed without any state change. When the countdown reaches zero the
// completion transition runs.
func (p *Pomodoro) Tick(now time.Time) {
	if p.state != StateRunning || p.lastTickAt.IsZero() {
		return
	}
	elapsed := int64(now.Sub(p.lastTickAt) / time.Second)
	if elapsed <= 0 {
		return
	}
	p.lastTickAt = now
	p.remainingSeconds -= elapsed
	if p.remainingSeconds <= 0 {
		p.remainingSeconds = 0
		p.finishPhase()
	}
}

// finishPhase stages the completion mailboxes, returns to idle and advances
// the phase. Completion never auto-starts the next phase.
func (p *Pomodoro) finishPhase() {
	ended := p.phase
	total := p.phaseTotalSeconds

	p.finishedPhase = ended
	p.state = StateIdle
	p.remainingSeconds = 0
	p.phaseTotalSeconds = 0
	p.lastTickAt = time.Time{}

	if ended == PhaseFocus {
		p.lastFocusDuration = total
		p.completedPomodoros++
		if p.completedPomodoros >= p.cfg.PomodorosBeforeLong {
			p.phase = PhaseLongBreak
			p.completedPomodoros = 0
		} else {
			p.phase = PhaseShortBreak
		}
		return
	}
	p.phase = PhaseFocus
}

// TakeFinishedPhase drains the completion mailbox. The second return is
// false once the value has been taken.
func (p *Pomodoro) TakeFinishedPhase() (Phase, bool) {
	if p.finishedPhase == "" {
		return "", false
	}
	ended := p.finishedPhase
	p.finishedPhase = ""
	return ended, true
}

// TakeLastCompletedFocusDuration drains the focus-duration mailbox staged
// when a focus phase completes, for history-record construction.
func (p *Pomodoro) TakeLastCompletedFocusDuration() (int64, bool) {
	if p.lastFocusDuration == 0 {
		return 0, false
	}
	d := p.lastFocusDuration
	p.lastFocusDuration = 0
	return d, true
}

// RemainingDisplay formats the remaining time as MM:SS.
func (p *Pomodoro) RemainingDisplay() string {
	s := p.remainingSeconds
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Progress reports how far the current phase has advanced, in [0, 1].
// It is 0 when no phase has been started since the last stop.
func (p *Pomodoro) Progress() float64 {
	if p.phaseTotalSeconds <= 0 {
		return 0
	}
	remaining := p.remainingSeconds
	if remaining < 0 {
		remaining = 0
	}
	progress := float64(p.phaseTotalSeconds-remaining) / float64(p.phaseTotalSeconds)
	if progress > 1 {
		return 1
	}
	return progress
}

// Restore rehydrates the timer from a persisted snapshot. A snapshot is
// never restored into the running state: the host downgrades it to paused
// so wall-clock time spent while the process was down is not consumed.
func (p *Pomodoro) Restore(phase Phase, state State, remaining, total int64, completed int) {
	if state == StateRunning {
		state = StatePaused
	}
	p.phase = phase
	p.state = state
	p.remainingSeconds = remaining
	p.phaseTotalSeconds = total
	p.completedPomodoros = completed
	p.lastTickAt = time.Time{}
}

// Phase returns the current phase.
func (p *Pomodoro) Phase() Phase { return p.phase }

// State returns the current timer state.
func (p *Pomodoro) State() State { return p.state }

// RemainingSeconds returns the countdown value for the active phase.
func (p *Pomodoro) RemainingSeconds() int64 { return p.remainingSeconds }

// PhaseTotalSeconds returns the duration the current phase started with.
func (p *Pomodoro) PhaseTotalSeconds() int64 { return p.phaseTotalSeconds }

// CompletedPomodoros returns the focus phases finished since the last long
// break or reset.
func (p *Pomodoro) CompletedPomodoros() int { return p.completedPomodoros }

// Config returns the timer's configuration.
func (p *Pomodoro) Config() Config { return p.cfg }
