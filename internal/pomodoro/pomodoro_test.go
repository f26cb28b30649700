package pomodoro_test

import (
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/hxwen/tomato/internal/pomodoro"
)

var epoch = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func testConfig() pomodoro.Config {
	return pomodoro.Config{
		FocusSeconds:        60,
		ShortBreakSeconds:   10,
		LongBreakSeconds:    30,
		PomodorosBeforeLong: 4,
	}
}

// TestCountdownMonotonic feeds an arbitrary non-decreasing timestamp
// sequence to a running timer and checks the countdown never increases and
// never goes negative.
func TestCountdownMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := pomodoro.New(testConfig())
		now := epoch
		p.Start(now)

		steps := rapid.IntRange(1, 50).Draw(t, "steps")
		prev := p.RemainingSeconds()
		for i := 0; i < steps; i++ {
			// Includes zero and sub-second advances to exercise the
			// same-second no-op path.
			advance := rapid.Int64Range(0, 5000).Draw(t, "advance_ms")
			now = now.Add(time.Duration(advance) * time.Millisecond)
			p.Tick(now)

			remaining := p.RemainingSeconds()
			if remaining > prev {
				t.Fatalf("remaining increased from %d to %d", prev, remaining)
			}
			if remaining < 0 {
				t.Fatalf("remaining went negative: %d", remaining)
			}
			prev = remaining
			if p.State() == pomodoro.StateIdle {
				break
			}
		}
	})
}

// TestPauseFreezesTime checks that time spent paused is never deducted:
// after running d1, pausing for an arbitrary interval, resuming and running
// d2, exactly d1+d2 seconds have been consumed.
func TestPauseFreezesTime(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := testConfig()
		cfg.FocusSeconds = 600
		p := pomodoro.New(cfg)

		d1 := rapid.Int64Range(1, 299).Draw(t, "d1")
		d2 := rapid.Int64Range(1, 299).Draw(t, "d2")
		pausedFor := rapid.Int64Range(0, 100000).Draw(t, "paused_secs")

		now := epoch
		p.Start(now)

		now = now.Add(time.Duration(d1) * time.Second)
		p.Tick(now)

		p.TogglePause(now)
		now = now.Add(time.Duration(pausedFor) * time.Second)
		p.Tick(now) // must be a no-op while paused
		p.TogglePause(now)

		now = now.Add(time.Duration(d2) * time.Second)
		p.Tick(now)

		want := cfg.FocusSeconds - d1 - d2
		if got := p.RemainingSeconds(); got != want {
			t.Fatalf("remaining after pause/resume: got %d, want %d", got, want)
		}
	})
}

// TestProgressBounds checks Progress stays within [0, 1] across a whole
// phase and hits the endpoints at start and completion.
func TestProgressBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := testConfig()
		cfg.FocusSeconds = rapid.Int64Range(1, 120).Draw(t, "focus_secs")
		p := pomodoro.New(cfg)

		if got := p.Progress(); got != 0 {
			t.Fatalf("progress before any start: got %v, want 0", got)
		}

		now := epoch
		p.Start(now)
		if got := p.Progress(); got != 0 {
			t.Fatalf("progress immediately after start: got %v, want 0", got)
		}

		for p.State() == pomodoro.StateRunning {
			step := rapid.Int64Range(1, 30).Draw(t, "step")
			now = now.Add(time.Duration(step) * time.Second)
			p.Tick(now)
			if got := p.Progress(); got < 0 || got > 1 {
				t.Fatalf("progress out of bounds: %v", got)
			}
		}
		// Completion forces idle, which zeroes the phase total.
		if p.State() != pomodoro.StateIdle {
			t.Fatalf("expected idle after countdown, got %s", p.State())
		}
	})
}

// TestCompletionDeliveredOnce drives one focus phase to completion and
// checks the mailboxes drain exactly once.
func TestCompletionDeliveredOnce(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)
	p.Tick(epoch.Add(60 * time.Second))

	ended, ok := p.TakeFinishedPhase()
	if !ok {
		t.Fatal("expected a finished phase after the countdown hit zero")
	}
	if ended != pomodoro.PhaseFocus {
		t.Errorf("finished phase: got %s, want %s", ended, pomodoro.PhaseFocus)
	}
	if _, ok := p.TakeFinishedPhase(); ok {
		t.Error("second TakeFinishedPhase should return nothing")
	}

	d, ok := p.TakeLastCompletedFocusDuration()
	if !ok {
		t.Fatal("expected a focus duration after a completed focus phase")
	}
	if d != 60 {
		t.Errorf("focus duration: got %d, want 60", d)
	}
	if _, ok := p.TakeLastCompletedFocusDuration(); ok {
		t.Error("second TakeLastCompletedFocusDuration should return nothing")
	}
}

// TestBreakCompletionStagesNoFocusDuration checks the duration mailbox is
// only populated for focus phases.
func TestBreakCompletionStagesNoFocusDuration(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.SetPhase(pomodoro.PhaseShortBreak)
	p.Start(epoch)
	p.Tick(epoch.Add(10 * time.Second))

	if ended, ok := p.TakeFinishedPhase(); !ok || ended != pomodoro.PhaseShortBreak {
		t.Fatalf("finished phase: got %q (ok=%v), want short_break", ended, ok)
	}
	if d, ok := p.TakeLastCompletedFocusDuration(); ok {
		t.Errorf("break completion staged a focus duration: %d", d)
	}
	if p.Phase() != pomodoro.PhaseFocus {
		t.Errorf("phase after break: got %s, want focus", p.Phase())
	}
}

// TestPhaseCycle runs four focus/break rounds and checks the long break is
// inserted on the fourth, with the counter reset on entry.
func TestPhaseCycle(t *testing.T) {
	p := pomodoro.New(testConfig())
	now := epoch

	wantPhases := []pomodoro.Phase{
		pomodoro.PhaseShortBreak,
		pomodoro.PhaseShortBreak,
		pomodoro.PhaseShortBreak,
		pomodoro.PhaseLongBreak,
	}
	for round, wantBreak := range wantPhases {
		if p.Phase() != pomodoro.PhaseFocus {
			t.Fatalf("round %d: expected focus phase, got %s", round, p.Phase())
		}
		p.Start(now)
		now = now.Add(60 * time.Second)
		p.Tick(now)

		if p.Phase() != wantBreak {
			t.Fatalf("round %d: after focus, got phase %s, want %s", round, p.Phase(), wantBreak)
		}
		wantCount := round + 1
		if wantBreak == pomodoro.PhaseLongBreak {
			wantCount = 0
		}
		if got := p.CompletedPomodoros(); got != wantCount {
			t.Fatalf("round %d: completed pomodoros = %d, want %d", round, got, wantCount)
		}
		p.TakeFinishedPhase()
		p.TakeLastCompletedFocusDuration()

		// Run the break to completion to return to focus.
		p.Start(now)
		now = now.Add(time.Duration(p.Config().Duration(wantBreak)) * time.Second)
		p.Tick(now)
		p.TakeFinishedPhase()
	}
}

func TestStopKeepsPhaseAndCount(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)
	p.Tick(epoch.Add(60 * time.Second)) // one completed focus
	p.TakeFinishedPhase()
	p.TakeLastCompletedFocusDuration()

	p.Start(epoch.Add(time.Minute))
	p.Stop()

	if p.State() != pomodoro.StateIdle {
		t.Errorf("state after stop: got %s, want idle", p.State())
	}
	if p.RemainingSeconds() != 0 || p.PhaseTotalSeconds() != 0 {
		t.Errorf("stop must zero countdown fields, got remaining=%d total=%d",
			p.RemainingSeconds(), p.PhaseTotalSeconds())
	}
	if p.Phase() != pomodoro.PhaseShortBreak {
		t.Errorf("stop must not touch the phase, got %s", p.Phase())
	}
	if p.CompletedPomodoros() != 1 {
		t.Errorf("stop must not touch the counter, got %d", p.CompletedPomodoros())
	}
}

func TestResetAndStop(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)
	p.Tick(epoch.Add(60 * time.Second))
	p.TakeFinishedPhase()
	p.TakeLastCompletedFocusDuration()

	p.ResetAndStop()
	if p.CompletedPomodoros() != 0 {
		t.Errorf("reset must zero the counter, got %d", p.CompletedPomodoros())
	}
	if p.Phase() != pomodoro.PhaseFocus {
		t.Errorf("reset must return to focus, got %s", p.Phase())
	}
	if p.State() != pomodoro.StateIdle {
		t.Errorf("reset must stop the timer, got %s", p.State())
	}
}

// TestNonMonotonicClockAbsorbed checks a backwards or equal timestamp
// leaves the timer untouched.
func TestNonMonotonicClockAbsorbed(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)
	p.Tick(epoch.Add(10 * time.Second))

	before := p.RemainingSeconds()
	p.Tick(epoch.Add(10 * time.Second)) // same second
	p.Tick(epoch.Add(5 * time.Second))  // clock went backwards
	p.Tick(epoch)                       // way backwards

	if got := p.RemainingSeconds(); got != before {
		t.Errorf("non-positive elapsed changed remaining: got %d, want %d", got, before)
	}
	if p.State() != pomodoro.StateRunning {
		t.Errorf("state changed: got %s, want running", p.State())
	}
}

func TestStartWhileRunningRestartsPhase(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)
	p.Tick(epoch.Add(20 * time.Second))
	if p.RemainingSeconds() != 40 {
		t.Fatalf("remaining: got %d, want 40", p.RemainingSeconds())
	}

	p.Start(epoch.Add(20 * time.Second))
	if p.RemainingSeconds() != 60 {
		t.Errorf("start while running must refill the countdown, got %d", p.RemainingSeconds())
	}
}

func TestRemainingDisplay(t *testing.T) {
	tests := []struct {
		elapsed int64
		want    string
	}{
		{0, "01:00"},
		{1, "00:59"},
		{30, "00:30"},
		{59, "00:01"},
	}
	for _, tt := range tests {
		p := pomodoro.New(testConfig())
		p.Start(epoch)
		if tt.elapsed > 0 {
			p.Tick(epoch.Add(time.Duration(tt.elapsed) * time.Second))
		}
		if got := p.RemainingDisplay(); got != tt.want {
			t.Errorf("after %ds: display = %q, want %q", tt.elapsed, got, tt.want)
		}
	}
}

// TestEndToEndScenario is the full focus-phase walkthrough: half-way
// display and progress, then completion hand-off.
func TestEndToEndScenario(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Start(epoch)

	p.Tick(epoch.Add(30 * time.Second))
	if got := p.RemainingDisplay(); got != "00:30" {
		t.Errorf("display at +30s: got %q, want 00:30", got)
	}
	if got := p.Progress(); got < 0.49 || got > 0.51 {
		t.Errorf("progress at +30s: got %v, want ~0.5", got)
	}

	p.Tick(epoch.Add(60 * time.Second))
	if p.Phase() != pomodoro.PhaseShortBreak {
		t.Errorf("phase after completion: got %s, want short_break", p.Phase())
	}
	if ended, ok := p.TakeFinishedPhase(); !ok || ended != pomodoro.PhaseFocus {
		t.Errorf("finished phase: got %q (ok=%v), want focus", ended, ok)
	}
	if d, ok := p.TakeLastCompletedFocusDuration(); !ok || d != 60 {
		t.Errorf("focus duration: got %d (ok=%v), want 60", d, ok)
	}
}

func TestRestoreDowngradesRunning(t *testing.T) {
	p := pomodoro.New(testConfig())
	p.Restore(pomodoro.PhaseFocus, pomodoro.StateRunning, 42, 60, 2)

	if p.State() != pomodoro.StatePaused {
		t.Fatalf("restored state: got %s, want paused", p.State())
	}
	if p.RemainingSeconds() != 42 || p.PhaseTotalSeconds() != 60 {
		t.Errorf("restored countdown: got %d/%d, want 42/60",
			p.RemainingSeconds(), p.PhaseTotalSeconds())
	}

	// Ticking a restored-paused timer must not consume time until resumed.
	p.Tick(epoch.Add(time.Hour))
	if p.RemainingSeconds() != 42 {
		t.Errorf("tick while restored-paused consumed time: %d", p.RemainingSeconds())
	}

	p.TogglePause(epoch)
	p.Tick(epoch.Add(2 * time.Second))
	if p.RemainingSeconds() != 40 {
		t.Errorf("remaining after resume+2s: got %d, want 40", p.RemainingSeconds())
	}
}
