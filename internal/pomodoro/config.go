package pomodoro

// Config holds the per-session phase durations. Values are fixed once the
// timer is constructed; changing settings takes effect on the next timer.
type Config struct {
	FocusSeconds        int64
	ShortBreakSeconds   int64
	LongBreakSeconds    int64
	PomodorosBeforeLong int
}

// DefaultConfig returns the classic 25/5/15 pomodoro durations with a long
// break after every fourth focus phase.
func DefaultConfig() Config {
	return Config{
		FocusSeconds:        25 * 60,
		ShortBreakSeconds:   5 * 60,
		LongBreakSeconds:    15 * 60,
		PomodorosBeforeLong: 4,
	}
}

// Duration returns the configured countdown length for a phase.
func (c Config) Duration(p Phase) int64 {
	switch p {
	case PhaseShortBreak:
		return c.ShortBreakSeconds
	case PhaseLongBreak:
		return c.LongBreakSeconds
	default:
		return c.FocusSeconds
	}
}
