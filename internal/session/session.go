package session

import (
	"time"

	"github.com/hxwen/tomato/internal/pomodoro"
)

// Snapshot is the single-slot record of the live timer session, written on
// exit and restored on the next start so a half-finished pomodoro survives
// a restart.
type Snapshot struct {
	ID                 string         `json:"id"`
	Task               string         `json:"task"`
	Phase              pomodoro.Phase `json:"phase"`
	State              pomodoro.State `json:"state"`
	RemainingSeconds   int64          `json:"remaining_seconds"`
	PhaseTotalSeconds  int64          `json:"phase_total_seconds"`
	CompletedPomodoros int            `json:"completed_pomodoros"`
	SavedAt            time.Time      `json:"saved_at"`
}
