package history

import "time"

// tz is the fixed zone focus records are stamped in. Timestamps are stored
// as RFC3339 text; with a fixed offset the text sorts lexically in time
// order, which both the store's ORDER BY and the cumulative view rely on.
var tz = time.FixedZone("UTC+8", 8*60*60)

// FocusRecord is one completed focus phase. Records are append-only: never
// mutated, never deleted by the application.
type FocusRecord struct {
	ID                 int64
	Task               string
	DurationSeconds    int64
	CompletedAt        string // RFC3339, fixed UTC+8 offset
	CompletedPomodoros int
}

// Timestamp formats a completion time the way records store it.
func Timestamp(t time.Time) string {
	return t.In(tz).Format(time.RFC3339)
}

// CompletedTime parses the stored completion time. Returns the zero time
// for records whose timestamp cannot be parsed.
func (r FocusRecord) CompletedTime() time.Time {
	t, err := time.Parse(time.RFC3339, r.CompletedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
