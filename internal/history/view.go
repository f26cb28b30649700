package history

import "sort"

// RecordWithCount pairs a record with its cumulative per-task tomato count.
type RecordWithCount struct {
	FocusRecord
	Cumulative int
}

// WithCumulative assigns each record its task's running tomato total. The
// sums are computed over a time-ascending pass — grouping by exact task
// string, each record contributing max(1, completed_pomodoros) — and then
// attached back to the records in their original (typically descending)
// order. Computing directly on a descending list would reverse the totals.
func WithCumulative(records []FocusRecord) []RecordWithCount {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ra, rb := records[order[a]], records[order[b]]
		if ra.CompletedAt != rb.CompletedAt {
			return ra.CompletedAt < rb.CompletedAt
		}
		return ra.ID < rb.ID
	})

	out := make([]RecordWithCount, len(records))
	totals := make(map[string]int)
	for _, idx := range order {
		r := records[idx]
		n := r.CompletedPomodoros
		if n < 1 {
			n = 1 // floor for legacy or malformed rows
		}
		totals[r.Task] += n
		out[idx] = RecordWithCount{FocusRecord: r, Cumulative: totals[r.Task]}
	}
	return out
}
