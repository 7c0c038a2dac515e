package heatmap

import "github.com/quantlab/sandbox-backend-go/internal/models"

// ZoomStack tracks the drill-down levels a caller has entered. Each entry
// holds the zoom ranges recorded on the clicked cell; since every level's
// ranges already reflect the cumulative narrowing of the previous level's
// filtered set, merging the stack front-to-back with later entries
// overriding earlier ones yields the effective ranges for the next build.
type ZoomStack struct {
	entries []models.ZoomStackEntry
}

// NewZoomStack builds a stack from existing entries (e.g. echoed back by a
// client). A nil slice yields an empty stack.
func NewZoomStack(entries []models.ZoomStackEntry) *ZoomStack {
	s := &ZoomStack{}
	for _, e := range entries {
		s.Push(e)
	}
	return s
}

// Push records one drill-down level. Entries without ranges are dropped:
// a cell with nil zoomRanges is not drillable.
func (s *ZoomStack) Push(e models.ZoomStackEntry) {
	if len(e.Ranges) == 0 {
		return
	}
	s.entries = append(s.entries, e)
}

// Pop removes the most recent level and reports whether one was removed
func (s *ZoomStack) Pop() bool {
	if len(s.entries) == 0 {
		return false
	}
	s.entries = s.entries[:len(s.entries)-1]
	return true
}

// Reset clears every level, returning to the full result set
func (s *ZoomStack) Reset() {
	s.entries = nil
}

// Depth returns the number of drill-down levels
func (s *ZoomStack) Depth() int {
	return len(s.entries)
}

// Current merges the stack into the effective zoom ranges, later entries
// overriding earlier ones per key. Returns nil at the bottom of the stack.
func (s *ZoomStack) Current() models.ZoomRange {
	if len(s.entries) == 0 {
		return nil
	}
	merged := models.ZoomRange{}
	for _, e := range s.entries {
		for key, rng := range e.Ranges {
			merged[key] = rng
		}
	}
	return merged
}

// Labels returns the display labels of the levels, bottom first
func (s *ZoomStack) Labels() []string {
	labels := make([]string, len(s.entries))
	for i, e := range s.entries {
		labels[i] = e.Label
	}
	return labels
}
