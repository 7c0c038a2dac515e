package models

// Result represents one scored parameter combination produced by a sweep
type Result struct {
	ID     string             `json:"id"`
	Params map[string]float64 `json:"params"`
	Score  float64            `json:"score"`
}

// Param returns the value for a parameter key and whether it is present
func (r Result) Param(key string) (float64, bool) {
	v, ok := r.Params[key]
	return v, ok
}

// Range represents an inclusive numeric interval for a parameter
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Degenerate reports whether the range covers a single value
func (r Range) Degenerate() bool {
	return r.Max <= r.Min
}

// Contains reports whether v lies within the inclusive range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// ZoomRange narrows the active result set to a rectangular sub-region
// of parameter space, one inclusive interval per parameter key
type ZoomRange map[string]Range
