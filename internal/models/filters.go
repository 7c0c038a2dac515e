package models

// SweepFilter represents filter parameters for listing sweeps
type SweepFilter struct {
	Name     string `form:"name"` // Substring match on sweep name
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// ResultFilter represents filter parameters for listing raw sweep results
type ResultFilter struct {
	MinScore *float64 `form:"minScore"`
	MaxScore *float64 `form:"maxScore"`
	Page     int      `form:"page"`
	PageSize int      `form:"pageSize"`
}

// CreateSweepRequest is the payload for creating a sweep and generating
// its mock results
type CreateSweepRequest struct {
	Name           string      `json:"name" binding:"required"`
	ScoreDirection string      `json:"scoreDirection"`
	Params         []ParamSpec `json:"params" binding:"required"`
	Seed           *int64      `json:"seed"` // Defaults to the server-configured seed
}

// ZoomStackEntry is one level of the drill-down stack kept by the caller.
// Labels are display-only; ranges carry the cumulative narrowing.
type ZoomStackEntry struct {
	Label  string    `json:"label"`
	Ranges ZoomRange `json:"zoomRanges"`
}

// HeatMapRequest is the payload for building a heatmap over a sweep's
// results. The zoom stack is passed whole; the server merges it with
// later entries overriding earlier ones for the same key.
type HeatMapRequest struct {
	Config    HeatMapConfig    `json:"config"`
	ZoomStack []ZoomStackEntry `json:"zoomStack,omitempty"`
}
