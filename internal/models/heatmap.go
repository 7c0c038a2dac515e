package models

// ScoreDirection values control which results count as "top" when the
// engine centers the best-scoring cluster
const (
	ScoreDirectionMax = "max"
	ScoreDirectionMin = "min"
)

// HeatMapConfig represents the user-chosen projection of parameter space
// onto the two grid axes
type HeatMapConfig struct {
	XAxis          []string           `json:"xAxis"`
	YAxis          []string           `json:"yAxis"`
	FixedParams    map[string]float64 `json:"fixedParams,omitempty"`
	ScoreDirection string             `json:"scoreDirection,omitempty"` // "max" (default) or "min"
}

// Direction returns the effective score direction, defaulting to "max"
func (c HeatMapConfig) Direction() string {
	if c.ScoreDirection == ScoreDirectionMin {
		return ScoreDirectionMin
	}
	return ScoreDirectionMax
}

// CellParamRanges holds per-axis-key value ranges observed inside one cell,
// used by the renderer for drill-down tooltips
type CellParamRanges struct {
	X map[string]Range `json:"x"`
	Y map[string]Range `json:"y"`
}

// HeatMapCell represents one bucket of the grid with aggregated statistics.
// AvgScore/MinScore/MaxScore are nil for empty cells; ZoomRanges is nil
// unless drilling into the cell would actually narrow the result set.
type HeatMapCell struct {
	XI          int             `json:"xi"`
	YI          int             `json:"yi"`
	Count       int             `json:"count"`
	AvgScore    *float64        `json:"avgScore"`
	MinScore    *float64        `json:"minScore"`
	MaxScore    *float64        `json:"maxScore"`
	ParamRanges CellParamRanges `json:"paramRanges"`
	Results     []Result        `json:"results"`
	ZoomRanges  ZoomRange       `json:"zoomRanges"`
}

// HeatMapMatrix is the engine's output: a fully-built H×W grid of aggregated
// cells plus the global score range the renderer needs for the legend scale.
// It is rebuilt from scratch on every invocation and never mutated in place.
type HeatMapMatrix struct {
	N        int             `json:"n"`
	W        int             `json:"w"`
	H        int             `json:"h"`
	ScoreMin float64         `json:"scoreMin"`
	ScoreMax float64         `json:"scoreMax"`
	CenterX  float64         `json:"centerX"`
	CenterY  float64         `json:"centerY"`
	Cells    [][]HeatMapCell `json:"cells"`
	XKeys    []string        `json:"xKeys"`
	YKeys    []string        `json:"yKeys"`
}
