package models

import "time"

// ParamSpec describes one swept hyperparameter: the inclusive value range
// and the step between sampled values
type ParamSpec struct {
	Key  string  `json:"key"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

// Values expands the spec into the concrete values the sweep samples.
// A non-positive step yields just the lower bound.
func (p ParamSpec) Values() []float64 {
	if p.Step <= 0 || p.Max < p.Min {
		return []float64{p.Min}
	}
	var values []float64
	// Small epsilon guards against float drift excluding the upper bound
	for v := p.Min; v <= p.Max+p.Step*1e-9; v += p.Step {
		values = append(values, v)
	}
	return values
}

// Sweep represents a stored hyperparameter sweep definition together with
// the seed its mock results were generated from
type Sweep struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	ScoreDirection string      `json:"scoreDirection"`
	Params         []ParamSpec `json:"params"`
	Seed           int64       `json:"seed"`
	ResultCount    int         `json:"resultCount"`
	CreatedAt      time.Time   `json:"createdAt"`
}
