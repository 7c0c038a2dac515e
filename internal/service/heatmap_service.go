package service

import (
	"fmt"
	"time"

	"github.com/quantlab/sandbox-backend-go/internal/heatmap"
	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/repository"
	"github.com/quantlab/sandbox-backend-go/pkg/metrics"
)

// HeatMapService loads a sweep's results and runs the heatmap engine over
// them. The engine itself is pure; this layer owns config validation, zoom
// stack merging and instrumentation.
type HeatMapService struct {
	sweeps  *repository.SweepRepository
	results *repository.ResultRepository
	engine  *heatmap.Engine
}

// NewHeatMapService creates a new heatmap service
func NewHeatMapService(sweeps *repository.SweepRepository, results *repository.ResultRepository, engine *heatmap.Engine) *HeatMapService {
	return &HeatMapService{sweeps: sweeps, results: results, engine: engine}
}

// ErrSweepNotFound is returned when the requested sweep does not exist
var ErrSweepNotFound = fmt.Errorf("sweep not found")

// Build validates the request, merges the caller's zoom stack and invokes
// the engine. A nil matrix with nil error means no results survived
// filtering ("no data", not a failure).
func (s *HeatMapService) Build(sweepID string, req models.HeatMapRequest) (*models.HeatMapMatrix, error) {
	if err := heatmap.ValidateConfig(req.Config); err != nil {
		return nil, err
	}

	sweep, err := s.sweeps.GetByID(sweepID)
	if err != nil {
		return nil, err
	}
	if sweep == nil {
		return nil, ErrSweepNotFound
	}

	results, err := s.results.GetBySweep(sweepID, models.ResultFilter{})
	if err != nil {
		return nil, err
	}

	zoom := heatmap.NewZoomStack(req.ZoomStack).Current()

	start := time.Now()
	matrix := s.engine.Build(results, req.Config, zoom)
	metrics.HeatmapBuildsTotal.Inc()
	metrics.HeatmapBuildSeconds.Observe(time.Since(start).Seconds())

	return matrix, nil
}
