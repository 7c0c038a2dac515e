package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantlab/sandbox-backend-go/internal/generator"
	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/repository"
	"github.com/quantlab/sandbox-backend-go/pkg/metrics"
)

// SweepService handles business logic for sweep definitions and their
// generated results
type SweepService struct {
	sweeps      *repository.SweepRepository
	results     *repository.ResultRepository
	defaultSeed int64
}

// NewSweepService creates a new sweep service
func NewSweepService(sweeps *repository.SweepRepository, results *repository.ResultRepository, defaultSeed int64) *SweepService {
	return &SweepService{sweeps: sweeps, results: results, defaultSeed: defaultSeed}
}

// Create stores a sweep definition, generates its mock results and persists
// them. Returns the stored sweep with its result count filled in.
func (s *SweepService) Create(req models.CreateSweepRequest) (*models.Sweep, error) {
	seed := s.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	direction := models.ScoreDirectionMax
	if req.ScoreDirection == models.ScoreDirectionMin {
		direction = models.ScoreDirectionMin
	}

	sweep := models.Sweep{
		ID:             uuid.NewString(),
		Name:           req.Name,
		ScoreDirection: direction,
		Params:         req.Params,
		Seed:           seed,
		CreatedAt:      time.Now().UTC(),
	}

	results := generator.New(seed).Generate(sweep)
	sweep.ResultCount = len(results)

	if err := s.sweeps.Create(sweep); err != nil {
		return nil, err
	}
	if err := s.results.InsertBatch(sweep.ID, results); err != nil {
		// Keep storage consistent: a sweep without its results is useless
		s.sweeps.Delete(sweep.ID)
		return nil, err
	}

	metrics.SweepResultsGenerated.Observe(float64(len(results)))
	return &sweep, nil
}

// List retrieves sweeps with filtering
func (s *SweepService) List(filter models.SweepFilter) ([]models.Sweep, error) {
	return s.sweeps.List(filter)
}

// Get retrieves a single sweep; nil when not found
func (s *SweepService) Get(id string) (*models.Sweep, error) {
	return s.sweeps.GetByID(id)
}

// Delete removes a sweep and its results
func (s *SweepService) Delete(id string) error {
	return s.sweeps.Delete(id)
}

// Results retrieves a sweep's raw results with filtering
func (s *SweepService) Results(sweepID string, filter models.ResultFilter) ([]models.Result, error) {
	return s.results.GetBySweep(sweepID, filter)
}
