package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/quantlab/sandbox-backend-go/internal/database"
	"github.com/quantlab/sandbox-backend-go/internal/heatmap"
	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/repository"
)

func newServices(t *testing.T) (*SweepService, *HeatMapService) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	db.SetMaxOpenConns(1)

	_, err = db.Exec("PRAGMA foreign_keys=ON")
	require.NoError(t, err)
	require.NoError(t, database.NewMigrationManager(db).RunMigrations())

	sweeps := repository.NewSweepRepository(db)
	results := repository.NewResultRepository(db)
	return NewSweepService(sweeps, results, 1),
		NewHeatMapService(sweeps, results, heatmap.New())
}

func createRequest() models.CreateSweepRequest {
	return models.CreateSweepRequest{
		Name:           "ema cross",
		ScoreDirection: models.ScoreDirectionMax,
		Params: []models.ParamSpec{
			{Key: "fast", Min: 2, Max: 14, Step: 2},
			{Key: "slow", Min: 10, Max: 50, Step: 5},
		},
	}
}

func TestSweepServiceCreateGeneratesResults(t *testing.T) {
	sweepSvc, _ := newServices(t)

	sweep, err := sweepSvc.Create(createRequest())
	require.NoError(t, err)
	require.NotNil(t, sweep)
	assert.NotEmpty(t, sweep.ID)
	// fast: 7 values, slow: 9 values
	assert.Equal(t, 63, sweep.ResultCount)

	results, err := sweepSvc.Results(sweep.ID, models.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 63)
}

func TestSweepServiceDelete(t *testing.T) {
	sweepSvc, _ := newServices(t)

	sweep, err := sweepSvc.Create(createRequest())
	require.NoError(t, err)

	require.NoError(t, sweepSvc.Delete(sweep.ID))

	got, err := sweepSvc.Get(sweep.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHeatMapServiceBuild(t *testing.T) {
	sweepSvc, heatmapSvc := newServices(t)

	sweep, err := sweepSvc.Create(createRequest())
	require.NoError(t, err)

	matrix, err := heatmapSvc.Build(sweep.ID, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"slow"}},
	})
	require.NoError(t, err)
	require.NotNil(t, matrix)
	assert.Equal(t, 63, matrix.N)
	assert.Equal(t, matrix.W, matrix.H)
}

func TestHeatMapServiceRejectsInvalidConfig(t *testing.T) {
	sweepSvc, heatmapSvc := newServices(t)

	sweep, err := sweepSvc.Create(createRequest())
	require.NoError(t, err)

	_, err = heatmapSvc.Build(sweep.ID, models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"fast"}},
	})
	assert.ErrorIs(t, err, heatmap.ErrInvalidConfig)
}

func TestHeatMapServiceUnknownSweep(t *testing.T) {
	_, heatmapSvc := newServices(t)

	_, err := heatmapSvc.Build("missing", models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"a"}, YAxis: []string{"b"}},
	})
	assert.ErrorIs(t, err, ErrSweepNotFound)
}

func TestHeatMapServiceZoomStack(t *testing.T) {
	sweepSvc, heatmapSvc := newServices(t)

	sweep, err := sweepSvc.Create(createRequest())
	require.NoError(t, err)

	req := models.HeatMapRequest{
		Config: models.HeatMapConfig{XAxis: []string{"fast"}, YAxis: []string{"slow"}},
	}
	full, err := heatmapSvc.Build(sweep.ID, req)
	require.NoError(t, err)
	require.NotNil(t, full)

	req.ZoomStack = []models.ZoomStackEntry{
		{Label: "zoom", Ranges: models.ZoomRange{"fast": {Min: 2, Max: 6}}},
	}
	zoomed, err := heatmapSvc.Build(sweep.ID, req)
	require.NoError(t, err)
	require.NotNil(t, zoomed)
	// fast ∈ {2,4,6} of 7 values, slow unconstrained
	assert.Equal(t, 3*9, zoomed.N)
	assert.Less(t, zoomed.N, full.N)
}
