package heatmap

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantlab/sandbox-backend-go/internal/models"
)

func TestZoomStackEmpty(t *testing.T) {
	s := NewZoomStack(nil)
	assert.Equal(t, 0, s.Depth())
	assert.Nil(t, s.Current())
	assert.False(t, s.Pop())
}

func TestZoomStackMergeOverride(t *testing.T) {
	s := NewZoomStack(nil)
	s.Push(models.ZoomStackEntry{
		Label:  "cell (2,3)",
		Ranges: models.ZoomRange{"p1": {Min: 0, Max: 10}, "p2": {Min: 0, Max: 10}},
	})
	s.Push(models.ZoomStackEntry{
		Label:  "cell (4,4)",
		Ranges: models.ZoomRange{"p1": {Min: 2, Max: 4}},
	})

	require.Equal(t, 2, s.Depth())
	merged := s.Current()
	// Later entries override earlier ones for the same key
	assert.Equal(t, models.Range{Min: 2, Max: 4}, merged["p1"])
	assert.Equal(t, models.Range{Min: 0, Max: 10}, merged["p2"])
	assert.Equal(t, []string{"cell (2,3)", "cell (4,4)"}, s.Labels())
}

func TestZoomStackPopAndReset(t *testing.T) {
	s := NewZoomStack([]models.ZoomStackEntry{
		{Label: "a", Ranges: models.ZoomRange{"p1": {Min: 0, Max: 10}}},
		{Label: "b", Ranges: models.ZoomRange{"p1": {Min: 2, Max: 4}}},
	})

	assert.True(t, s.Pop())
	assert.Equal(t, models.Range{Min: 0, Max: 10}, s.Current()["p1"])

	s.Reset()
	assert.Equal(t, 0, s.Depth())
	assert.Nil(t, s.Current())
}

func TestZoomStackDropsUndrillableEntries(t *testing.T) {
	s := NewZoomStack([]models.ZoomStackEntry{
		{Label: "no ranges"},
	})
	assert.Equal(t, 0, s.Depth())
}

func TestZoomStackDrivesEngine(t *testing.T) {
	// Continuous parameters so multi-result cells have non-degenerate
	// ranges and stay drillable
	rng := rand.New(rand.NewSource(21))
	results := make([]models.Result, 60)
	for i := range results {
		results[i] = makeResult(
			fmt.Sprintf("r%d", i),
			rng.Float64(),
			map[string]float64{"p1": rng.Float64() * 50, "p2": rng.Float64() * 50},
		)
	}
	engine := New()

	full := engine.Build(results, defaultConfig(), nil)
	require.NotNil(t, full)

	var drillable *models.HeatMapCell
	for yi := range full.Cells {
		for xi := range full.Cells[yi] {
			if full.Cells[yi][xi].ZoomRanges != nil {
				drillable = &full.Cells[yi][xi]
				break
			}
		}
		if drillable != nil {
			break
		}
	}
	require.NotNil(t, drillable)

	s := NewZoomStack(nil)
	s.Push(models.ZoomStackEntry{Label: "level 1", Ranges: drillable.ZoomRanges})

	zoomed := engine.Build(results, defaultConfig(), s.Current())
	require.NotNil(t, zoomed)
	assert.Equal(t, drillable.Count, zoomed.N)

	// Zooming out rebuilds from the full set
	s.Pop()
	again := engine.Build(results, defaultConfig(), s.Current())
	require.NotNil(t, again)
	assert.Equal(t, full.N, again.N)
}
