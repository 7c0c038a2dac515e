// Package heatmap implements the binning/aggregation engine that projects
// scored parameter-combination results onto a square 2D grid for rendering.
package heatmap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/quantlab/sandbox-backend-go/internal/models"
	"github.com/quantlab/sandbox-backend-go/internal/stats"
)

// Display heuristics. Empirically tuned; kept configurable on Engine but
// the defaults must not change without re-tuning the renderer.
const (
	DefaultGridMin        = 9
	DefaultGridMax        = 13
	DefaultIndexThreshold = 100
	DefaultTopFraction    = 0.06
	DefaultTopMin         = 10
)

// Engine builds heatmap matrices. It holds only tuning constants; Build is
// pure and keeps no state between invocations, so a single Engine is safe
// for concurrent use.
type Engine struct {
	GridMin        int     // Smallest grid side length
	GridMax        int     // Largest grid side length
	IndexThreshold int     // N at or above which index coordinates are used
	TopFraction    float64 // Fraction of results forming the "best cluster"
	TopMin         int     // Minimum size of the best cluster
}

// New creates an engine with the default display heuristics
func New() *Engine {
	return &Engine{
		GridMin:        DefaultGridMin,
		GridMax:        DefaultGridMax,
		IndexThreshold: DefaultIndexThreshold,
		TopFraction:    DefaultTopFraction,
		TopMin:         DefaultTopMin,
	}
}

// ErrInvalidConfig marks config validation failures so callers can map
// them to a caller error instead of a server error
var ErrInvalidConfig = errors.New("invalid heatmap config")

// ValidateConfig rejects projections the engine cannot meaningfully bin:
// empty axis groups or a key appearing on both axes
func ValidateConfig(cfg models.HeatMapConfig) error {
	if len(cfg.XAxis) == 0 {
		return fmt.Errorf("%w: xAxis must not be empty", ErrInvalidConfig)
	}
	if len(cfg.YAxis) == 0 {
		return fmt.Errorf("%w: yAxis must not be empty", ErrInvalidConfig)
	}
	xSet := make(map[string]bool, len(cfg.XAxis))
	for _, k := range cfg.XAxis {
		xSet[k] = true
	}
	for _, k := range cfg.YAxis {
		if xSet[k] {
			return fmt.Errorf("%w: key %q appears on both axes", ErrInvalidConfig, k)
		}
	}
	return nil
}

// Build transforms scored results into a heatmap matrix: it filters by fixed
// params and zoom ranges, assigns each result a normalized 2D coordinate,
// centers the best-scoring cluster at the grid middle, bins into S×S cells
// and aggregates per-cell statistics. Returns nil when no results survive
// filtering (callers treat that as "no data", not an error). The input
// slice is read-only; the returned matrix is freshly allocated.
func (e *Engine) Build(results []models.Result, cfg models.HeatMapConfig, zoom models.ZoomRange) *models.HeatMapMatrix {
	if len(results) == 0 {
		return nil
	}

	axisKeys := unionKeys(cfg.XAxis, cfg.YAxis)

	filtered := filterResults(results, cfg, zoom, axisKeys)
	n := len(filtered)
	if n == 0 {
		return nil
	}

	side := e.gridSide(n)

	ranges := axisRanges(filtered, axisKeys)
	useIndex := n >= e.IndexThreshold ||
		!hasSpread(ranges, cfg.XAxis) ||
		!hasSpread(ranges, cfg.YAxis)

	var pts []r2.Point
	centerX, centerY := 0.5, 0.5
	if useIndex {
		// Parameter-driven placement would be degenerate or the set is
		// large enough that uniform tiling reads better. No centering.
		pts = indexCoords(n)
	} else {
		pts = paramCoords(filtered, cfg, ranges)
		centerX, centerY = e.clusterCenter(filtered, pts, cfg.Direction())
		for i := range pts {
			pts[i] = r2.Point{
				X: stats.Clamp01(pts[i].X - centerX + 0.5),
				Y: stats.Clamp01(pts[i].Y - centerY + 0.5),
			}
		}
	}

	// Binning: every result lands in exactly one bucket
	buckets := make([][][]int, side)
	for yi := range buckets {
		buckets[yi] = make([][]int, side)
	}
	for i, p := range pts {
		xi := bucketIndex(p.X, side)
		yi := bucketIndex(p.Y, side)
		buckets[yi][xi] = append(buckets[yi][xi], i)
	}

	cells := make([][]models.HeatMapCell, side)
	for yi := 0; yi < side; yi++ {
		cells[yi] = make([]models.HeatMapCell, side)
		for xi := 0; xi < side; xi++ {
			cells[yi][xi] = aggregateCell(xi, yi, buckets[yi][xi], filtered, cfg, axisKeys)
		}
	}

	scores := make([]float64, n)
	for i, r := range filtered {
		scores[i] = r.Score
	}

	return &models.HeatMapMatrix{
		N:        n,
		W:        side,
		H:        side,
		ScoreMin: stats.Min(scores),
		ScoreMax: stats.Max(scores),
		CenterX:  centerX,
		CenterY:  centerY,
		Cells:    cells,
		XKeys:    append([]string(nil), cfg.XAxis...),
		YKeys:    append([]string(nil), cfg.YAxis...),
	}
}

// gridSide maps the filtered result count to a square grid side length.
// The side grows sub-linearly with the sample count and is bounded so
// cells stay legible.
func (e *Engine) gridSide(n int) int {
	t := stats.Clamp01(math.Sqrt(math.Max(float64(n), 1)) / 6)
	s := int(math.Round(stats.Lerp(float64(e.GridMin), float64(e.GridMax), t)))
	return int(stats.Clamp(float64(s), float64(e.GridMin), float64(e.GridMax)))
}

// filterResults applies fixed-param matching and zoom-range containment.
// Fixed keys that are also axis keys stay projectable and are not filtered;
// zoom entries for keys outside the axes are ignored.
func filterResults(results []models.Result, cfg models.HeatMapConfig, zoom models.ZoomRange, axisKeys []string) []models.Result {
	axisSet := make(map[string]bool, len(axisKeys))
	for _, k := range axisKeys {
		axisSet[k] = true
	}

	var out []models.Result
	for _, r := range results {
		if !matchesFixed(r, cfg.FixedParams, axisSet) {
			continue
		}
		if !withinZoom(r, zoom, axisKeys) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesFixed(r models.Result, fixed map[string]float64, axisSet map[string]bool) bool {
	for key, want := range fixed {
		if axisSet[key] {
			continue
		}
		v, ok := r.Param(key)
		if !ok || v != want {
			return false
		}
	}
	return true
}

func withinZoom(r models.Result, zoom models.ZoomRange, axisKeys []string) bool {
	if len(zoom) == 0 {
		return true
	}
	for _, key := range axisKeys {
		rng, ok := zoom[key]
		if !ok {
			continue
		}
		v, ok := r.Param(key)
		if !ok || !rng.Contains(v) {
			return false
		}
	}
	return true
}

// axisRanges computes the observed value interval per axis key across the
// filtered set, ignoring missing values. Keys never observed stay empty.
func axisRanges(results []models.Result, axisKeys []string) map[string]r1.Interval {
	ranges := make(map[string]r1.Interval, len(axisKeys))
	for _, key := range axisKeys {
		ranges[key] = r1.EmptyInterval()
	}
	for _, r := range results {
		for _, key := range axisKeys {
			if v, ok := r.Param(key); ok {
				ranges[key] = ranges[key].AddPoint(v)
			}
		}
	}
	return ranges
}

// hasSpread reports whether any key in the axis group has a non-degenerate
// observed range
func hasSpread(ranges map[string]r1.Interval, keys []string) bool {
	for _, key := range keys {
		iv := ranges[key]
		if !iv.IsEmpty() && iv.Length() > 0 {
			return true
		}
	}
	return false
}

// indexCoords lays n results out row-major on a near-square tile grid,
// normalized to the unit square
func indexCoords(n int) []r2.Point {
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols

	pts := make([]r2.Point, n)
	for i := range pts {
		x, y := 0.5, 0.5
		if cols > 1 {
			x = float64(i%cols) / float64(cols-1)
		}
		if rows > 1 {
			y = float64(i/cols) / float64(rows-1)
		}
		pts[i] = r2.Point{X: stats.Clamp01(x), Y: stats.Clamp01(y)}
	}
	return pts
}

// paramCoords min-max normalizes each axis key's value and averages across
// the group's keys. Missing values and degenerate ranges contribute 0.5.
func paramCoords(results []models.Result, cfg models.HeatMapConfig, ranges map[string]r1.Interval) []r2.Point {
	pts := make([]r2.Point, len(results))
	for i, r := range results {
		pts[i] = r2.Point{
			X: groupCoord(r, cfg.XAxis, ranges),
			Y: groupCoord(r, cfg.YAxis, ranges),
		}
	}
	return pts
}

func groupCoord(r models.Result, keys []string, ranges map[string]r1.Interval) float64 {
	var sum float64
	for _, key := range keys {
		c := 0.5
		iv := ranges[key]
		if v, ok := r.Param(key); ok && !iv.IsEmpty() && iv.Length() > 0 {
			c = stats.Normalize(v, iv.Lo, iv.Hi)
		}
		sum += c
	}
	return sum / float64(len(keys))
}

// clusterCenter locates the median coordinate of the top-scoring subset so
// the caller can shift it to the grid's visual middle
func (e *Engine) clusterCenter(results []models.Result, pts []r2.Point, direction string) (float64, float64) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if direction == models.ScoreDirectionMin {
			return results[order[a]].Score < results[order[b]].Score
		}
		return results[order[a]].Score > results[order[b]].Score
	})

	n := len(results)
	k := int(math.Floor(float64(n) * e.TopFraction))
	if k > n {
		k = n
	}
	if k < e.TopMin {
		k = e.TopMin
	}
	if k > n {
		k = n
	}

	xs := make([]float64, k)
	ys := make([]float64, k)
	for i := 0; i < k; i++ {
		xs[i] = pts[order[i]].X
		ys[i] = pts[order[i]].Y
	}
	return stats.Quantile(xs, 0.5), stats.Quantile(ys, 0.5)
}

func bucketIndex(coord float64, side int) int {
	return int(stats.Clamp(math.Floor(coord*float64(side)), 0, float64(side-1)))
}

// aggregateCell computes the per-cell statistics the renderer and the
// drill-down protocol consume. Empty cells get a placeholder with nil
// scores; a cell is drillable only when at least one contained axis key
// has a non-degenerate value range.
func aggregateCell(xi, yi int, indices []int, results []models.Result, cfg models.HeatMapConfig, axisKeys []string) models.HeatMapCell {
	cell := models.HeatMapCell{
		XI: xi,
		YI: yi,
		ParamRanges: models.CellParamRanges{
			X: map[string]models.Range{},
			Y: map[string]models.Range{},
		},
		Results: []models.Result{},
	}
	if len(indices) == 0 {
		return cell
	}

	scores := make([]float64, len(indices))
	members := make([]models.Result, len(indices))
	for i, idx := range indices {
		scores[i] = results[idx].Score
		members[i] = results[idx]
	}

	avg := stats.Mean(scores)
	min := stats.Min(scores)
	max := stats.Max(scores)

	cell.Count = len(members)
	cell.AvgScore = &avg
	cell.MinScore = &min
	cell.MaxScore = &max
	cell.Results = members
	cell.ParamRanges.X = keyRanges(members, cfg.XAxis)
	cell.ParamRanges.Y = keyRanges(members, cfg.YAxis)

	zoom := keyRanges(members, axisKeys)
	for _, rng := range zoom {
		if !rng.Degenerate() {
			// Narrowing would have an effect, so the cell is drillable
			cell.ZoomRanges = zoom
			break
		}
	}
	return cell
}

// keyRanges computes the observed {min,max} per key across the given
// results, omitting keys with no observed values
func keyRanges(results []models.Result, keys []string) map[string]models.Range {
	out := make(map[string]models.Range, len(keys))
	for _, key := range keys {
		iv := r1.EmptyInterval()
		for _, r := range results {
			if v, ok := r.Param(key); ok {
				iv = iv.AddPoint(v)
			}
		}
		if !iv.IsEmpty() {
			out[key] = models.Range{Min: iv.Lo, Max: iv.Hi}
		}
	}
	return out
}

func unionKeys(xKeys, yKeys []string) []string {
	seen := make(map[string]bool, len(xKeys)+len(yKeys))
	out := make([]string, 0, len(xKeys)+len(yKeys))
	for _, k := range xKeys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range yKeys {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
