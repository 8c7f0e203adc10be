package compare

import (
	"fmt"
	"math"
	"sort"

	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"gonum.org/v1/gonum/interp"
)

// DefaultGapWindow is the rolling-mean window, in points, applied to the time gap.
const DefaultGapWindow = 75

// GapPoint is the time gap between two drivers at one distance.
// A positive Gap means driver A reached the distance first.
type GapPoint struct {
	Distance float64 `json:"distance"`
	Gap      float64 `json:"gap"` // seconds, t_B - t_A
}

// TimeGap aligns a and b on the union of their distance samples, inside the
// span both laps cover, and returns t_B - t_A at each distance. Times are
// linearly interpolated between samples. The gap is smoothed with a trailing
// mean over window points; points before the window fills report 0. A window
// of 1 or less returns the raw gap.
func TimeGap(a, b telemetry.Series, window int) ([]GapPoint, error) {
	fitA, err := fitTime(a)
	if err != nil {
		return nil, err
	}
	fitB, err := fitTime(b)
	if err != nil {
		return nil, err
	}

	sa, sb := a.Span(), b.Span()
	lo, hi := math.Max(sa.Start, sb.Start), math.Min(sa.End, sb.End)
	if lo > hi {
		return nil, &EmptyRangeError{Driver: b.Driver, Range: sa}
	}

	xs := unionDistances(a, b, lo, hi)
	raw := make([]float64, len(xs))
	for i, x := range xs {
		raw[i] = fitB.Predict(x) - fitA.Predict(x)
	}

	smoothed := rollingMean(raw, window)
	points := make([]GapPoint, len(xs))
	for i, x := range xs {
		points[i] = GapPoint{Distance: x, Gap: smoothed[i]}
	}
	return points, nil
}

// GapWithin returns the points inside r.
func GapWithin(points []GapPoint, r telemetry.Range) []GapPoint {
	var out []GapPoint
	for _, p := range points {
		if r.Contains(p.Distance) {
			out = append(out, p)
		}
	}
	return out
}

// Downsample keeps the first point and then one point every step meters.
// The last point is always kept. A non-positive step returns points unchanged.
func Downsample(points []GapPoint, step float64) []GapPoint {
	if step <= 0 || len(points) < 3 {
		return points
	}
	out := []GapPoint{points[0]}
	next := points[0].Distance + step
	for _, p := range points[1 : len(points)-1] {
		if p.Distance >= next {
			out = append(out, p)
			next = p.Distance + step
		}
	}
	return append(out, points[len(points)-1])
}

// fitTime fits elapsed seconds against distance. Repeated distances keep the
// first sample so the abscissa is strictly increasing.
func fitTime(s telemetry.Series) (*interp.PiecewiseLinear, error) {
	var xs, ys []float64
	for _, smp := range s.Samples {
		if n := len(xs); n > 0 && smp.Distance <= xs[n-1] {
			continue
		}
		xs = append(xs, smp.Distance)
		ys = append(ys, smp.Time.Seconds())
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("%w: driver %s has %d", ErrTooFewSamples, s.Driver, len(xs))
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("fitting driver %s: %w", s.Driver, err)
	}
	return &pl, nil
}

func unionDistances(a, b telemetry.Series, lo, hi float64) []float64 {
	seen := make(map[float64]struct{}, a.Len()+b.Len())
	var xs []float64
	for _, s := range []telemetry.Series{a, b} {
		for _, smp := range s.Samples {
			if smp.Distance < lo || smp.Distance > hi {
				continue
			}
			if _, ok := seen[smp.Distance]; ok {
				continue
			}
			seen[smp.Distance] = struct{}{}
			xs = append(xs, smp.Distance)
		}
	}
	sort.Float64s(xs)
	return xs
}

func rollingMean(values []float64, window int) []float64 {
	if window <= 1 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}
