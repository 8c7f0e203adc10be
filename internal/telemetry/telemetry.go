// Package telemetry defines the per-lap car telemetry compared by f1brief.
//
// A Series is one driver's lap as an ordered list of samples. Distance is the
// common alignment axis: every comparison filters both drivers' samples by the
// same inclusive distance window.
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sample is a single telemetry measurement.
type Sample struct {
	Distance float64       `json:"distance"` // meters from the start line
	Speed    float64       `json:"speed"`    // km/h
	Throttle float64       `json:"throttle"` // 0-100
	Brake    bool          `json:"brake"`
	Time     time.Duration `json:"time"` // lap-relative elapsed time
}

// Series is one driver's samples for one lap, ordered by distance.
type Series struct {
	Driver  string   `json:"driver"`
	Samples []Sample `json:"samples"`
}

// Range is an inclusive distance window [Start, End] in meters.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

var (
	// ErrNotMonotonic is returned when sample distances decrease.
	ErrNotMonotonic = errors.New("telemetry: distance is not monotonic")

	// ErrNegativeSpeed is returned when a sample has a negative speed.
	ErrNegativeSpeed = errors.New("telemetry: negative speed")

	// ErrInvalidRange is returned for a range with Start > End or NaN bounds.
	ErrInvalidRange = errors.New("telemetry: invalid range")

	// ErrNonFinite is returned for NaN or infinite sample values.
	ErrNonFinite = errors.New("telemetry: non-finite value")

	// ErrNoSamples is returned when a file contains no samples.
	ErrNoSamples = errors.New("telemetry: no samples")
)

// Contains reports whether d lies inside the range, bounds included.
func (r Range) Contains(d float64) bool {
	return d >= r.Start && d <= r.End
}

// Validate checks the range bounds.
func (r Range) Validate() error {
	if math.IsNaN(r.Start) || math.IsNaN(r.End) {
		return fmt.Errorf("%w: NaN bound", ErrInvalidRange)
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: start %.1f is after end %.1f", ErrInvalidRange, r.Start, r.End)
	}
	return nil
}

// ParseRange parses "start:end" or "start-end" in meters, e.g. "5300:5530".
func ParseRange(s string) (Range, error) {
	input := strings.TrimSpace(s)
	lo, hi, ok := strings.Cut(input, ":")
	if !ok {
		lo, hi, ok = strings.Cut(input, "-")
	}
	if !ok {
		return Range{}, fmt.Errorf("%w: %q (want start:end)", ErrInvalidRange, s)
	}

	start, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad start %q", ErrInvalidRange, lo)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return Range{}, fmt.Errorf("%w: bad end %q", ErrInvalidRange, hi)
	}

	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// String returns a compact human-readable form, e.g. "5300-5530 m".
func (r Range) String() string {
	return fmt.Sprintf("%g-%g m", r.Start, r.End)
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Samples)
}

// Between returns the samples whose distance lies inside r. The receiver is
// not modified and the result does not share its backing array.
func (s Series) Between(r Range) Series {
	out := Series{Driver: s.Driver}
	for _, smp := range s.Samples {
		if r.Contains(smp.Distance) {
			out.Samples = append(out.Samples, smp)
		}
	}
	return out
}

// Span returns the distance range covered by the series.
// An empty series returns the zero Range.
func (s Series) Span() Range {
	if len(s.Samples) == 0 {
		return Range{}
	}
	return Range{
		Start: s.Samples[0].Distance,
		End:   s.Samples[len(s.Samples)-1].Distance,
	}
}

// Validate checks that every value is finite, distance never decreases and
// speeds are non-negative.
func (s Series) Validate() error {
	for i, smp := range s.Samples {
		for _, v := range [...]struct {
			name  string
			value float64
		}{{"distance", smp.Distance}, {"speed", smp.Speed}, {"throttle", smp.Throttle}} {
			if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
				return fmt.Errorf("%w: sample %d %s is %v", ErrNonFinite, i, v.name, v.value)
			}
		}
		if smp.Speed < 0 {
			return fmt.Errorf("%w: sample %d has speed %.2f", ErrNegativeSpeed, i, smp.Speed)
		}
		if i > 0 && smp.Distance < s.Samples[i-1].Distance {
			return fmt.Errorf("%w: sample %d at %.2f m follows %.2f m",
				ErrNotMonotonic, i, smp.Distance, s.Samples[i-1].Distance)
		}
	}
	return nil
}

// Speeds returns the speed column.
func (s Series) Speeds() []float64 {
	out := make([]float64, len(s.Samples))
	for i, smp := range s.Samples {
		out[i] = smp.Speed
	}
	return out
}

