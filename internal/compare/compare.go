// Package compare derives comparative statistics between two drivers' laps.
//
// The Comparator filters both telemetry series to the same inclusive distance
// window and reduces each to a fixed set of metrics: speeds, section time and
// braking points. Every metric is reported as a pair of values plus the
// absolute and percentage difference, always relative to driver A.
package compare

import (
	"math"

	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric names in canonical order.
const (
	MetricTopSpeed         = "top_speed"
	MetricAverageSpeed     = "average_speed"
	MetricLowestSpeed      = "lowest_speed"
	MetricSpeedRange       = "speed_range"
	MetricSectionTime      = "section_time"
	MetricBrakeApplication = "brake_application"
	MetricBrakeRelease     = "brake_release"
	MetricBrakingDistance  = "braking_distance"
	MetricOverlap          = "brake_throttle_overlap"
)

// DefaultOverlapThreshold is the throttle percentage above which a braking
// sample counts as brake/throttle overlap.
const DefaultOverlapThreshold = 20.0

type metricInfo struct {
	name  string
	label string
	unit  string
}

var metricOrder = []metricInfo{
	{MetricTopSpeed, "Top speed", "km/h"},
	{MetricAverageSpeed, "Average speed", "km/h"},
	{MetricLowestSpeed, "Lowest speed", "km/h"},
	{MetricSpeedRange, "Speed range", "km/h"},
	{MetricSectionTime, "Section time", "s"},
	{MetricBrakeApplication, "Brake application", "m"},
	{MetricBrakeRelease, "Brake release", "m"},
	{MetricBrakingDistance, "Braking distance", "m"},
	{MetricOverlap, "Brake/throttle overlap", "m"},
}

// Metric is one compared quantity.
type Metric struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit"`
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	Diff    float64 `json:"diff"`    // |A-B|
	Percent float64 `json:"percent"` // |A-B| / A * 100

	// ZeroBaseline is set when A is zero and Percent could not be computed.
	// Percent is reported as 0 in that case.
	ZeroBaseline bool `json:"zero_baseline,omitempty"`
}

// Record is the result of comparing two drivers over one range.
type Record struct {
	Label    string          `json:"label,omitempty"`
	DriverA  string          `json:"driver_a"`
	DriverB  string          `json:"driver_b"`
	Range    telemetry.Range `json:"range"`
	SamplesA int             `json:"samples_a"`
	SamplesB int             `json:"samples_b"`
	Metrics  []Metric        `json:"metrics"`

	// BrakeHeldA/B are set when a driver is still braking at the end of the
	// range; the release point is then the last sample in range.
	BrakeHeldA bool `json:"brake_held_a,omitempty"`
	BrakeHeldB bool `json:"brake_held_b,omitempty"`
}

// Metric returns the metric with the given name.
func (r *Record) Metric(name string) (Metric, bool) {
	for _, m := range r.Metrics {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}

// value returns the A and B values of a metric, or zeros when absent.
func (r *Record) value(name string) (float64, float64) {
	m, _ := r.Metric(name)
	return m.A, m.B
}

// Fields flattens the record into stable named values for prompt templates:
// "<metric>_a", "<metric>_b", "<metric>_diff", "<metric>_pct" for every
// metric plus label, driver_a, driver_b, range_start and range_end.
func (r *Record) Fields() map[string]any {
	fields := map[string]any{
		"label":       r.Label,
		"driver_a":    r.DriverA,
		"driver_b":    r.DriverB,
		"range_start": r.Range.Start,
		"range_end":   r.Range.End,
	}
	for _, m := range r.Metrics {
		fields[m.Name+"_a"] = m.A
		fields[m.Name+"_b"] = m.B
		fields[m.Name+"_diff"] = m.Diff
		fields[m.Name+"_pct"] = m.Percent
	}
	return fields
}

// Comparator computes Records. It holds no mutable state and is safe for
// concurrent use.
type Comparator struct {
	overlapThreshold float64
}

// Option configures a Comparator.
type Option func(*Comparator)

// WithOverlapThreshold sets the throttle percentage above which braking
// counts as brake/throttle overlap. Zero counts any throttle at all;
// negative and NaN values are ignored.
func WithOverlapThreshold(pct float64) Option {
	return func(c *Comparator) {
		if pct >= 0 {
			c.overlapThreshold = pct
		}
	}
}

// New creates a Comparator.
func New(opts ...Option) *Comparator {
	c := &Comparator{overlapThreshold: DefaultOverlapThreshold}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare compares a and b over the inclusive distance range r. label is an
// optional name for the range, such as a turn number.
//
// It returns *EmptyRangeError when either series has no samples in r and
// *FeatureNotFoundError when either driver does not brake in r.
func (c *Comparator) Compare(a, b telemetry.Series, r telemetry.Range, label string) (*Record, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	fa := a.Between(r)
	if fa.Len() == 0 {
		return nil, &EmptyRangeError{Driver: a.Driver, Range: r}
	}
	fb := b.Between(r)
	if fb.Len() == 0 {
		return nil, &EmptyRangeError{Driver: b.Driver, Range: r}
	}

	sa, err := c.summarize(fa, r)
	if err != nil {
		return nil, err
	}
	sb, err := c.summarize(fb, r)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Label:      label,
		DriverA:    a.Driver,
		DriverB:    b.Driver,
		Range:      r,
		SamplesA:   fa.Len(),
		SamplesB:   fb.Len(),
		Metrics:    make([]Metric, 0, len(metricOrder)),
		BrakeHeldA: sa.brakeHeld,
		BrakeHeldB: sb.brakeHeld,
	}

	va, vb := sa.values(), sb.values()
	for i, info := range metricOrder {
		m := Metric{
			Name:  info.name,
			Label: info.label,
			Unit:  info.unit,
			A:     va[i],
			B:     vb[i],
			Diff:  math.Abs(va[i] - vb[i]),
		}
		pct, err := PercentDiff(m.A, m.B)
		if err != nil {
			// Zero overlap for A is the normal "no trail braking" case.
			m.ZeroBaseline = info.name != MetricOverlap
		}
		m.Percent = pct
		rec.Metrics = append(rec.Metrics, m)
	}

	return rec, nil
}

// CompareLap compares a and b over the distance covered by both laps.
func (c *Comparator) CompareLap(a, b telemetry.Series, label string) (*Record, error) {
	sa, sb := a.Span(), b.Span()
	r := telemetry.Range{
		Start: math.Min(sa.Start, sb.Start),
		End:   math.Max(sa.End, sb.End),
	}
	if a.Len() == 0 {
		return nil, &EmptyRangeError{Driver: a.Driver, Range: r}
	}
	if b.Len() == 0 {
		return nil, &EmptyRangeError{Driver: b.Driver, Range: r}
	}
	return c.Compare(a, b, r, label)
}

// PercentDiff returns |a-b| / a * 100. A zero baseline returns 0 and
// ErrZeroBaseline.
func PercentDiff(a, b float64) (float64, error) {
	if a == 0 {
		return 0, ErrZeroBaseline
	}
	return math.Abs(a-b) / math.Abs(a) * 100, nil
}

// driverStats holds one driver's reduced values for a range.
type driverStats struct {
	topSpeed        float64
	avgSpeed        float64
	lowestSpeed     float64
	sectionTime     float64
	brakeOn         float64
	brakeOff        float64
	brakeHeld       bool
	overlapDistance float64
}

// values returns the stats in metricOrder order.
func (s driverStats) values() []float64 {
	return []float64{
		s.topSpeed,
		s.avgSpeed,
		s.lowestSpeed,
		s.topSpeed - s.lowestSpeed,
		s.sectionTime,
		s.brakeOn,
		s.brakeOff,
		s.brakeOff - s.brakeOn,
		s.overlapDistance,
	}
}

// summarize reduces an already filtered, non-empty series.
func (c *Comparator) summarize(s telemetry.Series, r telemetry.Range) (driverStats, error) {
	speeds := s.Speeds()
	first, last := s.Samples[0], s.Samples[len(s.Samples)-1]

	st := driverStats{
		topSpeed:    floats.Max(speeds),
		avgSpeed:    stat.Mean(speeds, nil),
		lowestSpeed: floats.Min(speeds),
		sectionTime: (last.Time - first.Time).Seconds(),
	}

	applyIdx := -1
	for i, smp := range s.Samples {
		if smp.Brake {
			applyIdx = i
			break
		}
	}
	if applyIdx < 0 {
		return driverStats{}, &FeatureNotFoundError{Driver: s.Driver, Feature: "brake application", Range: r}
	}
	st.brakeOn = s.Samples[applyIdx].Distance

	st.brakeOff = last.Distance
	st.brakeHeld = true
	for _, smp := range s.Samples[applyIdx+1:] {
		if smp.Distance > st.brakeOn && !smp.Brake {
			st.brakeOff = smp.Distance
			st.brakeHeld = false
			break
		}
	}

	overlapStart, overlapEnd := math.NaN(), math.NaN()
	for _, smp := range s.Samples {
		if smp.Brake && smp.Throttle > c.overlapThreshold {
			if math.IsNaN(overlapStart) {
				overlapStart = smp.Distance
			}
			overlapEnd = smp.Distance
		}
	}
	if !math.IsNaN(overlapStart) {
		st.overlapDistance = overlapEnd - overlapStart
	}

	return st, nil
}
