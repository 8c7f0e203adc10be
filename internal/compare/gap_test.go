package compare

import (
	"errors"
	"testing"

	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTimeGap_Identical(t *testing.T) {
	a := exampleA()
	points, err := TimeGap(a, a, 1)
	if err != nil {
		t.Fatalf("TimeGap() error = %v", err)
	}
	want := []GapPoint{{100, 0}, {150, 0}, {200, 0}}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("gap mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeGap_Interpolates(t *testing.T) {
	a := series("A", row{0, 200, 100, false, 0}, row{100, 200, 100, false, 1}, row{200, 200, 100, false, 2})
	b := series("B", row{0, 200, 100, false, 0}, row{50, 200, 100, false, 0.6}, row{200, 200, 100, false, 2.2})

	points, err := TimeGap(a, b, 1)
	if err != nil {
		t.Fatalf("TimeGap() error = %v", err)
	}

	want := []GapPoint{
		{Distance: 0, Gap: 0},
		{Distance: 50, Gap: 0.1},
		{Distance: 100, Gap: 0.6 + 50.0/150*1.6 - 1},
		{Distance: 200, Gap: 0.2},
	}
	if diff := cmp.Diff(want, points, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("gap mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeGap_OverlappingSpanOnly(t *testing.T) {
	a := series("A", row{0, 200, 100, false, 0}, row{100, 200, 100, false, 1}, row{300, 200, 100, false, 3})
	b := series("B", row{50, 200, 100, false, 0.5}, row{200, 200, 100, false, 2})

	points, err := TimeGap(a, b, 1)
	if err != nil {
		t.Fatalf("TimeGap() error = %v", err)
	}
	for _, p := range points {
		if p.Distance < 50 || p.Distance > 200 {
			t.Errorf("point %v lies outside the shared span", p)
		}
	}
	if len(points) != 3 {
		t.Errorf("len(points) = %d, want 3", len(points))
	}
}

func TestTimeGap_Smoothing(t *testing.T) {
	a := series("A",
		row{0, 200, 100, false, 0},
		row{10, 200, 100, false, 1},
		row{20, 200, 100, false, 2},
		row{30, 200, 100, false, 3},
	)
	b := series("B",
		row{0, 200, 100, false, 0.1},
		row{10, 200, 100, false, 1.1},
		row{20, 200, 100, false, 2.1},
		row{30, 200, 100, false, 3.1},
	)

	points, err := TimeGap(a, b, 3)
	if err != nil {
		t.Fatalf("TimeGap() error = %v", err)
	}
	want := []GapPoint{{0, 0}, {10, 0}, {20, 0.1}, {30, 0.1}}
	if diff := cmp.Diff(want, points, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("gap mismatch (-want +got):\n%s", diff)
	}
}

func TestTimeGap_TooFewSamples(t *testing.T) {
	a := series("A", row{100, 200, 100, false, 0})
	_, err := TimeGap(a, exampleB(), DefaultGapWindow)
	if !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestTimeGap_DisjointLaps(t *testing.T) {
	a := series("A", row{0, 200, 100, false, 0}, row{10, 200, 100, false, 1})
	b := series("B", row{20, 200, 100, false, 0}, row{30, 200, 100, false, 1})
	_, err := TimeGap(a, b, 1)
	if !errors.Is(err, ErrEmptyRange) {
		t.Fatalf("expected ErrEmptyRange, got %v", err)
	}
}

func TestRollingMean(t *testing.T) {
	got := rollingMean([]float64{1, 2, 3, 4, 5}, 2)
	want := []float64{0, 1.5, 2.5, 3.5, 4.5}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rollingMean mismatch (-want +got):\n%s", diff)
	}

	in := []float64{1, 2}
	out := rollingMean(in, 0)
	out[0] = 9
	if in[0] != 1 {
		t.Error("rollingMean must not alias its input")
	}

	if got := rollingMean([]float64{1, 2}, 5); got[0] != 0 || got[1] != 0 {
		t.Errorf("window larger than input = %v, want zeros", got)
	}
}

func TestDownsample(t *testing.T) {
	var points []GapPoint
	for d := 0.0; d <= 100; d += 5 {
		points = append(points, GapPoint{Distance: d})
	}

	got := Downsample(points, 30)
	var dists []float64
	for _, p := range got {
		dists = append(dists, p.Distance)
	}
	if diff := cmp.Diff([]float64{0, 30, 60, 90, 100}, dists); diff != "" {
		t.Errorf("Downsample mismatch (-want +got):\n%s", diff)
	}

	if got := Downsample(points, 0); len(got) != len(points) {
		t.Errorf("step 0 should keep every point, got %d", len(got))
	}
}

func TestGapWithin(t *testing.T) {
	points := []GapPoint{{0, 0}, {50, 0.1}, {100, 0.2}, {150, 0.3}}
	got := GapWithin(points, telemetry.Range{Start: 50, End: 100})
	want := []GapPoint{{50, 0.1}, {100, 0.2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GapWithin mismatch (-want +got):\n%s", diff)
	}
}
