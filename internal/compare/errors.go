package compare

import (
	"errors"
	"fmt"

	"github.com/bimmerbailey/f1brief/internal/telemetry"
)

// Errors returned by the comparator. Typed errors below match these with
// errors.Is, so callers can branch on the condition without caring which
// driver triggered it.
var (
	// ErrEmptyRange indicates no sample of a series falls inside the range.
	ErrEmptyRange = errors.New("no telemetry samples in range")

	// ErrFeatureNotFound indicates an expected event (braking) is absent from the range.
	ErrFeatureNotFound = errors.New("feature not present in range")

	// ErrZeroBaseline indicates a percentage difference against a zero baseline.
	ErrZeroBaseline = errors.New("percentage difference undefined for zero baseline")

	// ErrTooFewSamples indicates a series is too short to interpolate.
	ErrTooFewSamples = errors.New("at least two distinct distances are required")
)

// EmptyRangeError reports which driver had no samples in the requested window.
type EmptyRangeError struct {
	Driver string
	Range  telemetry.Range
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("%v: driver %s, range %s", ErrEmptyRange, e.Driver, e.Range)
}

// Is makes errors.Is(err, ErrEmptyRange) succeed.
func (e *EmptyRangeError) Is(target error) bool {
	return target == ErrEmptyRange
}

// FeatureNotFoundError reports a missing event such as a brake application.
type FeatureNotFoundError struct {
	Driver  string
	Feature string
	Range   telemetry.Range
}

func (e *FeatureNotFoundError) Error() string {
	return fmt.Sprintf("%v: no %s for driver %s in %s", ErrFeatureNotFound, e.Feature, e.Driver, e.Range)
}

// Is makes errors.Is(err, ErrFeatureNotFound) succeed.
func (e *FeatureNotFoundError) Is(target error) bool {
	return target == ErrFeatureNotFound
}
