package compare

import (
	"fmt"
	"math"
	"strings"
)

// Narrate verbalizes a Record as plain sentences naming both drivers.
// nameA and nameB default to the record's driver identifiers when empty.
func Narrate(rec *Record, nameA, nameB string) string {
	if nameA == "" {
		nameA = rec.DriverA
	}
	if nameB == "" {
		nameB = rec.DriverB
	}

	var sb strings.Builder
	if rec.Label != "" {
		fmt.Fprintf(&sb, "At turn %s: ", rec.Label)
	}

	brakeA, brakeB := rec.value(MetricBrakeApplication)
	switch {
	case brakeA < brakeB:
		fmt.Fprintf(&sb, "%s brakes earlier than %s. ", nameA, nameB)
	case brakeA > brakeB:
		fmt.Fprintf(&sb, "%s brakes later than %s. ", nameA, nameB)
	default:
		fmt.Fprintf(&sb, "%s and %s brake at the same point. ", nameA, nameB)
	}

	topA, topB := rec.value(MetricTopSpeed)
	switch {
	case topA > topB:
		fmt.Fprintf(&sb, "%s arrives faster than %s. ", nameA, nameB)
	case topA < topB:
		fmt.Fprintf(&sb, "%s arrives slower than %s. ", nameA, nameB)
	default:
		fmt.Fprintf(&sb, "%s and %s arrive at the same top speed. ", nameA, nameB)
	}

	releaseA, releaseB := rec.value(MetricBrakeRelease)
	switch {
	case releaseA < releaseB:
		fmt.Fprintf(&sb, "%s releases the brake earlier than %s. ", nameA, nameB)
	case releaseA > releaseB:
		fmt.Fprintf(&sb, "%s releases the brake later than %s. ", nameA, nameB)
	default:
		fmt.Fprintf(&sb, "%s and %s release the brake at the same point. ", nameA, nameB)
	}

	avgA, avgB := rec.value(MetricAverageSpeed)
	fmt.Fprintf(&sb, "%s average speed is %.2f km/h while %s average speed is %.2f km/h. ",
		nameA, avgA, nameB, avgB)

	timeA, timeB := rec.value(MetricSectionTime)
	fmt.Fprintf(&sb, "%s runs this section in %.3f s while %s runs it in %.3f s. ",
		nameA, timeA, nameB, timeB)

	delta := round(timeB-timeA, 3)
	switch {
	case delta > 0:
		fmt.Fprintf(&sb, "%s is %.3f s faster.", nameA, delta)
	case delta < 0:
		fmt.Fprintf(&sb, "%s is %.3f s slower.", nameA, -delta)
	default:
		fmt.Fprintf(&sb, "%s and %s are level through this section.", nameA, nameB)
	}

	return sb.String()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
