package session

import (
	"fmt"
	"math"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/roster"
	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// othersLimit is the last classified position listed in a session brief.
const othersLimit = 10

// Brief summarises a practice or qualifying session around its two
// protagonists.
type Brief struct {
	Name       string  `json:"name"`
	Location   string  `json:"location"`
	P1Name     string  `json:"p1_name"`
	P1Time     string  `json:"p1_time"`
	P1TopSpeed float64 `json:"p1_top_speed"`
	P1AvgSpeed float64 `json:"p1_avg_speed"`
	P2Name     string  `json:"p2_name"`
	P2Time     string  `json:"p2_time"`
	P2TopSpeed float64 `json:"p2_top_speed"`
	P2AvgSpeed float64 `json:"p2_avg_speed"`
	SpeedGap   float64 `json:"speed_gap"`
	Gap        float64 `json:"gap"` // seconds, P2 lap minus P1 lap
	Others     string  `json:"others"`
}

// Fields returns the brief as template values.
func (b *Brief) Fields() map[string]any {
	return map[string]any{
		"name":         b.Name,
		"location":     b.Location,
		"p1_name":      b.P1Name,
		"p1_time":      b.P1Time,
		"p1_top_speed": b.P1TopSpeed,
		"p1_avg_speed": b.P1AvgSpeed,
		"p2_name":      b.P2Name,
		"p2_time":      b.P2Time,
		"p2_top_speed": b.P2TopSpeed,
		"p2_avg_speed": b.P2AvgSpeed,
		"speed_gap":    b.SpeedGap,
		"gap":          b.Gap,
		"others":       b.Others,
	}
}

// SessionBrief builds a Brief from the session table and the fastest-lap
// telemetry of the two drivers being compared. p1 and p2 must carry the car
// numbers as their Driver; both need a lap time in s. Others lists the names
// of the remaining drivers up to tenth place.
func SessionBrief(s *Session, r *roster.Roster, p1, p2 telemetry.Series) (*Brief, error) {
	lap1, ok := s.LapOf(p1.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotTimed, p1.Driver)
	}
	lap2, ok := s.LapOf(p2.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDriverNotTimed, p2.Driver)
	}
	if p1.Len() == 0 {
		return nil, fmt.Errorf("%w for driver %s", telemetry.ErrNoSamples, p1.Driver)
	}
	if p2.Len() == 0 {
		return nil, fmt.Errorf("%w for driver %s", telemetry.ErrNoSamples, p2.Driver)
	}

	speeds1, speeds2 := p1.Speeds(), p2.Speeds()
	b := &Brief{
		Name:       s.Name,
		Location:   s.Location,
		P1Name:     r.Name(p1.Driver),
		P1Time:     config.FormatLapTime(lap1.Time),
		P1TopSpeed: floats.Max(speeds1),
		P1AvgSpeed: round2(stat.Mean(speeds1, nil)),
		P2Name:     r.Name(p2.Driver),
		P2Time:     config.FormatLapTime(lap2.Time),
		P2TopSpeed: floats.Max(speeds2),
		P2AvgSpeed: round2(stat.Mean(speeds2, nil)),
		Gap:        (lap2.Time - lap1.Time).Seconds(),
	}
	b.SpeedGap = round2(b.P1TopSpeed - b.P2TopSpeed)

	var others []string
	for i, l := range s.Laps {
		if i >= othersLimit {
			break
		}
		if l.Driver == p1.Driver || l.Driver == p2.Driver {
			continue
		}
		others = append(others, r.Name(l.Driver))
	}
	b.Others = strings.Join(others, ", ")

	return b, nil
}

// RaceBrief summarises a race: podium, fastest lap and the rest of the field.
type RaceBrief struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	Top3Names      string `json:"top_3_names"`
	FastestLapName string `json:"fastest_lap_name"`
	FastestLapTime string `json:"fastest_lap_time"`
	OthersName     string `json:"others_name"`
}

// Fields returns the brief as template values.
func (b *RaceBrief) Fields() map[string]any {
	return map[string]any{
		"name":             b.Name,
		"location":         b.Location,
		"top_3_names":      b.Top3Names,
		"fastest_lap_name": b.FastestLapName,
		"fastest_lap_time": b.FastestLapTime,
		"others_name":      b.OthersName,
	}
}

// BuildRaceBrief derives a RaceBrief from the classification and the
// fastest-laps table.
func BuildRaceBrief(s *Session, r *roster.Roster) (*RaceBrief, error) {
	if len(s.Results) == 0 {
		return nil, ErrNoResults
	}
	fastest, ok := s.Fastest()
	if !ok {
		return nil, fmt.Errorf("%w: have 0", ErrTooFewLaps)
	}

	podium := s.Results
	var rest []string
	if len(podium) > 3 {
		podium, rest = s.Results[:3], s.Results[3:]
	}

	return &RaceBrief{
		Name:           s.Name,
		Location:       s.Location,
		Top3Names:      strings.Join(r.Names(podium), ", "),
		FastestLapName: r.Name(fastest.Driver),
		FastestLapTime: config.FormatLapTime(fastest.Time),
		OthersName:     strings.Join(r.Names(rest), ", "),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
