// Package session loads session summaries (fastest laps and classification)
// and turns them, together with the two fastest-lap telemetry series, into
// the structured briefs consumed by the prompt layer.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/bimmerbailey/f1brief/internal/config"
)

var (
	// ErrTooFewLaps is returned when fewer than two drivers set a lap time.
	ErrTooFewLaps = errors.New("session: at least two timed drivers are required")

	// ErrNoResults is returned by RaceBrief when the classification is empty.
	ErrNoResults = errors.New("session: no classified drivers")

	// ErrDriverNotTimed is returned when a requested driver has no lap time.
	ErrDriverNotTimed = errors.New("session: driver has no lap time")
)

// LapEntry is one row of the fastest-laps table as it appears in a session file.
type LapEntry struct {
	Driver  string `json:"driver"`
	LapTime string `json:"lap_time"`
}

// Lap is a parsed fastest lap.
type Lap struct {
	Driver string        `json:"driver"`
	Time   time.Duration `json:"time"`
}

// Session is a decoded session file.
type Session struct {
	Name     string `json:"name"`
	Location string `json:"location"`

	// Laps holds timed drivers ordered from fastest to slowest.
	Laps []Lap `json:"-"`

	// Results lists car numbers in finishing order (races only).
	Results []string `json:"results,omitempty"`
}

type sessionFile struct {
	Name        string     `json:"name"`
	Location    string     `json:"location"`
	FastestLaps []LapEntry `json:"fastest_laps"`
	Results     []string   `json:"results"`
}

// Load reads a session file from disk.
func Load(path string) (*Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening session file: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a session document. Drivers with an empty lap time are
// dropped; the remaining laps are sorted fastest first, ties keeping file
// order.
func Parse(r io.Reader) (*Session, error) {
	var raw sessionFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	s := &Session{Name: raw.Name, Location: raw.Location, Results: raw.Results}
	for _, e := range raw.FastestLaps {
		if e.LapTime == "" {
			continue
		}
		d, err := config.ParseLapTime(e.LapTime)
		if err != nil {
			return nil, fmt.Errorf("driver %s: %w", e.Driver, err)
		}
		s.Laps = append(s.Laps, Lap{Driver: e.Driver, Time: d})
	}
	sort.SliceStable(s.Laps, func(i, j int) bool { return s.Laps[i].Time < s.Laps[j].Time })

	return s, nil
}

// TopTwo returns the car numbers of the two fastest drivers.
func (s *Session) TopTwo() (string, string, error) {
	if len(s.Laps) < 2 {
		return "", "", fmt.Errorf("%w: have %d", ErrTooFewLaps, len(s.Laps))
	}
	return s.Laps[0].Driver, s.Laps[1].Driver, nil
}

// LapOf returns the fastest lap of a driver.
func (s *Session) LapOf(driver string) (Lap, bool) {
	for _, l := range s.Laps {
		if l.Driver == driver {
			return l, true
		}
	}
	return Lap{}, false
}

// Fastest returns the overall fastest lap.
func (s *Session) Fastest() (Lap, bool) {
	if len(s.Laps) == 0 {
		return Lap{}, false
	}
	return s.Laps[0], true
}
