// Package roster maps car numbers to driver identity: abbreviation, full
// name, team and livery colour.
//
// A default grid is embedded in the binary. A YAML file with the same shape
// can replace it at runtime via Load.
package roster

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed roster.yaml
var defaultRoster []byte

var (
	// ErrDuplicateNumber indicates two drivers share a car number.
	ErrDuplicateNumber = errors.New("duplicate car number")

	// ErrInvalidDriver indicates a driver entry is missing required fields
	// or carries a malformed colour.
	ErrInvalidDriver = errors.New("invalid driver entry")
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Driver is one entry of the grid.
type Driver struct {
	Number       string `yaml:"number" json:"number"`
	Abbreviation string `yaml:"abbreviation" json:"abbreviation"`
	Name         string `yaml:"name" json:"name"`
	Team         string `yaml:"team" json:"team,omitempty"`
	Color        string `yaml:"color" json:"color,omitempty"`
}

type file struct {
	Season  int      `yaml:"season"`
	Drivers []Driver `yaml:"drivers"`
}

// Roster is an immutable lookup table keyed by car number.
type Roster struct {
	season  int
	drivers map[string]Driver
}

// Default returns the embedded grid.
func Default() (*Roster, error) {
	return Parse(defaultRoster)
}

// Load reads a roster from a YAML file.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes a roster document.
func Parse(data []byte) (*Roster, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding roster: %w", err)
	}

	r := &Roster{season: f.Season, drivers: make(map[string]Driver, len(f.Drivers))}
	for i, d := range f.Drivers {
		if d.Number == "" || d.Name == "" {
			return nil, fmt.Errorf("%w: entry %d needs number and name", ErrInvalidDriver, i)
		}
		if d.Color != "" && !hexColor.MatchString(d.Color) {
			return nil, fmt.Errorf("%w: driver %s colour %q", ErrInvalidDriver, d.Number, d.Color)
		}
		if _, ok := r.drivers[d.Number]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateNumber, d.Number)
		}
		r.drivers[d.Number] = d
	}
	return r, nil
}

// Season returns the season the grid belongs to, or 0 when unset.
func (r *Roster) Season() int { return r.season }

// Len returns the number of drivers.
func (r *Roster) Len() int { return len(r.drivers) }

// Lookup returns the driver with the given car number.
func (r *Roster) Lookup(number string) (Driver, bool) {
	d, ok := r.drivers[number]
	return d, ok
}

// Name returns the driver's full name, or "#<number>" when unknown.
func (r *Roster) Name(number string) string {
	if d, ok := r.drivers[number]; ok {
		return d.Name
	}
	return "#" + number
}

// Abbreviation returns the three-letter code, or the number itself when unknown.
func (r *Roster) Abbreviation(number string) string {
	if d, ok := r.drivers[number]; ok && d.Abbreviation != "" {
		return d.Abbreviation
	}
	return number
}

// Color returns the livery colour as "#RRGGBB", or "" when unknown.
func (r *Roster) Color(number string) string {
	return r.drivers[number].Color
}

// Names maps numbers to full names, preserving order.
func (r *Roster) Names(numbers []string) []string {
	out := make([]string, len(numbers))
	for i, n := range numbers {
		out[i] = r.Name(n)
	}
	return out
}

// Drivers returns all entries ordered by car number.
func (r *Roster) Drivers() []Driver {
	out := make([]Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, erri := strconv.Atoi(out[i].Number)
		nj, errj := strconv.Atoi(out[j].Number)
		if erri == nil && errj == nil {
			return ni < nj
		}
		return out[i].Number < out[j].Number
	})
	return out
}
