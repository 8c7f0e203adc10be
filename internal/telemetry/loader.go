package telemetry

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bimmerbailey/f1brief/internal/config"
)

// Format represents a detected telemetry file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// Column names recognised in CSV headers and JSON objects (case-insensitive).
// The capitalised FastF1 names (Distance, Speed, Throttle, Brake, Time) match.
var columnAliases = map[string]string{
	"distance": "distance",
	"dist":     "distance",
	"speed":    "speed",
	"throttle": "throttle",
	"brake":    "brake",
	"time":     "time",
	"elapsed":  "time",
	"time_s":   "time",
}

var requiredColumns = []string{"distance", "speed", "throttle", "brake", "time"}

// Loader reads telemetry files into Series.
type Loader struct {
	validate bool
}

// NewLoader creates a Loader. Loaded series are validated for monotonic
// distance and non-negative speed unless validation is disabled.
func NewLoader(validate bool) *Loader {
	return &Loader{validate: validate}
}

// LoadFile opens a file and parses all samples from it.
func (l *Loader) LoadFile(path, driver string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()

	samples, err := l.Parse(f)
	if err != nil {
		return Series{}, fmt.Errorf("%s: %w", path, err)
	}

	return Series{Driver: driver, Samples: samples}, nil
}

// Parse reads samples from r, detecting CSV or JSON-lines input from the first
// non-blank line.
func (l *Loader) Parse(r io.Reader) ([]Sample, error) {
	br := bufio.NewReader(r)
	format, err := sniff(br)
	if err != nil {
		return nil, err
	}

	var samples []Sample
	switch format {
	case FormatJSONL:
		samples, err = parseJSONLines(br)
	default:
		samples, err = parseCSV(br)
	}
	if err != nil {
		return nil, err
	}

	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	if l.validate {
		if err := (Series{Samples: samples}).Validate(); err != nil {
			return nil, err
		}
	}

	return samples, nil
}

// sniff peeks at the first non-whitespace byte without consuming input.
func sniff(br *bufio.Reader) (Format, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoSamples
			}
			return "", err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.ReadByte()
			continue
		case '{':
			return FormatJSONL, nil
		default:
			return FormatCSV, nil
		}
	}
}

func parseCSV(r io.Reader) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	index := make(map[string]int)
	for i, name := range header {
		if canonical := columnAliases[strings.ToLower(strings.TrimSpace(name))]; canonical != "" {
			if _, dup := index[canonical]; !dup {
				index[canonical] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("csv header is missing column %q", col)
		}
	}

	var samples []Sample
	line := 1
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		smp, err := buildSample(field("distance"), field("speed"), field("throttle"), field("brake"), field("time"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		samples = append(samples, smp)
	}

	return samples, nil
}

func parseJSONLines(r io.Reader) ([]Sample, error) {
	scanner := bufio.NewScanner(r)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	scanner.Buffer(make([]byte, 0, 64*1024), maxScanTokenSize)

	var samples []Sample
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var data map[string]interface{}
		if err := json.Unmarshal([]byte(line), &data); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		values := make(map[string]string, len(requiredColumns))
		for k, v := range data {
			canonical := columnAliases[strings.ToLower(k)]
			if canonical == "" {
				continue
			}
			if _, seen := values[canonical]; seen {
				continue
			}
			values[canonical] = jsonScalar(v)
		}

		for _, col := range requiredColumns {
			if _, ok := values[col]; !ok {
				return nil, fmt.Errorf("line %d: missing field %q", lineNum, col)
			}
		}

		smp, err := buildSample(values["distance"], values["speed"], values["throttle"], values["brake"], values["time"])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		samples = append(samples, smp)
	}

	if err := scanner.Err(); err != nil {
		return samples, err
	}

	return samples, nil
}

// jsonScalar renders a decoded JSON value the way a CSV cell would hold it.
func jsonScalar(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}

func buildSample(distance, speed, throttle, brake, elapsed string) (Sample, error) {
	var smp Sample
	var err error

	if smp.Distance, err = parseFinite("distance", distance); err != nil {
		return Sample{}, err
	}
	if smp.Speed, err = parseFinite("speed", speed); err != nil {
		return Sample{}, err
	}
	if smp.Throttle, err = parseFinite("throttle", throttle); err != nil {
		return Sample{}, err
	}
	if smp.Brake, err = parseBrake(brake); err != nil {
		return Sample{}, err
	}
	if smp.Time, err = parseElapsed(elapsed); err != nil {
		return Sample{}, err
	}

	return smp, nil
}

// parseFinite parses a numeric cell, rejecting NaN and ±Inf.
func parseFinite(column, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", column, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrNonFinite, column, s)
	}
	return v, nil
}

// parseBrake accepts boolean words and numeric pressures (any value > 0 is on).
func parseBrake(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "t", "yes", "on":
		return true, nil
	case "false", "f", "no", "off", "":
		return false, nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v > 0, nil
	}
	return false, fmt.Errorf("invalid brake %q", s)
}

func parseElapsed(s string) (time.Duration, error) {
	d, err := config.ParseLapTime(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return d, nil
}
