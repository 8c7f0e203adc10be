// Package output renders comparison records, gap traces and session briefs.
// It supports text, JSON, and table formats.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/bimmerbailey/f1brief/internal/compare"
)

// Format represents an output format type.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat converts a string to a Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "table":
		return FormatTable
	default:
		return FormatText
	}
}

// Driver is how a driver is shown: a display name, an optional three-letter
// code for narrow columns and an optional "#RRGGBB" livery colour.
type Driver struct {
	Number string `json:"number"`
	Code   string `json:"code,omitempty"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
}

// Short returns the code, or the name when there is none.
func (d Driver) Short() string {
	if d.Code != "" {
		return d.Code
	}
	return d.Name
}

// Writer handles writing formatted output.
type Writer struct {
	w        io.Writer
	format   Format
	colorize bool
}

// New creates a new output Writer. Colour is decided once from mode and
// whether w is a terminal.
func New(w io.Writer, format Format, mode ColorMode) *Writer {
	return &Writer{w: w, format: format, colorize: shouldColorize(mode, w)}
}

// Format returns the configured format.
func (wr *Writer) Format() Format { return wr.format }

// Out returns the underlying writer, for streamed LLM text.
func (wr *Writer) Out() io.Writer { return wr.w }

// WriteJSON outputs any value as indented JSON.
func (wr *Writer) WriteJSON(v interface{}) error {
	enc := json.NewEncoder(wr.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Comparison is the JSON document emitted for one compared range.
type Comparison struct {
	RunID     string          `json:"run_id,omitempty"`
	DriverA   Driver          `json:"driver_a"`
	DriverB   Driver          `json:"driver_b"`
	Record    *compare.Record `json:"record"`
	Narrative string          `json:"narrative"`
	Summary   string          `json:"summary,omitempty"`

	// Structured is the LLM's JSON briefing, passed through verbatim.
	Structured json.RawMessage `json:"structured,omitempty"`
}

// WriteComparison outputs a compared range in the configured format. Text
// prints the narrative; table prints the metric grid followed by the
// narrative.
func (wr *Writer) WriteComparison(c Comparison) error {
	switch wr.format {
	case FormatJSON:
		return wr.WriteJSON(c)
	case FormatTable:
		if err := wr.writeMetricTable(c); err != nil {
			return err
		}
		_, err := fmt.Fprintf(wr.w, "\n%s\n", c.Narrative)
		return err
	default:
		return wr.writeComparisonText(c)
	}
}

func (wr *Writer) writeComparisonText(c Comparison) error {
	r := c.Record
	header := fmt.Sprintf("%s vs %s, %s", wr.paint(c.DriverA), wr.paint(c.DriverB), r.Range)
	if r.Label != "" {
		header = fmt.Sprintf("Turn %s: %s", r.Label, header)
	}
	fmt.Fprintln(wr.w, header)
	fmt.Fprintln(wr.w, c.Narrative)
	if r.BrakeHeldA || r.BrakeHeldB {
		fmt.Fprintln(wr.w, wr.dim("(brake still applied at end of range; release taken at last sample)"))
	}
	return nil
}

func (wr *Writer) writeMetricTable(c Comparison) error {
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "METRIC\t%s\t%s\tDIFF\tDIFF %%\n", wr.paintShort(c.DriverA), wr.paintShort(c.DriverB))
	fmt.Fprintln(tw, "------\t-\t-\t----\t------")

	for _, m := range c.Record.Metrics {
		pct := fmt.Sprintf("%.2f", m.Percent)
		if m.ZeroBaseline {
			pct = "n/a"
		}
		fmt.Fprintf(tw, "%s (%s)\t%s\t%s\t%s\t%s\n",
			m.Label, m.Unit, formatValue(m.A, m.Unit), formatValue(m.B, m.Unit), formatValue(m.Diff, m.Unit), pct)
	}

	return tw.Flush()
}

// WriteGap outputs a time-gap trace. Positive gaps mean driver A is ahead.
func (wr *Writer) WriteGap(a, b Driver, points []compare.GapPoint) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(struct {
			DriverA Driver             `json:"driver_a"`
			DriverB Driver             `json:"driver_b"`
			Points  []compare.GapPoint `json:"points"`
		}{a, b, points})
	}

	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "DISTANCE (m)\tGAP (s)\tAHEAD\t\n")
	for _, p := range points {
		ahead := "-"
		switch {
		case p.Gap > 0:
			ahead = wr.paintShort(a)
		case p.Gap < 0:
			ahead = wr.paintShort(b)
		}
		fmt.Fprintf(tw, "%.1f\t%+.3f\t%s\t\n", p.Distance, p.Gap, ahead)
	}
	return tw.Flush()
}

// GridEntry is one row of the driver grid.
type GridEntry struct {
	Driver
	Team string `json:"team,omitempty"`
}

// WriteGrid lists the drivers a roster knows. Season 0 means the roster does
// not name one.
func (wr *Writer) WriteGrid(season int, entries []GridEntry) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(struct {
			Season  int         `json:"season,omitempty"`
			Drivers []GridEntry `json:"drivers"`
		}{season, entries})
	}

	if season > 0 {
		fmt.Fprintf(wr.w, "Season %d\n", season)
	}
	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO.\tCODE\tDRIVER\tTEAM")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Number, e.Code, wr.paint(e.Driver), e.Team)
	}
	return tw.Flush()
}

// WriteBrief outputs a session or race brief. Text and table list the
// fields in key order; generated prose, when present, follows.
func (wr *Writer) WriteBrief(runID string, brief interface{ Fields() map[string]any }, prose string) error {
	if wr.format == FormatJSON {
		return wr.WriteJSON(struct {
			RunID  string         `json:"run_id,omitempty"`
			Brief  map[string]any `json:"brief"`
			Report string         `json:"report,omitempty"`
		}{runID, brief.Fields(), prose})
	}

	fields := brief.Fields()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := tabwriter.NewWriter(wr.w, 0, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%v\n", k, fields[k])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if prose != "" {
		_, err := fmt.Fprintf(wr.w, "\n%s\n", prose)
		return err
	}
	return nil
}

func formatValue(v float64, unit string) string {
	switch unit {
	case "s":
		return fmt.Sprintf("%.3f", v)
	case "m":
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}
