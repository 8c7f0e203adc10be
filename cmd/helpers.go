package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/output"
	"github.com/bimmerbailey/f1brief/internal/roster"
	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig unmarshals and validates the viper state.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newLogger logs errors only, or info and above in verbose mode.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelError
	if verbose {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadRoster(cfg *config.Config) (*roster.Roster, error) {
	if cfg.RosterFile == "" {
		return roster.Default()
	}
	path, err := singleFile("roster", cfg.RosterFile)
	if err != nil {
		return nil, err
	}
	r, err := roster.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return r, nil
}

func newWriter(cmd *cobra.Command, cfg *config.Config) *output.Writer {
	mode := output.ColorAuto
	if cfg.NoColor {
		mode = output.ColorNever
	}
	return output.New(cmd.OutOrStdout(), output.ParseFormat(cfg.Format), mode)
}

// displayDriver resolves a driver id through the roster. Ids the roster does
// not know, such as a file name, are shown as given.
func displayDriver(r *roster.Roster, id string) output.Driver {
	if _, ok := r.Lookup(id); !ok {
		return output.Driver{Number: id, Name: id}
	}
	return output.Driver{
		Number: id,
		Code:   r.Abbreviation(id),
		Name:   r.Name(id),
		Color:  r.Color(id),
	}
}

func newRunID() string {
	return uuid.NewString()
}

// singleFile expands a flag value that may be a glob and requires exactly one
// match.
func singleFile(flag, value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	files, err := config.ExpandPath(value)
	if err != nil {
		return "", fmt.Errorf("--%s: %w", flag, err)
	}
	if len(files) != 1 {
		return "", fmt.Errorf("--%s matches %d files, want exactly one", flag, len(files))
	}
	return files[0], nil
}

// driverID returns the explicit driver flag or the file name without its
// extension.
func driverID(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// lapPair is the two telemetry files named by --a and --b and the driver ids
// attached to them.
type lapPair struct {
	PathA, PathB     string
	DriverA, DriverB string
}

func pairFromFlags(cmd *cobra.Command) (lapPair, error) {
	a, _ := cmd.Flags().GetString("a")
	b, _ := cmd.Flags().GetString("b")
	idA, _ := cmd.Flags().GetString("driver-a")
	idB, _ := cmd.Flags().GetString("driver-b")

	pathA, err := singleFile("a", a)
	if err != nil {
		return lapPair{}, err
	}
	pathB, err := singleFile("b", b)
	if err != nil {
		return lapPair{}, err
	}

	return lapPair{
		PathA:   pathA,
		PathB:   pathB,
		DriverA: driverID(idA, pathA),
		DriverB: driverID(idB, pathB),
	}, nil
}

// Load reads both laps with validation enabled.
func (p lapPair) Load() (telemetry.Series, telemetry.Series, error) {
	loader := telemetry.NewLoader(true)
	a, err := loader.LoadFile(p.PathA, p.DriverA)
	if err != nil {
		return telemetry.Series{}, telemetry.Series{}, fmt.Errorf("error loading %s: %w", p.PathA, err)
	}
	b, err := loader.LoadFile(p.PathB, p.DriverB)
	if err != nil {
		return telemetry.Series{}, telemetry.Series{}, fmt.Errorf("error loading %s: %w", p.PathB, err)
	}
	return a, b, nil
}

func addPairFlags(cmd *cobra.Command) {
	cmd.Flags().String("a", "", "telemetry file for driver A (required)")
	cmd.Flags().String("b", "", "telemetry file for driver B (required)")
	cmd.Flags().String("driver-a", "", "car number of driver A (default: file name)")
	cmd.Flags().String("driver-b", "", "car number of driver B (default: file name)")
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("range", "r", "", "distance range in meters, e.g. 5300:5530")
	cmd.Flags().Float64("start", 0, "range start in meters (with --end)")
	cmd.Flags().Float64("end", 0, "range end in meters (with --start)")
}

// rangeFromFlags returns the requested distance range, or nil for the whole
// lap.
func rangeFromFlags(cmd *cobra.Command) (*telemetry.Range, error) {
	rangeStr, _ := cmd.Flags().GetString("range")
	startSet := cmd.Flags().Changed("start")
	endSet := cmd.Flags().Changed("end")

	if rangeStr != "" {
		if startSet || endSet {
			return nil, fmt.Errorf("--range cannot be combined with --start/--end")
		}
		r, err := telemetry.ParseRange(rangeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --range value: %w", err)
		}
		return &r, nil
	}

	if startSet != endSet {
		return nil, fmt.Errorf("--start and --end must be given together")
	}
	if !startSet {
		return nil, nil
	}

	start, _ := cmd.Flags().GetFloat64("start")
	end, _ := cmd.Flags().GetFloat64("end")
	r := telemetry.Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
