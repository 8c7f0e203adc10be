package cmd

import (
	"fmt"

	"github.com/bimmerbailey/f1brief/internal/compare"
	"github.com/spf13/cobra"
)

var gapCmd = &cobra.Command{
	Use:   "gap --a <file> --b <file> [flags]",
	Short: "Show the running time gap between two laps",
	Long: `Align two laps by distance and print how far driver A is ahead of
driver B at each point. Positive gaps mean A is ahead.

The gap is smoothed with a trailing rolling mean of --window points.
Use --range to restrict the trace and --step to thin it out.

Examples:
  f1brief gap --a ver.csv --b ham.csv
  f1brief gap --a ver.csv --b ham.csv --range 5000:5800 --step 10
  f1brief gap --a ver.csv --b ham.csv --window 25 --format json`,
	Args: cobra.NoArgs,
	RunE: runGap,
}

func init() {
	addPairFlags(gapCmd)
	addRangeFlags(gapCmd)
	gapCmd.Flags().Int("window", compare.DefaultGapWindow, "rolling mean window in samples")
	gapCmd.Flags().Float64("step", 0, "minimum distance in meters between printed points (0 prints all)")

	rootCmd.AddCommand(gapCmd)
}

func runGap(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pair, err := pairFromFlags(cmd)
	if err != nil {
		return err
	}
	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}
	r, err := loadRoster(cfg)
	if err != nil {
		return err
	}

	window := cfg.GapWindow
	if cmd.Flags().Changed("window") || window <= 0 {
		window, _ = cmd.Flags().GetInt("window")
	}
	if window <= 0 {
		return fmt.Errorf("--window must be positive")
	}
	step, _ := cmd.Flags().GetFloat64("step")
	if step < 0 {
		return fmt.Errorf("--step cannot be negative")
	}

	a, b, err := pair.Load()
	if err != nil {
		return err
	}

	points, err := compare.TimeGap(a, b, window)
	if err != nil {
		return err
	}
	if rng != nil {
		points = compare.GapWithin(points, *rng)
	}
	if step > 0 {
		points = compare.Downsample(points, step)
	}

	newLogger(cfg.Verbose).Info("computed time gap", "points", len(points), "window", window)

	return newWriter(cmd, cfg).WriteGap(displayDriver(r, pair.DriverA), displayDriver(r, pair.DriverB), points)
}
