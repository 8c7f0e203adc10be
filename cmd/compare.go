package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bimmerbailey/f1brief/internal/compare"
	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/output"
	"github.com/bimmerbailey/f1brief/internal/prompt"
	"github.com/bimmerbailey/f1brief/internal/roster"
	"github.com/bimmerbailey/f1brief/internal/telemetry"
	"github.com/bimmerbailey/f1brief/internal/watch"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare --a <file> --b <file> [flags]",
	Short: "Compare two drivers' telemetry over a distance range",
	Long: `Compare two laps over an inclusive distance range and describe the
differences: top, minimum and average speed, braking points, braking
distance, section time and brake/throttle overlap.

Without --range or --start/--end the whole lap is compared. With --ai the
comparison is handed to the configured LLM for commentary.

Examples:
  f1brief compare --a ver.csv --b ham.csv --range 5300:5530 --turn 15
  f1brief compare --a ver.csv --b ham.csv --driver-a 1 --driver-b 44 --start 5300 --end 5530
  f1brief compare --a ver.csv --b ham.csv --range 5300:5530 --ai
  f1brief compare --a ver.csv --b ham.csv --range 5300:5530 --watch`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	addPairFlags(compareCmd)
	addRangeFlags(compareCmd)
	compareCmd.Flags().StringP("turn", "t", "", "label for the range, such as the turn number")
	compareCmd.Flags().Bool("ai", false, "write commentary with the configured LLM")
	compareCmd.Flags().BoolP("watch", "w", false, "re-run the comparison when either file changes")

	rootCmd.AddCommand(compareCmd)
}

// comparison holds everything one compare run needs besides the files.
type comparison struct {
	cfg    *config.Config
	logger *slog.Logger
	roster *roster.Roster
	writer *output.Writer
	pair   lapPair
	turn   string
	ai     bool
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	turn, _ := cmd.Flags().GetString("turn")
	ai, _ := cmd.Flags().GetBool("ai")
	watchMode, _ := cmd.Flags().GetBool("watch")

	c := &comparison{
		cfg:    cfg,
		logger: newLogger(cfg.Verbose),
		roster: r,
		writer: newWriter(cmd, cfg),
		pair:   pair,
		turn:   turn,
		ai:     ai,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !watchMode {
		return c.run(ctx, rng)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.run(ctx, rng); err != nil {
		c.logger.Warn("initial comparison failed", "error", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	w, err := watch.New(watch.Options{
		Paths:  []string{pair.PathA, pair.PathB},
		Logger: c.logger,
		OnChange: func(ctx context.Context, path string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "\n--- %s changed ---\n", path)
			return c.run(ctx, rng)
		},
	})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

// run loads both laps, compares them and writes the result.
func (c *comparison) run(ctx context.Context, rng *telemetry.Range) error {
	a, b, err := c.pair.Load()
	if err != nil {
		return err
	}

	comparator := compare.New(compare.WithOverlapThreshold(c.cfg.OverlapThreshold))

	var rec *compare.Record
	if rng != nil {
		rec, err = comparator.Compare(a, b, *rng, c.turn)
	} else {
		rec, err = comparator.CompareLap(a, b, c.turn)
	}
	if err != nil {
		return err
	}

	runID := newRunID()
	da := displayDriver(c.roster, c.pair.DriverA)
	db := displayDriver(c.roster, c.pair.DriverB)
	c.logger.Info("compared range", "run_id", runID, "driver_a", da.Name, "driver_b", db.Name, "range", rec.Range.String())

	result := output.Comparison{
		RunID:     runID,
		DriverA:   da,
		DriverB:   db,
		Record:    rec,
		Narrative: compare.Narrate(rec, da.Name, db.Name),
	}

	if !c.ai {
		return c.writer.WriteComparison(result)
	}

	gen, err := newGenerator(ctx, c.cfg, c.logger)
	if err != nil {
		return err
	}
	opts := prompt.BuildOptions{
		Briefing: result.Narrative,
		Fields:   rec.Fields(),
		Label:    rec.Label,
		Range:    rec.Range.String(),
		Drivers:  []string{da.Name, db.Name},
	}

	if c.writer.Format() == output.FormatJSON {
		if err := structuredBriefing(ctx, gen, opts, &result); err != nil {
			return err
		}
		return c.writer.WriteComparison(result)
	}

	if err := c.writer.WriteComparison(result); err != nil {
		return err
	}
	messages, err := prompt.Build(prompt.TypeRangeBriefing, opts)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.writer.Out())
	_, err = gen.stream(ctx, c.writer.Out(), messages)
	return err
}

// structuredBriefing runs the two-pass JSON briefing and stores both the
// free-form commentary and the JSON object on result.
func structuredBriefing(ctx context.Context, gen *generator, opts prompt.BuildOptions, result *output.Comparison) error {
	first, err := prompt.Build(prompt.TypeStructuredBriefing, opts)
	if err != nil {
		return err
	}
	commentary, err := gen.complete(ctx, first)
	if err != nil {
		return err
	}
	result.Summary = commentary

	opts.FirstPassResponse = commentary
	second, err := prompt.Build(prompt.TypeStructuredBriefing, opts)
	if err != nil {
		return err
	}
	raw, err := gen.complete(ctx, second)
	if err != nil {
		return err
	}
	if obj, ok := extractJSON(raw); ok {
		result.Structured = obj
	} else {
		gen.logger.Warn("LLM did not return a JSON object", "response", raw)
	}
	return nil
}
