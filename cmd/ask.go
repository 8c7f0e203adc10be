package cmd

import (
	"context"
	"fmt"

	"github.com/bimmerbailey/f1brief/internal/compare"
	"github.com/bimmerbailey/f1brief/internal/output"
	"github.com/bimmerbailey/f1brief/internal/prompt"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question> --a <file> --b <file>",
	Short: "Ask a question about a telemetry comparison using AI",
	Long: `Compare two laps and ask the configured LLM a question about the result.

The comparison narrative and every metric are sent as context, so the
answer is grounded in the same numbers 'compare' prints.

Examples:
  f1brief ask "where does Hamilton lose time?" --a ver.csv --b ham.csv --driver-a 1 --driver-b 44
  f1brief ask "who carries more speed into the corner?" --a ver.csv --b ham.csv --range 5300:5530 --turn 15`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	addPairFlags(askCmd)
	addRangeFlags(askCmd)
	askCmd.Flags().StringP("turn", "t", "", "label for the range, such as the turn number")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	if question == "" {
		return fmt.Errorf("question cannot be empty")
	}

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

	a, b, err := pair.Load()
	if err != nil {
		return err
	}

	comparator := compare.New(compare.WithOverlapThreshold(cfg.OverlapThreshold))
	var rec *compare.Record
	if rng != nil {
		rec, err = comparator.Compare(a, b, *rng, turn)
	} else {
		rec, err = comparator.CompareLap(a, b, turn)
	}
	if err != nil {
		return err
	}

	da, db := displayDriver(r, pair.DriverA), displayDriver(r, pair.DriverB)
	narrative := compare.Narrate(rec, da.Name, db.Name)

	messages, err := prompt.Build(prompt.TypeQuestion, prompt.BuildOptions{
		Briefing: narrative,
		Fields:   rec.Fields(),
		Question: question,
		Label:    rec.Label,
		Range:    rec.Range.String(),
		Drivers:  []string{da.Name, db.Name},
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := newLogger(cfg.Verbose)
	runID := newRunID()
	logger.Info("asking question", "run_id", runID, "range", rec.Range.String())

	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	writer := newWriter(cmd, cfg)
	if writer.Format() == output.FormatJSON {
		answer, err := gen.stream(ctx, nil, messages)
		if err != nil {
			return err
		}
		askResult := map[string]interface{}{
			"run_id":    runID,
			"question":  question,
			"files":     []string{pair.PathA, pair.PathB},
			"drivers":   []output.Driver{da, db},
			"range":     rec.Range,
			"narrative": narrative,
			"answer":    answer,
			"metadata": map[string]interface{}{
				"provider": cfg.LLM.Provider,
				"model":    cfg.LLM.Model(),
			},
		}
		if err := writer.WriteJSON(askResult); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), "=== Answer ===")
	fmt.Fprintln(cmd.OutOrStdout())
	if _, err := gen.stream(ctx, cmd.OutOrStdout(), messages); err != nil {
		return err
	}

	if cfg.Verbose {
		fmt.Fprintln(cmd.OutOrStdout(), "\n=== Comparison ===")
		fmt.Fprintln(cmd.OutOrStdout(), narrative)
	}
	return nil
}
