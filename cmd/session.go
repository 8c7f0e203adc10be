package cmd

import (
	"context"
	"fmt"

	"github.com/bimmerbailey/f1brief/internal/config"
	"github.com/bimmerbailey/f1brief/internal/output"
	"github.com/bimmerbailey/f1brief/internal/prompt"
	"github.com/bimmerbailey/f1brief/internal/session"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session --session <file> --a <file> --b <file> [flags]",
	Short: "Brief a practice or qualifying session",
	Long: `Summarise a practice or qualifying session from its lap-time table and
the fastest-lap telemetry of the top two drivers: lap times, the gap
between them, top and average speeds and the rest of the top ten.

--a and --b are the telemetry files of P1 and P2. Their car numbers are
taken from the session table unless --driver-a/--driver-b are given.

Examples:
  f1brief session --session quali.json --a pole.csv --b p2.csv
  f1brief session --session fp2.json --a ver.csv --b lec.csv --ai`,
	Args: cobra.NoArgs,
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().StringP("session", "s", "", "session JSON file (required)")
	addPairFlags(sessionCmd)
	sessionCmd.Flags().Bool("ai", false, "write a news piece with the configured LLM")

	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := sessionFromFlags(cmd)
	if err != nil {
		return err
	}
	r, err := loadRoster(cfg)
	if err != nil {
		return err
	}

	p1, p2, err := s.TopTwo()
	if err != nil {
		return err
	}
	pair, err := pairFromFlags(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("driver-a") {
		pair.DriverA = p1
	}
	if !cmd.Flags().Changed("driver-b") {
		pair.DriverB = p2
	}

	a, b, err := pair.Load()
	if err != nil {
		return err
	}

	brief, err := session.SessionBrief(s, r, a, b)
	if err != nil {
		return err
	}

	ai, _ := cmd.Flags().GetBool("ai")
	return writeBrief(cmd, cfg, prompt.TypeSessionBriefing, brief, ai)
}

func sessionFromFlags(cmd *cobra.Command) (*session.Session, error) {
	value, _ := cmd.Flags().GetString("session")
	path, err := singleFile("session", value)
	if err != nil {
		return nil, err
	}
	s, err := session.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error loading %s: %w", path, err)
	}
	return s, nil
}

type fielder interface {
	Fields() map[string]any
}

// writeBrief prints a session or race brief. With ai set the report is
// streamed after the fields for text output and embedded in JSON output.
func writeBrief(cmd *cobra.Command, cfg *config.Config, pt prompt.PromptType, brief fielder, ai bool) error {
	writer := newWriter(cmd, cfg)
	logger := newLogger(cfg.Verbose)
	runID := newRunID()
	logger.Info("built brief", "run_id", runID, "type", string(pt))

	if !ai {
		return writer.WriteBrief(runID, brief, "")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	messages, err := prompt.Build(pt, prompt.BuildOptions{Fields: brief.Fields()})
	if err != nil {
		return err
	}
	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if writer.Format() == output.FormatJSON {
		report, err := gen.stream(ctx, nil, messages)
		if err != nil {
			return err
		}
		return writer.WriteBrief(runID, brief, report)
	}

	if err := writer.WriteBrief(runID, brief, ""); err != nil {
		return err
	}
	out := writer.Out()
	fmt.Fprintln(out)
	_, err = gen.stream(ctx, out, messages)
	return err
}
