package cmd

import (
	"github.com/bimmerbailey/f1brief/internal/prompt"
	"github.com/bimmerbailey/f1brief/internal/session"
	"github.com/spf13/cobra"
)

var raceCmd = &cobra.Command{
	Use:   "race --session <file> [flags]",
	Short: "Brief a race result",
	Long: `Summarise a race from its session file: the podium, the fastest lap
and the rest of the classified finishers.

Examples:
  f1brief race --session monaco.json
  f1brief race --session monaco.json --ai --format json`,
	Args: cobra.NoArgs,
	RunE: runRace,
}

func init() {
	raceCmd.Flags().StringP("session", "s", "", "race session JSON file (required)")
	raceCmd.Flags().Bool("ai", false, "write a race report with the configured LLM")

	rootCmd.AddCommand(raceCmd)
}

func runRace(cmd *cobra.Command, args []string) error {
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

	brief, err := session.BuildRaceBrief(s, r)
	if err != nil {
		return err
	}

	ai, _ := cmd.Flags().GetBool("ai")
	return writeBrief(cmd, cfg, prompt.TypeRaceBriefing, brief, ai)
}
