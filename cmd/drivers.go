package cmd

import (
	"github.com/bimmerbailey/f1brief/internal/output"
	"github.com/spf13/cobra"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List the drivers in the roster",
	Long: `Print the grid the other commands use to turn car numbers into names,
codes and livery colours: the built-in grid, or the file given with --roster.

Examples:
  f1brief drivers
  f1brief drivers --roster 2024.yaml --format json`,
	Args: cobra.NoArgs,
	RunE: runDrivers,
}

func init() {
	rootCmd.AddCommand(driversCmd)
}

func runDrivers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r, err := loadRoster(cfg)
	if err != nil {
		return err
	}

	drivers := r.Drivers()
	grid := make([]output.GridEntry, len(drivers))
	for i, d := range drivers {
		grid[i] = output.GridEntry{
			Driver: output.Driver{Number: d.Number, Code: d.Abbreviation, Name: d.Name, Color: d.Color},
			Team:   d.Team,
		}
	}

	newLogger(cfg.Verbose).Info("listing roster", "season", r.Season(), "drivers", len(grid))
	return newWriter(cmd, cfg).WriteGrid(r.Season(), grid)
}
