package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X github.com/bimmerbailey/f1brief/cmd.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the f1brief version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, _ := debug.ReadBuildInfo()
		v, c, d := buildVersion(info)
		fmt.Fprintf(cmd.OutOrStdout(), "f1brief %s (commit: %s, built: %s)\n", v, c, d)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// buildVersion prefers ldflags values and falls back to what `go install`
// stamps into the binary.
func buildVersion(info *debug.BuildInfo) (v, c, d string) {
	v, c, d = version, commit, date
	if info == nil {
		return v, c, d
	}
	if v == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && c == "none":
			c = s.Value
			if len(c) > 12 {
				c = c[:12]
			}
		case s.Key == "vcs.time" && d == "unknown":
			d = s.Value
		}
	}
	return v, c, d
}
