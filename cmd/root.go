package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "f1brief",
	Short: "Compare Formula One lap telemetry and write briefings",
	Long: `f1brief compares two drivers' lap telemetry over a distance range,
turns the numbers into plain sentences, and can hand them to an LLM to
write commentary, session news and race reports.

Examples:
  f1brief compare --a ver.csv --b ham.csv --driver-a 1 --driver-b 44 --range 5300:5530 --turn 15
  f1brief gap --a ver.csv --b ham.csv --step 25
  f1brief session --session quali.json --a ver.csv --b lec.csv --ai
  f1brief race --session race.json --ai
  f1brief ask "where does Hamilton lose time?" --a ver.csv --b ham.csv
  f1brief drivers --roster 2024.yaml`,
}

// Execute is called by main.main(). It runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.f1brief.yaml)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "output format (text, json, table)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("roster", "", "driver roster YAML file (default is the built-in 2023 grid)")

	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("roster_file", rootCmd.PersistentFlags().Lookup("roster"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error finding home directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".f1brief")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("F1BRIEF")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// setDefaults registers the default configuration. Tests call it after
// viper.Reset.
func setDefaults() {
	viper.SetDefault("format", "text")
	viper.SetDefault("verbose", false)
	viper.SetDefault("no_color", false)
	viper.SetDefault("overlap_threshold", 20.0)
	viper.SetDefault("gap_window", 75)

	viper.SetDefault("llm.provider", "ollama")
	viper.SetDefault("llm.temperature", 0.95)
	viper.SetDefault("llm.max_tokens", 0)
	viper.SetDefault("llm.ollama.host", "http://localhost:11434")
	viper.SetDefault("llm.ollama.model", "llama3.2")
	viper.SetDefault("llm.ollama.keep_alive", "5m")
	viper.SetDefault("llm.openai.model", "gpt-4o")
	viper.SetDefault("llm.azure.api_version", "2023-03-15-preview")
	viper.SetDefault("llm.anthropic.model", "claude-3-7-sonnet-20250219")
}
