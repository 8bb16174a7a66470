package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "through",
	Short: "Stream newline-delimited values through transform units",
	Long: `through - process streams of values with back-pressure.

Input is read from stdin and written to stdout. Every stage holds at most
its high-water mark of pending values, so large inputs run in constant memory.

Examples:
  # Select a field from every record
  cat events.ndjson | through jq '.user.id'

  # Convert records to YAML documents
  cat events.ndjson | through jq -o yaml '.'`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log unit lifecycle at debug level")
}

// IsVerbose returns whether verbose mode is enabled.
func IsVerbose() bool {
	return verbose
}
