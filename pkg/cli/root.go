package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockadapter/pkg/cli/internal/output"
	"github.com/getmockd/mockadapter/pkg/logging"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	verbose    bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mockadapter",
	Short: "mockadapter checks and exercises HTTP mock fixtures",
	Long: `mockadapter works with the fixture files used to configure mock adapters in Go
tests. It validates fixtures, lists their routes, replays requests against
them, and imports OpenAPI documents as new fixtures.`,
	SilenceUsage:  true,
	SilenceErrors: true, // Main prints errors
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log adapter activity at debug level")
}

// newLogger returns the logger for adapters built by commands.
func newLogger(cmd *cobra.Command) *slog.Logger {
	if verbose {
		return logging.New(logging.Config{Level: logging.LevelDebug, Output: cmd.ErrOrStderr()})
	}
	return logging.FromEnv(cmd.ErrOrStderr())
}

// printResult outputs a single operation result.
//
// When --json is active, ONLY the JSON encoding of data is written to stdout.
// textFn is called only in text mode.
func printResult(cmd *cobra.Command, data any, textFn func()) error {
	if jsonOutput {
		return output.JSON(cmd.OutOrStdout(), data)
	}
	textFn()
	return nil
}
