package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shuguang-lv/ai-code-review/internal/review"
)

// Exit codes reported to the shell.
const (
	ExitSuccess      = 0
	ExitFindings     = 1
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

var rootCmd = &cobra.Command{
	Use:   "aicr",
	Short: "AI code review for JavaScript and TypeScript changes",
	Long:  "aicr reviews git diffs with an LLM provider, grounds the comments in a code graph of the repository, and drops or relocates comments that do not hold up.",
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print aicr version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "aicr version %s\n", review.Version)
	},
}
