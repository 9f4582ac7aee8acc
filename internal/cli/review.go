package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shuguang-lv/ai-code-review/internal/config"
	"github.com/shuguang-lv/ai-code-review/internal/gitctx"
	"github.com/shuguang-lv/ai-code-review/internal/output"
	"github.com/shuguang-lv/ai-code-review/internal/providers"
	"github.com/shuguang-lv/ai-code-review/internal/review"
	"github.com/shuguang-lv/ai-code-review/internal/verify"
)

// Shared review flags
var (
	flagProvider    string
	flagModel       string
	flagFormat      string
	flagOut         string
	flagFailOn      string
	flagTokenBudget int
	flagMaxComments int
	flagNoFuzzy     bool
	flagEnhance     bool
	flagNoRedact    bool
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, ollama)")
	cmd.Flags().StringVar(&flagModel, "model", "", "Model name")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Fail on severity threshold (none, nit, minor, major, critical)")
	cmd.Flags().IntVar(&flagTokenBudget, "token-budget", 0, "Token budget per diff chunk")
	cmd.Flags().IntVar(&flagMaxComments, "max-comments", 0, "Maximum comments requested per chunk")
	cmd.Flags().BoolVar(&flagNoFuzzy, "no-fuzzy", false, "Disable fuzzy duplicate detection and relocation")
	cmd.Flags().BoolVar(&flagEnhance, "enhance", false, "Rewrite comment locations to high-confidence matches")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagProvider != "" {
		m["provider"] = flagProvider
	}
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagTokenBudget > 0 {
		m["tokenBudget"] = fmt.Sprintf("%d", flagTokenBudget)
	}
	if flagMaxComments > 0 {
		m["maxComments"] = fmt.Sprintf("%d", flagMaxComments)
	}
	if flagNoFuzzy {
		m["fuzzy"] = "false"
	}
	if flagEnhance {
		m["enhance"] = "true"
	}
	return m
}

func runReview(diff gitctx.DiffResult, cfg config.Config) {
	if flagNoRedact {
		cfg.Privacy.RedactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}

	report, err := review.Run(context.Background(), diff, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if providers.IsAuthError(err) {
			exitCode = ExitAuthError
		} else {
			exitCode = ExitRuntimeError
		}
		return
	}

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if flagFailOn != "" && flagFailOn != "none" {
		threshold := verify.SeverityRank(verify.Severity(flagFailOn))
		for _, c := range report.Verification.Kept {
			if verify.SeverityRank(c.Severity) >= threshold {
				exitCode = ExitFindings
				return
			}
		}
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review code changes",
	Long:  "Review code changes using an LLM provider. Use subcommands to specify what to review.",
}

var reviewUnstagedCmd = &cobra.Command{
	Use:   "unstaged",
	Short: "Review unstaged changes (working tree vs index)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		diff, err := gitctx.Unstaged()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(diff, cfg)
		return nil
	},
}

var reviewStagedCmd = &cobra.Command{
	Use:   "staged",
	Short: "Review staged changes (index vs HEAD)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		diff, err := gitctx.Staged()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(diff, cfg)
		return nil
	},
}

var reviewRangeCmd = &cobra.Command{
	Use:   "range <revRange>",
	Short: "Review a revision range (e.g., origin/main..HEAD)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}
		diff, err := gitctx.Range(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		runReview(diff, cfg)
		return nil
	},
}

func init() {
	addReviewFlags(reviewUnstagedCmd)
	addReviewFlags(reviewStagedCmd)
	addReviewFlags(reviewRangeCmd)
	reviewCmd.AddCommand(reviewUnstagedCmd)
	reviewCmd.AddCommand(reviewStagedCmd)
	reviewCmd.AddCommand(reviewRangeCmd)
}
