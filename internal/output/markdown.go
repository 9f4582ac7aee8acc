package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shuguang-lv/ai-code-review/internal/review"
	"github.com/shuguang-lv/ai-code-review/internal/verify"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	fmt.Fprintf(w, "## aicr Code Review\n\n")

	fmt.Fprintf(w, "| Severity | Count |\n")
	fmt.Fprintf(w, "|----------|-------|\n")
	fmt.Fprintf(w, "| Critical | %d    |\n", report.Summary.Counts.Critical)
	fmt.Fprintf(w, "| Major    | %d    |\n", report.Summary.Counts.Major)
	fmt.Fprintf(w, "| Minor    | %d    |\n", report.Summary.Counts.Minor)
	fmt.Fprintf(w, "| Nit      | %d    |\n", report.Summary.Counts.Nit)
	fmt.Fprintf(w, "| **Total** | **%d** |\n\n", report.Summary.Kept)

	if report.Summary.Kept == 0 {
		fmt.Fprintln(w, "No issues found. :white_check_mark:")
		return nil
	}

	grouped := groupBySeverity(report.Verification.Kept)
	for _, sev := range severityOrder {
		comments := grouped[sev]
		if len(comments) == 0 {
			continue
		}

		icon := mdSeverityIcon(sev)
		label := strings.ToUpper(string(sev))

		fmt.Fprintf(w, "<details>\n<summary>%s %s (%d)</summary>\n\n", icon, label, len(comments))

		sort.SliceStable(comments, func(i, j int) bool {
			if comments[i].File != comments[j].File {
				return comments[i].File < comments[j].File
			}
			return comments[i].Line < comments[j].Line
		})

		for _, c := range comments {
			fmt.Fprintf(w, "### `%s:%d`", c.File, c.Line)
			if c.Smell != "" {
				fmt.Fprintf(w, " (%s)", c.Smell)
			}
			fmt.Fprintf(w, "\n\n%s\n\n", c.Rationale)

			if c.Suggestion != "" {
				fmt.Fprintf(w, "**Suggestion:**\n\n")
				if looksLikeCode(c.Suggestion) {
					fmt.Fprintf(w, "```%s\n%s\n```\n\n", inferLang(c.File), c.Suggestion)
				} else {
					fmt.Fprintf(w, "> %s\n\n", strings.ReplaceAll(c.Suggestion, "\n", "\n> "))
				}
			}

			fmt.Fprintf(w, "---\n\n")
		}

		fmt.Fprintf(w, "</details>\n\n")
	}

	if len(report.Verification.Misplaced) > 0 {
		fmt.Fprintf(w, "<details>\n<summary>:round_pushpin: Possibly misplaced (%d)</summary>\n\n", len(report.Verification.Misplaced))
		for _, mp := range report.Verification.Misplaced {
			fmt.Fprintf(w, "- `%s:%d` likely belongs at `%s:%d` (confidence %.0f%%)\n",
				mp.Comment.File, mp.Comment.Line,
				mp.Suggested.File, mp.Suggested.Line,
				mp.Suggested.Confidence*100)
		}
		fmt.Fprintf(w, "\n</details>\n\n")
	}

	fmt.Fprintf(w, "*Reviewed in %dms (graph: %dms, LLM: %dms)*\n",
		report.Timing.TotalMs, report.Timing.GraphMs, report.Timing.LLMMs)

	return nil
}

func mdSeverityIcon(s verify.Severity) string {
	switch s {
	case verify.SeverityCritical:
		return ":red_circle:"
	case verify.SeverityMajor:
		return ":orange_circle:"
	case verify.SeverityMinor:
		return ":yellow_circle:"
	case verify.SeverityNit:
		return ":white_circle:"
	default:
		return ":black_circle:"
	}
}

func looksLikeCode(s string) bool {
	codeIndicators := []string{
		"function ", "const ", "let ", "return ", "if (",
		"=>", "===", "{", "}", "()", "[];",
	}
	for _, indicator := range codeIndicators {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

func inferLang(path string) string {
	langMap := map[string]string{
		".tsx": "tsx",
		".ts":  "typescript",
		".jsx": "jsx",
		".mjs": "javascript",
		".cjs": "javascript",
		".js":  "javascript",
	}
	for ext, lang := range langMap {
		if strings.HasSuffix(path, ext) {
			return lang
		}
	}
	return ""
}
