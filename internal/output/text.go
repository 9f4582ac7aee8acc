package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shuguang-lv/ai-code-review/internal/review"
	"github.com/shuguang-lv/ai-code-review/internal/verify"
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	ew.printf("aicr code review: %s mode\n", report.Inputs.Mode)
	if report.Inputs.Range != "" {
		ew.printf("Range: %s\n", report.Inputs.Range)
	}
	ew.printf("Repository: %s (branch: %s)\n", report.Repo.Root, report.Repo.Branch)
	ew.println(strings.Repeat("-", 60))
	ew.printf("Comments: %d kept", report.Summary.Kept)
	if report.Summary.Kept > 0 {
		ew.printf(" (%d critical, %d major, %d minor, %d nit)",
			report.Summary.Counts.Critical,
			report.Summary.Counts.Major,
			report.Summary.Counts.Minor,
			report.Summary.Counts.Nit,
		)
	}
	ew.printf(", %d dropped, %d misplaced\n", report.Summary.Dropped, report.Summary.Misplaced)
	ew.println(strings.Repeat("-", 60))

	if report.Summary.Kept == 0 {
		ew.println("\nNo issues found. Looks good!")
		writeTiming(ew, report)
		return ew.err
	}

	grouped := groupBySeverity(report.Verification.Kept)
	for _, sev := range severityOrder {
		comments := grouped[sev]
		if len(comments) == 0 {
			continue
		}

		label := strings.ToUpper(string(sev))
		ew.printf("\n%s %s\n", severityIcon(sev), label)
		ew.println(strings.Repeat("-", 40))

		sort.SliceStable(comments, func(i, j int) bool {
			if comments[i].File != comments[j].File {
				return comments[i].File < comments[j].File
			}
			return comments[i].Line < comments[j].Line
		})

		for _, c := range comments {
			ew.printf("\n  %s:%d", c.File, c.Line)
			if c.Smell != "" {
				ew.printf("  [%s]", c.Smell)
			}
			ew.println("")
			for _, line := range wrapText(c.Rationale, 70) {
				ew.printf("    %s\n", line)
			}
			if c.Suggestion != "" {
				ew.println("  Suggestion:")
				for _, line := range wrapText(c.Suggestion, 70) {
					ew.printf("    %s\n", line)
				}
			}
		}
	}

	if len(report.Verification.Misplaced) > 0 {
		ew.printf("\nPossibly misplaced (%d):\n", len(report.Verification.Misplaced))
		for _, m := range report.Verification.Misplaced {
			ew.printf("  %s:%d likely belongs at %s:%d (confidence %.0f%%)\n",
				m.Comment.File, m.Comment.Line,
				m.Suggested.File, m.Suggested.Line,
				m.Suggested.Confidence*100)
		}
	}

	if len(report.Verification.Dropped) > 0 {
		ew.printf("\nDropped (%d):\n", len(report.Verification.Dropped))
		for _, d := range report.Verification.Dropped {
			ew.printf("  %s:%d  %s\n",
				d.Comment.File, d.Comment.Line, strings.Join(d.Reasons, ", "))
		}
	}

	writeTiming(ew, report)
	return ew.err
}

func writeTiming(ew *errWriter, report *review.Report) {
	ew.printf("\n%s\n", strings.Repeat("-", 60))
	ew.printf("Completed in %dms (graph: %dms, LLM: %dms)\n",
		report.Timing.TotalMs, report.Timing.GraphMs, report.Timing.LLMMs)
}

var severityOrder = []verify.Severity{
	verify.SeverityCritical,
	verify.SeverityMajor,
	verify.SeverityMinor,
	verify.SeverityNit,
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}

func groupBySeverity(comments []verify.Comment) map[verify.Severity][]verify.Comment {
	m := make(map[verify.Severity][]verify.Comment)
	for _, c := range comments {
		m[c.Severity] = append(m[c.Severity], c)
	}
	return m
}

func severityIcon(s verify.Severity) string {
	switch s {
	case verify.SeverityCritical:
		return "[!!!]"
	case verify.SeverityMajor:
		return "[!!]"
	case verify.SeverityMinor:
		return "[!]"
	case verify.SeverityNit:
		return "[-]"
	default:
		return "[?]"
	}
}

func wrapText(text string, width int) []string {
	if len(text) <= width {
		return []string{text}
	}
	var lines []string
	words := strings.Fields(text)
	var current strings.Builder
	for _, word := range words {
		if current.Len()+len(word)+1 > width && current.Len() > 0 {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
