package review

import (
	"fmt"
	"strings"

	"github.com/shuguang-lv/ai-code-review/internal/graph"
)

const systemPrompt = `You are a strict, expert code reviewer. You review code diffs and produce structured review comments in JSON format.

Rules:
1. Only review the changes shown in the diff. Do not comment on unchanged code.
2. Focus on bugs, security issues, performance problems, and correctness.
3. Every comment must name a concrete symbol from the code and include a specific, actionable suggestion. Generic advice will be discarded.
4. Use line numbers from the post-change file (the numbers implied by the hunk headers).
5. Rate severity as "critical", "major", "minor", or "nit".
6. Label each comment with a short smell tag (e.g. "null-check", "error-handling", "resource-leak").

You MUST respond with ONLY a JSON array of comments. No markdown, no explanation, no preamble.

Each comment must have this exact structure:
{
  "file": "relative/file/path",
  "line": 1,
  "severity": "critical|major|minor|nit",
  "smell": "short-label",
  "rationale": "What is wrong and why it matters",
  "suggestion": "How to fix it, with code if helpful"
}

If there are no issues, respond with an empty array: []`

// SystemPrompt returns the system prompt for comment generation.
func SystemPrompt() string {
	return systemPrompt
}

// ChunkContext is the graph-derived context attached to one chunk's prompt.
type ChunkContext struct {
	Definitions []graph.SymbolDef
	Meta        graph.FileMeta
	Hotspots    []graph.Hotspot
}

// BuildUserPrompt renders one chunk plus its code-graph context.
func BuildUserPrompt(chunkText string, cc ChunkContext, maxComments int) string {
	var b strings.Builder

	b.WriteString("Review the following code diff.\n\n")
	if maxComments > 0 {
		fmt.Fprintf(&b, "Return at most %d comments.\n", maxComments)
	}

	if len(cc.Definitions) > 0 {
		b.WriteString("\nRelevant definitions (this file and its direct dependencies):\n")
		for _, d := range cc.Definitions {
			fmt.Fprintf(&b, "- %s %s (%s:%d)\n", d.Kind, d.Name, d.Path, d.Pos.Line)
			if d.Text != "" {
				fmt.Fprintf(&b, "  %s\n", firstLine(d.Text))
			}
		}
	}

	if len(cc.Meta.Imports) > 0 {
		b.WriteString("\nImports of the changed file:\n")
		for _, imp := range cc.Meta.Imports {
			if len(imp.Names) > 0 {
				fmt.Fprintf(&b, "- %s from %q\n", strings.Join(imp.Names, ", "), imp.Source)
			} else {
				fmt.Fprintf(&b, "- %q (side effect)\n", imp.Source)
			}
		}
	}

	if len(cc.Hotspots) > 0 {
		b.WriteString("\nHighly connected files in this repository:\n")
		for _, h := range cc.Hotspots {
			fmt.Fprintf(&b, "- %s (degree %d)\n", h.Path, h.Degree)
		}
	}

	b.WriteString("\n--- BEGIN DIFF ---\n")
	b.WriteString(chunkText)
	b.WriteString("--- END DIFF ---\n")

	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
