package review

import (
	"github.com/shuguang-lv/ai-code-review/internal/verify"
)

// RepoInfo contains repository metadata.
type RepoInfo struct {
	Root   string `json:"root"`
	Head   string `json:"head"`
	Branch string `json:"branch"`
}

// InputInfo describes what was reviewed.
type InputInfo struct {
	Mode  string `json:"mode"`
	Range string `json:"range,omitempty"`
}

// SeverityCounts holds kept-comment counts by severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
	Minor    int `json:"minor"`
	Nit      int `json:"nit"`
}

// Summary is an overview of the verification outcome.
type Summary struct {
	Counts          SeverityCounts  `json:"counts"`
	Kept            int             `json:"kept"`
	Dropped         int             `json:"dropped"`
	Misplaced       int             `json:"misplaced"`
	HighestSeverity verify.Severity `json:"highestSeverity,omitempty"`
}

// Timing contains performance metrics.
type Timing struct {
	GraphMs int64 `json:"graphMs"`
	LLMMs   int64 `json:"llmMs"`
	TotalMs int64 `json:"totalMs"`
}

// Report is the top-level output structure.
type Report struct {
	Tool         string        `json:"tool"`
	Version      string        `json:"version"`
	RunID        string        `json:"runId"`
	Repo         RepoInfo      `json:"repo"`
	Inputs       InputInfo     `json:"inputs"`
	Summary      Summary       `json:"summary"`
	Verification verify.Result `json:"verification"`
	Timing       Timing        `json:"timing"`
}

// ComputeSummary derives the summary from a verification result.
func ComputeSummary(res verify.Result) Summary {
	s := Summary{
		Kept:      len(res.Kept),
		Dropped:   len(res.Dropped),
		Misplaced: len(res.Misplaced),
	}
	for _, c := range res.Kept {
		switch c.Severity {
		case verify.SeverityCritical:
			s.Counts.Critical++
		case verify.SeverityMajor:
			s.Counts.Major++
		case verify.SeverityMinor:
			s.Counts.Minor++
		case verify.SeverityNit:
			s.Counts.Nit++
		}
		if verify.SeverityRank(c.Severity) > verify.SeverityRank(s.HighestSeverity) {
			s.HighestSeverity = c.Severity
		}
	}
	return s
}
