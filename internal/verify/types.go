package verify

// Severity grades a review comment.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityNit      Severity = "nit"
)

// SeverityRank returns a numeric rank for sorting (higher = more severe).
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityMajor:
		return 3
	case SeverityMinor:
		return 2
	case SeverityNit:
		return 1
	default:
		return 0
	}
}

// Comment is a single generated review comment. The engine never mutates a
// comment except for the file/line rewrite performed in enhance mode.
type Comment struct {
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Severity   Severity `json:"severity"`
	Smell      string   `json:"smell,omitempty"`
	Rationale  string   `json:"rationale"`
	Suggestion string   `json:"suggestion"`
}

// Reason codes attached to dropped comments.
const (
	ReasonMissingField      = "missing-field"
	ReasonInvalidLocation   = "invalid-file-or-line"
	ReasonWeakSuggestion    = "suggestion-too-weak"
	ReasonNoSymbolReference = "no-symbol-reference"
	ReasonDuplicate         = "duplicate-comment"
	ReasonFuzzyDuplicate    = "fuzzy-duplicate"
)

// Dropped pairs a rejected comment with every reason that applied.
type Dropped struct {
	Comment Comment  `json:"comment"`
	Reasons []string `json:"reasons"`
}

// Location is a suggested relocation target with its confidence.
type Location struct {
	File       string  `json:"file"`
	Line       int     `json:"line"`
	Confidence float64 `json:"confidence"`
}

// Misplaced flags a kept comment whose rationale matches somewhere other
// than its declared location.
type Misplaced struct {
	Comment   Comment  `json:"comment"`
	Suggested Location `json:"suggested"`
	Evidence  []string `json:"evidence,omitempty"`
}

// Enhanced records a comment whose location was rewritten to the best match.
type Enhanced struct {
	Comment    Comment  `json:"comment"`
	Original   Location `json:"original"`
	Confidence float64  `json:"confidence"`
}

// Result is the verification partition of an input comment list.
type Result struct {
	Kept      []Comment   `json:"kept"`
	Dropped   []Dropped   `json:"dropped"`
	Misplaced []Misplaced `json:"misplaced,omitempty"`
	Enhanced  []Enhanced  `json:"enhanced,omitempty"`
}
