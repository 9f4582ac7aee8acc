package verify

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Default thresholds and limits.
const (
	DefaultMinConfidence     = 0.6
	DefaultMaxMatches        = 5
	DefaultMinSuggestionLen  = 12
	DefaultExactDupThreshold = 0.9
	DefaultFuzzyDupThreshold = 0.85
	DefaultLineDelta         = 5
)

// boilerplate is the deny-list of generic suggestion phrases, matched
// case-insensitively as substrings of the normalized suggestion.
var boilerplate = []string{
	"consider refactoring",
	"improve readability",
	"add tests",
	"add more tests",
	"fix this",
	"looks good",
	"needs improvement",
	"should be improved",
	"follow best practices",
}

// Options controls a verification pass. The zero value of any field selects
// its default; explicitly invalid values are rejected at construction.
type Options struct {
	// Fuzzy enables fuzzy duplicate detection and relocation scanning.
	Fuzzy bool
	// Enhance rewrites a comment's file/line to the best relocation match.
	// Implies the relocation scan; only meaningful with Fuzzy.
	Enhance bool

	MinConfidence     float64
	MaxMatches        int
	MinSuggestionLen  int
	ExactDupThreshold float64
	FuzzyDupThreshold float64
	// LineDelta is both the window within which two same-file comments can
	// be exact duplicates and the relocation distance considered "in
	// place".
	LineDelta int
}

func (o Options) withDefaults() Options {
	if o.MinConfidence == 0 {
		o.MinConfidence = DefaultMinConfidence
	}
	if o.MaxMatches == 0 {
		o.MaxMatches = DefaultMaxMatches
	}
	if o.MinSuggestionLen == 0 {
		o.MinSuggestionLen = DefaultMinSuggestionLen
	}
	if o.ExactDupThreshold == 0 {
		o.ExactDupThreshold = DefaultExactDupThreshold
	}
	if o.FuzzyDupThreshold == 0 {
		o.FuzzyDupThreshold = DefaultFuzzyDupThreshold
	}
	if o.LineDelta == 0 {
		o.LineDelta = DefaultLineDelta
	}
	return o
}

func (o Options) validate() error {
	if o.MinConfidence <= 0 || o.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be in (0,1], got %v", o.MinConfidence)
	}
	if o.ExactDupThreshold <= 0 || o.ExactDupThreshold > 1 {
		return fmt.Errorf("exact duplicate threshold must be in (0,1], got %v", o.ExactDupThreshold)
	}
	if o.FuzzyDupThreshold <= 0 || o.FuzzyDupThreshold > 1 {
		return fmt.Errorf("fuzzy duplicate threshold must be in (0,1], got %v", o.FuzzyDupThreshold)
	}
	if o.MaxMatches < 1 {
		return fmt.Errorf("max matches must be positive, got %d", o.MaxMatches)
	}
	if o.MinSuggestionLen < 1 {
		return fmt.Errorf("min suggestion length must be positive, got %d", o.MinSuggestionLen)
	}
	if o.LineDelta < 0 {
		return fmt.Errorf("line delta must be non-negative, got %d", o.LineDelta)
	}
	return nil
}

// Engine verifies comments against the repository at root. File contents are
// loaded on demand and cached for the lifetime of the engine; a file that
// cannot be read is treated as missing, never as a fatal error.
type Engine struct {
	root    string
	opts    Options
	symbols map[string][]string

	lines   map[string][]string
	missing map[string]bool
	symRe   map[string]*regexp.Regexp
}

// NewEngine creates an Engine rooted at root.
func NewEngine(root string, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		root:    root,
		opts:    opts,
		symbols: make(map[string][]string),
		lines:   make(map[string][]string),
		missing: make(map[string]bool),
		symRe:   make(map[string]*regexp.Regexp),
	}, nil
}

// SetSymbols supplies the known symbol names per file. Files absent from the
// map are not penalized by the symbol-grounding check.
func (e *Engine) SetSymbols(symbols map[string][]string) {
	if symbols != nil {
		e.symbols = symbols
	}
}

// Preload loads file contents ahead of verification so the relocation scan
// has a corpus beyond the files the comments themselves reference. Unreadable
// paths are skipped.
func (e *Engine) Preload(paths []string) {
	for _, p := range paths {
		e.fileLines(p)
	}
}

// Verify partitions comments into kept and dropped, processing them in input
// order so repeated runs over the same input produce identical results.
func (e *Engine) Verify(comments []Comment) Result {
	var res Result
	for _, c := range comments {
		reasons := e.check(c, res.Kept)
		if len(reasons) > 0 {
			res.Dropped = append(res.Dropped, Dropped{Comment: c, Reasons: reasons})
			continue
		}
		if e.opts.Fuzzy {
			c = e.relocate(c, &res)
		}
		res.Kept = append(res.Kept, c)
	}
	return res
}

// check runs every rejection rule against one comment. Rules are independent
// and all failures accumulate.
func (e *Engine) check(c Comment, kept []Comment) []string {
	var reasons []string

	if c.File == "" || c.Rationale == "" || c.Suggestion == "" {
		reasons = append(reasons, ReasonMissingField)
	}

	if !e.validLocation(c) {
		reasons = append(reasons, ReasonInvalidLocation)
	}

	if weakSuggestion(c.Suggestion, e.opts.MinSuggestionLen) {
		reasons = append(reasons, ReasonWeakSuggestion)
	}

	if !e.symbolGrounded(c) {
		reasons = append(reasons, ReasonNoSymbolReference)
	}

	if e.exactDuplicate(c, kept) {
		reasons = append(reasons, ReasonDuplicate)
	}

	// Fuzzy duplicate detection only runs when everything else passed.
	if len(reasons) == 0 && e.opts.Fuzzy && e.fuzzyDuplicate(c, kept) {
		reasons = append(reasons, ReasonFuzzyDuplicate)
	}

	return reasons
}

func (e *Engine) validLocation(c Comment) bool {
	if c.File == "" || c.Line < 1 {
		return false
	}
	lines, ok := e.fileLines(c.File)
	return ok && c.Line <= len(lines)
}

func weakSuggestion(s string, minLen int) bool {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) < minLen {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range boilerplate {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// symbolGrounded requires the rationale+suggestion text to mention at least
// one known symbol of the file, on a word boundary. Files with no known
// symbols pass through.
func (e *Engine) symbolGrounded(c Comment) bool {
	syms := e.symbols[c.File]
	if len(syms) == 0 {
		return true
	}
	text := c.Rationale + " " + c.Suggestion
	for _, name := range syms {
		if name == "" {
			continue
		}
		re, ok := e.symRe[name]
		if !ok {
			re = regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
			e.symRe[name] = re
		}
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// exactDuplicate drops a comment when an already-kept comment sits on the
// same file within the duplicate line window and its rationale overlaps
// beyond the exact threshold.
func (e *Engine) exactDuplicate(c Comment, kept []Comment) bool {
	for _, k := range kept {
		if k.File != c.File {
			continue
		}
		if abs(k.Line-c.Line) > e.opts.LineDelta {
			continue
		}
		if TokenOverlap(k.Rationale, c.Rationale) > e.opts.ExactDupThreshold {
			return true
		}
	}
	return false
}

func (e *Engine) fuzzyDuplicate(c Comment, kept []Comment) bool {
	for _, k := range kept {
		if Similarity(k.Rationale, c.Rationale) > e.opts.FuzzyDupThreshold {
			return true
		}
	}
	return false
}

// fileLines returns the cached content of a repository-relative file, split
// into lines. Missing or unreadable files are memoized as absent.
func (e *Engine) fileLines(rel string) ([]string, bool) {
	if lines, ok := e.lines[rel]; ok {
		return lines, true
	}
	if e.missing[rel] {
		return nil, false
	}
	data, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(rel)))
	if err != nil {
		e.missing[rel] = true
		return nil, false
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	e.lines[rel] = lines
	return lines, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
