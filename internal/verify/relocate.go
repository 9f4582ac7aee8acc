package verify

import (
	"sort"
	"strings"
)

// lineMatch is one candidate relocation target.
type lineMatch struct {
	File  string
	Line  int
	Score float64
	Text  string
}

// minMatchLineLen skips trivially short lines (braces, blank) that would
// otherwise score spuriously against short rationales.
const minMatchLineLen = 4

// relocate scans every loaded file for lines matching the comment's
// rationale. When the best match points somewhere other than the declared
// location, the comment is recorded as misplaced; in enhance mode its
// file/line are rewritten to the match. The (possibly rewritten) comment is
// returned for keeping.
func (e *Engine) relocate(c Comment, res *Result) Comment {
	matches := e.bestMatches(c.Rationale)
	if len(matches) == 0 {
		return c
	}

	best := matches[0]
	samePlace := best.File == c.File && abs(best.Line-c.Line) <= e.opts.LineDelta
	if samePlace {
		return c
	}

	evidence := make([]string, 0, len(matches))
	for _, m := range matches {
		evidence = append(evidence, m.Text)
	}
	res.Misplaced = append(res.Misplaced, Misplaced{
		Comment: c,
		Suggested: Location{
			File:       best.File,
			Line:       best.Line,
			Confidence: best.Score,
		},
		Evidence: evidence,
	})

	if e.opts.Enhance {
		original := Location{File: c.File, Line: c.Line}
		c.File = best.File
		c.Line = best.Line
		res.Enhanced = append(res.Enhanced, Enhanced{
			Comment:    c,
			Original:   original,
			Confidence: best.Score,
		})
	}
	return c
}

// bestMatches scores every loaded line against text and returns up to
// MaxMatches results at or above MinConfidence, ordered by score descending
// with path/line tie-breaks for determinism.
func (e *Engine) bestMatches(text string) []lineMatch {
	paths := make([]string, 0, len(e.lines))
	for p := range e.lines {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var matches []lineMatch
	for _, p := range paths {
		for i, line := range e.lines[p] {
			trimmed := strings.TrimSpace(line)
			if len(trimmed) < minMatchLineLen {
				continue
			}
			score := Similarity(text, trimmed)
			if score < e.opts.MinConfidence {
				continue
			}
			matches = append(matches, lineMatch{
				File:  p,
				Line:  i + 1,
				Score: score,
				Text:  trimmed,
			})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		return matches[i].Line < matches[j].Line
	})
	if len(matches) > e.opts.MaxMatches {
		matches = matches[:e.opts.MaxMatches]
	}
	return matches
}
