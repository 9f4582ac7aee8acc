package diff

import (
	"fmt"
	"strings"
)

const (
	// DefaultTokenBudget is the chunk budget used when callers pass no
	// explicit value through config.
	DefaultTokenBudget = 1100

	// hunkOverheadTokens approximates the structural cost of a hunk header
	// plus framing inside a prompt.
	hunkOverheadTokens = 8

	// charsPerToken is the rough character-to-token ratio used throughout.
	// It only governs prompt packing, so stability matters more than
	// accuracy.
	charsPerToken = 4
)

// DiffChunk is a token-bounded slice of one file's hunks.
type DiffChunk struct {
	Path        string `json:"path"`
	HunkIndexes []int  `json:"hunkIndexes"`
	EstTokens   int    `json:"estTokens"`
}

// EstimateHunkTokens returns a cheap, deterministic token estimate for a
// hunk: fixed overhead plus one token per four characters of content.
func EstimateHunkTokens(h Hunk) int {
	chars := len(h.Header)
	for _, l := range h.Raw {
		chars += len(l) + 1
	}
	return hunkOverheadTokens + (chars+charsPerToken-1)/charsPerToken
}

// Chunk groups a parsed diff's hunks into chunks of at most tokenBudget
// estimated tokens. Chunks never span files; a file whose hunks exceed the
// budget is split across several chunks preserving hunk order, and a single
// oversized hunk still forms its own chunk.
func Chunk(pd *ParsedDiff, tokenBudget int) ([]DiffChunk, error) {
	if tokenBudget <= 0 {
		return nil, fmt.Errorf("token budget must be positive, got %d", tokenBudget)
	}

	var chunks []DiffChunk
	for _, f := range pd.Files {
		if len(f.Hunks) == 0 {
			continue
		}
		cur := DiffChunk{Path: f.Path}
		for i, h := range f.Hunks {
			cost := EstimateHunkTokens(h)
			if len(cur.HunkIndexes) > 0 && cur.EstTokens+cost > tokenBudget {
				chunks = append(chunks, cur)
				cur = DiffChunk{Path: f.Path}
			}
			cur.HunkIndexes = append(cur.HunkIndexes, i)
			cur.EstTokens += cost
		}
		if len(cur.HunkIndexes) > 0 {
			chunks = append(chunks, cur)
		}
	}
	return chunks, nil
}

// FormatChunk renders the hunks of a chunk back to diff-like text for
// inclusion in a prompt.
func FormatChunk(pd *ParsedDiff, c DiffChunk) string {
	var fd *FileDiff
	for i := range pd.Files {
		if pd.Files[i].Path == c.Path {
			fd = &pd.Files[i]
			break
		}
	}
	if fd == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s (%s)\n", fd.Path, fd.Status)
	for _, idx := range c.HunkIndexes {
		if idx < 0 || idx >= len(fd.Hunks) {
			continue
		}
		h := fd.Hunks[idx]
		b.WriteString(h.Header)
		b.WriteString("\n")
		for _, l := range h.Raw {
			b.WriteString(l)
			b.WriteString("\n")
		}
	}
	return b.String()
}
