package verify

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Similarity scores two texts in [0,1] as the maximum of three heuristics:
// order-insensitive token matching, substring/partial matching, and
// set-based token matching. Taking the max (never an average) preserves
// recall across reordered, partially overlapping, and paraphrased text.
func Similarity(a, b string) float64 {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	s := tokenSortRatio(na, nb)
	if p := partialRatio(na, nb); p > s {
		s = p
	}
	if t := tokenSetRatio(na, nb); t > s {
		s = t
	}
	return s
}

// TokenOverlap is the exact-duplicate metric: the size of the intersection
// of the normalized word sets divided by the larger set's size.
func TokenOverlap(a, b string) float64 {
	wa := wordSet(normalize(a))
	wb := wordSet(normalize(b))
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	common := 0
	for w := range wa {
		if wb[w] {
			common++
		}
	}
	larger := len(wa)
	if len(wb) > larger {
		larger = len(wb)
	}
	return float64(common) / float64(larger)
}

// tokenSortRatio compares the two texts with their tokens sorted, so word
// order differences do not count against the score.
func tokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(a), sortTokens(b))
}

// partialRatio scores the shorter text against same-width token windows of
// the longer one, catching a rationale embedded in a longer line.
func partialRatio(a, b string) float64 {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(long, short) {
		return 1
	}
	shortToks := strings.Fields(short)
	longToks := strings.Fields(long)
	if len(shortToks) == 0 || len(shortToks) >= len(longToks) {
		return ratio(short, long)
	}
	best := 0.0
	for i := 0; i+len(shortToks) <= len(longToks); i++ {
		window := strings.Join(longToks[i:i+len(shortToks)], " ")
		if r := ratio(short, window); r > best {
			best = r
		}
	}
	return best
}

// tokenSetRatio is the share of the smaller word set found in the larger.
func tokenSetRatio(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	if len(wa) > len(wb) {
		wa, wb = wb, wa
	}
	common := 0
	for w := range wa {
		if wb[w] {
			common++
		}
	}
	return float64(common) / float64(len(wa))
}

// ratio is a normalized Levenshtein similarity.
func ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func sortTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(s) {
		set[w] = true
	}
	return set
}
