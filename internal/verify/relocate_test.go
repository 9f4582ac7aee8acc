package verify

import (
	"fmt"
	"strings"
	"testing"
)

// relocationRoot builds b.ts (20 filler lines) and c.ts where line 42 holds
// the text a misplaced comment's rationale will match.
func relocationRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	var b strings.Builder
	for i := 1; i <= 20; i++ {
		fmt.Fprintf(&b, "const padding%d = %d;\n", i, i)
	}
	writeFile(t, root, "b.ts", b.String())

	var c strings.Builder
	for i := 1; i <= 50; i++ {
		if i == 42 {
			c.WriteString("const total = computeTotal(items, taxRate);\n")
			continue
		}
		fmt.Fprintf(&c, "const row%d = %d;\n", i, i)
	}
	writeFile(t, root, "c.ts", c.String())
	return root
}

func TestRelocate_MisplacedAcrossFiles(t *testing.T) {
	e := newEngine(t, relocationRoot(t), Options{Fuzzy: true})
	e.Preload([]string{"b.ts", "c.ts"})

	res := e.Verify([]Comment{{
		File:       "b.ts",
		Line:       10,
		Rationale:  "computeTotal of items with taxRate gives a total that is not rounded",
		Suggestion: "Round the computeTotal result before display",
	}})

	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d (%+v), want 1", len(res.Kept), res.Dropped)
	}
	if len(res.Misplaced) != 1 {
		t.Fatalf("misplaced = %+v, want one record", res.Misplaced)
	}
	m := res.Misplaced[0]
	if m.Suggested.File != "c.ts" || m.Suggested.Line != 42 {
		t.Errorf("suggested = %+v, want c.ts:42", m.Suggested)
	}
	if m.Suggested.Confidence < 0.6 {
		t.Errorf("confidence = %v, want >= 0.6", m.Suggested.Confidence)
	}
	if len(m.Evidence) == 0 || !strings.Contains(m.Evidence[0], "computeTotal") {
		t.Errorf("evidence = %v, want the matched line first", m.Evidence)
	}
	// Without enhance mode the kept comment keeps its declared location.
	if res.Kept[0].File != "b.ts" || res.Kept[0].Line != 10 {
		t.Errorf("kept comment moved without enhance: %+v", res.Kept[0])
	}
}

func TestRelocate_EnhanceRewritesLocation(t *testing.T) {
	e := newEngine(t, relocationRoot(t), Options{Fuzzy: true, Enhance: true})
	e.Preload([]string{"b.ts", "c.ts"})

	res := e.Verify([]Comment{{
		File:       "b.ts",
		Line:       10,
		Rationale:  "computeTotal of items with taxRate gives a total that is not rounded",
		Suggestion: "Round the computeTotal result before display",
	}})

	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d, want 1", len(res.Kept))
	}
	k := res.Kept[0]
	if k.File != "c.ts" || k.Line != 42 {
		t.Errorf("enhanced comment at %s:%d, want c.ts:42", k.File, k.Line)
	}
	if len(res.Enhanced) != 1 {
		t.Fatalf("enhanced = %+v, want one record", res.Enhanced)
	}
	en := res.Enhanced[0]
	if en.Original.File != "b.ts" || en.Original.Line != 10 {
		t.Errorf("original = %+v, want b.ts:10", en.Original)
	}
	if en.Confidence < 0.6 {
		t.Errorf("confidence = %v, want >= 0.6", en.Confidence)
	}
}

func TestRelocate_InPlaceCommentUnflagged(t *testing.T) {
	root := relocationRoot(t)
	e := newEngine(t, root, Options{Fuzzy: true})
	e.Preload([]string{"b.ts", "c.ts"})

	// Declared within LineDelta of the matching line in the same file.
	res := e.Verify([]Comment{{
		File:       "c.ts",
		Line:       40,
		Rationale:  "computeTotal of items with taxRate gives a total that is not rounded",
		Suggestion: "Round the computeTotal result before display",
	}})

	if len(res.Misplaced) != 0 {
		t.Errorf("misplaced = %+v, want none for an in-place comment", res.Misplaced)
	}
	if len(res.Kept) != 1 {
		t.Errorf("kept = %d, want 1", len(res.Kept))
	}
}

func TestBestMatches_LimitAndOrder(t *testing.T) {
	root := t.TempDir()
	var b strings.Builder
	for i := 1; i <= 10; i++ {
		b.WriteString("const total = computeTotal(items, taxRate);\n")
	}
	writeFile(t, root, "many.ts", b.String())

	e := newEngine(t, root, Options{Fuzzy: true, MaxMatches: 3})
	e.Preload([]string{"many.ts"})

	matches := e.bestMatches("computeTotal items taxRate")
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i, m := range matches {
		if m.Line != i+1 {
			t.Errorf("match %d line = %d, want %d (tie-break by line)", i, m.Line, i+1)
		}
	}
}
