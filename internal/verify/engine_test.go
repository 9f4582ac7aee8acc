package verify

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// reviewRoot creates a repo with a.ts holding a 5-line foo function.
func reviewRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "a.ts", `export function foo(id) {
  const value = lookup(id);
  const doubled = value * 2;
  return doubled;
}
`)
	return root
}

func newEngine(t *testing.T, root string, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(root, opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func hasReason(d Dropped, reason string) bool {
	for _, r := range d.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

func TestVerify_KeepsGroundedComment(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})
	e.SetSymbols(map[string][]string{"a.ts": {"foo"}})

	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       3,
		Severity:   SeverityMajor,
		Rationale:  "foo dereferences id without checking for null",
		Suggestion: "Add a null check on the id parameter before calling foo",
	}})

	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d (%+v), want 1", len(res.Kept), res.Dropped)
	}
	if len(res.Dropped) != 0 {
		t.Errorf("dropped = %+v, want none", res.Dropped)
	}
}

func TestVerify_DuplicateComment(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})
	e.SetSymbols(map[string][]string{"a.ts": {"foo"}})

	rationale := "Add a null check on the id parameter before calling foo"
	res := e.Verify([]Comment{
		{File: "a.ts", Line: 3, Rationale: rationale,
			Suggestion: "Add a null check on the id parameter before calling foo"},
		{File: "a.ts", Line: 4, Rationale: rationale,
			Suggestion: "Guard against a missing id before foo runs"},
	})

	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d, want 1", len(res.Kept))
	}
	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonDuplicate) {
		t.Fatalf("dropped = %+v, want one duplicate-comment", res.Dropped)
	}
}

func TestVerify_InvalidLine(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})

	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       999,
		Rationale:  "points past the end of the file entirely",
		Suggestion: "Move this comment to a line that exists",
	}})

	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonInvalidLocation) {
		t.Fatalf("dropped = %+v, want invalid-file-or-line", res.Dropped)
	}
}

func TestVerify_MissingFile(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})

	res := e.Verify([]Comment{{
		File:       "ghost.ts",
		Line:       1,
		Rationale:  "refers to a file that does not exist",
		Suggestion: "Point the comment at a real file instead",
	}})

	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonInvalidLocation) {
		t.Fatalf("dropped = %+v, want invalid-file-or-line", res.Dropped)
	}
}

func TestVerify_WeakSuggestion(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})

	tests := []struct {
		name       string
		suggestion string
	}{
		{"too short", "fixup"},
		{"boilerplate", "You should consider refactoring this function"},
		{"boilerplate tests", "Please add tests for this module"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Verify([]Comment{{
				File:       "a.ts",
				Line:       2,
				Rationale:  "the lookup result is used without validation",
				Suggestion: tt.suggestion,
			}})
			if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonWeakSuggestion) {
				t.Fatalf("dropped = %+v, want suggestion-too-weak", res.Dropped)
			}
		})
	}
}

func TestVerify_ReasonsAccumulate(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})

	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       500,
		Rationale:  "bad line and weak suggestion at once",
		Suggestion: "short",
	}})

	if len(res.Dropped) != 1 {
		t.Fatalf("dropped = %d, want 1", len(res.Dropped))
	}
	d := res.Dropped[0]
	if !hasReason(d, ReasonInvalidLocation) || !hasReason(d, ReasonWeakSuggestion) {
		t.Errorf("reasons = %v, want both invalid-file-or-line and suggestion-too-weak", d.Reasons)
	}
}

func TestVerify_SymbolGrounding(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})
	e.SetSymbols(map[string][]string{"a.ts": {"foo"}})

	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       2,
		Rationale:  "this code is questionable in general terms",
		Suggestion: "Rewrite the whole block with better structure",
	}})
	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonNoSymbolReference) {
		t.Fatalf("dropped = %+v, want no-symbol-reference", res.Dropped)
	}
}

func TestVerify_SymbolGroundingWordBoundary(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})
	e.SetSymbols(map[string][]string{"a.ts": {"foo"}})

	// "foobar" contains "foo" but not on a word boundary.
	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       2,
		Rationale:  "foobar handling is wrong here",
		Suggestion: "Rework the foobar handling codepath",
	}})
	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonNoSymbolReference) {
		t.Fatalf("dropped = %+v, want no-symbol-reference", res.Dropped)
	}
}

func TestVerify_NoSymbolsPassThrough(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})
	// No symbol list registered for a.ts at all.

	res := e.Verify([]Comment{{
		File:       "a.ts",
		Line:       2,
		Rationale:  "generic but valid observation about the lookup",
		Suggestion: "Cache the lookup result outside the loop body",
	}})
	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d (%+v), want 1", len(res.Kept), res.Dropped)
	}
}

func TestVerify_MissingFields(t *testing.T) {
	e := newEngine(t, reviewRoot(t), Options{})

	res := e.Verify([]Comment{{
		Line:       1,
		Rationale:  "",
		Suggestion: "A suggestion without a file or rationale",
	}})
	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonMissingField) {
		t.Fatalf("dropped = %+v, want missing-field", res.Dropped)
	}
}

func TestVerify_FuzzyDuplicate(t *testing.T) {
	root := reviewRoot(t)
	writeFile(t, root, "b.ts", strings.Repeat("const filler = 0;\n", 10))

	e := newEngine(t, root, Options{Fuzzy: true})

	res := e.Verify([]Comment{
		{File: "a.ts", Line: 2,
			Rationale:  "validate the user input before saving to the database",
			Suggestion: "Run the validator before persisting the record"},
		{File: "b.ts", Line: 5,
			Rationale:  "before saving to the database validate the user input",
			Suggestion: "Persist the record only after the validator ran"},
	})

	if len(res.Kept) != 1 {
		t.Fatalf("kept = %d, want 1", len(res.Kept))
	}
	if len(res.Dropped) != 1 || !hasReason(res.Dropped[0], ReasonFuzzyDuplicate) {
		t.Fatalf("dropped = %+v, want fuzzy-duplicate", res.Dropped)
	}
}

func TestVerify_Deterministic(t *testing.T) {
	root := reviewRoot(t)
	comments := []Comment{
		{File: "a.ts", Line: 2, Rationale: "lookup result unchecked",
			Suggestion: "Check the lookup result before multiplying"},
		{File: "a.ts", Line: 3, Rationale: "doubling may overflow",
			Suggestion: "Clamp the doubled value to a safe maximum"},
		{File: "a.ts", Line: 99, Rationale: "points nowhere",
			Suggestion: "Attach this to an existing line"},
	}

	run := func() Result {
		e := newEngine(t, root, Options{Fuzzy: true})
		return e.Verify(comments)
	}
	r1 := run()
	r2 := run()
	if !reflect.DeepEqual(r1, r2) {
		t.Errorf("verification not deterministic:\n%+v\nvs\n%+v", r1, r2)
	}
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"negative confidence", Options{MinConfidence: -0.5}},
		{"confidence above one", Options{MinConfidence: 1.5}},
		{"negative max matches", Options{MaxMatches: -1}},
		{"negative suggestion length", Options{MinSuggestionLen: -3}},
		{"negative line delta", Options{LineDelta: -1}},
		{"bad exact threshold", Options{ExactDupThreshold: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEngine(t.TempDir(), tt.opts); err == nil {
				t.Errorf("expected construction error for %+v", tt.opts)
			}
		})
	}
}
