package verify

import "testing"

func TestSimilarity_Identical(t *testing.T) {
	if s := Similarity("Add a null check", "Add a null check"); s != 1 {
		t.Errorf("identical texts = %v, want 1", s)
	}
}

func TestSimilarity_Empty(t *testing.T) {
	if s := Similarity("", "anything"); s != 0 {
		t.Errorf("empty vs text = %v, want 0", s)
	}
	if s := Similarity("...", "!!!"); s != 0 {
		t.Errorf("punctuation only = %v, want 0", s)
	}
}

func TestSimilarity_Reordered(t *testing.T) {
	a := "validate the user input before saving"
	b := "before saving validate the user input"
	if s := Similarity(a, b); s != 1 {
		t.Errorf("reordered tokens = %v, want 1", s)
	}
}

func TestSimilarity_Substring(t *testing.T) {
	a := "missing error check"
	b := "the function has a missing error check on the second return value"
	if s := Similarity(a, b); s != 1 {
		t.Errorf("substring = %v, want 1 via partial match", s)
	}
}

func TestSimilarity_TokenSubset(t *testing.T) {
	a := "null check id parameter"
	b := "the id parameter deserves a null check before any dereference happens"
	if s := Similarity(a, b); s != 1 {
		t.Errorf("token subset = %v, want 1 via set match", s)
	}
}

func TestSimilarity_Unrelated(t *testing.T) {
	a := "validate the user input before saving to the database"
	b := "renders the settings page header component"
	if s := Similarity(a, b); s >= 0.6 {
		t.Errorf("unrelated texts = %v, want < 0.6", s)
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"add bounds check", "bounds check should be added to the loop"},
		{"short", "a much longer different sentence entirely"},
	}
	for _, p := range pairs {
		ab := Similarity(p[0], p[1])
		ba := Similarity(p[1], p[0])
		if ab != ba {
			t.Errorf("Similarity(%q,%q)=%v != reversed %v", p[0], p[1], ab, ba)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"a b c", "a b c", 1},
		{"a b c d", "a b", 0.5},
		{"x y", "p q", 0},
		{"", "a", 0},
	}
	for _, tt := range tests {
		if got := TokenOverlap(tt.a, tt.b); got != tt.want {
			t.Errorf("TokenOverlap(%q,%q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestTokenOverlap_CaseAndPunctuation(t *testing.T) {
	a := "Add a null check on the id parameter."
	b := "add a NULL check on the id parameter"
	if got := TokenOverlap(a, b); got != 1 {
		t.Errorf("normalized overlap = %v, want 1", got)
	}
}
