package retriever

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandAppendsTopTwoSynonyms(t *testing.T) {
	e := NewExpander(map[string][]string{
		"refund": {"cancellation", "chargeback", "reversal"},
	})

	got := e.Expand("app refund policy")
	if !strings.HasPrefix(got, "app refund policy") {
		t.Errorf("original query must come first: %q", got)
	}
	if !strings.Contains(got, "cancellation") || !strings.Contains(got, "chargeback") {
		t.Errorf("expected top-2 synonyms appended: %q", got)
	}
	if strings.Contains(got, "reversal") {
		t.Errorf("only top-2 synonyms should be appended: %q", got)
	}
}

func TestExpandNoMatch(t *testing.T) {
	e := NewExpander(DefaultSynonyms())

	query := "unrelated gardening question"
	if got := e.Expand(query); got != query {
		t.Errorf("query without table terms must pass through, got %q", got)
	}
}

func TestExpandIsDeterministic(t *testing.T) {
	e := NewExpander(DefaultSynonyms())

	query := "personal data and payment handling"
	first := e.Expand(query)
	for i := 0; i < 10; i++ {
		if got := e.Expand(query); got != first {
			t.Fatalf("expansion order must be stable: %q vs %q", got, first)
		}
	}
}

func TestExpandCaseInsensitiveMatch(t *testing.T) {
	e := NewExpander(DefaultSynonyms())

	got := e.Expand("Copyright takedown for Apps")
	if !strings.Contains(got, "copyrighted work") {
		t.Errorf("expected case-insensitive key match: %q", got)
	}
}

func TestLoadSynonymsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "synonyms.yaml")
	content := "gambling:\n  - betting\n  - wagering\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadSynonyms(path)
	if err != nil {
		t.Fatal(err)
	}
	e := NewExpander(table)
	if got := e.Expand("gambling app"); !strings.Contains(got, "betting") {
		t.Errorf("expected synonyms from file: %q", got)
	}
}
