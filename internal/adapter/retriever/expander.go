package retriever

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number of synonyms appended per matched term. More would drown the
// original query terms in the term-frequency weighting.
const synonymsPerTerm = 2

// Expander augments a query with domain synonyms before indexing. The
// table is static and consulted read-only; expansion order follows the
// sorted key list so results are deterministic.
type Expander struct {
	keys  []string
	table map[string][]string
}

func NewExpander(table map[string][]string) *Expander {
	if table == nil {
		table = DefaultSynonyms()
	}
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Expander{keys: keys, table: table}
}

// LoadSynonyms reads a term -> synonyms mapping from a yaml file.
func LoadSynonyms(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file: %w", err)
	}
	var table map[string][]string
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse synonyms file: %w", err)
	}
	return table, nil
}

// Expand appends the top synonyms of every table key that appears as a
// substring of the query. Duplicates are tolerated; they only nudge term
// frequency.
func (e *Expander) Expand(query string) string {
	terms := []string{query}
	lower := strings.ToLower(query)

	for _, key := range e.keys {
		if !strings.Contains(lower, key) {
			continue
		}
		synonyms := e.table[key]
		if len(synonyms) > synonymsPerTerm {
			synonyms = synonyms[:synonymsPerTerm]
		}
		terms = append(terms, synonyms...)
	}
	return strings.Join(terms, " ")
}

// DefaultSynonyms is the built-in domain synonym table for app-launch
// legal triage queries.
func DefaultSynonyms() map[string][]string {
	return map[string][]string{
		"in-app purchase": {"in-app payment", "IAP", "in-app billing"},
		"personal data":   {"personal information", "user data", "privacy"},
		"copyright":       {"copyrighted work", "intellectual property", "IP"},
		"children":        {"minors", "kids", "child users"},
		"minors":          {"children", "kids"},
		"subscription":    {"auto-renewal", "recurring billing"},
		"refund":          {"cancellation", "chargeback"},
		"advertising":     {"ads", "advertisement"},
		"payment":         {"purchase", "billing"},
		"privacy":         {"personal data", "data protection"},
		"location":        {"geolocation", "location data"},
	}
}
