package filter

import (
	"regexp"
	"strings"

	"legalrag/internal/domain"
)

// noisePattern matches markup, stylesheet and script debris that leaks
// from upstream scrapers into document text.
var noisePattern = regexp.MustCompile(`(?i)/DRF/|\.css\b|\.js\b|\.jpg\b|\.png\b|\.gif\b|font-family:|font-size:|text-align:|margin-top:|padding:|background-color:|border:|<script|<style|jquery|ext-all|resources/css`)

const (
	maxNoiseMatches = 3
	maxSlashRatio   = 0.05
	minRawLength    = 10
	minKeywordHits  = 2
)

// Validator decides whether scraped text is a usable legal excerpt.
// It is a pure predicate: no side effects, applied once at ingestion.
type Validator struct {
	minLengths map[domain.SourceType]int
	keywords   map[domain.SourceType][]string
}

func NewValidator() *Validator {
	return &Validator{
		minLengths: map[domain.SourceType]int{
			domain.SourceStatute:     100,
			domain.SourceCaseLaw:     80,
			domain.SourceStorePolicy: 50,
		},
		keywords: map[domain.SourceType][]string{
			domain.SourceStatute: {
				"article", "section", "clause", "paragraph", "act", "law",
				"regulation", "provision", "enforcement", "pursuant",
			},
			domain.SourceCaseLaw: {
				"holding", "ruling", "judgment", "plaintiff", "defendant",
				"court", "appeal", "claim", "violation", "infringement",
				"reasoning", "disposition",
			},
			domain.SourceStorePolicy: {
				"app", "policy", "guideline", "review", "content", "data",
				"user", "developer",
			},
		},
	}
}

// IsNoise reports whether text is markup/script debris: too many noise
// pattern hits, or a path-separator density typical of resource URLs.
func (v *Validator) IsNoise(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minRawLength {
		return true
	}
	if len(noisePattern.FindAllStringIndex(text, -1)) >= maxNoiseMatches {
		return true
	}
	slashes := strings.Count(text, "/")
	if float64(slashes)/float64(len(text)) > maxSlashRatio {
		return true
	}
	return false
}

// IsValid reports whether cleaned text is a usable excerpt of the given
// source type. Any failing check rejects.
func (v *Validator) IsValid(text string, sourceType domain.SourceType) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if v.IsNoise(text) {
		return false
	}

	minLen, ok := v.minLengths[sourceType]
	if !ok {
		minLen = 50
	}
	if len([]rune(trimmed)) < minLen {
		return false
	}

	keywords, ok := v.keywords[sourceType]
	if !ok {
		keywords = v.keywords[domain.SourceStatute]
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			hits++
			if hits >= minKeywordHits {
				return true
			}
		}
	}
	return false
}
