package chunker

import (
	"regexp"
	"strings"

	"legalrag/internal/domain"
)

// A boundary rule marks where a new structural unit begins. Splitting cuts
// the text at each match start, so the marker (article number, section
// header) stays attached to the segment it introduces.
type boundaryRule struct {
	pattern *regexp.Regexp
}

// Limits bound chunk size and inter-chunk carry-over, in runes.
type Limits struct {
	MaxSize int
	Overlap int
}

// DefaultLimits returns the per-source-type size defaults. Case law gets
// larger chunks: legal reasoning needs more context per excerpt.
func DefaultLimits() map[domain.SourceType]Limits {
	return map[domain.SourceType]Limits{
		domain.SourceStatute:     {MaxSize: 800, Overlap: 150},
		domain.SourceCaseLaw:     {MaxSize: 1200, Overlap: 300},
		domain.SourceStorePolicy: {MaxSize: 800, Overlap: 150},
	}
}

// defaultBoundaries returns the per-source-type boundary table. Store
// policies are flat text and have no structural boundary.
func defaultBoundaries() map[domain.SourceType]boundaryRule {
	return map[domain.SourceType]boundaryRule{
		domain.SourceStatute: {
			pattern: regexp.MustCompile(`(?i)\b(?:article|section)\s+\d+[.(\s]`),
		},
		domain.SourceCaseLaw: {
			pattern: regexp.MustCompile(`(?i)\[(?:holding|summary|reasoning|disposition|facts|order|claims|references)\]`),
		},
	}
}

// splitAtBoundaries cuts text at the start of each boundary match. Text
// before the first match becomes its own segment. A text with no matches
// yields a single segment.
func splitAtBoundaries(text string, rule boundaryRule) []string {
	locs := rule.pattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nonEmpty([]string{text})
	}

	var segments []string
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			segments = append(segments, text[prev:loc[0]])
		}
		prev = loc[0]
	}
	segments = append(segments, text[prev:])
	return nonEmpty(segments)
}

func nonEmpty(segments []string) []string {
	out := segments[:0]
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
