package retriever

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"math"
	"sort"
	"time"

	"legalrag/internal/domain"
	"legalrag/internal/port"
)

// Reciprocal rank fusion constants. The rank offset of 60 dampens top-1
// dominance; semantic results carry more weight than the keyword channel.
const (
	defaultRRFOffset      = 60
	defaultSemanticWeight = 0.7
	defaultKeywordWeight  = 0.3
)

// DefaultSourceWeights reflect how authoritative each document category
// is for legal-risk triage.
func DefaultSourceWeights() map[domain.SourceType]float64 {
	return map[domain.SourceType]float64{
		domain.SourceStatute:     1.0,
		domain.SourceCaseLaw:     0.9,
		domain.SourceStorePolicy: 0.8,
	}
}

// Options tune the fusion. Zero values fall back to defaults.
type Options struct {
	RRFOffset      int
	SemanticWeight float64
	KeywordWeight  float64
	SourceWeights  map[domain.SourceType]float64

	// ThresholdOnFused applies score_threshold to the weighted fused
	// score instead of the original channel score. The two live on
	// different scales (cosine similarity vs summed RRF terms), so the
	// default pre-fusion check can pass items that rank far apart; this
	// flag trades compatibility for consistent semantics.
	ThresholdOnFused bool
}

// HybridRanker fuses the per-collection semantic channel with the
// keyword channel via reciprocal rank fusion, applies source reliability
// weights, thresholds and truncates.
type HybridRanker struct {
	semantic port.SemanticSearcher
	keyword  port.KeywordSearcher
	expander *Expander
	log      *slog.Logger
	opts     Options
}

func NewHybridRanker(
	semantic port.SemanticSearcher,
	keyword port.KeywordSearcher,
	expander *Expander,
	log *slog.Logger,
	opts Options,
) *HybridRanker {
	if opts.RRFOffset <= 0 {
		opts.RRFOffset = defaultRRFOffset
	}
	if opts.SemanticWeight <= 0 {
		opts.SemanticWeight = defaultSemanticWeight
	}
	if opts.KeywordWeight <= 0 {
		opts.KeywordWeight = defaultKeywordWeight
	}
	if opts.SourceWeights == nil {
		opts.SourceWeights = DefaultSourceWeights()
	}
	if log == nil {
		log = slog.Default()
	}
	return &HybridRanker{
		semantic: semantic,
		keyword:  keyword,
		expander: expander,
		log:      log,
		opts:     opts,
	}
}

// fusedHit accumulates fusion terms for one distinct text.
type fusedHit struct {
	result        domain.SearchResult
	fused         float64
	originalScore float64
}

// Search runs the full ranking pipeline. A failed or empty channel
// contributes zero candidates; Search never fails for a degenerate
// corpus, so callers always get a well-formed (possibly empty) list.
func (r *HybridRanker) Search(query string, topK int, threshold float64, collections []string) []domain.SearchResult {
	start := time.Now()
	if topK <= 0 {
		topK = 5
	}
	if len(collections) == 0 {
		collections = domain.AllCollections()
	}

	searchQuery := query
	if r.expander != nil {
		searchQuery = r.expander.Expand(query)
	}

	var semanticResults []domain.SearchResult
	for _, col := range collections {
		hits, err := r.semantic.Query(col, searchQuery, 2*topK)
		if err != nil {
			r.log.Warn("semantic channel skipped", "collection", col, "error", err)
			continue
		}
		semanticResults = append(semanticResults, hits...)
	}

	var keywordResults []domain.SearchResult
	if r.keyword != nil {
		// The keyword channel sees the raw query; expansion only feeds
		// the lexical vector space.
		hits, err := r.keyword.Search(query, topK)
		if err != nil {
			r.log.Warn("keyword channel skipped", "error", err)
		} else {
			keywordResults = hits
		}
	}

	merged := make(map[string]*fusedHit)
	var order []string

	fuse := func(results []domain.SearchResult, weight float64) {
		for rank, res := range results {
			key := fingerprint(res.Text)
			hit, ok := merged[key]
			if !ok {
				hit = &fusedHit{result: res, originalScore: res.Score}
				merged[key] = hit
				order = append(order, key)
			}
			hit.fused += weight / float64(r.opts.RRFOffset+rank)
		}
	}
	fuse(semanticResults, r.opts.SemanticWeight)
	fuse(keywordResults, r.opts.KeywordWeight)

	results := make([]domain.SearchResult, 0, len(order))
	for _, key := range order {
		hit := merged[key]

		sourceWeight, ok := r.opts.SourceWeights[hit.result.Metadata.SourceType]
		if !ok {
			sourceWeight = 0.5
		}
		weighted := hit.fused * sourceWeight

		if r.opts.ThresholdOnFused {
			if weighted < threshold {
				continue
			}
		} else if hit.originalScore < threshold {
			continue
		}

		res := hit.result
		res.Score = round4(weighted)
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	r.log.Info("search complete",
		"query", query,
		"results", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return results
}

// fingerprint keys a result by its leading ~100 characters, merging
// duplicates surfaced by both channels.
func fingerprint(text string) string {
	runes := []rune(text)
	if len(runes) > 100 {
		runes = runes[:100]
	}
	sum := sha256.Sum256([]byte(string(runes)))
	return hex.EncodeToString(sum[:])
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
