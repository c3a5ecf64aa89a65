package index

import (
	"math"
	"sort"

	"legalrag/internal/domain"
)

// Weight of the word space vs the char space in the combined score. Word
// matching carries the semantic units; char grams recover partial and
// noisy matches.
const (
	wordWeight = 0.6
	charWeight = 0.4
)

// Index ranks the chunks of one collection by lexical cosine similarity
// across two complementary vector spaces. It is immutable once built.
type Index struct {
	chunks []domain.Chunk
	word   *vectorSpace
	char   *vectorSpace
}

// Build constructs the two vector spaces over the given chunks.
func Build(chunks []domain.Chunk) *Index {
	wordDocs := make([][]string, len(chunks))
	charDocs := make([][]string, len(chunks))
	for i, chunk := range chunks {
		wordDocs[i] = wordTokens(chunk.Text)
		charDocs[i] = charTokens(chunk.Text)
	}
	return &Index{
		chunks: chunks,
		word:   buildVectorSpace(wordDocs),
		char:   buildVectorSpace(charDocs),
	}
}

// Search returns the top n chunks by combined similarity, excluding
// zero-or-negative scores. Scores are rounded to 4 decimal places; ties
// break on chunk id for determinism.
func (idx *Index) Search(query string, n int) []domain.SearchResult {
	if len(idx.chunks) == 0 || n <= 0 {
		return nil
	}

	wordSim := idx.word.similarities(wordTokens(query))
	charSim := idx.char.similarities(charTokens(query))

	type scored struct {
		result domain.SearchResult
		id     string
	}
	hits := make([]scored, 0, len(idx.chunks))
	for i, chunk := range idx.chunks {
		score := round4(wordWeight*wordSim[i] + charWeight*charSim[i])
		if score <= 0 {
			continue
		}
		hits = append(hits, scored{
			result: domain.SearchResult{
				Text:     chunk.Text,
				Metadata: chunk.Metadata,
				Score:    score,
			},
			id: chunk.ID,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].result.Score != hits[j].result.Score {
			return hits[i].result.Score > hits[j].result.Score
		}
		return hits[i].id < hits[j].id
	})

	if len(hits) > n {
		hits = hits[:n]
	}
	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = h.result
	}
	return results
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
