package port

import "legalrag/internal/domain"

// SemanticSearcher ranks the chunks of one collection against a query.
type SemanticSearcher interface {
	Query(collection, query string, n int) ([]domain.SearchResult, error)
}

// KeywordSearcher is the external full-text channel. It may be nil or
// unavailable; callers treat a failure as an empty channel.
type KeywordSearcher interface {
	Search(query string, k int) ([]domain.SearchResult, error)
}

// Chunker splits a cleaned document into bounded chunks.
type Chunker interface {
	Chunk(text string, meta domain.Metadata) []domain.Chunk
}

// ResultCache holds recent search results keyed by query signature.
type ResultCache interface {
	Get(key string) ([]domain.SearchResult, bool)
	Put(key string, results []domain.SearchResult)
	Flush()
}
