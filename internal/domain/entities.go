package domain

// SourceType identifies the corpus a document belongs to.
type SourceType string

const (
	SourceStatute     SourceType = "statute"
	SourceCaseLaw     SourceType = "case_law"
	SourceStorePolicy SourceType = "store_policy"
)

// Collection names, one per source type.
const (
	CollectionStatutes      = "statutes"
	CollectionCaseLaw       = "case_law"
	CollectionStorePolicies = "store_policies"
)

// AllCollections returns the collection names in canonical order.
func AllCollections() []string {
	return []string{CollectionStatutes, CollectionCaseLaw, CollectionStorePolicies}
}

// CollectionFor maps a source type to its collection name.
func CollectionFor(st SourceType) string {
	switch st {
	case SourceStatute:
		return CollectionStatutes
	case SourceCaseLaw:
		return CollectionCaseLaw
	case SourceStorePolicy:
		return CollectionStorePolicies
	}
	return ""
}

// Metadata carries the provenance of a chunk. Extra holds the
// type-specific fields (law name, court, judgment date, store section).
type Metadata struct {
	SourceType SourceType        `json:"source_type"`
	SourceID   string            `json:"source_id"`
	ChunkIndex int               `json:"chunk_index"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Chunk is the atomic retrievable unit. Its ID is content-addressed from
// (source id, chunk index), so re-ingesting a source overwrites in place.
type Chunk struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
}

// SearchResult is an ephemeral ranked hit. Score is in [0,1], higher is
// more relevant.
type SearchResult struct {
	Text     string   `json:"text"`
	Metadata Metadata `json:"metadata"`
	Score    float64  `json:"score"`
}

// DocumentRecord is a raw document as handed over by a document source:
// text plus provenance fields, before filtering and chunking.
type DocumentRecord struct {
	SourceID string            `json:"source_id" yaml:"source_id"`
	Title    string            `json:"title" yaml:"title"`
	Text     string            `json:"text" yaml:"text"`
	Fields   map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// CollectionStats reports the size of one collection.
type CollectionStats struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
}
