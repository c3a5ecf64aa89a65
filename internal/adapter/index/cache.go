package index

import (
	"sync"

	"legalrag/internal/adapter/store"
	"legalrag/internal/domain"
)

// CachedSearcher keeps one built Index per collection, stamped with the
// collection generation it was built from. A query against a mutated
// collection rebuilds lazily, so readers never see stale rankings.
type CachedSearcher struct {
	store *store.Store

	mu    sync.Mutex
	built map[string]builtIndex
}

type builtIndex struct {
	gen uint64
	idx *Index
}

func NewCachedSearcher(s *store.Store) *CachedSearcher {
	return &CachedSearcher{
		store: s,
		built: make(map[string]builtIndex),
	}
}

// Query ranks the collection's chunks against the query text.
func (cs *CachedSearcher) Query(collection, query string, n int) ([]domain.SearchResult, error) {
	col, err := cs.store.Collection(collection)
	if err != nil {
		return nil, err
	}

	idx, err := cs.indexFor(col)
	if err != nil {
		return nil, err
	}
	return idx.Search(query, n), nil
}

func (cs *CachedSearcher) indexFor(col *store.Collection) (*Index, error) {
	gen := col.Generation()

	cs.mu.Lock()
	cached, ok := cs.built[col.Name()]
	cs.mu.Unlock()
	if ok && cached.gen == gen {
		return cached.idx, nil
	}

	chunks, err := col.All()
	if err != nil {
		return nil, err
	}
	idx := Build(chunks)

	cs.mu.Lock()
	cs.built[col.Name()] = builtIndex{gen: gen, idx: idx}
	cs.mu.Unlock()
	return idx, nil
}
