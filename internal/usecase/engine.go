package usecase

import (
	"fmt"
	"log/slog"
	"time"

	"legalrag/config"
	"legalrag/internal/adapter/cache"
	"legalrag/internal/adapter/chunker"
	"legalrag/internal/adapter/filter"
	"legalrag/internal/adapter/index"
	"legalrag/internal/adapter/keyword"
	"legalrag/internal/adapter/retriever"
	"legalrag/internal/adapter/store"
	"legalrag/internal/domain"
	"legalrag/internal/port"
)

// Engine owns the full retrieval pipeline: durable chunk store, lexical
// and full-text channels, hybrid ranker and result cache. Every
// dependency hangs off this handle; two engines over different data
// dirs are fully independent.
type Engine struct {
	cfg *config.Config
	log *slog.Logger

	store     *store.Store
	keyword   *keyword.Index
	validator *filter.Validator
	chunker   port.Chunker
	ranker    *retriever.HybridRanker
	results   port.ResultCache
}

// NewEngine opens every durable resource under the configured data dir.
func NewEngine(cfg *config.Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	st, err := store.Open(cfg.StoreDir())
	if err != nil {
		return nil, err
	}

	kw, err := keyword.Open(cfg.KeywordDBPath())
	if err != nil {
		st.Close()
		return nil, err
	}

	synonyms := retriever.DefaultSynonyms()
	if cfg.Expansion.SynonymsFile != "" {
		synonyms, err = retriever.LoadSynonyms(cfg.Expansion.SynonymsFile)
		if err != nil {
			st.Close()
			kw.Close()
			return nil, err
		}
	}

	ranker := retriever.NewHybridRanker(
		index.NewCachedSearcher(st),
		kw,
		retriever.NewExpander(synonyms),
		log,
		rankerOptions(cfg.Ranker),
	)

	return &Engine{
		cfg:       cfg,
		log:       log,
		store:     st,
		keyword:   kw,
		validator: filter.NewValidator(),
		chunker:   chunker.NewTextChunker(chunkLimits(cfg.Chunking)),
		ranker:    ranker,
		results:   cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second),
	}, nil
}

func rankerOptions(rc config.RankerConfig) retriever.Options {
	opts := retriever.Options{
		RRFOffset:        rc.RRFOffset,
		SemanticWeight:   rc.SemanticWeight,
		KeywordWeight:    rc.KeywordWeight,
		ThresholdOnFused: rc.ThresholdOnFused,
	}
	if len(rc.SourceWeights) > 0 {
		opts.SourceWeights = make(map[domain.SourceType]float64, len(rc.SourceWeights))
		for st, w := range rc.SourceWeights {
			opts.SourceWeights[domain.SourceType(st)] = w
		}
	}
	return opts
}

func chunkLimits(cc config.ChunkingConfig) map[domain.SourceType]chunker.Limits {
	limits := chunker.DefaultLimits()
	apply := func(st domain.SourceType, cl config.ChunkLimits) {
		if cl.MaxSize > 0 {
			limits[st] = chunker.Limits{MaxSize: cl.MaxSize, Overlap: cl.Overlap}
		}
	}
	apply(domain.SourceStatute, cc.Statute)
	apply(domain.SourceCaseLaw, cc.CaseLaw)
	apply(domain.SourceStorePolicy, cc.StorePolicy)
	return limits
}

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	Documents int
	Skipped   int
	Chunks    int
}

// Ingest cleans, filters, chunks and stores a batch of documents of one
// source type. The noise check sees the raw text, where markup
// signatures live; the length and keyword checks see the cleaned text.
// Invalid documents are counted and skipped, never stored. The progress
// callback, if set, fires once per processed document.
func (e *Engine) Ingest(sourceType domain.SourceType, records []domain.DocumentRecord, progress func(done, total int)) (IngestReport, error) {
	collection := domain.CollectionFor(sourceType)
	if collection == "" {
		return IngestReport{}, fmt.Errorf("unknown source type: %s", sourceType)
	}

	var report IngestReport
	var chunks []domain.Chunk

	for i, rec := range records {
		if progress != nil {
			progress(i+1, len(records))
		}

		cleaned := chunker.CleanHTML(rec.Text)
		if e.validator.IsNoise(rec.Text) || !e.validator.IsValid(cleaned, sourceType) {
			report.Skipped++
			e.log.Debug("document skipped", "source_id", rec.SourceID, "type", sourceType)
			continue
		}

		meta := domain.Metadata{
			SourceType: sourceType,
			SourceID:   rec.SourceID,
			Extra:      recordFields(rec),
		}
		docChunks := e.chunker.Chunk(cleaned, meta)
		if len(docChunks) == 0 {
			report.Skipped++
			continue
		}

		report.Documents++
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) > 0 {
		col, err := e.store.Collection(collection)
		if err != nil {
			return report, err
		}
		if err := col.Upsert(chunks); err != nil {
			return report, err
		}
		if err := e.keyword.Upsert(collection, chunks); err != nil {
			return report, err
		}
	}
	report.Chunks = len(chunks)

	e.results.Flush()
	e.log.Info("ingest complete",
		"type", sourceType,
		"documents", report.Documents,
		"skipped", report.Skipped,
		"chunks", report.Chunks,
	)
	return report, nil
}

func recordFields(rec domain.DocumentRecord) map[string]string {
	if rec.Title == "" && len(rec.Fields) == 0 {
		return nil
	}
	fields := make(map[string]string, len(rec.Fields)+1)
	for k, v := range rec.Fields {
		fields[k] = v
	}
	if rec.Title != "" {
		fields["title"] = rec.Title
	}
	return fields
}

// Search runs the hybrid ranking pipeline. topK <= 0 and threshold < 0
// fall back to the configured defaults. Results are memoized per query
// signature until the cache TTL lapses or the corpus mutates.
func (e *Engine) Search(query string, topK int, threshold float64, collections []string) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = e.cfg.Ranker.TopK
	}
	if threshold < 0 {
		threshold = e.cfg.Ranker.ScoreThreshold
	}
	if len(collections) == 0 {
		collections = domain.AllCollections()
	}
	for _, col := range collections {
		if _, err := e.store.Collection(col); err != nil {
			return nil, err
		}
	}

	key := cache.Key(query, topK, threshold, collections)
	if hit, ok := e.results.Get(key); ok {
		e.log.Debug("cache hit", "query", query)
		return hit, nil
	}

	results := e.ranker.Search(query, topK, threshold, collections)
	e.results.Put(key, results)
	return results, nil
}

// Export returns every stored chunk of one collection, ordered by id.
func (e *Engine) Export(collection string) ([]domain.Chunk, error) {
	col, err := e.store.Collection(collection)
	if err != nil {
		return nil, err
	}
	return col.All()
}

// Stats reports the chunk count of every collection.
func (e *Engine) Stats() ([]domain.CollectionStats, error) {
	return e.store.Stats()
}

// Clear empties the named collections, or all of them when none are
// given. Both retrieval channels and the result cache are purged.
func (e *Engine) Clear(collections []string) error {
	if len(collections) == 0 {
		collections = domain.AllCollections()
	}

	for _, name := range collections {
		col, err := e.store.Collection(name)
		if err != nil {
			return err
		}
		if err := col.Clear(); err != nil {
			return err
		}
		if err := e.keyword.DeleteCollection(name); err != nil {
			return err
		}
		e.log.Info("collection cleared", "collection", name)
	}

	e.results.Flush()
	return nil
}

// Refresh drops memoized search results without touching stored data.
func (e *Engine) Refresh() {
	e.results.Flush()
}

// Close releases every durable resource.
func (e *Engine) Close() error {
	kwErr := e.keyword.Close()
	if err := e.store.Close(); err != nil {
		return err
	}
	return kwErr
}
