package keyword

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"legalrag/internal/domain"
)

// Index is the keyword/full-text retrieval channel, backed by a SQLite
// FTS5 table mirroring every ingested chunk. It is a second, independent
// signal next to the lexical-vector index; the ranker treats it as a
// collaborator that may fail or return nothing.
type Index struct {
	db *sql.DB
}

// Open opens (or creates) the keyword index at path.
func Open(path string) (*Index, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword index: %w", err)
	}

	const schema = `CREATE VIRTUAL TABLE IF NOT EXISTS chunk_fts USING fts5(
		id UNINDEXED,
		collection UNINDEXED,
		text,
		metadata UNINDEXED
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create fts table: %w", err)
	}

	return &Index{db: db}, nil
}

// Upsert replaces any rows sharing the batch's chunk ids, then inserts
// the batch, inside one transaction.
func (idx *Index) Upsert(collection string, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := idx.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin fts upsert: %w", err)
	}
	defer tx.Rollback()

	del, err := tx.Prepare(`DELETE FROM chunk_fts WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare fts delete: %w", err)
	}
	defer del.Close()

	ins, err := tx.Prepare(`INSERT INTO chunk_fts (id, collection, text, metadata) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare fts insert: %w", err)
	}
	defer ins.Close()

	for _, chunk := range chunks {
		meta, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return err
		}
		if _, err := del.Exec(chunk.ID); err != nil {
			return fmt.Errorf("failed to delete fts row %s: %w", chunk.ID, err)
		}
		if _, err := ins.Exec(chunk.ID, collection, chunk.Text, string(meta)); err != nil {
			return fmt.Errorf("failed to insert fts row %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit fts upsert: %w", err)
	}
	return nil
}

// Search returns up to k chunks matching the query, best first. The FTS5
// bm25 rank (lower is better, always <= 0) is mapped onto (0,1).
func (idx *Index) Search(query string, k int) ([]domain.SearchResult, error) {
	match := matchExpr(query)
	if match == "" || k <= 0 {
		return nil, nil
	}

	rows, err := idx.db.Query(
		`SELECT text, metadata, bm25(chunk_fts) FROM chunk_fts WHERE chunk_fts MATCH ? ORDER BY bm25(chunk_fts) LIMIT ?`,
		match, k,
	)
	if err != nil {
		return nil, fmt.Errorf("fts query failed: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var text, metaJSON string
		var rank float64
		if err := rows.Scan(&text, &metaJSON, &rank); err != nil {
			return nil, err
		}
		var meta domain.Metadata
		if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
			return nil, fmt.Errorf("corrupt fts metadata: %w", err)
		}
		results = append(results, domain.SearchResult{
			Text:     text,
			Metadata: meta,
			Score:    rankToScore(rank),
		})
	}
	return results, rows.Err()
}

// DeleteCollection removes all rows of one collection.
func (idx *Index) DeleteCollection(collection string) error {
	if _, err := idx.db.Exec(`DELETE FROM chunk_fts WHERE collection = ?`, collection); err != nil {
		return fmt.Errorf("failed to clear fts collection %s: %w", collection, err)
	}
	return nil
}

func (idx *Index) Close() error {
	return idx.db.Close()
}

// matchExpr quotes each query term and joins with OR. Quoting keeps user
// input from being parsed as FTS5 syntax; OR keeps the channel
// recall-oriented.
func matchExpr(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, `"'`)
		if f == "" {
			continue
		}
		terms = append(terms, `"`+strings.ReplaceAll(f, `"`, ``)+`"`)
	}
	return strings.Join(terms, " OR ")
}

// rankToScore maps the bm25 rank r (more negative = better) to a score in
// (0,1), higher = better.
func rankToScore(r float64) float64 {
	if r > 0 {
		r = 0
	}
	return -r / (1 - r)
}
