package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.etcd.io/bbolt"

	"legalrag/internal/domain"
)

var bucketChunks = []byte("chunks")

// chunkRecord is the durable value stored per chunk id.
type chunkRecord struct {
	Text     string          `json:"text"`
	Metadata domain.Metadata `json:"metadata"`
}

// Collection is a named, durable set of chunks backed by one bbolt file.
// Writes go through a single write transaction, so a batch either fully
// lands or the prior state persists.
type Collection struct {
	name string
	path string

	mu  sync.Mutex // guards db replacement during Clear
	db  *bbolt.DB
	gen atomic.Uint64
}

func openCollection(dir, name string) (*Collection, error) {
	path := filepath.Join(dir, name+".db")
	db, err := openBolt(path)
	if err != nil {
		return nil, err
	}
	c := &Collection{name: name, path: path, db: db}
	c.gen.Store(1)
	return c, nil
}

func openBolt(path string) (*bbolt.DB, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketChunks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create chunk bucket: %w", err)
	}
	return db, nil
}

func (c *Collection) Name() string {
	return c.name
}

// Generation increments on every mutation; index caches use it to detect
// staleness.
func (c *Collection) Generation() uint64 {
	return c.gen.Load()
}

// Upsert writes the batch in one transaction. Existing ids are overwritten
// in place, new ids are added.
func (c *Collection) Upsert(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketChunks)
		for _, chunk := range chunks {
			data, err := json.Marshal(chunkRecord{Text: chunk.Text, Metadata: chunk.Metadata})
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(chunk.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", c.name, err)
	}
	c.gen.Add(1)
	return nil
}

// Count returns the number of chunks in the collection.
func (c *Collection) Count() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	err := c.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(bucketChunks).Stats().KeyN
		return nil
	})
	return count, err
}

// All returns every chunk, ordered by id.
func (c *Collection) All() ([]domain.Chunk, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var chunks []domain.Chunk
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChunks).ForEach(func(k, v []byte) error {
			var rec chunkRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt chunk record %s: %w", k, err)
			}
			chunks = append(chunks, domain.Chunk{
				ID:       string(k),
				Text:     rec.Text,
				Metadata: rec.Metadata,
			})
			return nil
		})
	})
	return chunks, err
}

// Clear removes every chunk and the underlying file, then reopens an
// empty collection.
func (c *Collection) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", c.name, err)
	}
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", c.path, err)
	}
	db, err := openBolt(c.path)
	if err != nil {
		return err
	}
	c.db = db
	c.gen.Add(1)
	return nil
}

func (c *Collection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// Store owns the three named collections, one durable file each.
type Store struct {
	dir  string
	cols map[string]*Collection
}

// Open creates the data directory if needed and opens every collection.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{dir: dir, cols: make(map[string]*Collection)}
	for _, name := range domain.AllCollections() {
		col, err := openCollection(dir, name)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.cols[name] = col
	}
	return s, nil
}

// Collection returns the named collection.
func (s *Store) Collection(name string) (*Collection, error) {
	col, ok := s.cols[name]
	if !ok {
		return nil, fmt.Errorf("unknown collection: %s", name)
	}
	return col, nil
}

// Stats reports chunk counts per collection, in canonical order.
func (s *Store) Stats() ([]domain.CollectionStats, error) {
	var stats []domain.CollectionStats
	for _, name := range domain.AllCollections() {
		count, err := s.cols[name].Count()
		if err != nil {
			return nil, err
		}
		stats = append(stats, domain.CollectionStats{Name: name, Chunks: count})
	}
	return stats, nil
}

func (s *Store) Close() error {
	var firstErr error
	for _, col := range s.cols {
		if err := col.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
