package store

import (
	"testing"

	"legalrag/internal/domain"
)

func testChunk(id, text string) domain.Chunk {
	return domain.Chunk{
		ID:   id,
		Text: text,
		Metadata: domain.Metadata{
			SourceType: domain.SourceStatute,
			SourceID:   "statute_1",
		},
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	col, err := s.Collection(domain.CollectionStatutes)
	if err != nil {
		t.Fatal(err)
	}

	if err := col.Upsert([]domain.Chunk{testChunk("c1", "first version")}); err != nil {
		t.Fatal(err)
	}
	if err := col.Upsert([]domain.Chunk{testChunk("c1", "second version")}); err != nil {
		t.Fatal(err)
	}

	count, err := col.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 chunk after double upsert, got %d", count)
	}

	chunks, err := col.All()
	if err != nil {
		t.Fatal(err)
	}
	if chunks[0].Text != "second version" {
		t.Errorf("expected latest text to win, got %q", chunks[0].Text)
	}
}

func TestUpsertBumpsGeneration(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	col, _ := s.Collection(domain.CollectionCaseLaw)
	before := col.Generation()
	if err := col.Upsert([]domain.Chunk{testChunk("c1", "text")}); err != nil {
		t.Fatal(err)
	}
	if col.Generation() == before {
		t.Error("expected generation to change after upsert")
	}
}

func TestClearEmptiesCollection(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	col, _ := s.Collection(domain.CollectionStorePolicies)
	if err := col.Upsert([]domain.Chunk{testChunk("c1", "text"), testChunk("c2", "more")}); err != nil {
		t.Fatal(err)
	}
	if err := col.Clear(); err != nil {
		t.Fatal(err)
	}

	count, err := col.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected empty collection after clear, got %d", count)
	}

	// Cleared collection is still writable.
	if err := col.Upsert([]domain.Chunk{testChunk("c3", "fresh")}); err != nil {
		t.Fatal(err)
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	col, _ := s.Collection(domain.CollectionStatutes)
	if err := col.Upsert([]domain.Chunk{testChunk("c1", "durable")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	col2, _ := s2.Collection(domain.CollectionStatutes)
	chunks, err := col2.All()
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0].Text != "durable" {
		t.Fatalf("expected chunk to survive reopen, got %v", chunks)
	}
}

func TestUnknownCollection(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Collection("nonexistent"); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestStats(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	col, _ := s.Collection(domain.CollectionStatutes)
	col.Upsert([]domain.Chunk{testChunk("c1", "a"), testChunk("c2", "b")})

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 3 {
		t.Fatalf("expected stats for 3 collections, got %d", len(stats))
	}
	if stats[0].Name != domain.CollectionStatutes || stats[0].Chunks != 2 {
		t.Errorf("unexpected stats entry: %+v", stats[0])
	}
}
