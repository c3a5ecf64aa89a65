package keyword

import (
	"path/filepath"
	"testing"

	"legalrag/internal/domain"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(filepath.Join(t.TempDir(), "keyword.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func chunkFixture(id, text string, st domain.SourceType) domain.Chunk {
	return domain.Chunk{
		ID:       id,
		Text:     text,
		Metadata: domain.Metadata{SourceType: st, SourceID: "src_" + id},
	}
}

func TestUpsertAndSearch(t *testing.T) {
	idx := openTestIndex(t)

	err := idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "Article 15 personal data requires consent", domain.SourceStatute),
		chunkFixture("c2", "Article 20 advertising on broadcast media", domain.SourceStatute),
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search("personal data consent", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) == 0 {
		t.Fatal("expected keyword hits")
	}
	if results[0].Metadata.SourceID != "src_c1" {
		t.Errorf("expected consent chunk first, got %+v", results[0].Metadata)
	}
	for _, r := range results {
		if r.Score < 0 || r.Score >= 1 {
			t.Errorf("score %v outside [0,1)", r.Score)
		}
	}
}

func TestUpsertOverwritesById(t *testing.T) {
	idx := openTestIndex(t)

	if err := idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "first text about refunds", domain.SourceStatute),
	}); err != nil {
		t.Fatal(err)
	}
	if err := idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "second text about refunds", domain.SourceStatute),
	}); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search("refunds", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 row after overwrite, got %d", len(results))
	}
	if results[0].Text != "second text about refunds" {
		t.Errorf("expected latest text, got %q", results[0].Text)
	}
}

func TestDeleteCollection(t *testing.T) {
	idx := openTestIndex(t)

	idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "statute text about payment", domain.SourceStatute),
	})
	idx.Upsert(domain.CollectionCaseLaw, []domain.Chunk{
		chunkFixture("c2", "case text about payment", domain.SourceCaseLaw),
	})

	if err := idx.DeleteCollection(domain.CollectionStatutes); err != nil {
		t.Fatal(err)
	}

	results, err := idx.Search("payment", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the case-law row to remain, got %d", len(results))
	}
	if results[0].Metadata.SourceType != domain.SourceCaseLaw {
		t.Errorf("wrong row survived: %+v", results[0].Metadata)
	}
}

func TestSearchQuotesSpecialSyntax(t *testing.T) {
	idx := openTestIndex(t)

	idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "liability for near misses", domain.SourceStatute),
	})

	// FTS5 operators in user input must not cause query errors.
	if _, err := idx.Search(`liability NEAR/2 "misses`, 5); err != nil {
		t.Fatalf("special syntax should be neutralized: %v", err)
	}
}

func TestUpsertAfterCloseFails(t *testing.T) {
	idx, err := Open(filepath.Join(t.TempDir(), "keyword.db"))
	if err != nil {
		t.Fatal(err)
	}
	idx.Close()

	err = idx.Upsert(domain.CollectionStatutes, []domain.Chunk{
		chunkFixture("c1", "text after close", domain.SourceStatute),
	})
	if err == nil {
		t.Error("expected an error writing to a closed index")
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := openTestIndex(t)

	results, err := idx.Search("   ", 5)
	if err != nil {
		t.Fatal(err)
	}
	if results != nil {
		t.Errorf("expected nil results for blank query, got %v", results)
	}
}
