package index

import (
	"fmt"
	"testing"

	"legalrag/internal/adapter/store"
	"legalrag/internal/domain"
)

func chunkFixture(id, text string) domain.Chunk {
	return domain.Chunk{
		ID:   id,
		Text: text,
		Metadata: domain.Metadata{
			SourceType: domain.SourceStatute,
			SourceID:   "statute_1",
		},
	}
}

func TestSearchRanksRelevantFirst(t *testing.T) {
	idx := Build([]domain.Chunk{
		chunkFixture("c1", "Article 15 processing of personal data requires the consent of the data subject"),
		chunkFixture("c2", "Article 20 advertising restrictions for broadcast media services"),
		chunkFixture("c3", "Article 31 personal data breach notification duties of the controller"),
	})

	results := idx.Search("personal data consent", 3)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	if results[0].Metadata.SourceID != "statute_1" {
		t.Errorf("metadata lost: %+v", results[0].Metadata)
	}

	// The consent clause should beat the advertising clause.
	first := results[0].Text
	if first != "Article 15 processing of personal data requires the consent of the data subject" {
		t.Errorf("unexpected top result: %q", first)
	}

	for i := 1; i < len(results); i++ {
		if results[i].Score > results[i-1].Score {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}
}

func TestSearchExcludesZeroScores(t *testing.T) {
	idx := Build([]domain.Chunk{
		chunkFixture("c1", "copyright infringement of software works"),
	})

	results := idx.Search("zzqq vvxx", 5)
	if len(results) != 0 {
		t.Errorf("expected no results for unrelated query, got %d", len(results))
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := Build(nil)
	if results := idx.Search("anything", 5); len(results) != 0 {
		t.Errorf("expected empty result for empty index, got %d", len(results))
	}
}

func TestSearchRespectsLimit(t *testing.T) {
	var chunks []domain.Chunk
	for i := 0; i < 10; i++ {
		chunks = append(chunks, chunkFixture(
			fmt.Sprintf("c%d", i),
			fmt.Sprintf("personal data clause number %d of the act", i),
		))
	}
	idx := Build(chunks)

	results := idx.Search("personal data", 3)
	if len(results) > 3 {
		t.Errorf("expected at most 3 results, got %d", len(results))
	}
}

func TestScoresRoundedToFourDecimals(t *testing.T) {
	idx := Build([]domain.Chunk{
		chunkFixture("c1", "user consent for data processing"),
		chunkFixture("c2", "court fees and filing deadlines"),
	})

	for _, r := range idx.Search("data processing consent", 2) {
		rounded := round4(r.Score)
		if r.Score != rounded {
			t.Errorf("score %v not rounded to 4 decimals", r.Score)
		}
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("score %v outside [0,1]", r.Score)
		}
	}
}

func TestCharGramsMatchPartialWords(t *testing.T) {
	idx := Build([]domain.Chunk{
		chunkFixture("c1", "telecommunications business act provisions"),
		chunkFixture("c2", "agricultural subsidies and farming grants"),
	})

	// Misspelled query still overlaps on char grams.
	results := idx.Search("telecomunications", 2)
	if len(results) == 0 {
		t.Fatal("expected char-gram match for near-miss query")
	}
	if results[0].Text != "telecommunications business act provisions" {
		t.Errorf("unexpected top result: %q", results[0].Text)
	}
}

func TestCachedSearcherRebuildsAfterUpsert(t *testing.T) {
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	col, _ := s.Collection(domain.CollectionStatutes)
	cs := NewCachedSearcher(s)

	results, err := cs.Query(domain.CollectionStatutes, "personal data", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results before ingest, got %d", len(results))
	}

	if err := col.Upsert([]domain.Chunk{
		chunkFixture("c1", "personal data protection obligations of processors"),
	}); err != nil {
		t.Fatal(err)
	}

	results, err = cs.Query(domain.CollectionStatutes, "personal data", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected rebuilt index to see new chunk, got %d results", len(results))
	}

	if err := col.Clear(); err != nil {
		t.Fatal(err)
	}
	results, err = cs.Query(domain.CollectionStatutes, "personal data", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results after clear, got %d", len(results))
	}
}

func TestCachedSearcherUnknownCollection(t *testing.T) {
	s, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	cs := NewCachedSearcher(s)
	if _, err := cs.Query("bogus", "query", 5); err == nil {
		t.Error("expected error for unknown collection")
	}
}
