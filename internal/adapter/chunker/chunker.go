package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"legalrag/internal/domain"
)

// TextChunker splits validated documents into bounded, context-preserving
// chunks. Statutes split on article boundaries, case law on section
// headers, everything else on fixed-size windows.
type TextChunker struct {
	boundaries map[domain.SourceType]boundaryRule
	limits     map[domain.SourceType]Limits
}

func NewTextChunker(limits map[domain.SourceType]Limits) *TextChunker {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &TextChunker{
		boundaries: defaultBoundaries(),
		limits:     limits,
	}
}

// Chunk cleans raw text and splits it into chunks carrying the parent
// metadata. Chunk indices are 0-based and contiguous; ids are derived from
// (source id, chunk index) so re-chunking the same source is idempotent.
func (c *TextChunker) Chunk(text string, meta domain.Metadata) []domain.Chunk {
	cleaned := CleanHTML(text)
	if cleaned == "" {
		return nil
	}

	limits, ok := c.limits[meta.SourceType]
	if !ok {
		limits = Limits{MaxSize: 800, Overlap: 150}
	}

	var segments []string
	if rule, ok := c.boundaries[meta.SourceType]; ok {
		segments = splitAtBoundaries(cleaned, rule)
	} else {
		segments = []string{cleaned}
	}
	if len(segments) == 0 {
		segments = []string{cleaned}
	}

	var chunks []domain.Chunk
	current := ""

	for _, segment := range segments {
		if runeLen(current)+runeLen(segment)+1 <= limits.MaxSize {
			if current != "" {
				current += " "
			}
			current += segment
			continue
		}

		if current != "" {
			chunks = appendChunk(chunks, current, meta)
		}

		if runeLen(segment) > limits.MaxSize {
			for _, window := range splitWindows(segment, limits.MaxSize, limits.Overlap) {
				chunks = appendChunk(chunks, window, meta)
			}
			current = ""
		} else {
			current = segment
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = appendChunk(chunks, strings.TrimSpace(current), meta)
	}

	return chunks
}

// splitWindows cuts an oversized segment into fixed-size windows of
// maxSize runes, each window carrying over the trailing overlap runes of
// the previous one.
func splitWindows(segment string, maxSize, overlap int) []string {
	runes := []rune(segment)
	step := maxSize - overlap
	if step <= 0 {
		step = maxSize
	}

	var windows []string
	for i := 0; i < len(runes); i += step {
		end := i + maxSize
		if end > len(runes) {
			end = len(runes)
		}
		window := strings.TrimSpace(string(runes[i:end]))
		if window != "" {
			windows = append(windows, window)
		}
	}
	return windows
}

func appendChunk(chunks []domain.Chunk, text string, meta domain.Metadata) []domain.Chunk {
	idx := len(chunks)
	chunkMeta := meta
	chunkMeta.ChunkIndex = idx
	return append(chunks, domain.Chunk{
		ID:       ChunkID(meta.SourceID, idx),
		Text:     text,
		Metadata: chunkMeta,
	})
}

// ChunkID derives a stable content address from (source id, chunk index).
func ChunkID(sourceID string, index int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s_chunk_%d", sourceID, index)))
	return hex.EncodeToString(hash[:8])
}

func runeLen(s string) int {
	return len([]rune(s))
}
