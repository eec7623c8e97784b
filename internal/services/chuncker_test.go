package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunkText_PacksParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	text := "First paragraph about turnover criteria.\n\nSecond paragraph about EMD requirements.\n\nThird paragraph about penalty clauses."
	chunks := chunker.ChunkText(text, 1000, 0)

	assert.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "turnover criteria")
	assert.Contains(t, chunks[0], "penalty clauses")
}

func TestChunkText_SplitsOversizedParagraphs(t *testing.T) {
	chunker := NewTextChunker()

	text := strings.Repeat("x", 2500)
	chunks := chunker.ChunkText(text, 1000, 0)

	assert.GreaterOrEqual(t, len(chunks), 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 1000)
	}
}

func TestChunkText_EmptyInput(t *testing.T) {
	chunker := NewTextChunker()
	assert.Empty(t, chunker.ChunkText("", 1000, 100))
}
