package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	out := make([]string, n)
	for i := range out {
		out[i] = "w" + string(rune('a'+i%26))
	}
	return strings.Join(out, " ")
}

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker(100, 20)
	chunks := c.Split("just a few words here")
	require.Len(t, chunks, 1)
	assert.Equal(t, "just a few words here", chunks[0])
}

func TestChunker_OverlapCarriesContext(t *testing.T) {
	c := NewChunker(10, 3)
	chunks := c.Split(words(25))
	require.Len(t, chunks, 4) // windows start at 0, 7, 14, 21

	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	// Last 3 words of chunk 1 reappear at the head of chunk 2.
	assert.Equal(t, first[7:], second[:3])
}

func TestChunker_EmptyAndBlank(t *testing.T) {
	c := NewChunker(10, 2)
	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestChunker_DegenerateSettingsFallBack(t *testing.T) {
	c := NewChunker(0, -1)
	chunks := c.Split(words(10))
	require.Len(t, chunks, 1)

	// Overlap >= size would loop forever; it gets clamped instead.
	c = NewChunker(4, 10)
	chunks = c.Split(words(12))
	assert.NotEmpty(t, chunks)
}

func TestChunker_CoversAllWords(t *testing.T) {
	c := NewChunker(10, 3)
	text := words(40)
	chunks := c.Split(text)

	last := strings.Fields(chunks[len(chunks)-1])
	want := strings.Fields(text)
	assert.Equal(t, want[len(want)-1], last[len(last)-1])
}
