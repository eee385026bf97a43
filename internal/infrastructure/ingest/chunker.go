package ingest

import "strings"

// Chunker splits document text into overlapping word-window chunks. Sizes
// are in words; overlap carries context across chunk boundaries so answers
// near a boundary are not cut off from their surroundings.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker builds a chunker. Degenerate settings fall back to 300/50.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 300
	}
	if overlap < 0 || overlap >= size {
		overlap = 50
		if overlap >= size {
			overlap = size / 4
		}
	}
	return &Chunker{size: size, overlap: overlap}
}

// Split returns the chunk texts in document order. Blank input yields nil.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
