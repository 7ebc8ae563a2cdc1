// Package corpus loads the source novel and exposes it as fixed-size chunks.
// Chunk identity is the chunk's integer position; the vector index stores the
// same position as the entry id, so a match id maps straight back to its text.
package corpus

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"
)

var (
	ErrEmptyDocument = errors.New("document contains no extractable text")
)

// Corpus is the read-only chunked source text, loaded once at process start
// and shared freely across concurrent requests.
type Corpus struct {
	chunks []string
}

// New wraps pre-chunked text in a Corpus.
func New(chunks []string) *Corpus {
	return &Corpus{chunks: chunks}
}

// LoadPDF extracts the plain text of a PDF and chunks it.
func LoadPDF(path string, chunkSize int) (*Corpus, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, fmt.Errorf("failed to read extracted text: %w", err)
	}

	text := buf.String()
	if text == "" {
		return nil, ErrEmptyDocument
	}

	return New(ChunkText(text, chunkSize)), nil
}

// Len returns the number of chunks.
func (c *Corpus) Len() int {
	return len(c.chunks)
}

// Chunk returns the chunk at position i, or "" when i is out of range.
// Out-of-range ids come from stale index entries and are filtered upstream.
func (c *Corpus) Chunk(i int) string {
	if i < 0 || i >= len(c.chunks) {
		return ""
	}
	return c.chunks[i]
}

// Chunks returns the full chunk slice. Callers must not mutate it.
func (c *Corpus) Chunks() []string {
	return c.chunks
}
