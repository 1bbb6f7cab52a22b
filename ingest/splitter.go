package ingest

import (
	"strings"

	"github.com/poiesic/studyhall/core"
	"github.com/tmc/langchaingo/textsplitter"
)

const (
	// chunkSize is the target chunk length in characters.
	chunkSize = 1000
	// chunkOverlap is the number of characters shared between consecutive
	// chunks, so context at chunk boundaries survives retrieval.
	chunkOverlap = 200
)

// Splitter splits raw source text into overlapping fixed-size chunks.
// It prefers natural boundaries (paragraph, line, word) before falling back
// to hard character cuts.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// NewSplitter creates a splitter with the service-wide chunking policy:
// 1000-character chunks with 200-character overlap, length measured in
// characters rather than tokens.
func NewSplitter() Splitter {
	return Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// SplitText splits one text into ordered chunks.
// Blank input is a hard error surfaced before any indexing work.
func (s Splitter) SplitText(text string) ([]core.DocumentChunk, error) {
	if strings.TrimSpace(text) == "" {
		return nil, core.ErrEmptyContent
	}

	pieces, err := s.inner.SplitText(text)
	if err != nil {
		return nil, err
	}

	chunks := make([]core.DocumentChunk, 0, len(pieces))
	for _, piece := range pieces {
		if strings.TrimSpace(piece) == "" {
			continue
		}
		chunks = append(chunks, core.NewDocumentChunk(piece, len(chunks)))
	}
	if len(chunks) == 0 {
		return nil, core.ErrEmptyContent
	}
	return chunks, nil
}

// SplitPages splits page-level text (for example, extracted PDF pages) into
// ordered chunks. Pages are joined with paragraph breaks so the splitter
// prefers page boundaries.
func (s Splitter) SplitPages(pages []string) ([]core.DocumentChunk, error) {
	nonEmpty := make([]string, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page) != "" {
			nonEmpty = append(nonEmpty, page)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, core.ErrEmptyContent
	}
	return s.SplitText(strings.Join(nonEmpty, "\n\n"))
}
