package ingest

import (
	"context"
	"fmt"
	"os"

	"github.com/tmc/langchaingo/documentloaders"
)

// extractPDFPages loads the PDF at path and returns its page-level text,
// in page order. Extraction failures are validation errors from the
// caller's point of view: no external service is involved.
func extractPDFPages(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("reading PDF size: %w", err)
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("extracting PDF text: %w", err)
	}

	pages := make([]string, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, doc.PageContent)
	}
	return pages, nil
}
