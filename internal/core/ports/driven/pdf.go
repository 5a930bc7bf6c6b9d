package driven

import "context"

// PDFExtractor extracts text and metadata from PDF files.
// Treated as an external collaborator: assumed correct and atomic.
type PDFExtractor interface {
	// ExtractText returns the full text content of the document.
	ExtractText(ctx context.Context, path string) (string, error)

	// ExtractPages returns the text of each page in order.
	ExtractPages(ctx context.Context, path string) ([]string, error)

	// ExtractMetadata returns the document properties.
	ExtractMetadata(ctx context.Context, path string) (PDFMetadata, error)
}

// PDFMetadata holds the document properties reported by the extractor.
type PDFMetadata struct {
	Title   string
	Author  string
	Subject string
	Pages   int
}

// CommandRunner executes an external command and returns its combined
// output. It exists so extractor adapters that shell out can be tested
// without the binary installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
