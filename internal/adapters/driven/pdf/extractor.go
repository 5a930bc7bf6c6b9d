// Package pdf extracts text and metadata from PDF files by shelling
// out to the poppler-utils tools (pdftotext, pdfinfo).
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PDFExtractor = (*Extractor)(nil)

// ErrPDFToolNotFound is returned when the poppler tools are not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// pageSeparator is the form-feed character pdftotext emits between pages.
const pageSeparator = "\f"

// execRunner runs commands via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor extracts PDF content using external poppler binaries.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates an extractor that shells out to pdftotext and pdfinfo.
func New() *Extractor {
	return &Extractor{runner: execRunner{}}
}

// NewWithRunner creates an extractor with a custom command runner.
// Used in tests to avoid requiring the binaries.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// CheckAvailable verifies that pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns platform-specific install guidance.
func InstallInstructions() string {
	return `pdftotext is required for PDF extraction. Install it with:

  macOS:         brew install poppler
  Ubuntu/Debian: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils
  Arch:          sudo pacman -S poppler`
}

// ExtractText returns the full text of the document with page breaks
// collapsed to blank lines.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrParseFailed, path, err)
	}

	text := strings.ReplaceAll(string(out), pageSeparator, "\n\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no extractable text in %s", domain.ErrParseFailed, path)
	}
	return text, nil
}

// ExtractPages returns the text of each page in order. Trailing empty
// pages are kept so page numbers stay aligned with the document.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]string, error) {
	out, err := e.runner.Run(ctx, "pdftotext", "-layout", path, "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed for %s: %v", domain.ErrParseFailed, path, err)
	}

	raw := strings.TrimSuffix(string(out), pageSeparator)
	pages := strings.Split(raw, pageSeparator)
	for i := range pages {
		pages[i] = strings.TrimSpace(pages[i])
	}
	return pages, nil
}

// ExtractMetadata returns the document properties reported by pdfinfo.
func (e *Extractor) ExtractMetadata(ctx context.Context, path string) (driven.PDFMetadata, error) {
	out, err := e.runner.Run(ctx, "pdfinfo", path)
	if err != nil {
		return driven.PDFMetadata{}, fmt.Errorf("%w: pdfinfo failed for %s: %v", domain.ErrParseFailed, path, err)
	}
	return parseInfo(string(out)), nil
}

// parseInfo reads the "Key: value" lines pdfinfo prints.
func parseInfo(out string) driven.PDFMetadata {
	var meta driven.PDFMetadata

	for _, line := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Title":
			meta.Title = value
		case "Author":
			meta.Author = value
		case "Subject":
			meta.Subject = value
		case "Pages":
			if n, err := strconv.Atoi(value); err == nil {
				meta.Pages = n
			}
		}
	}
	return meta
}
