// Package fragmenter provides overlapping text chunking for embedding
// and retrieval.
package fragmenter

import "strings"

// DefaultChunkSize is the default number of characters per fragment.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 200

// separators is the hierarchical boundary preference: paragraph break,
// then line break, then word break. Raw character offsets are the last
// resort.
var separators = []string{"\n\n", "\n", " "}

// Splitter splits document text into fixed-size fragments with overlap,
// preferring semantic boundaries over exact offset slicing.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the fragment size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between fragments in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a new splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured fragment size.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split divides text into ordered fragments of at most chunkSize
// characters. Consecutive fragments overlap by up to the configured
// overlap; fragment boundaries snap to the best separator inside the
// overlap zone so that paragraphs and words are preferred over raw
// offsets. Empty input yields no fragments.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	n := len(text)
	step := s.chunkSize - s.overlap

	estimated := n/step + 1
	chunks := make([]string, 0, estimated)

	for start := 0; start < n; start += step {
		end := start + s.chunkSize
		if end >= n {
			end = n
		} else {
			// The boundary may move back as far as the next fragment's
			// start; anything earlier would open a coverage gap.
			end = breakpoint(text, start+step, end)
		}
		chunks = append(chunks, text[start:end])
	}

	return chunks
}

// breakpoint returns the preferred cut position in (floor, limit].
// It scans for the last separator occurrence, most semantic first,
// and falls back to the raw limit when none is found.
func breakpoint(text string, floor, limit int) int {
	window := text[floor:limit]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			cut := floor + idx + len(sep)
			if cut > floor {
				return cut
			}
		}
	}
	return limit
}
