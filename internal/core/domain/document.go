package domain

import "time"

// Document represents an ingested PDF document with its metadata.
// Documents are created on ingestion and never mutated; removing a
// document cascades to all of its fragments.
type Document struct {
	// Filename is the unique identifier for the document.
	Filename string

	// Title is the PDF title metadata, if present.
	Title string

	// Author is the PDF author metadata, if present.
	Author string

	// Subject is the PDF subject metadata, if present.
	Subject string

	// Pages is the total page count.
	Pages int

	// ByteSize is the size of the original file in bytes.
	ByteSize int64

	// FragmentCount is the number of fragments stored for this document.
	FragmentCount int

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// Fragment is a contiguous slice of a document's text, the unit of
// indexing and retrieval. IDs are generated when the fragment is stored.
type Fragment struct {
	// ID is the unique identifier, assigned at storage time.
	ID string

	// Filename is the owning document.
	Filename string

	// Index is the ordinal position within the document.
	Index int

	// Content is the fragment text.
	Content string

	// Meta carries the persisted metadata fields.
	Meta FragmentMeta
}

// FragmentMeta is the metadata persisted alongside each fragment in the
// vector collection.
type FragmentMeta struct {
	Filename        string
	FragmentIndex   int
	FragmentLength  int
	TotalPages      int
	DocumentTitle   string
	DocumentAuthor  string
	DocumentSubject string
	ContentPreview  string
	ProcessedAt     time.Time
}

// PreviewLength is the number of characters kept as a fragment preview.
const PreviewLength = 100

// Preview returns the leading characters of text, for storage as a
// content preview.
func Preview(text string) string {
	if len(text) <= PreviewLength {
		return text
	}
	return text[:PreviewLength]
}

// IngestStats summarises a completed ingestion.
type IngestStats struct {
	Filename    string
	Pages       int
	Fragments   int
	Embeddings  int
	VectorDim   int
	FragmentIDs []string
}

// Turn is a single entry in a conversation memory.
type Turn struct {
	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string
}
