package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingFailed indicates the embedding backend was unreachable
	// or returned malformed output. Not retried internally.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrStoreUnavailable indicates the vector store could not be
	// reached after a reconnect attempt.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrGenerationFailed indicates the model backend was unreachable or
	// returned a non-200 at the direct tier. The cascade absorbs this
	// error; it surfaces only through Answer.TierErr.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrParseFailed indicates malformed structured model output. The
	// classifier degrades to its keyword fallback instead of propagating.
	ErrParseFailed = errors.New("parse failed")

	// ErrNoContext indicates retrieval found no fragment above the
	// similarity threshold. Not an error condition for the pipeline, but
	// useful as a sentinel at the transport boundary.
	ErrNoContext = errors.New("no relevant context found")

	// ErrLLMUnavailable indicates the model backend is not reachable.
	// Generation degrades to the extractive tier.
	ErrLLMUnavailable = errors.New("LLM backend unavailable")
)
