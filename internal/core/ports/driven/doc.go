// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - PDFExtractor: Extracts text and metadata from PDF files
//   - EmbeddingService: Generates vector embeddings
//   - VectorStore: Persists (text, vector, metadata) triples and serves
//     similarity queries
//   - DocumentRegistry: Document-level bookkeeping
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model backend. Without it, answers and
//     summaries fall back to deterministic extractive output.
//   - PromptStore: Customisable prompt templates. Without it, the
//     structured-chain generation tier is skipped.
package driven
