package driving

import "context"

// StatusService aggregates the health of the pipeline's backends.
type StatusService interface {
	// Status probes every backend and reports the result. It never
	// returns an error; unreachable backends are reported as such.
	Status(ctx context.Context) PipelineStatus
}

// PipelineStatus is the aggregated health report.
type PipelineStatus struct {
	// StoreConnected reports whether the vector store answered.
	StoreConnected bool

	// StoredFragments is the collection size, valid when connected.
	StoredFragments int

	// Collection is the vector collection name.
	Collection string

	// EmbeddingReachable reports whether the embedding backend answered.
	EmbeddingReachable bool

	// EmbeddingModel is the configured embedding model name.
	EmbeddingModel string

	// LLMConnected reports whether the model backend answered its
	// list-models probe.
	LLMConnected bool

	// LLMModel is the configured generation model name.
	LLMModel string

	// LLMModelAvailable reports whether LLMModel is present in the
	// backend's model list.
	LLMModelAvailable bool

	// AvailableModels lists the models the backend reported.
	AvailableModels []string
}
