package driving

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// ChatService answers natural-language questions against the ingested
// collection.
type ChatService interface {
	// Ask retrieves relevant context and runs the generation cascade.
	// The returned answer is always populated; retrieval failures are
	// the only error case.
	Ask(ctx context.Context, question string, opts domain.SearchOptions) (domain.SearchOutcome, domain.Answer, error)

	// Retrieve runs just the retrieval pass, without generation.
	Retrieve(ctx context.Context, question string, opts domain.SearchOptions) (domain.SearchOutcome, error)

	// ClearMemory discards the conversation memory.
	ClearMemory()
}
