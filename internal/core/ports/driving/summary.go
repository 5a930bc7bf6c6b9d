package driving

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// SummaryService produces document summaries of the four supported
// types, degrading to extractive output when the model backend is
// unavailable.
type SummaryService interface {
	// SummariseDocument summarises one document's content.
	SummariseDocument(ctx context.Context, content string, typ domain.SummaryType) (domain.Summary, error)

	// SummariseCollection consolidates up to ten stored documents into
	// one summary.
	SummariseCollection(ctx context.Context, typ domain.SummaryType) (domain.Summary, error)

	// Compare produces the five-section comparative analysis of two
	// content blocks.
	Compare(ctx context.Context, doc1, doc2 string) (domain.Summary, error)
}
