package driving

import (
	"context"

	"github.com/Cristian-Soto/copiloto-conversacional/internal/core/domain"
)

// ClassifyService assigns topic labels to document content.
type ClassifyService interface {
	// ClassifyContent classifies one piece of content against a label
	// set. A nil labels slice selects domain.DefaultLabels.
	ClassifyContent(ctx context.Context, content string, labels []string, confidenceThreshold float64) (domain.Classification, error)

	// ClassifyCollection classifies a sample of the stored collection
	// and aggregates per-label statistics.
	ClassifyCollection(ctx context.Context, labels []string) (domain.CollectionReport, error)

	// Insights derives diversity observations from a collection report.
	Insights(report domain.CollectionReport) domain.DiversityInsights

	// Labels returns the label set in use by default.
	Labels() []string
}
