package domain

// SummaryType selects which structural sections a summary requests from
// the model.
type SummaryType string

// Available summary types.
const (
	// SummaryComprehensive covers executive summary, key points,
	// methodology, evidence, and conclusions.
	SummaryComprehensive SummaryType = "comprehensive"

	// SummaryExecutive is a short problem/findings/recommendations brief.
	SummaryExecutive SummaryType = "executive"

	// SummaryTechnical focuses on methods, tooling, metrics, and
	// limitations.
	SummaryTechnical SummaryType = "technical"

	// SummaryBulletPoints is a plain key-point list.
	SummaryBulletPoints SummaryType = "bullet_points"
)

// IsValid returns true if the summary type is recognised.
func (t SummaryType) IsValid() bool {
	switch t {
	case SummaryComprehensive, SummaryExecutive, SummaryTechnical, SummaryBulletPoints:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SummaryType) String() string {
	return string(t)
}

// SummaryMethod identifies how a summary was produced.
type SummaryMethod string

// Summary methods.
const (
	// SummarisedByModel means the model backend generated the summary.
	SummarisedByModel SummaryMethod = "model"

	// SummarisedExtractively means the deterministic sentence-selection
	// fallback was used.
	SummarisedExtractively SummaryMethod = "extractive"
)

// Summary is the outcome of a summarisation request.
type Summary struct {
	// Text is the summary content.
	Text string

	// Type is the requested summary type.
	Type SummaryType

	// Method records which path produced the summary.
	Method SummaryMethod

	// DocumentsProcessed is the number of source documents, for
	// multi-document summaries.
	DocumentsProcessed int

	// Truncated reports whether the source content was cut to fit the
	// prompt budget.
	Truncated bool
}
