package domain

// UnknownLabel is assigned when no label can be determined with enough
// confidence.
const UnknownLabel = "unknown"

// DefaultLabels is the built-in topic label set used when the caller
// does not supply one.
var DefaultLabels = []string{
	"technology", "science", "business", "health", "education",
	"politics", "sports", "entertainment", "finance", "research",
	"marketing", "human resources", "legal", "environment", "art",
}

// ClassificationMethod identifies how a label was produced.
type ClassificationMethod string

// Classification methods.
const (
	// ClassifiedByModel means the label was parsed from model output.
	ClassifiedByModel ClassificationMethod = "model"

	// ClassifiedByKeywords means the keyword-counting fallback was used.
	ClassifiedByKeywords ClassificationMethod = "keywords"
)

// Classification is the result of classifying one piece of content.
// Ephemeral, recomputed per call.
type Classification struct {
	// Label is the primary topic, one of the supplied label set or
	// UnknownLabel.
	Label string

	// Confidence is in [0,1].
	Confidence float64

	// Reason is a free-text justification.
	Reason string

	// Scores maps every candidate label to a score.
	Scores map[string]float64

	// Method records which path produced the label.
	Method ClassificationMethod
}

// DocumentClassification pairs a classification with its document.
type DocumentClassification struct {
	Filename       string
	Classification Classification
}

// TopicCount is a label with its document count, used for dominant
// topic rankings.
type TopicCount struct {
	Label string
	Count int
}

// CollectionReport aggregates per-document classifications over a
// collection.
type CollectionReport struct {
	TotalDocuments  int
	Classifications []DocumentClassification

	// Counts holds the number of documents per label, including
	// UnknownLabel.
	Counts map[string]int

	// Percentages holds Counts as a percentage of TotalDocuments.
	Percentages map[string]float64

	// Dominant is the top five labels by count, ties broken by
	// encounter order. Labels with zero documents are excluded.
	Dominant []TopicCount

	// Labels is the label set that was used.
	Labels []string
}

// DiversityInsights derives collection-level observations from a report.
type DiversityInsights struct {
	// TopicsPresent is the number of labels with at least one document.
	TopicsPresent int

	// DiversityScore is the percentage of labels with at least one
	// document.
	DiversityScore float64

	// Tier is the qualitative diversity classification.
	Tier string
}

// DiversityTier maps a diversity score to its qualitative tier.
func DiversityTier(score float64) string {
	switch {
	case score >= 70:
		return "very diverse"
	case score >= 50:
		return "diverse"
	case score >= 30:
		return "moderately diverse"
	default:
		return "low diversity"
	}
}
