package domain

import "math"

// Default retrieval parameters.
const (
	DefaultMaxResults          = 5
	DefaultSimilarityThreshold = 0.5
)

// SearchOptions configures a contextual retrieval pass.
type SearchOptions struct {
	// MaxResults is the maximum number of fragments to return.
	MaxResults int

	// SimilarityThreshold is the minimum normalised similarity a
	// fragment must reach to be kept, in [0,1].
	SimilarityThreshold float64
}

// RetrievedFragment is a fragment returned by a retrieval pass, tagged
// with its normalised similarity and rank. Never persisted.
type RetrievedFragment struct {
	// Fragment is the stored fragment.
	Fragment Fragment

	// Similarity is the normalised score in [0,1], rounded to four
	// decimal places.
	Similarity float64

	// Rank is the 1-based position after filtering and sorting.
	Rank int
}

// SearchMetadata describes how a retrieval pass was executed.
type SearchMetadata struct {
	TotalResults        int
	SimilarityThreshold float64
	MaxResultsRequested int
	EmbeddingDimension  int
}

// SearchOutcome is the result of a retrieval pass. Found distinguishes
// "no relevant context" from a retrieval error, which is reported
// separately; callers must branch on Found before generation.
type SearchOutcome struct {
	Query     string
	Found     bool
	Fragments []RetrievedFragment
	Metadata  SearchMetadata
}

// Similarity converts a cosine distance in [0,2] to a normalised
// similarity in [0,1]. Distance 0 maps to 1.0 and distance 2 to 0.0.
// The collection's distance metric must be pinned to cosine for this
// mapping to hold.
func Similarity(distance float64) float64 {
	return math.Max(0, (2-distance)/2)
}

// RoundScore rounds a similarity score to four decimal places.
func RoundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}

// Confidence computes the answer confidence from the similarity scores
// of the fragments used: the average, boosted by 1.2 and capped at 1.0.
func Confidence(similarities []float64) float64 {
	if len(similarities) == 0 {
		return 0
	}
	var sum float64
	for _, s := range similarities {
		sum += s
	}
	return math.Min(sum/float64(len(similarities))*1.2, 1.0)
}
