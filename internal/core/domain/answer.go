package domain

import "time"

// AnswerMethod identifies which generation tier produced an answer.
type AnswerMethod string

// Generation tiers, in cascade order.
const (
	// MethodChain is the structured prompt-template tier.
	MethodChain AnswerMethod = "chain"

	// MethodDirect is the plain prompt tier against the model backend.
	MethodDirect AnswerMethod = "direct"

	// MethodFallback is the deterministic extractive tier; no model call.
	MethodFallback AnswerMethod = "fallback"
)

// String returns the string representation.
func (m AnswerMethod) String() string {
	return string(m)
}

// Generated reports whether the answer came from a model call.
func (m AnswerMethod) Generated() bool {
	return m == MethodChain || m == MethodDirect
}

// Answer is the outcome of the generation cascade. It is always
// populated: the extractive tier cannot fail except on empty input, in
// which case a fixed "no relevant information" answer is returned.
type Answer struct {
	// Text is the answer content.
	Text string

	// Method is the tier that produced the answer.
	Method AnswerMethod

	// Confidence is min(avg(similarities)*1.2, 1.0) over the fragments
	// used, 0 when no fragments were available.
	Confidence float64

	// FragmentsUsed is how many context fragments were given to the tier.
	FragmentsUsed int

	// Model is the backend model name, empty for the extractive tier.
	Model string

	// TokensUsed is the backend-reported eval count, when available.
	TokensUsed int

	// Duration is the generation wall time, when available.
	Duration time.Duration

	// Note carries caveats, e.g. that a fallback answer is not
	// model-generated.
	Note string

	// TierErr records the error that made an earlier tier fall through,
	// for observability. The cascade itself absorbed it.
	TierErr error
}
