package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt is
	// required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptQA answers a question from document context.
	// The template expects %s (context block) and %s (question).
	PromptQA = "qa"

	// PromptSummaryComprehensive is the full structured summary.
	// The template expects %s (content).
	PromptSummaryComprehensive = "summary_comprehensive"

	// PromptSummaryExecutive is the short executive brief.
	// The template expects %s (content).
	PromptSummaryExecutive = "summary_executive"

	// PromptSummaryTechnical is the technical-perspective analysis.
	// The template expects %s (content).
	PromptSummaryTechnical = "summary_technical"

	// PromptSummaryBullets is the key-point list summary.
	// The template expects %s (content).
	PromptSummaryBullets = "summary_bullet_points"

	// PromptMultiDocument consolidates a collection of documents.
	// The template expects %s (concatenated document previews).
	PromptMultiDocument = "summary_multi_document"

	// PromptComparison is the five-section comparative analysis.
	// The template expects %s (document 1) and %s (document 2).
	PromptComparison = "summary_comparison"

	// PromptClassify assigns a topic label from a candidate set.
	// The template expects %s (comma-separated labels) and %s (content).
	PromptClassify = "classify"
)

// PromptStoreAware is an optional interface for services that can use
// custom prompts. Services implementing this interface can have their
// prompt templates customised by injecting a PromptStore after
// construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the service uses hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
