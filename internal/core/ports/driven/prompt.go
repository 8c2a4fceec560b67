package driven

// PromptStore provides access to model prompt templates.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names yield an error; known names fall back to a built-in default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptTranscribe asks a model to transcribe a PDF chunk.
	// The template has no format placeholders.
	PromptTranscribe = "transcribe"
)

// PromptStoreAware is implemented by adapters whose prompts can be customised.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
