package driven

// Normaliser cleans raw extracted text.
// Implementations must be pure and idempotent.
type Normaliser interface {
	Normalise(raw string) string
}
