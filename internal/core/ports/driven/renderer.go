package driven

import "context"

// DocumentRenderer renders text as a word-processor document.
type DocumentRenderer interface {
	// Render returns the encoded document.
	Render(ctx context.Context, title, text string) ([]byte, error)

	// Extension is the file extension of rendered documents, without the dot.
	Extension() string
}

// DocumentReader reads the text back out of a rendered document.
type DocumentReader interface {
	ReadText(data []byte) (string, error)
}
