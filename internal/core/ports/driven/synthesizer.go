package driven

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_speech_synthesizer.go -package=mocks github.com/custodia-labs/livres/internal/core/ports/driven SpeechSynthesizer

import (
	"context"

	"github.com/custodia-labs/livres/internal/core/domain"
)

// SpeechSynthesizer narrates text.
type SpeechSynthesizer interface {
	// Synthesize returns encoded audio for text.
	// Failures wrap domain.ErrSynthesisFailed.
	Synthesize(ctx context.Context, text string, voice domain.VoiceProfile) ([]byte, error)
}
