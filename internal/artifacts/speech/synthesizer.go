package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"

	"google.golang.org/api/texttospeech/v1"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Synthesizer implements the interface.
var _ driven.SpeechSynthesizer = (*Synthesizer)(nil)

// DefaultMaxRequestBytes is the service limit on input text per request.
const DefaultMaxRequestBytes = domain.DefaultMaxRequestBytes

// Synthesizer narrates text through the Text-to-Speech API.
type Synthesizer struct {
	svc         *texttospeech.Service
	rateLimiter *RateLimiter
	maxBytes    int
}

// Option configures the synthesizer.
type Option func(*Synthesizer)

// WithMaxRequestBytes sets the maximum input size of a single request.
func WithMaxRequestBytes(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// WithRateLimit overrides the default request rate.
func WithRateLimit(cfg RateLimitConfig) Option {
	return func(s *Synthesizer) {
		s.rateLimiter = NewRateLimiter(cfg)
	}
}

// New creates a synthesizer around an API service.
func New(svc *texttospeech.Service, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		svc:         svc,
		rateLimiter: NewRateLimiter(DefaultRateLimit),
		maxBytes:    DefaultMaxRequestBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns the narration of text.
// Long texts are synthesised segment by segment and the audio concatenated,
// which only encodings made of independent frames support.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, voice domain.VoiceProfile) ([]byte, error) {
	voice = voice.WithDefaults()

	segments := Segment(text, s.maxBytes)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %w: empty text", domain.ErrSynthesisFailed, domain.ErrInvalidInput)
	}
	if len(segments) > 1 && !voice.Streamable() {
		return nil, fmt.Errorf("%w: %w: %s input over %d bytes cannot be segmented",
			domain.ErrSynthesisFailed, domain.ErrUnsupportedFormat, voice.Encoding, s.maxBytes)
	}

	var audio bytes.Buffer
	for i, seg := range segments {
		data, err := s.synthesizeSegment(ctx, seg, voice)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d/%d: %w", domain.ErrSynthesisFailed, i+1, len(segments), err)
		}
		audio.Write(data)
	}

	logger.Debug("synthesised %d bytes of text in %d segment(s), %d bytes of %s",
		len(text), len(segments), audio.Len(), voice.Encoding)
	return audio.Bytes(), nil
}

func (s *Synthesizer) synthesizeSegment(ctx context.Context, text string, voice domain.VoiceProfile) ([]byte, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.Name,
			SsmlGender:   voice.Gender,
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding: voice.Encoding,
		},
	}

	resp, err := s.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		if IsRateLimited(err) {
			s.rateLimiter.RecordRateLimitError(retryAfter(err))
		}
		return nil, classifyError(err)
	}

	data, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return data, nil
}
