// Package gemini transcribes PDF chunks with a Gemini model.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Extractor implements the interfaces.
var (
	_ driven.Extractor        = (*Extractor)(nil)
	_ driven.PromptStoreAware = (*Extractor)(nil)
)

// DefaultModel is used when no model is configured.
const DefaultModel = domain.DefaultGeminiModel

// Prompt asks the model for a faithful transcription.
// It is used when no prompt store is set or the store cannot load one.
const Prompt = "Transcribe all the text of this PDF document exactly as written, " +
	"in reading order, page by page. Output only the transcribed text."

// Generator sends a PDF and a prompt to a model and returns the text answer.
type Generator interface {
	Generate(ctx context.Context, pdf []byte, prompt string) (string, error)
}

// Extractor sends chunk files to Gemini.
type Extractor struct {
	gen     Generator
	closer  func() error
	prompts driven.PromptStore
}

// New creates an extractor backed by the Gemini API.
func New(ctx context.Context, apiKey, model string) (*Extractor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key not set", domain.ErrAuthFailure)
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0)

	return &Extractor{
		gen:    &genaiGenerator{model: m},
		closer: client.Close,
	}, nil
}

// NewWithGenerator creates an extractor around an existing generator.
func NewWithGenerator(gen Generator) *Extractor {
	return &Extractor{gen: gen}
}

// SetPromptStore sets the store the transcription prompt is loaded from.
func (e *Extractor) SetPromptStore(store driven.PromptStore) {
	e.prompts = store
}

// Name returns the extractor name.
func (e *Extractor) Name() string {
	return string(domain.ExtractorGemini)
}

// Extract transcribes the chunk.
func (e *Extractor) Extract(ctx context.Context, chunk domain.Chunk) (string, error) {
	content, err := os.ReadFile(chunk.Path)
	if err != nil {
		return "", fmt.Errorf("%w: read chunk: %w", domain.ErrExtractionFailed, err)
	}
	if !bytes.HasPrefix(content, []byte("%PDF")) {
		return "", fmt.Errorf("%w: %w: chunk is not a PDF", domain.ErrExtractionFailed, domain.ErrUnsupportedFormat)
	}

	text, err := e.gen.Generate(ctx, content, e.prompt())
	if err != nil {
		logger.Debug("gemini pages %s: %v", chunk.Range(), err)
		return "", fmt.Errorf("%w: pages %s: %w", domain.ErrExtractionFailed, chunk.Range(), classifyError(err))
	}
	return text, nil
}

// Close releases the client.
func (e *Extractor) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer()
}

func (e *Extractor) prompt() string {
	if e.prompts == nil {
		return Prompt
	}
	p, err := e.prompts.Load(driven.PromptTranscribe)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("using built-in transcription prompt: %v", err)
		return Prompt
	}
	return p
}

type genaiGenerator struct {
	model *genai.GenerativeModel
}

func (g *genaiGenerator) Generate(ctx context.Context, pdf []byte, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Blob{MIMEType: "application/pdf", Data: pdf}, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domain.ErrServiceUnavailable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}
