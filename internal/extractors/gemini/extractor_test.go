package gemini

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/testutil/pdffixture"
)

// MockGenerator is a mock implementation of Generator for testing.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, pdf []byte, prompt string) (string, error)
	calls        int
}

func (m *MockGenerator) Generate(ctx context.Context, pdf []byte, prompt string) (string, error) {
	m.calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, pdf, prompt)
	}
	return "", nil
}

func writeChunk(t *testing.T) domain.Chunk {
	t.Helper()
	path := pdffixture.WriteFile(t, t.TempDir(), "chunk.pdf", 2)
	return domain.Chunk{FirstPage: 1, LastPage: 2, Path: path}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrAuthFailure))
}

func TestExtractor_Name(t *testing.T) {
	assert.Equal(t, "gemini", NewWithGenerator(&MockGenerator{}).Name())
}

func TestExtractor_Extract(t *testing.T) {
	var gotPDF []byte
	var gotPrompt string
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, pdf []byte, prompt string) (string, error) {
			gotPDF, gotPrompt = pdf, prompt
			return "Il était une fois", nil
		},
	}
	chunk := writeChunk(t)

	text, err := NewWithGenerator(gen).Extract(context.Background(), chunk)
	require.NoError(t, err)

	assert.Equal(t, "Il était une fois", text)
	assert.Equal(t, Prompt, gotPrompt)
	want, _ := os.ReadFile(chunk.Path)
	assert.Equal(t, want, gotPDF)
}

func TestExtractor_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))
	gen := &MockGenerator{}

	_, err := NewWithGenerator(gen).Extract(context.Background(), domain.Chunk{Path: path})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
	assert.Equal(t, 0, gen.calls)
}

func TestExtractor_MissingChunk(t *testing.T) {
	_, err := NewWithGenerator(&MockGenerator{}).Extract(context.Background(), domain.Chunk{Path: "/nonexistent.pdf"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
}

func TestExtractor_ServiceErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		cause     error
		retryable bool
	}{
		{"unavailable", status.Error(codes.Unavailable, "overloaded"), domain.ErrServiceUnavailable, true},
		{"quota", status.Error(codes.ResourceExhausted, "quota"), domain.ErrServiceUnavailable, true},
		{"unauthenticated", status.Error(codes.Unauthenticated, "bad key"), domain.ErrAuthFailure, false},
		{"invalid", status.Error(codes.InvalidArgument, "bad pdf"), domain.ErrUnsupportedFormat, false},
		{"plain", errors.New("connection reset"), domain.ErrServiceUnavailable, true},
		{"timeout", context.DeadlineExceeded, context.DeadlineExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &MockGenerator{
				GenerateFunc: func(context.Context, []byte, string) (string, error) {
					return "", tt.err
				},
			}

			_, err := NewWithGenerator(gen).Extract(context.Background(), writeChunk(t))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrExtractionFailed))
			assert.True(t, errors.Is(err, tt.cause))
			assert.Equal(t, tt.retryable, domain.IsRetryable(err))
		})
	}
}

func TestExtractor_CloseWithoutClient(t *testing.T) {
	assert.NoError(t, NewWithGenerator(&MockGenerator{}).Close())
}

// MockPromptStore is a mock implementation of driven.PromptStore for testing.
type MockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *MockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *MockPromptStore) Reload() {}

func TestExtractor_UsesPromptStore(t *testing.T) {
	var gotPrompt string
	gen := &MockGenerator{
		GenerateFunc: func(_ context.Context, _ []byte, prompt string) (string, error) {
			gotPrompt = prompt
			return "texte", nil
		},
	}
	ex := NewWithGenerator(gen)
	ex.SetPromptStore(&MockPromptStore{prompts: map[string]string{
		driven.PromptTranscribe: "Transcris ce document.",
	}})

	_, err := ex.Extract(context.Background(), writeChunk(t))
	require.NoError(t, err)
	assert.Equal(t, "Transcris ce document.", gotPrompt)
}

func TestExtractor_PromptStoreFallback(t *testing.T) {
	tests := []struct {
		name  string
		store *MockPromptStore
	}{
		{"load error", &MockPromptStore{err: errors.New("permission denied")}},
		{"blank prompt", &MockPromptStore{prompts: map[string]string{driven.PromptTranscribe: "  \n"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPrompt string
			gen := &MockGenerator{
				GenerateFunc: func(_ context.Context, _ []byte, prompt string) (string, error) {
					gotPrompt = prompt
					return "texte", nil
				},
			}
			ex := NewWithGenerator(gen)
			ex.SetPromptStore(tt.store)

			_, err := ex.Extract(context.Background(), writeChunk(t))
			require.NoError(t, err)
			assert.Equal(t, Prompt, gotPrompt)
		})
	}
}
