// Package pdf splits PDF documents into page-range chunks using pdfcpu.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Partitioner implements the interface.
var _ driven.Partitioner = (*Partitioner)(nil)

// DefaultChunkPages is the default number of pages per chunk.
const DefaultChunkPages = domain.DefaultChunkPages

func init() {
	// pdfcpu otherwise writes a config.yml into the user's config dir.
	api.DisableConfigDir()
}

// Partitioner writes each page range of a PDF to its own scratch file.
type Partitioner struct {
	scratchDir string
	chunkPages int
	conf       *model.Configuration
}

// Option configures the partitioner.
type Option func(*Partitioner)

// WithChunkPages sets the maximum number of pages per chunk.
func WithChunkPages(n int) Option {
	return func(p *Partitioner) {
		if n > 0 {
			p.chunkPages = n
		}
	}
}

// New creates a partitioner writing chunks into scratchDir.
func New(scratchDir string, opts ...Option) *Partitioner {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	p := &Partitioner{
		scratchDir: scratchDir,
		chunkPages: DefaultChunkPages,
		conf:       conf,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ChunkPages returns the configured pages per chunk.
func (p *Partitioner) ChunkPages() int {
	return p.chunkPages
}

// Partition splits doc into ceil(pages/chunkPages) chunks.
func (p *Partitioner) Partition(ctx context.Context, doc *domain.SourceDocument) ([]domain.Chunk, error) {
	if doc == nil || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrDocumentUnreadable)
	}

	rs := bytes.NewReader(doc.Content)
	pages, err := api.PageCount(rs, p.conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDocumentUnreadable, doc.Title, err)
	}
	if pages == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", domain.ErrDocumentUnreadable, doc.Title)
	}

	if err := os.MkdirAll(p.scratchDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create scratch dir: %w", domain.ErrArtifactWriteFailed, err)
	}

	ranges := PageRanges(pages, p.chunkPages)
	chunks := make([]domain.Chunk, 0, len(ranges))

	for i, r := range ranges {
		if err := ctx.Err(); err != nil {
			p.Cleanup(chunks)
			return nil, err
		}

		chunk := domain.Chunk{
			Position:  i,
			FirstPage: r.First,
			LastPage:  r.Last,
			Path:      filepath.Join(p.scratchDir, uuid.New().String()+".pdf"),
		}
		if err := p.writeChunk(rs, chunk); err != nil {
			p.Cleanup(chunks)
			if errors.Is(err, domain.ErrArtifactWriteFailed) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %s pages %s: %w", domain.ErrDocumentUnreadable, doc.Title, chunk.Range(), err)
		}
		chunks = append(chunks, chunk)
	}

	logger.Debug("partitioned %s: %d pages into %d chunks", doc.Title, pages, len(chunks))
	return chunks, nil
}

func (p *Partitioner) writeChunk(rs *bytes.Reader, chunk domain.Chunk) error {
	if _, err := rs.Seek(0, 0); err != nil {
		return err
	}

	f, err := os.Create(chunk.Path)
	if err != nil {
		return fmt.Errorf("%w: scratch chunk: %w", domain.ErrArtifactWriteFailed, err)
	}

	if err := api.Trim(rs, f, []string{chunk.Range()}, p.conf); err != nil {
		_ = f.Close()
		_ = os.Remove(chunk.Path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(chunk.Path)
		return fmt.Errorf("%w: scratch chunk: %w", domain.ErrArtifactWriteFailed, err)
	}
	return nil
}

// Cleanup removes chunk files. Missing files are ignored.
func (p *Partitioner) Cleanup(chunks []domain.Chunk) {
	for _, c := range chunks {
		if c.Path == "" {
			continue
		}
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			logger.Warn("remove chunk %s: %v", c.Path, err)
		}
	}
}
