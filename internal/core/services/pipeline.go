package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.PipelineService = (*PipelineOrchestrator)(nil)

// PipelineOrchestrator turns remote PDFs into cataloged text and narration.
// Documents and their chunks are processed strictly one after another.
type PipelineOrchestrator struct {
	remote      driven.RemoteStore
	partitioner driven.Partitioner
	extractor   driven.Extractor
	normaliser  driven.Normaliser
	renderer    driven.DocumentRenderer
	synthesizer driven.SpeechSynthesizer
	artifacts   driven.ArtifactStore
	catalog     driven.CatalogStore

	folder        string
	callTimeout   time.Duration
	retryAttempts int
	onExtractErr  domain.ExtractionErrorPolicy
	voice         domain.VoiceProfile
	newID         func() string
	now           func() time.Time
	progress      func(domain.DocumentStatus)

	// batchMu admits one batch (or single-document run) at a time.
	batchMu sync.Mutex

	// catalogMu serialises the title lookup and upsert.
	catalogMu sync.Mutex

	// Status tracking
	mu        sync.RWMutex
	running   bool
	order     []string
	statuses  map[string]*domain.DocumentStatus
	processed int
	failed    int
}

// PipelineOption configures a PipelineOrchestrator.
type PipelineOption func(*PipelineOrchestrator)

// WithFolder sets the remote folder listed by RunBatch.
func WithFolder(folder string) PipelineOption {
	return func(o *PipelineOrchestrator) {
		o.folder = folder
	}
}

// WithPipelineSettings applies timeout, retry and extraction policy settings.
func WithPipelineSettings(s domain.PipelineSettings) PipelineOption {
	return func(o *PipelineOrchestrator) {
		if s.CallTimeout > 0 {
			o.callTimeout = s.CallTimeout
		}
		if s.RetryAttempts > 0 {
			o.retryAttempts = s.RetryAttempts
		}
		if s.OnExtractionError.IsValid() {
			o.onExtractErr = s.OnExtractionError
		}
	}
}

// WithVoice sets the narration voice.
func WithVoice(voice domain.VoiceProfile) PipelineOption {
	return func(o *PipelineOrchestrator) {
		o.voice = voice.WithDefaults()
	}
}

// WithIDGenerator replaces the catalog identifier generator.
func WithIDGenerator(newID func() string) PipelineOption {
	return func(o *PipelineOrchestrator) {
		o.newID = newID
	}
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) PipelineOption {
	return func(o *PipelineOrchestrator) {
		o.now = now
	}
}

// WithProgress registers a callback invoked on every stage transition.
func WithProgress(fn func(domain.DocumentStatus)) PipelineOption {
	return func(o *PipelineOrchestrator) {
		o.progress = fn
	}
}

// NewPipelineOrchestrator creates a new pipeline orchestrator.
func NewPipelineOrchestrator(
	remote driven.RemoteStore,
	partitioner driven.Partitioner,
	extractor driven.Extractor,
	normaliser driven.Normaliser,
	renderer driven.DocumentRenderer,
	synthesizer driven.SpeechSynthesizer,
	artifacts driven.ArtifactStore,
	catalog driven.CatalogStore,
	opts ...PipelineOption,
) *PipelineOrchestrator {
	o := &PipelineOrchestrator{
		remote:        remote,
		partitioner:   partitioner,
		extractor:     extractor,
		normaliser:    normaliser,
		renderer:      renderer,
		synthesizer:   synthesizer,
		artifacts:     artifacts,
		catalog:       catalog,
		folder:        domain.DefaultRemoteFolder,
		callTimeout:   domain.DefaultCallTimeout,
		retryAttempts: domain.DefaultRetryAttempts,
		onExtractErr:  domain.ExtractionAbort,
		voice:         domain.DefaultVoiceProfile(),
		newID:         uuid.NewString,
		now:           time.Now,
		statuses:      make(map[string]*domain.DocumentStatus),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RunBatch lists the configured folder once and processes every PDF in it.
func (o *PipelineOrchestrator) RunBatch(ctx context.Context) (*domain.BatchReport, error) {
	if !o.batchMu.TryLock() {
		return nil, domain.ErrBatchInProgress
	}
	defer o.batchMu.Unlock()

	report := &domain.BatchReport{Started: o.now()}
	o.resetStatus()
	defer o.finishStatus()

	logger.Section("Batch")
	logger.Debug("Listing %q", o.folder)

	var files []domain.RemoteFile
	err := Retry(ctx, o.retryAttempts, "list", func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx)
		defer cancel()
		var listErr error
		files, listErr = o.remote.List(callCtx, o.folder)
		return listErr
	})
	if err != nil {
		report.Finished = o.now()
		return report, stageError(domain.ErrRemoteFetchFailed, "list "+o.folder, err)
	}

	for _, file := range files {
		o.track(file)
	}

	for _, file := range files {
		if ctx.Err() != nil {
			report.Finished = o.now()
			return report, ctx.Err()
		}
		report.Results = append(report.Results, o.process(ctx, file))
	}

	report.Finished = o.now()
	logger.Info("Batch complete: %d succeeded, %d failed, %d skipped in %s",
		report.Succeeded(), report.Failed(), report.Skipped(), report.Duration().Round(time.Millisecond))
	return report, nil
}

// ProcessOne processes a single remote file outside a batch listing.
// It waits for a running batch to finish first.
func (o *PipelineOrchestrator) ProcessOne(ctx context.Context, remotePath string) domain.DocumentResult {
	o.batchMu.Lock()
	defer o.batchMu.Unlock()

	o.resetStatus()
	defer o.finishStatus()

	file := domain.RemoteFile{Name: path.Base(remotePath), Path: remotePath}
	o.track(file)
	return o.process(ctx, file)
}

// Status returns the live state of documents in the running batch.
func (o *PipelineOrchestrator) Status() *driving.PipelineStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	// Return a copy to avoid race conditions
	status := &driving.PipelineStatus{
		Running:            o.running,
		Documents:          make([]domain.DocumentStatus, 0, len(o.order)),
		DocumentsProcessed: o.processed,
		ErrorCount:         o.failed,
	}
	for _, p := range o.order {
		status.Documents = append(status.Documents, *o.statuses[p])
	}
	return status
}

// process runs one document through every stage. It never panics the batch:
// every failure ends up in the returned result.
func (o *PipelineOrchestrator) process(ctx context.Context, file domain.RemoteFile) domain.DocumentResult {
	result := domain.DocumentResult{Title: file.Title(), Path: file.Path}

	if !file.IsPDF() {
		logger.Debug("Skipping %s: not a PDF", file.Path)
		result.Stage = domain.StageSkipped
		o.setStage(file.Path, domain.StageSkipped)
		return result
	}

	fail := func(stage domain.Stage, err error) domain.DocumentResult {
		result.Stage = stage
		result.Err = err
		o.setFailed(file.Path, stage, err)
		logger.Warn("%s failed at %s: %v", file.Path, stage, err)
		return result
	}

	// Fetching
	o.setStage(file.Path, domain.StageFetching)
	var content []byte
	err := Retry(ctx, o.retryAttempts, "fetch "+file.Path, func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx)
		defer cancel()
		var fetchErr error
		content, fetchErr = o.remote.Fetch(callCtx, file.Path)
		return fetchErr
	})
	if err != nil {
		return fail(domain.StageFetching, stageError(domain.ErrRemoteFetchFailed, "fetch", err))
	}
	doc := domain.NewSourceDocument(file, content)
	logger.Debug("Fetched %s (%d bytes)", file.Path, len(content))

	// Partitioning
	o.setStage(file.Path, domain.StagePartitioning)
	chunks, err := o.partitioner.Partition(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrArtifactWriteFailed) {
			return fail(domain.StagePartitioning, err)
		}
		return fail(domain.StagePartitioning, stageError(domain.ErrDocumentUnreadable, "partition", err))
	}
	doc.Content = nil
	defer o.partitioner.Cleanup(chunks)
	result.Chunks = len(chunks)
	o.setChunks(file.Path, len(chunks))
	logger.Debug("%s: %d chunks", file.Path, len(chunks))

	// Extracting
	raw := make([]domain.ChunkText, 0, len(chunks))
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			return fail(domain.StageExtracting, stageError(domain.ErrExtractionFailed, "extract", ctx.Err()))
		}
		o.setExtracting(file.Path, i)

		text, err := o.extract(ctx, chunk)
		if err != nil {
			if o.onExtractErr != domain.ExtractionPlaceholder || ctx.Err() != nil {
				return fail(domain.StageExtracting, err)
			}
			logger.Warn("%s: pages %s unavailable: %v", file.Path, chunk.Range(), err)
			text = fmt.Sprintf("[pages %s unavailable]", chunk.Range())
		}
		raw = append(raw, domain.ChunkText{Position: chunk.Position, Text: text})
	}

	// Normalizing
	o.setStage(file.Path, domain.StageNormalizing)
	parts := make([]domain.ChunkText, len(raw))
	for i, part := range raw {
		parts[i] = domain.ChunkText{Position: part.Position, Text: o.normaliser.Normalise(part.Text)}
	}
	text := domain.Assemble(parts)
	if text.IsEmpty() {
		return fail(domain.StageNormalizing, fmt.Errorf("%w: no text extracted", domain.ErrExtractionFailed))
	}

	// Generating artifacts
	o.setStage(file.Path, domain.StageGeneratingArtifacts)
	stored, err := o.generate(ctx, doc.Title, text)
	if err != nil {
		return fail(domain.StageGeneratingArtifacts, err)
	}

	// Cataloging
	o.setStage(file.Path, domain.StageCataloging)
	entry, err := o.record(ctx, doc.Title, stored)
	if err != nil {
		return fail(domain.StageCataloging, err)
	}

	result.Stage = domain.StageDone
	result.Entry = entry
	o.setStage(file.Path, domain.StageDone)
	logger.Debug("%s cataloged as %s", file.Path, entry.ID)
	return result
}

func (o *PipelineOrchestrator) extract(ctx context.Context, chunk domain.Chunk) (string, error) {
	var text string
	err := Retry(ctx, o.retryAttempts, "extract pages "+chunk.Range(), func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx)
		defer cancel()
		var extractErr error
		text, extractErr = o.extractor.Extract(callCtx, chunk)
		return extractErr
	})
	if err != nil {
		return "", stageError(domain.ErrExtractionFailed, "pages "+chunk.Range(), err)
	}
	return text, nil
}

// generate renders and narrates the text, then commits both artifacts together.
func (o *PipelineOrchestrator) generate(
	ctx context.Context,
	title string,
	text domain.NormalizedText,
) ([]domain.StoredArtifact, error) {
	callCtx, cancel := o.callContext(ctx)
	document, err := o.renderer.Render(callCtx, title, text.String())
	cancel()
	if err != nil {
		return nil, stageError(domain.ErrArtifactWriteFailed, "render", err)
	}

	var audio []byte
	err = Retry(ctx, o.retryAttempts, "synthesize "+title, func(ctx context.Context) error {
		callCtx, cancel := o.callContext(ctx)
		defer cancel()
		var synthErr error
		audio, synthErr = o.synthesizer.Synthesize(callCtx, text.String(), o.voice)
		return synthErr
	})
	if err != nil {
		return nil, stageError(domain.ErrSynthesisFailed, "synthesize", err)
	}

	stored, err := o.artifacts.Commit(ctx, title,
		domain.Artifact{Kind: domain.ArtifactDocument, Extension: o.renderer.Extension(), Data: document},
		domain.Artifact{Kind: domain.ArtifactAudio, Extension: o.voice.Extension(), Data: audio},
	)
	if err != nil {
		return nil, stageError(domain.ErrArtifactWriteFailed, "commit", err)
	}
	return stored, nil
}

// record upserts the catalog entry, reusing the identifier of an existing
// entry with the same title.
func (o *PipelineOrchestrator) record(
	ctx context.Context,
	title string,
	stored []domain.StoredArtifact,
) (*domain.CatalogEntry, error) {
	o.catalogMu.Lock()
	defer o.catalogMu.Unlock()

	now := o.now().UTC()
	entry := &domain.CatalogEntry{Title: title, CreatedAt: now, UpdatedAt: now}
	entry.DocumentPath, entry.AudioPath = domain.ArtifactPaths(stored)

	existing, err := o.catalog.FindByTitle(ctx, title)
	switch {
	case err == nil:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
	case errors.Is(err, domain.ErrNotFound):
		entry.ID = o.newID()
	default:
		return nil, stageError(domain.ErrCatalogWriteFailed, "lookup", err)
	}

	if err := o.catalog.Upsert(ctx, entry); err != nil {
		return nil, stageError(domain.ErrCatalogWriteFailed, "upsert", err)
	}
	return entry, nil
}

func (o *PipelineOrchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.callTimeout)
}

// stageError makes sure err carries the stage sentinel exactly once.
func stageError(stage error, op string, err error) error {
	if errors.Is(err, stage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", stage, op, err)
}

// Status tracking helpers.

func (o *PipelineOrchestrator) resetStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = true
	o.order = nil
	o.statuses = make(map[string]*domain.DocumentStatus)
	o.processed = 0
	o.failed = 0
}

func (o *PipelineOrchestrator) finishStatus() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.running = false
}

func (o *PipelineOrchestrator) track(file domain.RemoteFile) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.statuses[file.Path]; ok {
		return
	}
	o.order = append(o.order, file.Path)
	o.statuses[file.Path] = &domain.DocumentStatus{
		Title: file.Title(),
		Path:  file.Path,
		Stage: domain.StagePending,
	}
}

// update applies fn to a document's status and reports the result.
func (o *PipelineOrchestrator) update(p string, fn func(*domain.DocumentStatus)) {
	o.mu.Lock()
	status, ok := o.statuses[p]
	if !ok {
		o.mu.Unlock()
		return
	}
	fn(status)
	snapshot := *status
	o.mu.Unlock()

	if o.progress != nil {
		o.progress(snapshot)
	}
}

func (o *PipelineOrchestrator) setStage(p string, stage domain.Stage) {
	o.update(p, func(s *domain.DocumentStatus) {
		s.Stage = stage
		if stage.IsTerminal() {
			o.processed++
		}
	})
}

func (o *PipelineOrchestrator) setChunks(p string, n int) {
	o.update(p, func(s *domain.DocumentStatus) {
		s.Chunks = n
	})
}

func (o *PipelineOrchestrator) setExtracting(p string, chunk int) {
	o.update(p, func(s *domain.DocumentStatus) {
		s.Stage = domain.StageExtracting
		s.Chunk = chunk
	})
}

func (o *PipelineOrchestrator) setFailed(p string, stage domain.Stage, err error) {
	o.update(p, func(s *domain.DocumentStatus) {
		s.Stage = domain.StageFailed
		s.FailedStage = stage
		s.Err = err
		o.processed++
		o.failed++
	})
}
