package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Scheduler implements the interface.
var _ driving.Scheduler = (*Scheduler)(nil)

// DefaultPollInterval is how often the scheduler runs a batch when the
// remote store cannot report new files.
const DefaultPollInterval = 15 * time.Minute

// Scheduler keeps the catalog in step with the remote folder.
// With a watcher it processes each new file as it arrives; otherwise it
// runs a batch on a fixed interval.
type Scheduler struct {
	pipeline driving.PipelineService
	watcher  driven.RemoteWatcher
	folder   string
	interval time.Duration
	onResult func(domain.DocumentResult)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithWatcher makes the scheduler react to files reported by w under folder.
func WithWatcher(w driven.RemoteWatcher, folder string) SchedulerOption {
	return func(s *Scheduler) {
		s.watcher = w
		s.folder = folder
	}
}

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) SchedulerOption {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithResultHandler registers a callback for every finished document.
func WithResultHandler(fn func(domain.DocumentResult)) SchedulerOption {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// NewScheduler creates a scheduler driving pipeline.
func NewScheduler(pipeline driving.PipelineService, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		pipeline: pipeline,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs the scheduler loop. It blocks until Stop is called or ctx ends.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()
	defer func() {
		s.mu.Lock()
		if s.stopCh == stopCh {
			s.running = false
		}
		s.mu.Unlock()
	}()

	if s.watcher != nil {
		return s.watch(ctx, stopCh)
	}
	return s.poll(ctx, stopCh)
}

// Stop shuts the loop down and waits for the current document to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Scheduler) watch(ctx context.Context, stopCh <-chan struct{}) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	paths, err := s.watcher.Watch(ctx, s.folder)
	if err != nil {
		return err
	}
	logger.Info("watching %s", displayFolder(s.folder))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case p, ok := <-paths:
			if !ok {
				return ctx.Err()
			}
			s.report(s.pipeline.ProcessOne(ctx, p))
		}
	}
}

func (s *Scheduler) poll(ctx context.Context, stopCh <-chan struct{}) error {
	logger.Info("polling %s every %s", displayFolder(s.folder), s.interval)

	// Run once immediately on startup
	s.runBatch(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			s.runBatch(ctx)
		}
	}
}

func (s *Scheduler) runBatch(ctx context.Context) {
	report, err := s.pipeline.RunBatch(ctx)
	switch {
	case errors.Is(err, domain.ErrBatchInProgress):
		logger.Debug("scheduler: batch already running, skipping tick")
		return
	case err != nil && ctx.Err() == nil:
		logger.Warn("scheduler: batch failed: %v", err)
	}
	if report == nil {
		return
	}
	for _, res := range report.Results {
		s.report(res)
	}
}

func (s *Scheduler) report(res domain.DocumentResult) {
	if res.Err != nil {
		logger.Warn("%s failed at %s: %v", res.Title, res.Stage, res.Err)
	}
	if s.onResult != nil {
		s.onResult(res)
	}
}

func displayFolder(folder string) string {
	if folder == "" {
		return "/"
	}
	return folder
}
