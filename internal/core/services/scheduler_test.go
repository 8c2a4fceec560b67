package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// mockPipelineService implements driving.PipelineService for testing.
type mockPipelineService struct {
	mu        sync.Mutex
	batches   int
	processed []string
	batchErr  error
	report    *domain.BatchReport
}

func (m *mockPipelineService) RunBatch(_ context.Context) (*domain.BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	return m.report, m.batchErr
}

func (m *mockPipelineService) ProcessOne(_ context.Context, remotePath string) domain.DocumentResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed = append(m.processed, remotePath)
	return domain.DocumentResult{Path: remotePath, Title: remotePath, Stage: domain.StageDone}
}

func (m *mockPipelineService) Status() *driving.PipelineStatus {
	return &driving.PipelineStatus{}
}

func (m *mockPipelineService) batchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// mockRemoteWatcher implements driven.RemoteWatcher for testing.
type mockRemoteWatcher struct {
	ch     chan string
	err    error
	folder string
}

func (m *mockRemoteWatcher) Watch(_ context.Context, folder string) (<-chan string, error) {
	m.folder = folder
	if m.err != nil {
		return nil, m.err
	}
	return m.ch, nil
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(&mockPipelineService{})

	assert.Equal(t, DefaultPollInterval, s.interval)
	assert.Nil(t, s.watcher)
}

func TestNewScheduler_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(&mockPipelineService{}, WithInterval(0))

	assert.Equal(t, DefaultPollInterval, s.interval)
}

func TestScheduler_Poll_RunsImmediatelyAndOnTick(t *testing.T) {
	pipeline := &mockPipelineService{report: &domain.BatchReport{
		Results: []domain.DocumentResult{{Title: "a", Stage: domain.StageDone}},
	}}

	var mu sync.Mutex
	var results []domain.DocumentResult
	s := NewScheduler(pipeline,
		WithInterval(20*time.Millisecond),
		WithResultHandler(func(r domain.DocumentResult) {
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		}),
	)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return pipeline.batchCount() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, len(results), 2)
	assert.Equal(t, "a", results[0].Title)
}

func TestScheduler_Poll_SkipsBusyBatch(t *testing.T) {
	pipeline := &mockPipelineService{batchErr: domain.ErrBatchInProgress}
	called := false
	s := NewScheduler(pipeline, WithResultHandler(func(domain.DocumentResult) { called = true }))

	s.runBatch(context.Background())

	assert.Equal(t, 1, pipeline.batchCount())
	assert.False(t, called)
}

func TestScheduler_Poll_ContextCancelled(t *testing.T) {
	s := NewScheduler(&mockPipelineService{}, WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_Watch_ProcessesEachPath(t *testing.T) {
	pipeline := &mockPipelineService{}
	watcher := &mockRemoteWatcher{ch: make(chan string)}

	var mu sync.Mutex
	var seen []string
	s := NewScheduler(pipeline,
		WithWatcher(watcher, "/Livres"),
		WithResultHandler(func(r domain.DocumentResult) {
			mu.Lock()
			seen = append(seen, r.Path)
			mu.Unlock()
		}),
	)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	watcher.ch <- "/Livres/a.pdf"
	watcher.ch <- "/Livres/b.pdf"
	close(watcher.ch)

	require.NoError(t, <-done)
	assert.Equal(t, "/Livres", watcher.folder)
	assert.Equal(t, []string{"/Livres/a.pdf", "/Livres/b.pdf"}, pipeline.processed)
	assert.Equal(t, []string{"/Livres/a.pdf", "/Livres/b.pdf"}, seen)
	assert.Zero(t, pipeline.batchCount())
}

func TestScheduler_Watch_Error(t *testing.T) {
	watchErr := errors.New("no such folder")
	s := NewScheduler(&mockPipelineService{}, WithWatcher(&mockRemoteWatcher{err: watchErr}, "/x"))

	err := s.Start(context.Background())

	assert.ErrorIs(t, err, watchErr)
}

func TestScheduler_StopWhenNotRunning(t *testing.T) {
	s := NewScheduler(&mockPipelineService{})

	assert.NoError(t, s.Stop())
}
