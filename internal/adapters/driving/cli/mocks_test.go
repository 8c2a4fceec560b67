package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// readSeekNopCloser adds a no-op Close to a bytes.Reader.
type readSeekNopCloser struct {
	*bytes.Reader
}

func (readSeekNopCloser) Close() error { return nil }

// mockLibraryService implements driving.LibraryService for testing.
type mockLibraryService struct {
	entries []domain.CatalogEntry
	texts   map[string]string
	audio   map[string][]byte
	listErr error
	played  []string
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.CatalogEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.entries == nil {
		return []domain.CatalogEntry{}, nil
	}
	return m.entries, nil
}

func (m *mockLibraryService) Get(_ context.Context, id string) (*domain.CatalogEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			return &m.entries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
}

func (m *mockLibraryService) Find(_ context.Context, title string) (*domain.CatalogEntry, []string, error) {
	var suggestions []string
	for i := range m.entries {
		if strings.EqualFold(m.entries[i].Title, title) {
			return &m.entries[i], nil, nil
		}
		if strings.HasPrefix(strings.ToLower(m.entries[i].Title), strings.ToLower(title)) {
			suggestions = append(suggestions, m.entries[i].Title)
		}
	}
	return nil, suggestions, fmt.Errorf("%w: %s", domain.ErrNotFound, title)
}

func (m *mockLibraryService) Text(_ context.Context, id string) (string, error) {
	text, ok := m.texts[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockLibraryService) Audio(_ context.Context, id string) (io.ReadSeekCloser, string, error) {
	data, ok := m.audio[id]
	if !ok {
		return nil, "", domain.ErrNotFound
	}
	return readSeekNopCloser{bytes.NewReader(data)}, id + ".mp3", nil
}

func (m *mockLibraryService) OpenAudio(_ context.Context, id string) error {
	if _, ok := m.audio[id]; !ok {
		return domain.ErrNotFound
	}
	m.played = append(m.played, id)
	return nil
}

// mockPipelineService implements driving.PipelineService for testing.
type mockPipelineService struct {
	report    *domain.BatchReport
	batchErr  error
	result    domain.DocumentResult
	status    *driving.PipelineStatus
	processed []string

	// waitForPoll makes RunBatch block until Status has been called.
	waitForPoll bool
	pollOnce    sync.Once
	polled      chan struct{}
}

func (m *mockPipelineService) RunBatch(_ context.Context) (*domain.BatchReport, error) {
	if m.waitForPoll {
		select {
		case <-m.polledCh():
		case <-time.After(2 * time.Second):
		}
	}
	return m.report, m.batchErr
}

func (m *mockPipelineService) ProcessOne(_ context.Context, remotePath string) domain.DocumentResult {
	m.processed = append(m.processed, remotePath)
	res := m.result
	res.Path = remotePath
	return res
}

func (m *mockPipelineService) Status() *driving.PipelineStatus {
	ch := m.polledCh()
	m.pollOnce.Do(func() { close(ch) })
	if m.status == nil {
		return &driving.PipelineStatus{}
	}
	return m.status
}

func (m *mockPipelineService) polledCh() chan struct{} {
	if m.polled == nil {
		m.polled = make(chan struct{})
	}
	return m.polled
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	keys        []string
	values      map[string]string
	setErr      error
	validateErr error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string { return m.keys }

func (m *mockSettingsService) Lookup(key string) (string, error) {
	for _, k := range m.keys {
		if k == key {
			return m.values[key], nil
		}
	}
	return "", fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// mockScheduler implements driving.Scheduler for testing.
type mockScheduler struct {
	interval time.Duration
	startErr error
	started  atomic.Bool
	stopped  atomic.Bool
}

func (m *mockScheduler) Start(ctx context.Context) error {
	m.started.Store(true)
	if m.startErr != nil {
		return m.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error {
	m.stopped.Store(true)
	return nil
}

// withServices installs the given services for the duration of the test.
func withServices(t *testing.T, svc *Services) {
	t.Helper()
	prevBuilder := builder
	builder = nil
	applyServices(svc)
	t.Cleanup(func() {
		builder = prevBuilder
		applyServices(&Services{})
	})
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	// Flag values persist between executions of the same command tree.
	libraryJSON = false
	libraryOutput = ""
	tuiWatch = false
	watchInterval = 15 * time.Minute
	globalOpts = Options{}

	// Cobra only hands the root context to subcommands without one, so a
	// context left by an earlier execution would otherwise stick.
	setContext(rootCmd, ctx)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

func setContext(cmd *cobra.Command, ctx context.Context) {
	cmd.SetContext(ctx)
	for _, c := range cmd.Commands() {
		setContext(c, ctx)
	}
}

// findCommand returns the subcommand at path, or nil.
func findCommand(path ...string) *cobra.Command {
	cmd, _, err := rootCmd.Find(path)
	if err != nil || cmd == rootCmd {
		return nil
	}
	return cmd
}
