// Package filesystem serves a local folder as a remote store.
// It is used for offline runs and by the watch command, which reacts to
// PDFs dropped into the folder.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.RemoteStore   = (*Store)(nil)
	_ driven.RemoteWatcher = (*Store)(nil)
)

// DefaultDebounce is how long a file must stay quiet before Watch reports it.
const DefaultDebounce = 500 * time.Millisecond

// Store reads documents from a directory tree rooted at rootPath.
// Remote paths are slash separated and relative to the root, e.g. "/Livres/a.pdf".
type Store struct {
	rootPath string
	debounce time.Duration

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
}

// Option configures the store.
type Option func(*Store)

// WithDebounce sets the quiet period used by Watch.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New creates a store rooted at rootPath.
func New(rootPath string, opts ...Option) *Store {
	s := &Store{
		rootPath: rootPath,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the local directory backing the store.
func (s *Store) Root() string {
	return s.rootPath
}

// List returns the files of folder, sorted by name. Hidden files and directories are skipped.
func (s *Store) List(ctx context.Context, folder string) ([]domain.RemoteFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.localPath(folder)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapError("list "+folder, err)
	}

	files := make([]domain.RemoteFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Debug("skip %s: %v", entry.Name(), err)
			continue
		}
		files = append(files, domain.RemoteFile{
			Name:     entry.Name(),
			Path:     s.remotePath(filepath.Join(dir, entry.Name())),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Fetch reads the file at remote path p.
func (s *Store) Fetch(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.localPath(p))
	if err != nil {
		return nil, wrapError("fetch "+p, err)
	}
	return data, nil
}

// Stat returns the listing entry for a single remote path.
func (s *Store) Stat(p string) (domain.RemoteFile, error) {
	local := s.localPath(p)
	info, err := os.Stat(local)
	if err != nil {
		return domain.RemoteFile{}, wrapError("stat "+p, err)
	}
	return domain.RemoteFile{
		Name:     info.Name(),
		Path:     s.remotePath(local),
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Watch reports the remote path of every PDF created or rewritten in folder.
// Each path is reported once it has been quiet for the debounce period.
// The channel is closed when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, folder string) (<-chan string, error) {
	dir := s.localPath(folder)
	if _, err := os.Stat(dir); err != nil {
		return nil, wrapError("watch "+folder, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, wrapError("watch "+folder, err)
	}

	s.mu.Lock()
	s.watchers = append(s.watchers, watcher)
	s.mu.Unlock()

	out := make(chan string)
	go s.watchLoop(ctx, watcher, out)
	return out, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- string) {
	defer close(out)
	defer watcher.Close()

	ticker := time.NewTicker(s.debounce / 2)
	defer ticker.Stop()

	pending := make(map[string]time.Time)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if p, ok := s.handleFsEvent(event); ok {
				pending[p] = time.Now()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watch error: %v", err)

		case <-ticker.C:
			for p, last := range pending {
				if time.Since(last) < s.debounce {
					continue
				}
				delete(pending, p)
				select {
				case out <- p:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// handleFsEvent returns the remote path of a created or written PDF.
func (s *Store) handleFsEvent(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	name := filepath.Base(event.Name)
	if isHidden(name) || !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return s.remotePath(event.Name), true
}

// Close stops all watchers.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, w := range s.watchers {
		errs = append(errs, w.Close())
	}
	s.watchers = nil
	return errors.Join(errs...)
}

// localPath maps a remote path onto the root. Paths cannot escape the root.
func (s *Store) localPath(p string) string {
	clean := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(p)), "/")
	return filepath.Join(s.rootPath, filepath.FromSlash(clean))
}

func (s *Store) remotePath(local string) string {
	rel, err := filepath.Rel(s.rootPath, local)
	if err != nil {
		return filepath.ToSlash(local)
	}
	return "/" + filepath.ToSlash(rel)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

func wrapError(op string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w: %s", domain.ErrRemoteFetchFailed, domain.ErrNotFound, op)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w: %s", domain.ErrRemoteFetchFailed, domain.ErrAuthFailure, op)
	default:
		return fmt.Errorf("%w: %s: %w", domain.ErrRemoteFetchFailed, op, err)
	}
}
