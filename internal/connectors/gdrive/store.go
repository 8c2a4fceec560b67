// Package gdrive lists and downloads source documents from Google Drive.
//
// Folders are addressed either by Drive folder ID ("1AbC...") or by a path
// from the top of My Drive ("/Livres/Inbox"). Listing paths have the form
// gdrive://files/<id>.
package gdrive

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.RemoteStore = (*Store)(nil)

const listFields googleapi.Field = "nextPageToken, files(id, name, mimeType, size, modifiedTime, trashed)"

// Store reads documents from a Google Drive account.
type Store struct {
	svc     *drive.Service
	cfg     *Config
	limiter *RateLimiter

	mu      sync.Mutex
	folders map[string]string
}

// New creates a store authenticated with an OAuth2 access token.
func New(ctx context.Context, token string, cfg *Config) (*Store, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: google drive access token not set", domain.ErrAuthFailure)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	svc, err := drive.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("%w: create drive client: %w", domain.ErrAuthFailure, err)
	}
	return NewWithService(svc, cfg), nil
}

// NewWithService creates a store around an existing Drive service.
func NewWithService(svc *drive.Service, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{
		svc:     svc,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		folders: make(map[string]string),
	}
}

// List returns the files of folder, following page tokens.
func (s *Store) List(ctx context.Context, folder string) ([]domain.RemoteFile, error) {
	parent, err := s.resolveFolder(ctx, folder)
	if err != nil {
		return nil, err
	}

	var out []domain.RemoteFile
	queue := []string{parent}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		var pageToken string
		for {
			page, err := s.listPage(ctx, id, pageToken)
			if err != nil {
				return nil, WrapError("list "+folder, err)
			}
			for _, file := range page.Files {
				if file.MimeType == MimeTypeFolder {
					if s.cfg.Recursive && !file.Trashed {
						queue = append(queue, file.Id)
					}
					continue
				}
				if ShouldListFile(file) {
					out = append(out, FileToRemoteFile(file))
				}
			}
			if page.NextPageToken == "" {
				break
			}
			pageToken = page.NextPageToken
		}
	}

	logger.Debug("gdrive: %d files in %q", len(out), folder)
	return out, nil
}

// Fetch downloads the file at path.
func (s *Store) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, WrapError("fetch "+path, err)
	}

	resp, err := s.svc.Files.Get(FileID(path)).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		s.observe(err)
		return nil, WrapError("fetch "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.cfg.MaxFileBytes+1))
	if err != nil {
		return nil, WrapError("fetch "+path, err)
	}
	if int64(len(data)) > s.cfg.MaxFileBytes {
		return nil, fmt.Errorf("%w: fetch %s: file exceeds %d bytes",
			domain.ErrRemoteFetchFailed, path, s.cfg.MaxFileBytes)
	}
	return data, nil
}

func (s *Store) listPage(ctx context.Context, parent, pageToken string) (*drive.FileList, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	call := s.svc.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(parent))).
		Fields(listFields).
		OrderBy("name").
		PageSize(s.cfg.PageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	page, err := call.Do()
	s.observe(err)
	return page, err
}

// resolveFolder maps a folder argument to a Drive folder ID.
// Paths are resolved one segment at a time and cached.
func (s *Store) resolveFolder(ctx context.Context, folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if folder == "" || folder == "/" {
		return rootFolderID, nil
	}
	if !strings.HasPrefix(folder, "/") {
		return folder, nil
	}

	clean := path.Clean(folder)
	s.mu.Lock()
	id, ok := s.folders[clean]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	parent := rootFolderID
	for _, name := range strings.Split(strings.TrimPrefix(clean, "/"), "/") {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", WrapError("resolve "+folder, err)
		}
		q := fmt.Sprintf("'%s' in parents and name = '%s' and mimeType = '%s' and trashed = false",
			escapeQuery(parent), escapeQuery(name), MimeTypeFolder)
		res, err := s.svc.Files.List().Q(q).Fields("files(id)").PageSize(1).Context(ctx).Do()
		s.observe(err)
		if err != nil {
			return "", WrapError("resolve "+folder, err)
		}
		if len(res.Files) == 0 {
			return "", fmt.Errorf("%w: %w: folder %q", domain.ErrRemoteFetchFailed, domain.ErrNotFound, folder)
		}
		parent = res.Files[0].Id
	}

	s.mu.Lock()
	s.folders[clean] = parent
	s.mu.Unlock()
	return parent, nil
}

// observe starts a backoff when Drive reports a rate limit.
func (s *Store) observe(err error) {
	if IsRateLimited(err) {
		s.limiter.Backoff(retryAfter(err))
		logger.Debug("gdrive: rate limited until %s", s.limiter.RetryAt().Format("15:04:05"))
	}
}
