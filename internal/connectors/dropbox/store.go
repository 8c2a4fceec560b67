// Package dropbox lists and downloads source documents from Dropbox.
package dropbox

import (
	"context"
	"fmt"
	"io"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox"
	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.RemoteStore = (*Store)(nil)

// Store reads documents from a Dropbox account.
type Store struct {
	client  files.Client
	cfg     *Config
	limiter *rate.Limiter
}

// New creates a store authenticated with an access token.
func New(token string, cfg *Config) (*Store, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: dropbox access token not set", domain.ErrAuthFailure)
	}
	client := files.New(dropbox.Config{
		Token:    token,
		LogLevel: dropbox.LogOff,
	})
	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a store around an existing files client.
func NewWithClient(client files.Client, cfg *Config) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{
		client:  client,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
}

// List returns the files of folder, following pagination cursors.
func (s *Store) List(ctx context.Context, folder string) ([]domain.RemoteFile, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, WrapError("list "+folder, err)
	}

	arg := files.NewListFolderArg(normaliseFolder(folder))
	arg.Recursive = s.cfg.Recursive
	res, err := s.client.ListFolder(arg)
	if err != nil {
		return nil, WrapError("list "+folder, err)
	}

	var out []domain.RemoteFile
	for {
		for _, entry := range res.Entries {
			if file, ok := entry.(*files.FileMetadata); ok && ShouldListFile(file) {
				out = append(out, FileToRemoteFile(file))
			}
		}
		if !res.HasMore {
			break
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, WrapError("list "+folder, err)
		}
		res, err = s.client.ListFolderContinue(files.NewListFolderContinueArg(res.Cursor))
		if err != nil {
			return nil, WrapError("list "+folder, err)
		}
	}

	logger.Debug("dropbox: %d files in %q", len(out), folder)
	return out, nil
}

// Fetch downloads the file at path.
func (s *Store) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, WrapError("fetch "+path, err)
	}

	_, body, err := s.client.Download(files.NewDownloadArg(path))
	if err != nil {
		return nil, WrapError("fetch "+path, err)
	}
	defer body.Close()

	// The SDK has no context support; closing the body aborts a stalled download.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	data, err := io.ReadAll(body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, WrapError("fetch "+path, ctx.Err())
		}
		return nil, WrapError("fetch "+path, err)
	}
	return data, nil
}
