// Package artifacts stores generated documents and narrations on the local filesystem.
package artifacts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.ArtifactStore = (*Store)(nil)

const (
	stagePattern  = ".stage-*"
	backupSuffix  = ".bak"
	maxTitleBytes = 200
	titleHashLen  = 10
)

// Store writes artifacts as <dir>/<title>.<ext>.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at dir.
// If dir is empty, defaults to ~/.livres/data/output.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".livres", "data", "output")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating output directory: %w", domain.ErrArtifactWriteFailed, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns where an artifact with the given title and extension lands.
func (s *Store) PathFor(title, ext string) string {
	return filepath.Join(s.dir, SanitizeTitle(title)+"."+ext)
}

type placement struct {
	stored  domain.StoredArtifact
	staged  string
	backup  string
	renamed bool
}

// Commit writes all artifacts for a title, or none of them.
// Existing artifacts with the same names are replaced; on failure they are restored.
func (s *Store) Commit(ctx context.Context, title string, artifacts ...domain.Artifact) ([]domain.StoredArtifact, error) {
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: %w: no artifacts", domain.ErrArtifactWriteFailed, domain.ErrInvalidInput)
	}

	places := make([]*placement, 0, len(artifacts))
	seen := make(map[string]bool, len(artifacts))
	for _, a := range artifacts {
		if a.Extension == "" {
			return nil, fmt.Errorf("%w: %w: %s artifact without extension",
				domain.ErrArtifactWriteFailed, domain.ErrInvalidInput, a.Kind)
		}
		target := s.PathFor(title, a.Extension)
		if seen[target] {
			return nil, fmt.Errorf("%w: %w: duplicate artifact %s",
				domain.ErrArtifactWriteFailed, domain.ErrInvalidInput, filepath.Base(target))
		}
		seen[target] = true
		places = append(places, &placement{stored: domain.StoredArtifact{Kind: a.Kind, Path: target}})
	}

	// Stage everything first so a write failure never touches existing files.
	for i, a := range artifacts {
		if err := ctx.Err(); err != nil {
			s.discard(places)
			return nil, fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err)
		}
		staged, err := s.stage(a.Data)
		if err != nil {
			s.discard(places)
			return nil, fmt.Errorf("%w: staging %s: %w", domain.ErrArtifactWriteFailed, a.Kind, err)
		}
		places[i].staged = staged
	}

	for _, p := range places {
		if err := s.place(p); err != nil {
			s.rollback(places)
			return nil, fmt.Errorf("%w: %w", domain.ErrArtifactWriteFailed, err)
		}
	}

	stored := make([]domain.StoredArtifact, 0, len(places))
	for _, p := range places {
		if p.backup != "" {
			if err := os.Remove(p.backup); err != nil {
				logger.Warn("removing backup %s: %v", p.backup, err)
			}
		}
		stored = append(stored, p.stored)
	}
	return stored, nil
}

// Open opens a stored artifact for reading.
func (s *Store) Open(path string) (io.ReadSeekCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	return f, nil
}

func (s *Store) stage(data []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, stagePattern)
	if err != nil {
		return "", err
	}
	name := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(name)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", err
	}
	if err := os.Chmod(name, 0644); err != nil {
		os.Remove(name)
		return "", err
	}
	return name, nil
}

func (s *Store) place(p *placement) error {
	target := p.stored.Path
	if _, err := os.Stat(target); err == nil {
		p.backup = target + backupSuffix
		if err := os.Rename(target, p.backup); err != nil {
			p.backup = ""
			return fmt.Errorf("backing up %s: %w", filepath.Base(target), err)
		}
	}
	if err := os.Rename(p.staged, target); err != nil {
		return fmt.Errorf("placing %s: %w", filepath.Base(target), err)
	}
	p.renamed = true
	return nil
}

// rollback removes placed artifacts and restores the ones they replaced.
func (s *Store) rollback(places []*placement) {
	for _, p := range places {
		if p.renamed {
			os.Remove(p.stored.Path)
		}
		if p.backup != "" {
			if err := os.Rename(p.backup, p.stored.Path); err != nil {
				logger.Warn("restoring %s: %v", p.stored.Path, err)
			}
		}
	}
	s.discard(places)
}

func (s *Store) discard(places []*placement) {
	for _, p := range places {
		if p.staged != "" && !p.renamed {
			os.Remove(p.staged)
		}
	}
}

// SanitizeTitle turns a title into a safe file name stem.
// A title that had to be altered gets a short hash of the original appended,
// so distinct titles never share a stem.
func SanitizeTitle(title string) string {
	stem := cleanTitle(title)
	if stem == title {
		return stem
	}
	sum := sha256.Sum256([]byte(title))
	return stem + "-" + hex.EncodeToString(sum[:])[:titleHashLen]
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, title)
	title = strings.TrimLeft(title, ".")

	if len(title) > maxTitleBytes {
		cut := maxTitleBytes
		for cut > 0 && !isRuneStart(title[cut]) {
			cut--
		}
		title = title[:cut]
	}
	if title == "" {
		return "untitled"
	}
	return title
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
