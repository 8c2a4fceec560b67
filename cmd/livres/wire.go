package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/livres/internal/adapters/driven/config/file"
	"github.com/custodia-labs/livres/internal/adapters/driven/storage/artifacts"
	"github.com/custodia-labs/livres/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/livres/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/livres/internal/adapters/driving/cli"
	"github.com/custodia-labs/livres/internal/artifacts/docx"
	"github.com/custodia-labs/livres/internal/artifacts/speech"
	"github.com/custodia-labs/livres/internal/connectors/dropbox"
	"github.com/custodia-labs/livres/internal/connectors/filesystem"
	"github.com/custodia-labs/livres/internal/connectors/gdrive"
	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driven"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
	"github.com/custodia-labs/livres/internal/core/services"
	"github.com/custodia-labs/livres/internal/extractors"
	"github.com/custodia-labs/livres/internal/logger"
	"github.com/custodia-labs/livres/internal/normalisers/text"
	pdfpartitioner "github.com/custodia-labs/livres/internal/partitioner/pdf"
)

// closers collects resources released by Services.Close, in reverse order.
type closers []io.Closer

func (c *closers) add(v any) {
	if closer, ok := v.(io.Closer); ok {
		*c = append(*c, closer)
	}
}

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		errs = append(errs, c[i].Close())
	}
	return errors.Join(errs...)
}

// build wires the driven adapters into the core services.
func build(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	dataDir, err := resolveDataDir(opts.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("Data directory: %s", dataDir)

	var open closers

	var configStore driven.ConfigStore
	configPath := ""
	if opts.DryRun {
		configStore = memory.NewConfigStore()
	} else {
		fileStore, err := file.NewConfigStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		configStore = fileStore
		configPath = fileStore.Path()
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	outputDir := settings.Pipeline.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(dataDir, "data", "output")
	}
	artifactStore, err := artifacts.NewStore(outputDir)
	if err != nil {
		return nil, err
	}

	catalog, err := openCatalog(dataDir, opts.DryRun)
	if err != nil {
		return nil, err
	}
	open.add(catalog)

	svc := &cli.Services{
		Library:    services.NewLibraryService(catalog, artifactStore, docx.NewReader()),
		Settings:   settingsService,
		ConfigPath: configPath,
	}

	pipeline, watcher, err := buildPipeline(ctx, dataDir, settings, catalog, artifactStore, &open)
	if err != nil {
		// Library and settings commands still work without a pipeline.
		logger.Debug("Pipeline unavailable: %v", err)
		svc.PipelineErr = err
		svc.Close = open.Close
		return svc, nil
	}
	svc.Pipeline = pipeline
	svc.Close = open.Close

	folder := settings.Remote.Folder
	svc.NewScheduler = func(interval time.Duration) driving.Scheduler {
		schedOpts := []services.SchedulerOption{services.WithInterval(interval)}
		if watcher != nil {
			schedOpts = append(schedOpts, services.WithWatcher(watcher, folder))
		}
		return services.NewScheduler(pipeline, schedOpts...)
	}

	return svc, nil
}

func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".livres"), nil
}

func openCatalog(dataDir string, dryRun bool) (driven.CatalogStore, error) {
	if dryRun {
		return memory.NewCatalogStore(), nil
	}
	store, err := sqlite.NewStore(filepath.Join(dataDir, "data"))
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return store, nil
}

// buildPipeline constructs the orchestrator. The watcher is nil when the
// remote store cannot report new files.
func buildPipeline(
	ctx context.Context,
	dataDir string,
	settings *domain.AppSettings,
	catalog driven.CatalogStore,
	artifactStore driven.ArtifactStore,
	open *closers,
) (*services.PipelineOrchestrator, driven.RemoteWatcher, error) {
	remote, err := openRemote(ctx, settings.Remote)
	if err != nil {
		return nil, nil, err
	}
	open.add(remote)

	extractor, err := extractors.New(ctx, settings.Extractor)
	if err != nil {
		return nil, nil, fmt.Errorf("creating extractor: %w", err)
	}
	open.add(extractor)

	if aware, ok := extractor.(driven.PromptStoreAware); ok {
		prompts, err := file.NewPromptStore(filepath.Join(dataDir, "prompts"))
		if err != nil {
			return nil, nil, err
		}
		aware.SetPromptStore(prompts)
	}

	synthesizer, err := openSynthesizer(ctx, settings.Speech)
	if err != nil {
		return nil, nil, err
	}

	scratchDir := settings.Pipeline.ScratchDir
	if scratchDir == "" {
		scratchDir = filepath.Join(os.TempDir(), "livres")
	}

	pipeline := services.NewPipelineOrchestrator(
		remote,
		pdfpartitioner.New(scratchDir, pdfpartitioner.WithChunkPages(settings.Pipeline.ChunkPages)),
		extractor,
		text.New(),
		docx.NewRenderer(),
		synthesizer,
		artifactStore,
		catalog,
		services.WithFolder(settings.Remote.Folder),
		services.WithPipelineSettings(settings.Pipeline),
		services.WithVoice(settings.Speech.Voice),
	)

	watcher, _ := remote.(driven.RemoteWatcher)
	return pipeline, watcher, nil
}

func openRemote(ctx context.Context, cfg domain.RemoteSettings) (driven.RemoteStore, error) {
	switch cfg.Provider {
	case domain.RemoteFilesystem:
		if cfg.Root == "" {
			return nil, fmt.Errorf("%w: remote.root is not set", domain.ErrInvalidInput)
		}
		return filesystem.New(cfg.Root), nil
	case domain.RemoteDropbox:
		return dropbox.New(cfg.DropboxToken, dropbox.DefaultConfig())
	case domain.RemoteGDrive:
		return gdrive.New(ctx, cfg.GDriveToken, gdrive.DefaultConfig())
	default:
		return nil, fmt.Errorf("%w: remote provider %q", domain.ErrUnsupportedType, cfg.Provider)
	}
}

func openSynthesizer(ctx context.Context, cfg domain.SpeechSettings) (*speech.Synthesizer, error) {
	svc, err := speech.NewService(ctx, speech.Credentials{
		AccessToken: cfg.AccessToken,
		File:        cfg.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthFailure, err)
	}
	return speech.New(svc, speech.WithMaxRequestBytes(cfg.MaxRequestBytes)), nil
}
