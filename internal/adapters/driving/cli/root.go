// Package cli implements the livres command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/livres/internal/core/ports/driving"
	"github.com/custodia-labs/livres/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Options holds the global flags.
type Options struct {
	// DataDir overrides ~/.livres.
	DataDir string

	// Verbose enables debug logging.
	Verbose bool

	// DryRun keeps the catalog and settings in memory.
	DryRun bool
}

// Services bundles the driving ports the commands use.
type Services struct {
	Pipeline driving.PipelineService

	// PipelineErr explains why Pipeline is nil, typically missing credentials.
	PipelineErr error

	Library  driving.LibraryService
	Settings driving.SettingsService

	// NewScheduler builds the background loop used by watch.
	NewScheduler func(interval time.Duration) driving.Scheduler

	// ConfigPath is the settings file location.
	ConfigPath string

	// Close releases stores and remote clients.
	Close func() error
}

// Builder constructs the services once flags are parsed.
type Builder func(ctx context.Context, opts Options) (*Services, error)

// Services used by commands. Set by the builder, or directly by tests.
var (
	pipelineService driving.PipelineService
	pipelineErr     error
	libraryService  driving.LibraryService
	settingsService driving.SettingsService
	newScheduler    func(interval time.Duration) driving.Scheduler
	configPath      string
	closeServices   func() error
)

var (
	builder    Builder
	globalOpts Options
)

// skipServices marks commands that run without building services.
const skipServices = "skip-services"

var rootCmd = &cobra.Command{
	Use:   "livres",
	Short: "Turn scanned PDFs into text and narration",
	Long: `livres fetches PDFs from a remote folder, transcribes them chunk by chunk,
and stores a word-processor document and an audio narration for each one.

The library can then be browsed from the terminal, over HTTP, or by an
MCP-compatible assistant.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "data directory (default ~/.livres)")
	flags.BoolVar(&globalOpts.DryRun, "dry-run", false, "keep the catalog and settings in memory")
}

// SetBuilder registers the function that wires services.
func SetBuilder(b Builder) {
	builder = b
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Close releases whatever the builder opened.
func Close() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)

	if err := loadDotEnv(".env"); err != nil {
		logger.Warn("failed to load .env: %v", err)
	}

	if builder == nil || cmd.Annotations[skipServices] == "true" {
		return nil
	}

	svc, err := builder(cmd.Context(), globalOpts)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	applyServices(svc)
	return nil
}

func applyServices(svc *Services) {
	pipelineService = svc.Pipeline
	pipelineErr = svc.PipelineErr
	libraryService = svc.Library
	settingsService = svc.Settings
	newScheduler = svc.NewScheduler
	configPath = svc.ConfigPath
	closeServices = svc.Close
}

// loadDotEnv loads secrets from path without overriding the environment.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func notConfigured(name string) error {
	return fmt.Errorf("%s service not configured", name)
}

func requirePipeline() error {
	if pipelineService != nil {
		return nil
	}
	if pipelineErr != nil {
		return fmt.Errorf("pipeline not configured: %w", pipelineErr)
	}
	return notConfigured("pipeline")
}
