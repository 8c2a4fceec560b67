package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/livres/internal/adapters/driving/tui"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// tuiWatch starts the background scheduler while the TUI runs.
var tuiWatch bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for livres.

The TUI lists the library, shows document text, plays narration, and can
process the remote folder.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Actions
  a        - Play narration
  p        - Process folder
  r        - Reload library
  Esc      - Back / Cancel
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiWatch, "watch", false, "process new documents in the background")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if libraryService == nil {
		return notConfigured("library")
	}

	if tuiWatch {
		if err := requirePipeline(); err != nil {
			return err
		}
		if newScheduler == nil {
			return notConfigured("scheduler")
		}
		stop := startBackground(cmd.Context(), newScheduler(watchInterval))
		defer stop()
	}

	app, err := tui.NewApp(tui.NewPorts(libraryService, pipelineService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startBackground runs the scheduler in a goroutine and returns a function
// that stops it.
func startBackground(ctx context.Context, scheduler driving.Scheduler) func() {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		if err := scheduler.Start(ctx); err != nil && ctx.Err() == nil {
			// Scheduler errors shouldn't block the TUI
			fmt.Fprintf(os.Stderr, "scheduler stopped: %v\n", err)
		}
	}()
	return func() {
		if err := scheduler.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
		}
		cancel()
	}
}
