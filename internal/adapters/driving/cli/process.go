package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/ports/driving"
)

// progressInterval is how often process polls the pipeline status.
var progressInterval = 500 * time.Millisecond

var processCmd = &cobra.Command{
	Use:   "process [remote-path]",
	Short: "Transcribe and narrate PDFs from the remote folder",
	Long: `Lists the configured remote folder and processes every PDF in it, one after
another. Each document is split into chunks, transcribed, and saved as a
document and an audio narration, then recorded in the library.

If a remote path is given, only that file is processed.

A failed document does not stop the batch. The command exits with an error
if any document failed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	ctx := cmd.Context()

	var run func() (*domain.BatchReport, error)
	if len(args) > 0 {
		remotePath := args[0]
		cmd.Printf("Processing %s...\n", remotePath)
		run = func() (*domain.BatchReport, error) {
			started := time.Now()
			res := pipelineService.ProcessOne(ctx, remotePath)
			return &domain.BatchReport{
				Started:  started,
				Finished: time.Now(),
				Results:  []domain.DocumentResult{res},
			}, nil
		}
	} else {
		cmd.Println("Processing remote folder...")
		run = func() (*domain.BatchReport, error) {
			return pipelineService.RunBatch(ctx)
		}
	}

	report, err := processWithProgress(ctx, cmd, pipelineService, run)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	printReport(cmd, report)

	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(report.Results))
	}
	return nil
}

// processWithProgress runs fn while printing stage transitions.
func processWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	pipeline driving.PipelineService,
	fn func() (*domain.BatchReport, error),
) (*domain.BatchReport, error) {
	type outcome struct {
		report *domain.BatchReport
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		report, err := fn()
		done <- outcome{report, err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	seen := make(map[string]string)
	for {
		select {
		case out := <-done:
			return out.report, out.err
		case <-ctx.Done():
			out := <-done
			if out.err == nil {
				out.err = ctx.Err()
			}
			return out.report, out.err
		case <-ticker.C:
			printProgress(cmd, pipeline.Status(), seen)
		}
	}
}

func printProgress(cmd *cobra.Command, status *driving.PipelineStatus, seen map[string]string) {
	if status == nil {
		return
	}
	for _, doc := range status.Documents {
		if doc.Stage.IsTerminal() {
			continue
		}
		desc := doc.Describe()
		if seen[doc.Path] == desc {
			continue
		}
		seen[doc.Path] = desc
		cmd.Printf("  %s: %s\n", doc.Title, desc)
	}
}

func printReport(cmd *cobra.Command, report *domain.BatchReport) {
	if report == nil {
		return
	}
	if len(report.Results) == 0 {
		cmd.Println("No documents found.")
		return
	}

	cmd.Println()
	for _, res := range report.Results {
		switch {
		case res.Err != nil:
			cmd.Printf("  ✗ %s (failed at %s): %v\n", res.Title, res.Stage, res.Err)
		case res.Stage == domain.StageSkipped:
			cmd.Printf("  - %s (skipped)\n", res.Title)
		default:
			cmd.Printf("  ✓ %s (%d chunks)\n", res.Title, res.Chunks)
		}
	}

	cmd.Printf("\nProcessed %d documents in %s: %d succeeded, %d failed, %d skipped\n",
		len(report.Results),
		report.Duration().Round(time.Millisecond),
		report.Succeeded(),
		report.Failed(),
		report.Skipped(),
	)
}
