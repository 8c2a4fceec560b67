package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process new PDFs as they arrive",
	Long: `Keeps running and processes new documents in the background.

For a local folder, new or rewritten PDFs are processed as soon as they are
written. For Dropbox and Google Drive, the folder is processed every --interval.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 15*time.Minute, "polling interval for remote folders")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}
	if newScheduler == nil {
		return notConfigured("scheduler")
	}

	scheduler := newScheduler(watchInterval)
	cmd.Println("Watching for new documents (Ctrl+C to stop)...")

	ctx := cmd.Context()
	err := scheduler.Start(ctx)
	if ctx.Err() != nil && (err == nil || errors.Is(err, ctx.Err())) {
		cmd.Println("Stopped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
