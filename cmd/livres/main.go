// Command livres converts scanned PDFs into text and narration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/livres/internal/adapters/driving/cli"
	"github.com/custodia-labs/livres/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	cli.SetVersion(version)
	cli.SetBuilder(build)
	defer func() {
		if err := cli.Close(); err != nil {
			logger.Warn("closing services: %v", err)
		}
	}()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
