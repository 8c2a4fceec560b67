package cli

import (
	"github.com/spf13/cobra"

	httpapi "github.com/custodia-labs/livres/internal/adapters/driving/http"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library over HTTP",
	Long: `Starts an HTTP server exposing the library:

  GET  /api/books             list documents
  GET  /api/books/{id}        document details
  GET  /api/books/{id}/text   document text
  GET  /api/books/{id}/audio  narration (supports range requests)
  POST /api/batch             process the remote folder
  GET  /api/batch             status of the running batch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", httpapi.DefaultAddr, "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return notConfigured("library")
	}

	router, err := httpapi.NewRouter(&httpapi.Deps{
		Library:  libraryService,
		Pipeline: pipelineService,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Listening on %s\n", serveAddr)
	return httpapi.Serve(cmd.Context(), serveAddr, router)
}
