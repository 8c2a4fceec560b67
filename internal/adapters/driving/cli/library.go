package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/livres/internal/core/domain"
)

var (
	libraryJSON   bool
	libraryOutput string
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse processed documents",
	Long:  `List processed documents, read their text, or play their narration.`,
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed documents",
	Args:  cobra.NoArgs,
	RunE:  runLibraryList,
}

var libraryShowCmd = &cobra.Command{
	Use:   "show [title]",
	Short: "Show a document's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryShow,
}

var libraryTextCmd = &cobra.Command{
	Use:   "text [title]",
	Short: "Print a document's text",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryText,
}

var libraryAudioCmd = &cobra.Command{
	Use:   "audio [title]",
	Short: "Play a document's narration",
	Long: `Opens the narration with the system's default player.
With --output, the audio file is copied to the given path instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryAudio,
}

func init() {
	libraryListCmd.Flags().BoolVar(&libraryJSON, "json", false, "output as JSON")
	libraryTextCmd.Flags().StringVarP(&libraryOutput, "output", "o", "", "write the text to a file")
	libraryAudioCmd.Flags().StringVarP(&libraryOutput, "output", "o", "", "copy the audio to a file")

	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryShowCmd)
	libraryCmd.AddCommand(libraryTextCmd)
	libraryCmd.AddCommand(libraryAudioCmd)
	rootCmd.AddCommand(libraryCmd)
}

func runLibraryList(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return notConfigured("library")
	}

	entries, err := libraryService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if libraryJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode documents: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		cmd.Println("The library is empty. Run 'livres process' to add documents.")
		return nil
	}

	for i := range entries {
		audio := "no"
		if entries[i].HasAudio() {
			audio = "yes"
		}
		cmd.Printf("  %s\n", entries[i].Title)
		cmd.Printf("    ID: %s\n", entries[i].ID)
		cmd.Printf("    Audio: %s\n", audio)
		cmd.Printf("    Updated: %s\n", formatTime(entries[i].UpdatedAt))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(entries))
	return nil
}

func runLibraryShow(cmd *cobra.Command, args []string) error {
	entry, err := resolveEntry(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Title:    %s\n", entry.Title)
	cmd.Printf("ID:       %s\n", entry.ID)
	cmd.Printf("Document: %s\n", entry.DocumentPath)
	if entry.HasAudio() {
		cmd.Printf("Audio:    %s\n", entry.AudioPath)
	} else {
		cmd.Println("Audio:    (none)")
	}
	cmd.Printf("Created:  %s\n", formatTime(entry.CreatedAt))
	cmd.Printf("Updated:  %s\n", formatTime(entry.UpdatedAt))
	return nil
}

func runLibraryText(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	entry, err := resolveEntry(ctx, args[0])
	if err != nil {
		return err
	}

	text, err := libraryService.Text(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	if libraryOutput != "" {
		if err := os.WriteFile(libraryOutput, []byte(text), 0o644); err != nil { //nolint:gosec // user-chosen output
			return fmt.Errorf("failed to write text: %w", err)
		}
		cmd.Printf("Text written to %s\n", libraryOutput)
		return nil
	}

	cmd.Println(text)
	return nil
}

func runLibraryAudio(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	entry, err := resolveEntry(ctx, args[0])
	if err != nil {
		return err
	}

	if libraryOutput == "" {
		if err := libraryService.OpenAudio(ctx, entry.ID); err != nil {
			return fmt.Errorf("failed to play narration: %w", err)
		}
		cmd.Printf("Playing %s\n", entry.Title)
		return nil
	}

	audio, _, err := libraryService.Audio(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("failed to open narration: %w", err)
	}
	defer audio.Close()

	out, err := os.Create(libraryOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if _, err := io.Copy(out, audio); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy narration: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to copy narration: %w", err)
	}

	cmd.Printf("Narration written to %s\n", libraryOutput)
	return nil
}

// resolveEntry finds an entry by title, then by ID.
func resolveEntry(ctx context.Context, query string) (*domain.CatalogEntry, error) {
	if libraryService == nil {
		return nil, notConfigured("library")
	}

	entry, suggestions, err := libraryService.Find(ctx, query)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	if entry, idErr := libraryService.Get(ctx, query); idErr == nil {
		return entry, nil
	}

	msg := fmt.Sprintf("no document titled %q", query)
	if len(suggestions) > 0 {
		msg += fmt.Sprintf("; did you mean %s?", quoteAll(suggestions))
	}
	return nil, errors.New(msg)
}

func quoteAll(titles []string) string {
	quoted := make([]string, len(titles))
	for i, t := range titles {
		quoted[i] = fmt.Sprintf("%q", t)
	}
	return strings.Join(quoted, ", ")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
