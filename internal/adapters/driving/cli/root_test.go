package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Commands(t *testing.T) {
	for _, path := range [][]string{
		{"process"},
		{"watch"},
		{"library", "list"},
		{"library", "show"},
		{"library", "text"},
		{"library", "audio"},
		{"settings", "get"},
		{"settings", "set"},
		{"settings", "path"},
		{"settings", "check"},
		{"serve"},
		{"mcp", "serve"},
		{"tui"},
		{"version"},
	} {
		assert.NotNil(t, findCommand(path...), "missing command %v", path)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"verbose", "data-dir", "dry-run"} {
		assert.NotNil(t, flags.Lookup(name), name)
	}
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
}

func TestSetup_BuilderAppliesServices(t *testing.T) {
	withServices(t, &Services{})

	library := &mockLibraryService{}
	var gotOpts Options
	closed := false
	SetBuilder(func(_ context.Context, opts Options) (*Services, error) {
		gotOpts = opts
		return &Services{
			Library:    library,
			ConfigPath: "/tmp/livres/config.toml",
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	})

	out, err := execute(t, "--data-dir", "/tmp/livres", "--dry-run", "settings", "path")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/livres", gotOpts.DataDir)
	assert.True(t, gotOpts.DryRun)
	assert.Contains(t, out, "/tmp/livres/config.toml")
	assert.Equal(t, library, libraryService)

	require.NoError(t, Close())
	assert.True(t, closed)
	assert.NoError(t, Close(), "second close is a no-op")
}

func TestSetup_BuilderError(t *testing.T) {
	withServices(t, &Services{})
	SetBuilder(func(_ context.Context, _ Options) (*Services, error) {
		return nil, errors.New("config unreadable")
	})

	_, err := execute(t, "library", "list")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialise")
	assert.Contains(t, err.Error(), "config unreadable")
}

func TestSetup_VersionSkipsBuilder(t *testing.T) {
	withServices(t, &Services{})
	called := false
	SetBuilder(func(_ context.Context, _ Options) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, out, "livres version")
}

func TestSetVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIVRES_TEST_TOKEN=from-file\nLIVRES_TEST_KEEP=from-file\n"), 0o600))

	t.Setenv("LIVRES_TEST_KEEP", "from-env")
	t.Setenv("LIVRES_TEST_TOKEN", "")
	require.NoError(t, os.Unsetenv("LIVRES_TEST_TOKEN"))

	require.NoError(t, loadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("LIVRES_TEST_TOKEN"))
	assert.Equal(t, "from-env", os.Getenv("LIVRES_TEST_KEEP"), "environment wins over .env")
}

func TestLoadDotEnv_Missing(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestRequirePipeline(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		withServices(t, &Services{})

		err := requirePipeline()

		assert.EqualError(t, err, "pipeline service not configured")
	})

	t.Run("with reason", func(t *testing.T) {
		reason := errors.New("dropbox token is not set")
		withServices(t, &Services{PipelineErr: reason})

		err := requirePipeline()

		require.ErrorIs(t, err, reason)
		assert.Contains(t, err.Error(), "pipeline not configured")
	})

	t.Run("configured", func(t *testing.T) {
		withServices(t, &Services{Pipeline: &mockPipelineService{}})

		assert.NoError(t, requirePipeline())
	})
}
