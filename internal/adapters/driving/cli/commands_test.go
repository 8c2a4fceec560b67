package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("addr")

	require.NotNil(t, flag)
	assert.Equal(t, ":8080", flag.DefValue)
}

func TestServeCmd_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "serve")

	assert.EqualError(t, err, "library service not configured")
}

func TestMCPServeCmd_Flags(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "library service is required")
}

func TestTUICmd_Flags(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.NotNil(t, tuiCmd.Flags().Lookup("watch"))
}

func TestTUICmd_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "tui")

	assert.EqualError(t, err, "library service not configured")
}

func TestTUICmd_WatchRequiresPipeline(t *testing.T) {
	withServices(t, &Services{Library: &mockLibraryService{}})

	_, err := execute(t, "tui", "--watch")

	assert.EqualError(t, err, "pipeline service not configured")
}

func TestStartBackground(t *testing.T) {
	scheduler := &mockScheduler{}

	stop := startBackground(t.Context(), scheduler)
	assert.Eventually(t, func() bool { return scheduler.started.Load() }, time.Second, 5*time.Millisecond)
	stop()

	assert.True(t, scheduler.stopped.Load())
}
