package cli

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings() *mockSettingsService {
	return &mockSettingsService{
		keys: []string{"remote.provider", "remote.folder", "extractor.api_key"},
		values: map[string]string{
			"remote.provider":   "dropbox",
			"remote.folder":     "/Livres",
			"extractor.api_key": "****abcd",
		},
	}
}

func TestSettingsList(t *testing.T) {
	settings := newTestSettings()
	settings.values["remote.folder"] = ""
	withServices(t, &Services{Settings: settings})

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "remote.provider    dropbox")
	assert.Contains(t, out, "remote.folder      (not set)")
	assert.Contains(t, out, "extractor.api_key  ****abcd")

	listOut, err := execute(t, "settings", "list")
	require.NoError(t, err)
	assert.Equal(t, out, listOut)
}

func TestSettings_NotConfigured(t *testing.T) {
	withServices(t, &Services{})

	for _, args := range [][]string{
		{"settings", "list"},
		{"settings", "get", "remote.folder"},
		{"settings", "set", "remote.folder", "/x"},
		{"settings", "check"},
	} {
		_, err := execute(t, args...)
		assert.EqualError(t, err, "settings service not configured", "%v", args)
	}
}

func TestSettingsGet(t *testing.T) {
	withServices(t, &Services{Settings: newTestSettings()})

	out, err := execute(t, "settings", "get", "remote.folder")

	require.NoError(t, err)
	assert.Equal(t, "/Livres\n", out)
}

func TestSettingsGet_UnknownKey(t *testing.T) {
	withServices(t, &Services{Settings: newTestSettings()})

	_, err := execute(t, "settings", "get", "remote.colour")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown setting")
}

func TestSettingsSet(t *testing.T) {
	settings := newTestSettings()
	withServices(t, &Services{Settings: settings})

	out, err := execute(t, "settings", "set", "remote.folder", "/Books")

	require.NoError(t, err)
	assert.Contains(t, out, "Set remote.folder")
	assert.Equal(t, "/Books", settings.values["remote.folder"])
}

func TestSettingsSet_ReadsSecret(t *testing.T) {
	settings := newTestSettings()
	withServices(t, &Services{Settings: settings})

	original := secretReader
	secretReader = func(io.Reader) string { return "sk-secret" }
	t.Cleanup(func() { secretReader = original })

	out, err := execute(t, "settings", "set", "extractor.api_key")

	require.NoError(t, err)
	assert.Contains(t, out, "extractor.api_key: ")
	assert.Equal(t, "sk-secret", settings.values["extractor.api_key"])
}

func TestSettingsSet_Invalid(t *testing.T) {
	settings := newTestSettings()
	settings.setErr = errors.New("invalid provider")
	withServices(t, &Services{Settings: settings})

	_, err := execute(t, "settings", "set", "remote.provider", "ftp")

	require.Error(t, err)
	assert.Equal(t, "failed to set remote.provider: invalid provider", err.Error())
}

func TestSettingsPath(t *testing.T) {
	withServices(t, &Services{ConfigPath: "/home/me/.livres/config.toml"})

	out, err := execute(t, "settings", "path")

	require.NoError(t, err)
	assert.Equal(t, "/home/me/.livres/config.toml\n", out)
}

func TestSettingsPath_InMemory(t *testing.T) {
	withServices(t, &Services{})

	_, err := execute(t, "settings", "path")

	assert.EqualError(t, err, "configuration file is not in use")
}

func TestSettingsCheck(t *testing.T) {
	withServices(t, &Services{Settings: newTestSettings()})

	out, err := execute(t, "settings", "check")

	require.NoError(t, err)
	assert.Equal(t, "OK\n", out)
}

func TestSettingsCheck_Fails(t *testing.T) {
	settings := newTestSettings()
	settings.validateErr = errors.New("dropbox token is not set")
	withServices(t, &Services{Settings: settings})

	out, err := execute(t, "settings", "check")

	require.Error(t, err)
	assert.Contains(t, out, "FAILED: dropbox token is not set")
}

func TestReadPassword_FromReader(t *testing.T) {
	assert.Equal(t, "abc", readPassword(strings.NewReader("  abc \n")))
	assert.Empty(t, readPassword(strings.NewReader("")))
}
