package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/livres/internal/adapters/driven/config/file"
	"github.com/custodia-labs/livres/internal/adapters/driving/cli"
	"github.com/custodia-labs/livres/internal/core/domain"
	"github.com/custodia-labs/livres/internal/core/services"
)

func clearSecrets(t *testing.T) {
	t.Helper()
	for _, env := range []string{
		services.EnvDropboxToken,
		services.EnvGDriveToken,
		services.EnvGeminiAPIKey,
		services.EnvSpeechCredentials,
		services.EnvSpeechAccessToken,
	} {
		t.Setenv(env, "")
	}
}

func TestBuild_DryRunWithoutCredentials(t *testing.T) {
	clearSecrets(t)

	svc, err := build(context.Background(), cli.Options{DataDir: t.TempDir(), DryRun: true})

	require.NoError(t, err)
	assert.NotNil(t, svc.Library)
	assert.NotNil(t, svc.Settings)
	assert.Nil(t, svc.Pipeline)
	assert.Nil(t, svc.NewScheduler)
	assert.ErrorIs(t, svc.PipelineErr, domain.ErrAuthFailure)
	assert.Empty(t, svc.ConfigPath)

	entries, err := svc.Library.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, svc.Close())
}

func TestBuild_FilesystemRemote(t *testing.T) {
	clearSecrets(t)
	t.Setenv(services.EnvSpeechAccessToken, "test-token")

	dataDir := t.TempDir()
	root := t.TempDir()

	store, err := file.NewConfigStore(dataDir)
	require.NoError(t, err)
	settings := services.NewSettingsService(store)
	require.NoError(t, settings.Set(services.KeyRemoteProvider, "filesystem"))
	require.NoError(t, settings.Set(services.KeyRemoteRoot, root))

	svc, err := build(context.Background(), cli.Options{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.PipelineErr)
	require.NotNil(t, svc.Pipeline)
	require.NotNil(t, svc.NewScheduler)
	assert.Equal(t, filepath.Join(dataDir, file.FileName), svc.ConfigPath)

	scheduler := svc.NewScheduler(time.Minute)
	assert.IsType(t, &services.Scheduler{}, scheduler)

	report, err := svc.Pipeline.RunBatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestBuild_FilesystemWithoutRoot(t *testing.T) {
	clearSecrets(t)

	dataDir := t.TempDir()
	store, err := file.NewConfigStore(dataDir)
	require.NoError(t, err)
	require.NoError(t, services.NewSettingsService(store).Set(services.KeyRemoteProvider, "filesystem"))

	svc, err := build(context.Background(), cli.Options{DataDir: dataDir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	assert.ErrorIs(t, svc.PipelineErr, domain.ErrInvalidInput)
}

func TestOpenRemote(t *testing.T) {
	ctx := context.Background()

	_, err := openRemote(ctx, domain.RemoteSettings{Provider: domain.RemoteGDrive})
	assert.ErrorIs(t, err, domain.ErrAuthFailure)

	_, err = openRemote(ctx, domain.RemoteSettings{Provider: domain.RemoteDropbox})
	assert.ErrorIs(t, err, domain.ErrAuthFailure)

	remote, err := openRemote(ctx, domain.RemoteSettings{Provider: domain.RemoteGDrive, GDriveToken: "t"})
	require.NoError(t, err)
	assert.NotNil(t, remote)

	_, err = openRemote(ctx, domain.RemoteSettings{Provider: "s3"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

type recordingCloser struct {
	name  string
	order *[]string
	err   error
}

func (c recordingCloser) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestClosers_ReverseOrder(t *testing.T) {
	var order []string
	var c closers
	c.add(recordingCloser{name: "catalog", order: &order})
	c.add("not a closer")
	c.add(recordingCloser{name: "remote", order: &order, err: errors.New("busy")})

	err := c.Close()

	assert.Equal(t, []string{"remote", "catalog"}, order)
	assert.EqualError(t, err, "busy")
}

func TestResolveDataDir(t *testing.T) {
	dir, err := resolveDataDir("/srv/livres")
	require.NoError(t, err)
	assert.Equal(t, "/srv/livres", dir)

	t.Setenv("HOME", "/home/reader")
	dir, err = resolveDataDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/reader", ".livres"), dir)
}
