package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/testutil"
	"github.com/modpilot/modpilot/pkg/types"
)

func fileServer(t *testing.T, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInstallWritesFile(t *testing.T) {
	srv := fileServer(t, "jar-bytes", http.StatusOK)
	fs := testutil.NewMemoryFS()
	installer := NewInstaller(fs, srv.Client())

	name, err := installer.Install(context.Background(), "/instance/mods", types.VersionFile{
		Filename: "sodium-1.1.jar",
		URL:      srv.URL + "/sodium-1.1.jar",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "sodium-1.1.jar", name)

	data, err := fs.ReadFile("/instance/mods/sodium-1.1.jar")
	require.NoError(t, err)
	assert.Equal(t, "jar-bytes", string(data))
	assert.False(t, fs.Exists("/instance/mods/.sodium-1.1.jar.part"), "temp file is renamed away")
}

func TestInstallKeepsDisabledState(t *testing.T) {
	srv := fileServer(t, "jar-bytes", http.StatusOK)
	fs := testutil.NewMemoryFS()
	installer := NewInstaller(fs, srv.Client())

	name, err := installer.Install(context.Background(), "/instance/mods", types.VersionFile{
		Filename: "sodium-1.1.jar",
		URL:      srv.URL + "/sodium-1.1.jar",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "sodium-1.1.jar", name, "returned name is the enabled form")
	assert.True(t, fs.Exists("/instance/mods/sodium-1.1.jar.disabled"))
	assert.False(t, fs.Exists("/instance/mods/sodium-1.1.jar"))
}

func TestInstallFailsOnHTTPError(t *testing.T) {
	srv := fileServer(t, "gone", http.StatusNotFound)
	installer := NewInstaller(testutil.NewMemoryFS(), srv.Client())

	_, err := installer.Install(context.Background(), "/instance/mods", types.VersionFile{
		Filename: "sodium-1.1.jar",
		URL:      srv.URL + "/sodium-1.1.jar",
	}, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileDownload))
}

func TestInstallRejectsMissingURL(t *testing.T) {
	installer := NewInstaller(testutil.NewMemoryFS(), http.DefaultClient)

	_, err := installer.Install(context.Background(), "/instance/mods", types.VersionFile{Filename: "x.jar"}, false)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileDownload))
}

func TestToggleDisabledRenames(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/instance/mods/sodium.jar", []byte("x"), 0o644))
	installer := NewInstaller(fs, http.DefaultClient)

	item := &types.ContentItem{Filename: "sodium.jar", Path: "/instance/mods/sodium.jar"}
	require.NoError(t, installer.ToggleDisabled(item))
	assert.True(t, item.IsDisabled)
	assert.Equal(t, "/instance/mods/sodium.jar.disabled", item.Path)
	assert.True(t, fs.Exists("/instance/mods/sodium.jar.disabled"))

	require.NoError(t, installer.ToggleDisabled(item))
	assert.False(t, item.IsDisabled)
	assert.True(t, fs.Exists("/instance/mods/sodium.jar"))
}

func TestToggleDisabledRevertsOnFailure(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/instance/mods/sodium.jar", []byte("x"), 0o644))
	fs.WithError("/instance/mods/sodium.jar", assert.AnError)
	installer := NewInstaller(fs, http.DefaultClient)

	item := &types.ContentItem{Filename: "sodium.jar", Path: "/instance/mods/sodium.jar"}
	err := installer.ToggleDisabled(item)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileToggle))
	assert.False(t, item.IsDisabled, "state reverts when the rename fails")
	assert.Equal(t, "/instance/mods/sodium.jar", item.Path)
}

func TestDeleteFileAndDirectory(t *testing.T) {
	fs := testutil.NewMemoryFS()
	require.NoError(t, fs.WriteFile("/instance/mods/sodium.jar", []byte("x"), 0o644))
	require.NoError(t, fs.WriteFile("/instance/resourcepacks/pack/pack.mcmeta", []byte("{}"), 0o644))
	installer := NewInstaller(fs, http.DefaultClient)

	require.NoError(t, installer.Delete(&types.ContentItem{
		Filename: "sodium.jar", Path: "/instance/mods/sodium.jar",
	}))
	assert.False(t, fs.Exists("/instance/mods/sodium.jar"))

	require.NoError(t, installer.Delete(&types.ContentItem{
		Filename: "pack", Path: "/instance/resourcepacks/pack", IsDirectory: true,
	}))
	assert.False(t, fs.Exists("/instance/resourcepacks/pack"))
	assert.False(t, fs.Exists("/instance/resourcepacks/pack/pack.mcmeta"))
}
