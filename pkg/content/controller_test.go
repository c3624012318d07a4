package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/testutil"
	"github.com/modpilot/modpilot/pkg/types"
)

// fixture is a controller over a seeded in-memory mods directory:
// two Modrinth mods, one centrally managed mod and one local-only jar.
type fixture struct {
	fs     *testutil.MemoryFS
	source *testutil.FakeVersionSource
	ctrl   *Controller
}

func newFixture(t *testing.T, httpClient *http.Client) *fixture {
	t.Helper()

	fs := testutil.NewMemoryFS()
	for _, name := range []string{"sodium.jar", "lithium.jar", "pack-mod.jar", "local.jar"} {
		require.NoError(t, fs.WriteFile("/instance/mods/"+name, []byte("bytes-"+name), 0o644))
	}

	store := NewMetadataStore(fs, "/instance/mods")
	require.NoError(t, store.Set("sodium.jar", ItemMetadata{
		Modrinth: &types.ModrinthInfo{ProjectID: "P1", VersionID: "V1", VersionNumber: "1.0.0"},
	}))
	require.NoError(t, store.Set("lithium.jar", ItemMetadata{
		Modrinth: &types.ModrinthInfo{ProjectID: "P2", VersionID: "V5", VersionNumber: "0.12.0"},
	}))
	require.NoError(t, store.Set("pack-mod.jar", ItemMetadata{
		Modrinth:  &types.ModrinthInfo{ProjectID: "P3", VersionID: "V7"},
		ManagedBy: "norisk",
	}))

	source := testutil.NewFakeVersionSource()
	ctrl := NewController(ControllerOptions{
		FS:                fs,
		HTTP:              httpClient,
		Source:            source,
		Profile:           testProfile(),
		ContentType:       types.ContentTypeMod,
		Dir:               "/instance/mods",
		UpdateConcurrency: 1,
	})
	require.NoError(t, ctrl.Refresh(context.Background()))

	return &fixture{fs: fs, source: source, ctrl: ctrl}
}

func TestControllerRefreshClearsSelection(t *testing.T) {
	f := newFixture(t, nil)

	items := f.ctrl.Items()
	require.Len(t, items, 4)
	assert.Equal(t, "lithium.jar", items[0].Filename, "inventory is sorted by filename")

	f.ctrl.Select("sodium.jar")
	require.NoError(t, f.ctrl.Refresh(context.Background()))
	assert.Empty(t, f.ctrl.SelectedNames())
}

func TestControllerFilteredItems(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.SetSearchQuery("SOD")
	filtered := f.ctrl.FilteredItems()
	require.Len(t, filtered, 1)
	assert.Equal(t, "sodium.jar", filtered[0].Filename)

	f.ctrl.SetSearchQuery("")
	assert.Len(t, f.ctrl.FilteredItems(), 4)

	// Filtering is a view; the inventory is untouched.
	f.ctrl.SetSearchQuery("no-such-mod")
	assert.Empty(t, f.ctrl.FilteredItems())
	assert.Len(t, f.ctrl.Items(), 4)
}

func TestControllerToggle(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctrl.Toggle("sodium.jar"))
	assert.True(t, f.fs.Exists("/instance/mods/sodium.jar.disabled"))
	assert.False(t, f.fs.Exists("/instance/mods/sodium.jar"))
	assert.Equal(t, ItemIdle, f.ctrl.ItemState("sodium.jar"))
}

func TestControllerToggleBusyRejected(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctrl.busy.begin("sodium.jar", ItemUpdating))
	defer f.ctrl.busy.end("sodium.jar")

	err := f.ctrl.Toggle("sodium.jar")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrItemBusy), "busy items reject, they do not queue")
	assert.True(t, f.ctrl.AnyTaskRunning())
}

func TestControllerDelete(t *testing.T) {
	f := newFixture(t, nil)

	require.NoError(t, f.ctrl.Delete("local.jar"))
	assert.False(t, f.fs.Exists("/instance/mods/local.jar"))
	assert.Len(t, f.ctrl.Items(), 3)

	err := f.ctrl.Delete("pack-mod.jar")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrItemManaged))
	assert.True(t, f.fs.Exists("/instance/mods/pack-mod.jar"))
}

func TestControllerBatchToggleIsolatesFailures(t *testing.T) {
	f := newFixture(t, nil)
	f.fs.WithError("/instance/mods/lithium.jar", assert.AnError)

	f.ctrl.Select("sodium.jar")
	f.ctrl.Select("lithium.jar")
	f.ctrl.Select("local.jar")

	result := f.ctrl.BatchToggle()
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "lithium.jar", result.Failed[0].Filename)

	// The failure in the middle never blocks the others.
	assert.True(t, f.fs.Exists("/instance/mods/sodium.jar.disabled"))
	assert.True(t, f.fs.Exists("/instance/mods/local.jar.disabled"))
	assert.True(t, f.fs.Exists("/instance/mods/lithium.jar"))

	// Failed items stay selected for retry, succeeded ones do not.
	assert.Equal(t, []string{"lithium.jar"}, f.ctrl.SelectedNames())
	assert.False(t, f.ctrl.AnyTaskRunning())
}

func TestControllerBatchDeleteSkipsManaged(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.Select("sodium.jar")
	f.ctrl.Select("pack-mod.jar")

	result := f.ctrl.BatchDelete()
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, []string{"pack-mod.jar"}, result.Skipped)
	assert.Empty(t, result.Failed)
	assert.True(t, result.Ok())

	assert.False(t, f.fs.Exists("/instance/mods/sodium.jar"))
	assert.True(t, f.fs.Exists("/instance/mods/pack-mod.jar"), "managed items are never deleted")

	// No deleted or skipped name lingers in the selection.
	assert.Empty(t, f.ctrl.SelectedNames())
	assert.Len(t, f.ctrl.Items(), 3)
}

func TestControllerCheckForUpdatesReplacesWholesale(t *testing.T) {
	f := newFixture(t, nil)
	f.source.AddVersions(types.PlatformModrinth, "P1",
		testutil.Version(types.PlatformModrinth, "P1", "V2", "1.1.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	f.source.AddVersions(types.PlatformModrinth, "P2",
		testutil.Version(types.PlatformModrinth, "P2", "V5", "0.12.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, f.ctrl.CheckForUpdates(context.Background()))
	updates := f.ctrl.Updates()
	require.Len(t, updates, 1)
	assert.Contains(t, updates, "modrinth:P1")
	assert.NoError(t, f.ctrl.UpdateError())

	// A later check replaces the index wholesale.
	f.source.SetVersions(types.PlatformModrinth, "P1",
		testutil.Version(types.PlatformModrinth, "P1", "V1", "1.0.0", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	f.source.SetVersions(types.PlatformModrinth, "P2",
		testutil.Version(types.PlatformModrinth, "P2", "V6", "0.13.0", time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)))

	require.NoError(t, f.ctrl.CheckForUpdates(context.Background()))
	updates = f.ctrl.Updates()
	require.Len(t, updates, 1)
	assert.NotContains(t, updates, "modrinth:P1")
	assert.Contains(t, updates, "modrinth:P2")
}

func TestControllerCheckForUpdatesRecordsAggregateError(t *testing.T) {
	f := newFixture(t, nil)
	f.source.AddVersions(types.PlatformModrinth, "P1",
		testutil.Version(types.PlatformModrinth, "P1", "V2", "1.1.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	f.source.FailWith(types.PlatformModrinth, "P2", assert.AnError)

	err := f.ctrl.CheckForUpdates(context.Background())
	require.Error(t, err)
	assert.Error(t, f.ctrl.UpdateError())

	// The healthy item's entry is still usable.
	assert.Contains(t, f.ctrl.Updates(), "modrinth:P1")
}

func TestControllerDropdownUnavailableWithoutProjectID(t *testing.T) {
	f := newFixture(t, nil)

	session := f.ctrl.OpenVersionDropdown("local.jar")
	require.NotNil(t, session)
	assert.Equal(t, SessionLoaded, session.State)
	assert.True(t, session.Unavailable, "no project id means no version history, not an error")

	// Nothing to fetch; the registry is never called.
	f.ctrl.FetchOpenVersions(context.Background())
	assert.Empty(t, f.source.Calls())
}

func TestControllerDropdownExclusive(t *testing.T) {
	f := newFixture(t, nil)

	f.ctrl.OpenVersionDropdown("sodium.jar")
	f.ctrl.OpenVersionDropdown("lithium.jar")

	session := f.ctrl.OpenSession()
	require.NotNil(t, session)
	assert.Equal(t, "lithium.jar", session.Key, "opening a second dropdown closes the first")

	f.ctrl.CloseVersionDropdown()
	assert.Nil(t, f.ctrl.OpenSession())
}

func TestControllerStaleFetchDiscarded(t *testing.T) {
	f := newFixture(t, nil)
	gate := make(chan struct{})
	f.source.Gate = gate
	f.source.AddVersions(types.PlatformModrinth, "P1",
		testutil.Version(types.PlatformModrinth, "P1", "V2", "1.1.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	f.ctrl.OpenVersionDropdown("sodium.jar")

	done := make(chan struct{})
	go func() {
		f.ctrl.FetchOpenVersions(context.Background())
		close(done)
	}()

	// Wait for the fetch to reach the registry, then move the dropdown.
	require.Eventually(t, func() bool { return len(f.source.Calls()) == 1 }, time.Second, time.Millisecond)
	f.ctrl.OpenVersionDropdown("lithium.jar")

	close(gate)
	<-done

	session := f.ctrl.OpenSession()
	require.NotNil(t, session)
	assert.Equal(t, "lithium.jar", session.Key)
	assert.Equal(t, SessionLoading, session.State, "the stale result never populates the new dropdown")
}

func TestControllerFetchOpenVersionsClassifiesCurrent(t *testing.T) {
	f := newFixture(t, nil)
	f.source.AddVersions(types.PlatformModrinth, "P1",
		testutil.Version(types.PlatformModrinth, "P1", "V1", "1.0.0", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		testutil.Version(types.PlatformModrinth, "P1", "V2", "1.1.0", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	)

	f.ctrl.OpenVersionDropdown("sodium.jar")
	session := f.ctrl.FetchOpenVersions(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, SessionLoaded, session.State)
	require.Len(t, session.Versions, 2)

	// Newest first, the installed one flagged.
	assert.Equal(t, "V2", session.Versions[0].Version.ID)
	assert.False(t, session.Versions[0].Current)
	assert.Equal(t, "V1", session.Versions[1].Version.ID)
	assert.True(t, session.Versions[1].Current)
}

func TestControllerFetchOpenVersionsError(t *testing.T) {
	f := newFixture(t, nil)
	f.source.FailWith(types.PlatformModrinth, "P1", assert.AnError)

	f.ctrl.OpenVersionDropdown("sodium.jar")
	session := f.ctrl.FetchOpenVersions(context.Background())
	require.NotNil(t, session)
	assert.Equal(t, SessionErrored, session.State)
	assert.NotEmpty(t, session.Err)
}

// switchServer serves jar bytes, failing any path containing "bad".
func switchServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("new-bytes"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func switchVersion(srv *httptest.Server, projectID, id, number, filename string) types.RemoteVersion {
	return types.RemoteVersion{
		ID:            id,
		ProjectID:     projectID,
		Platform:      types.PlatformModrinth,
		VersionNumber: number,
		DatePublished: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Files: []types.VersionFile{{
			Filename: filename,
			URL:      srv.URL + "/" + filename,
			Primary:  true,
		}},
	}
}

func TestControllerSwitchVersion(t *testing.T) {
	srv := switchServer(t)
	f := newFixture(t, srv.Client())

	// Start from the disabled form so the state has something to preserve.
	require.NoError(t, f.ctrl.Toggle("sodium.jar"))
	f.ctrl.Select("sodium.jar")
	f.ctrl.OpenVersionDropdown("sodium.jar")

	version := switchVersion(srv, "P1", "V2", "1.1.0", "sodium-1.1.jar")
	require.NoError(t, f.ctrl.SwitchVersion(context.Background(), "sodium.jar", version))

	// New file under the old enabled state, old file gone.
	assert.True(t, f.fs.Exists("/instance/mods/sodium-1.1.jar.disabled"))
	assert.False(t, f.fs.Exists("/instance/mods/sodium.jar.disabled"))
	assert.False(t, f.fs.Exists("/instance/mods/sodium.jar"))

	// Selection membership follows the renamed item.
	assert.Equal(t, []string{"sodium-1.1.jar"}, f.ctrl.SelectedNames())

	// Choosing a version closes the dropdown.
	assert.Nil(t, f.ctrl.OpenSession())

	// The refreshed inventory carries the new metadata.
	var switched *types.ContentItem
	for _, item := range f.ctrl.Items() {
		if item.Filename == "sodium-1.1.jar" {
			switched = item
		}
	}
	require.NotNil(t, switched)
	assert.True(t, switched.IsDisabled)
	mr, ok := switched.Info.Modrinth()
	require.True(t, ok)
	assert.Equal(t, "V2", mr.VersionID)
	assert.Equal(t, "1.1.0", mr.VersionNumber)
}

func TestControllerSwitchVersionSameFilename(t *testing.T) {
	srv := switchServer(t)
	f := newFixture(t, srv.Client())

	version := switchVersion(srv, "P1", "V2", "1.1.0", "sodium.jar")
	require.NoError(t, f.ctrl.SwitchVersion(context.Background(), "sodium.jar", version))

	data, err := f.fs.ReadFile("/instance/mods/sodium.jar")
	require.NoError(t, err)
	assert.Equal(t, "new-bytes", string(data), "same-name switch replaces in place")
}

func TestControllerUpdateOne(t *testing.T) {
	srv := switchServer(t)
	f := newFixture(t, srv.Client())

	v2 := switchVersion(srv, "P1", "V2", "1.1.0", "sodium-1.1.jar")
	f.source.AddVersions(types.PlatformModrinth, "P1", v2)

	require.NoError(t, f.ctrl.CheckForUpdates(context.Background()))
	require.Contains(t, f.ctrl.Updates(), "modrinth:P1")

	require.NoError(t, f.ctrl.UpdateOne(context.Background(), "sodium.jar"))
	assert.True(t, f.fs.Exists("/instance/mods/sodium-1.1.jar"))
	assert.NotContains(t, f.ctrl.Updates(), "modrinth:P1", "applying an update retires its entry")
}

func TestControllerUpdateOneWithoutEntry(t *testing.T) {
	f := newFixture(t, nil)

	err := f.ctrl.UpdateOne(context.Background(), "sodium.jar")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoUpdateEntry))

	err = f.ctrl.UpdateOne(context.Background(), "pack-mod.jar")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrItemManaged))
}

func TestControllerUpdateAllIsolatesFailures(t *testing.T) {
	srv := switchServer(t)
	f := newFixture(t, srv.Client())

	f.source.AddVersions(types.PlatformModrinth, "P1",
		switchVersion(srv, "P1", "V2", "1.1.0", "sodium-1.1.jar"))
	f.source.AddVersions(types.PlatformModrinth, "P2",
		switchVersion(srv, "P2", "V6", "0.13.0", "lithium-bad.jar"))

	require.NoError(t, f.ctrl.CheckForUpdates(context.Background()))
	require.Len(t, f.ctrl.Updates(), 2)

	result := f.ctrl.UpdateAll(context.Background())
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "lithium.jar", result.Failed[0].Filename)

	assert.True(t, f.fs.Exists("/instance/mods/sodium-1.1.jar"))
	assert.True(t, f.fs.Exists("/instance/mods/lithium.jar"), "failed update leaves the item untouched")

	// The rebuilt index only holds the still-pending update.
	updates := f.ctrl.Updates()
	assert.NotContains(t, updates, "modrinth:P1")
	assert.Contains(t, updates, "modrinth:P2")
	assert.False(t, f.ctrl.AnyTaskRunning())
}
