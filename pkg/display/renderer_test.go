package display

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/registry"
	"github.com/modpilot/modpilot/pkg/testutil"
	"github.com/modpilot/modpilot/pkg/types"
)

func plainRenderer() *TerminalRenderer {
	return NewTerminalRenderer(FormatText)
}

func TestRenderItemListEmpty(t *testing.T) {
	out := plainRenderer().RenderItemList(nil, nil)
	assert.Equal(t, "No content installed", out)
}

func TestRenderItemList(t *testing.T) {
	sodium := testutil.ModrinthItem("sodium.jar", "P1", "V1", "1.0.0")
	managed := testutil.ModrinthItem("pack-mod.jar", "P3", "V7", "2.0.0")
	managed.ManagedBy = "norisk"
	disabled := testutil.LocalItem("old.jar", "abc")
	disabled.IsDisabled = true

	updates := content.UpdateIndex{
		"modrinth:P1": {ID: "V2", VersionNumber: "1.1.0"},
	}

	out := plainRenderer().RenderItemList([]*types.ContentItem{sodium, managed, disabled}, updates)
	assert.Contains(t, out, "on  sodium 1.0.0 -> 1.1.0")
	assert.Contains(t, out, "[managed]")
	assert.Contains(t, out, "(norisk)")
	assert.Contains(t, out, "off old")
}

func TestRenderBatchResult(t *testing.T) {
	result := &types.BatchResult{
		OperationID: uuid.New(),
		Command:     "delete",
		Succeeded:   2,
		Skipped:     []string{"pack-mod.jar"},
		Failed:      []types.ItemFailure{{Filename: "broken.jar", Message: "permission denied"}},
	}

	out := plainRenderer().RenderBatchResult(result)
	assert.Contains(t, out, "2 succeeded, 1 skipped, 1 failed")
	assert.Contains(t, out, "skipped pack-mod.jar (managed)")
	assert.Contains(t, out, "broken.jar: permission denied")
}

func TestRenderUpdateSummary(t *testing.T) {
	r := plainRenderer()
	assert.Equal(t, "Everything is up to date", r.RenderUpdateSummary(nil, nil))

	items := []*types.ContentItem{testutil.ModrinthItem("sodium.jar", "P1", "V1", "1.0.0")}
	updates := content.UpdateIndex{"modrinth:P1": {ID: "V2", VersionNumber: "1.1.0"}}

	out := r.RenderUpdateSummary(items, updates)
	assert.Contains(t, out, "1 update(s) available")
	assert.Contains(t, out, "sodium 1.0.0 -> 1.1.0")
}

func TestRenderVersionList(t *testing.T) {
	session := &content.VersionSession{
		Key:   "sodium.jar",
		State: content.SessionLoaded,
		Versions: []content.VersionEntry{
			{Version: types.RemoteVersion{ID: "V2", VersionNumber: "1.1.0", ReleaseType: "beta",
				DatePublished: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}},
			{Version: types.RemoteVersion{ID: "V1", VersionNumber: "1.0.0"}, Current: true},
		},
	}

	out := plainRenderer().RenderVersionList(session)
	assert.Contains(t, out, "1.1.0 beta 2024-06-01")
	assert.Contains(t, out, "*  1.0.0")
}

func TestRenderVersionListStates(t *testing.T) {
	r := plainRenderer()

	assert.Empty(t, r.RenderVersionList(nil))
	assert.Contains(t, r.RenderVersionList(&content.VersionSession{State: content.SessionLoading}), "Loading")
	assert.Contains(t, r.RenderVersionList(&content.VersionSession{State: content.SessionErrored, Err: "boom"}), "boom")
	assert.Contains(t, r.RenderVersionList(&content.VersionSession{State: content.SessionLoaded, Unavailable: true}),
		"No version history")
}

func TestRenderItemInfo(t *testing.T) {
	item := testutil.ModrinthItem("sodium.jar", "P1", "V1", "1.0.0")
	item.FileSize = 2048
	item.SHA1Hash = "abc123"
	item.Fingerprint = 42

	out := plainRenderer().RenderItemInfo(item, registry.Project{
		Title:       "Sodium",
		Description: "A rendering optimization mod",
	}, true)
	assert.Contains(t, out, "Sodium")
	assert.Contains(t, out, "sodium.jar (enabled)")
	assert.Contains(t, out, "version  1.0.0")
	assert.Contains(t, out, "source   modrinth")
	assert.Contains(t, out, "sha1     abc123")
	assert.Contains(t, out, "murmur2  42")
	assert.Contains(t, out, "A rendering optimization mod")

	local := testutil.LocalItem("extra.jar", "")
	local.IsDisabled = true
	out = plainRenderer().RenderItemInfo(local, registry.Project{}, false)
	assert.Contains(t, out, "extra.jar (disabled)")
	assert.Contains(t, out, "source   local")
	assert.NotContains(t, out, "sha1")
}

func TestRenderChangelogPlain(t *testing.T) {
	r := plainRenderer()
	assert.Equal(t, "No changelog provided", r.RenderChangelog(""))
	assert.Equal(t, "# Changes\n- fix", r.RenderChangelog("# Changes\n- fix"))
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{
		"":     FormatAuto,
		"auto": FormatAuto,
		"term": FormatTerminal,
		"text": FormatText,
		"json": FormatJSON,
	} {
		got, err := ParseFormat(input)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("bogus")
	assert.Error(t, err)
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "512 B", humanSize(512))
	assert.Equal(t, "2.0 KiB", humanSize(2048))
	assert.Equal(t, "1.5 MiB", humanSize(1572864))
}
