package display

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/testutil"
	"github.com/modpilot/modpilot/pkg/types"
)

func TestItemsJSON(t *testing.T) {
	items := []*types.ContentItem{
		testutil.ModrinthItem("sodium.jar", "P1", "V1", "1.0.0"),
		testutil.LocalItem("extra.jar", "deadbeef"),
	}
	items[1].IsDisabled = true

	updates := content.UpdateIndex{
		"modrinth:P1": testutil.Version(types.PlatformModrinth, "P1", "V2", "1.1.0",
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	}

	out, err := ItemsJSON(items, updates)
	require.NoError(t, err)

	var views []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)

	assert.Equal(t, "sodium.jar", views[0]["filename"])
	assert.Equal(t, true, views[0]["enabled"])
	assert.Equal(t, "modrinth", views[0]["platform"])
	assert.Equal(t, "P1", views[0]["project_id"])
	assert.Equal(t, "1.1.0", views[0]["update_version"])
	assert.Equal(t, "V2", views[0]["update_version_id"])

	assert.Equal(t, false, views[1]["enabled"])
	assert.Equal(t, "local", views[1]["platform"])
	assert.NotContains(t, views[1], "update_version")
	assert.NotContains(t, views[1], "project_id")
}

func TestItemsJSONEmpty(t *testing.T) {
	out, err := ItemsJSON(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)
}
