package testutil

import (
	"time"

	"github.com/modpilot/modpilot/pkg/types"
)

// ModrinthItem builds a mod item carrying Modrinth metadata.
func ModrinthItem(filename, projectID, versionID, versionNumber string) *types.ContentItem {
	return &types.ContentItem{
		Filename:    filename,
		Path:        "/instance/mods/" + filename,
		ContentType: types.ContentTypeMod,
		Info: types.FromModrinth(types.ModrinthInfo{
			ProjectID:     projectID,
			VersionID:     versionID,
			VersionNumber: versionNumber,
		}),
	}
}

// CurseForgeItem builds a mod item carrying CurseForge metadata.
func CurseForgeItem(filename, projectID, fileID, versionNumber string) *types.ContentItem {
	return &types.ContentItem{
		Filename:    filename,
		Path:        "/instance/mods/" + filename,
		ContentType: types.ContentTypeMod,
		Info: types.FromCurseForge(types.CurseForgeInfo{
			ProjectID:     projectID,
			FileID:        fileID,
			VersionNumber: versionNumber,
		}),
	}
}

// LocalItem builds an item with no registry metadata and the given hash.
func LocalItem(filename, sha1 string) *types.ContentItem {
	return &types.ContentItem{
		Filename:    filename,
		Path:        "/instance/mods/" + filename,
		ContentType: types.ContentTypeMod,
		SHA1Hash:    sha1,
		Info:        types.LocalOnly(),
	}
}

// Version builds a RemoteVersion with a single primary file.
func Version(platform types.Platform, projectID, id, number string, published time.Time) types.RemoteVersion {
	return types.RemoteVersion{
		ID:            id,
		ProjectID:     projectID,
		Platform:      platform,
		Name:          number,
		VersionNumber: number,
		GameVersions:  []string{"1.21.1"},
		Loaders:       []string{"fabric"},
		DatePublished: published,
		Files: []types.VersionFile{{
			Filename: projectID + "-" + number + ".jar",
			URL:      "https://cdn.example.com/" + projectID + "/" + number + ".jar",
			Primary:  true,
			Hashes:   map[string]string{"sha1": "deadbeef"},
		}},
	}
}
