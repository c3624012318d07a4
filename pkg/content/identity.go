package content

import (
	"github.com/modpilot/modpilot/pkg/types"
)

// Identifier prefixes for the three identity sources.
const (
	identModrinth   = "modrinth:"
	identCurseForge = "curseforge:"
	identHash       = "hash:"
)

// UpdateIdentifier resolves the join key used to correlate a local item
// with the Update Index. Precedence: Modrinth project id, CurseForge
// project id, SHA-1 hash. Items with none of these are excluded from
// update checks, reported by ok=false; this is never an error.
func UpdateIdentifier(item *types.ContentItem) (string, bool) {
	if mr, found := item.Info.Modrinth(); found && mr.ProjectID != "" {
		return identModrinth + mr.ProjectID, true
	}
	if cf, found := item.Info.CurseForge(); found && cf.ProjectID != "" {
		return identCurseForge + cf.ProjectID, true
	}
	if item.SHA1Hash != "" {
		return identHash + item.SHA1Hash, true
	}
	return "", false
}

// IsCurrentInstalledVersion reports whether a candidate remote version is
// the one installed for the item. First match wins: the Modrinth version
// id, then the Modrinth legacy id field, then the CurseForge file id,
// then the CurseForge murmur2 fingerprint of the installed file. No match
// means not current.
func IsCurrentInstalledVersion(item *types.ContentItem, candidate *types.RemoteVersion) bool {
	if mr, found := item.Info.Modrinth(); found {
		if mr.VersionID != "" && mr.VersionID == candidate.ID {
			return true
		}
		if mr.LegacyID != "" && mr.LegacyID == candidate.ID {
			return true
		}
	}
	if cf, found := item.Info.CurseForge(); found {
		if cf.FileID != "" && cf.FileID == candidate.ID {
			return true
		}
		if item.Fingerprint != 0 {
			for _, file := range candidate.Files {
				if file.Fingerprint == item.Fingerprint {
					return true
				}
			}
		}
	}
	return false
}
