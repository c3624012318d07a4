package content

import (
	"github.com/modpilot/modpilot/pkg/types"
)

// SessionState is the lifecycle of an open version dropdown. The Closed
// state is represented by the absence of a session: only one dropdown is
// open system-wide, and opening another item's dropdown replaces it.
type SessionState string

const (
	SessionLoading SessionState = "loading"
	SessionLoaded  SessionState = "loaded"
	SessionErrored SessionState = "errored"
)

// VersionEntry is one remote version in a loaded dropdown, classified
// against the installed item.
type VersionEntry struct {
	Version types.RemoteVersion
	Current bool
}

// VersionSession is the state of the single open version dropdown.
type VersionSession struct {
	// Key is the filename of the item the dropdown is open for.
	Key   string
	State SessionState

	// Unavailable marks the degraded-capability state: the item has no
	// resolvable platform project id, so no version history exists and
	// no switch is offered. This is not an error.
	Unavailable bool

	Versions []VersionEntry
	Err      string

	// seq guards against stale fetch results being applied after the
	// dropdown closed or moved to another item.
	seq uint64
}

// classifyVersions marks each fetched version as currently installed or
// not, newest first.
func classifyVersions(item *types.ContentItem, versions []types.RemoteVersion) []VersionEntry {
	entries := make([]VersionEntry, 0, len(versions))
	for _, v := range versions {
		v := v
		entries = append(entries, VersionEntry{
			Version: v,
			Current: IsCurrentInstalledVersion(item, &v),
		})
	}
	return entries
}
