package types

import (
	"time"
)

// ReleaseType classifies a remote version's release channel.
type ReleaseType string

const (
	ReleaseTypeRelease ReleaseType = "release"
	ReleaseTypeBeta    ReleaseType = "beta"
	ReleaseTypeAlpha   ReleaseType = "alpha"
)

// RemoteVersion is a version record from either registry, normalized to a
// common shape. CurseForge numeric ids are rendered as decimal strings so
// they compare directly against CurseForgeInfo fields.
type RemoteVersion struct {
	ID            string
	ProjectID     string
	Platform      Platform
	Name          string
	VersionNumber string
	Changelog     string
	GameVersions  []string
	Loaders       []string
	Files         []VersionFile
	DatePublished time.Time
	Downloads     int64
	ReleaseType   ReleaseType
}

// VersionFile is one downloadable artifact of a RemoteVersion.
type VersionFile struct {
	Filename    string
	URL         string
	Size        int64
	Hashes      map[string]string
	Primary     bool
	Fingerprint uint64
}

// PrimaryFile returns the version's primary artifact, falling back to the
// first file when no file carries the primary flag.
func (v *RemoteVersion) PrimaryFile() (VersionFile, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return VersionFile{}, false
}

// VersionFilter narrows a registry version listing to compatible versions.
type VersionFilter struct {
	Loaders      []string
	GameVersions []string
}
