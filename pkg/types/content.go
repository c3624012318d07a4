package types

import (
	"strings"
)

// DisabledSuffix is the filename marker for disabled content. A file named
// "sodium.jar.disabled" is the disabled form of "sodium.jar".
const DisabledSuffix = ".disabled"

// ContentType identifies which kind of add-on content an item is.
type ContentType string

const (
	ContentTypeMod          ContentType = "mod"
	ContentTypeResourcePack ContentType = "resourcepack"
	ContentTypeShaderPack   ContentType = "shaderpack"
	ContentTypeDataPack     ContentType = "datapack"
)

// LoaderFiltered reports whether remote version lookups for this content
// type are filtered by mod loader. Only mods are loader-specific; resource
// packs, shader packs and data packs depend on the game version alone.
func (c ContentType) LoaderFiltered() bool {
	return c == ContentTypeMod
}

// Dir returns the profile-relative directory this content type lives in.
func (c ContentType) Dir() string {
	switch c {
	case ContentTypeMod:
		return "mods"
	case ContentTypeResourcePack:
		return "resourcepacks"
	case ContentTypeShaderPack:
		return "shaderpacks"
	case ContentTypeDataPack:
		return "datapacks"
	}
	return string(c)
}

// ParseContentType maps a user-supplied name to a ContentType.
func ParseContentType(s string) (ContentType, bool) {
	switch strings.ToLower(s) {
	case "mod", "mods":
		return ContentTypeMod, true
	case "resourcepack", "resourcepacks":
		return ContentTypeResourcePack, true
	case "shaderpack", "shaderpacks", "shader", "shaders":
		return ContentTypeShaderPack, true
	case "datapack", "datapacks":
		return ContentTypeDataPack, true
	}
	return "", false
}

// Platform is the originating remote registry for a content item.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseForge Platform = "curseforge"
	PlatformLocal      Platform = "local"
)

// ModrinthInfo is the registry metadata attached to a Modrinth-sourced item.
// Older metadata stored the version id in the "id" field; both forms are
// kept so installed-version matching can honor either.
type ModrinthInfo struct {
	ProjectID     string `json:"project_id" toml:"project_id"`
	VersionID     string `json:"version_id,omitempty" toml:"version_id,omitempty"`
	LegacyID      string `json:"id,omitempty" toml:"id,omitempty"`
	VersionNumber string `json:"version_number,omitempty" toml:"version_number,omitempty"`
}

// CurseForgeInfo is the registry metadata attached to a CurseForge-sourced
// item. IDs are kept as strings so they join directly against the
// normalized RemoteVersion id space.
type CurseForgeInfo struct {
	ProjectID     string `json:"project_id" toml:"project_id"`
	FileID        string `json:"file_id,omitempty" toml:"file_id,omitempty"`
	Fingerprint   uint64 `json:"fingerprint,omitempty" toml:"fingerprint,omitempty"`
	VersionNumber string `json:"version_number,omitempty" toml:"version_number,omitempty"`
}

// PlatformInfo is a tagged union over the two registry metadata shapes.
// The zero value is the "no platform metadata" case. Construct via
// FromModrinth/FromCurseForge so exactly one block can ever be populated.
type PlatformInfo struct {
	platform   Platform
	modrinth   *ModrinthInfo
	curseforge *CurseForgeInfo
}

// FromModrinth builds PlatformInfo carrying Modrinth metadata.
func FromModrinth(info ModrinthInfo) PlatformInfo {
	return PlatformInfo{platform: PlatformModrinth, modrinth: &info}
}

// FromCurseForge builds PlatformInfo carrying CurseForge metadata.
func FromCurseForge(info CurseForgeInfo) PlatformInfo {
	return PlatformInfo{platform: PlatformCurseForge, curseforge: &info}
}

// LocalOnly marks an item as having no registry origin.
func LocalOnly() PlatformInfo {
	return PlatformInfo{platform: PlatformLocal}
}

// Platform returns the originating registry, or PlatformLocal when no
// registry metadata is attached.
func (p PlatformInfo) Platform() Platform {
	if p.platform == "" {
		return PlatformLocal
	}
	return p.platform
}

// Modrinth returns the Modrinth metadata block if this is a Modrinth item.
func (p PlatformInfo) Modrinth() (ModrinthInfo, bool) {
	if p.modrinth == nil {
		return ModrinthInfo{}, false
	}
	return *p.modrinth, true
}

// CurseForge returns the CurseForge metadata block if this is a CurseForge item.
func (p PlatformInfo) CurseForge() (CurseForgeInfo, bool) {
	if p.curseforge == nil {
		return CurseForgeInfo{}, false
	}
	return *p.curseforge, true
}

// ProjectID returns the registry project id regardless of platform.
func (p PlatformInfo) ProjectID() (string, bool) {
	switch {
	case p.modrinth != nil && p.modrinth.ProjectID != "":
		return p.modrinth.ProjectID, true
	case p.curseforge != nil && p.curseforge.ProjectID != "":
		return p.curseforge.ProjectID, true
	}
	return "", false
}

// ContentItem is one on-disk unit of installed content plus whatever
// platform metadata has been resolved for it. The SHA1 hash and registry
// info are filled in asynchronously after the scan observes the file; the
// item is usable (with degraded display) before they resolve.
type ContentItem struct {
	// Filename is the unique key within a profile+content-type scope. It
	// is the enabled-form name: the DisabledSuffix is never part of it.
	Filename    string
	Path        string
	IsDirectory bool
	FileSize    int64
	ContentType ContentType

	// IsDisabled mirrors whether the on-disk name carries DisabledSuffix.
	IsDisabled bool

	// SHA1Hash is empty until the hashing collaborator completes.
	SHA1Hash string
	// Fingerprint is the CurseForge murmur2 fingerprint, 0 until computed.
	Fingerprint uint64

	Info PlatformInfo

	// SourceType is a free-form provenance tag ("custom", "pack"), used
	// only for display.
	SourceType string

	// ManagedBy names the central pack controlling this item's lifecycle.
	// A non-empty value disables user delete and self-update for the item.
	ManagedBy string

	// FallbackVersion is an operator-supplied version label shown when no
	// registry metadata is resolvable.
	FallbackVersion string
}

// DiskName returns the current on-disk filename, reflecting disabled state.
func (c *ContentItem) DiskName() string {
	if c.IsDisabled {
		return c.Filename + DisabledSuffix
	}
	return c.Filename
}

// DisplayName is the human-facing name: the filename without the disabled
// marker or archive extension.
func (c *ContentItem) DisplayName() string {
	name := c.Filename
	for _, ext := range []string{".jar", ".zip"} {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

// Managed reports whether the item is centrally managed.
func (c *ContentItem) Managed() bool {
	return c.ManagedBy != ""
}

// VersionLabel returns the best available version string for display:
// registry version number first, then the operator-supplied fallback.
func (c *ContentItem) VersionLabel() string {
	if mr, ok := c.Info.Modrinth(); ok && mr.VersionNumber != "" {
		return mr.VersionNumber
	}
	if cf, ok := c.Info.CurseForge(); ok && cf.VersionNumber != "" {
		return cf.VersionNumber
	}
	return c.FallbackVersion
}

// InstalledVersionID derives the identifier of the installed version used
// by the "newer than installed" test: Modrinth version id first, then
// CurseForge file id, then the legacy Modrinth id written by older
// sidecars. Empty when none is known.
func (c *ContentItem) InstalledVersionID() string {
	if mr, ok := c.Info.Modrinth(); ok && mr.VersionID != "" {
		return mr.VersionID
	}
	if cf, ok := c.Info.CurseForge(); ok && cf.FileID != "" {
		return cf.FileID
	}
	if mr, ok := c.Info.Modrinth(); ok && mr.LegacyID != "" {
		return mr.LegacyID
	}
	return ""
}
