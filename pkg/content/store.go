package content

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/types"
)

// metadataFileName is the sidecar index holding per-item registry
// metadata inside a content directory.
const metadataFileName = ".modpilot.json"

// ItemMetadata is the persisted registry metadata for one filename.
type ItemMetadata struct {
	Modrinth        *types.ModrinthInfo   `json:"modrinth,omitempty"`
	CurseForge      *types.CurseForgeInfo `json:"curseforge,omitempty"`
	SourceType      string                `json:"source_type,omitempty"`
	ManagedBy       string                `json:"managed_by,omitempty"`
	FallbackVersion string                `json:"fallback_version,omitempty"`
}

// MetadataStore reads and writes the sidecar metadata index of a content
// directory. Keys are enabled-form filenames.
type MetadataStore struct {
	fs  types.FS
	dir string
}

// NewMetadataStore creates a store for the given content directory.
func NewMetadataStore(fs types.FS, dir string) *MetadataStore {
	return &MetadataStore{fs: fs, dir: dir}
}

func (m *MetadataStore) path() string {
	return filepath.Join(m.dir, metadataFileName)
}

// Load returns the metadata index. A missing file is an empty index.
func (m *MetadataStore) Load() (map[string]ItemMetadata, error) {
	data, err := m.fs.ReadFile(m.path())
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return map[string]ItemMetadata{}, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileScan, "failed to read metadata index at %s", m.path())
	}

	index := map[string]ItemMetadata{}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileScan, "failed to parse metadata index at %s", m.path())
	}
	return index, nil
}

// Save replaces the metadata index.
func (m *MetadataStore) Save(index map[string]ItemMetadata) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode metadata index")
	}
	if err := m.fs.WriteFile(m.path(), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrFileInstall, "failed to write metadata index at %s", m.path())
	}
	return nil
}

// Set updates a single entry and persists the index.
func (m *MetadataStore) Set(filename string, meta ItemMetadata) error {
	index, err := m.Load()
	if err != nil {
		return err
	}
	index[filename] = meta
	return m.Save(index)
}

// Rename moves an entry to a new filename key and persists the index,
// used when a version switch replaces the on-disk file.
func (m *MetadataStore) Rename(oldName, newName string, meta ItemMetadata) error {
	index, err := m.Load()
	if err != nil {
		return err
	}
	delete(index, oldName)
	index[newName] = meta
	return m.Save(index)
}

// Delete removes an entry and persists the index.
func (m *MetadataStore) Delete(filename string) error {
	index, err := m.Load()
	if err != nil {
		return err
	}
	if _, ok := index[filename]; !ok {
		return nil
	}
	delete(index, filename)
	return m.Save(index)
}

// apply attaches stored metadata to a scanned item.
func (meta ItemMetadata) apply(item *types.ContentItem) {
	switch {
	case meta.Modrinth != nil:
		item.Info = types.FromModrinth(*meta.Modrinth)
	case meta.CurseForge != nil:
		item.Info = types.FromCurseForge(*meta.CurseForge)
	default:
		item.Info = types.LocalOnly()
	}
	item.SourceType = meta.SourceType
	item.ManagedBy = meta.ManagedBy
	item.FallbackVersion = meta.FallbackVersion
}
