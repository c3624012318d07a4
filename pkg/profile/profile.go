// Package profile defines game profiles and their TOML persistence. A
// profile pins the loader and game version that registry lookups are
// filtered by, and names the instance directory holding the content.
package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/modpilot/modpilot/pkg/errors"
)

// Profile describes one game installation managed by modpilot.
type Profile struct {
	ID          uuid.UUID `toml:"id"`
	Name        string    `toml:"name"`
	Instance    string    `toml:"instance"`
	Loader      string    `toml:"loader"`
	GameVersion string    `toml:"game_version"`
}

// New creates a profile with a fresh id.
func New(name, instance, loader, gameVersion string) *Profile {
	return &Profile{
		ID:          uuid.New(),
		Name:        name,
		Instance:    instance,
		Loader:      loader,
		GameVersion: gameVersion,
	}
}

// Validate checks the fields registry filtering depends on.
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.New(errors.ErrProfileInvalid, "profile name is empty")
	}
	if p.Instance == "" {
		return errors.Newf(errors.ErrProfileInvalid, "profile %q has no instance directory", p.Name)
	}
	if p.GameVersion == "" {
		return errors.Newf(errors.ErrProfileInvalid, "profile %q has no game version", p.Name)
	}
	return nil
}

// Load reads a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(err, errors.ErrProfileNotFound, "no profile at %s", path)
		}
		return nil, errors.Wrapf(err, errors.ErrProfileInvalid, "failed to read profile at %s", path)
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, errors.ErrProfileInvalid, "failed to parse profile at %s", path)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadByName reads "<dir>/<name>.toml".
func LoadByName(dir, name string) (*Profile, error) {
	return Load(filepath.Join(dir, name+".toml"))
}

// Save writes the profile to "<dir>/<name>.toml", creating dir as needed.
func (p *Profile) Save(dir string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrProfileInvalid, "failed to create profiles dir %s", dir)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, errors.ErrProfileInvalid, "failed to encode profile %q", p.Name)
	}
	path := filepath.Join(dir, p.Name+".toml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrProfileInvalid, "failed to write profile to %s", path)
	}
	return nil
}

// List returns the profile names found in dir, without extensions.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrProfileInvalid, "failed to read profiles dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".toml"))
	}
	return names, nil
}
