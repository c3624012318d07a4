// Package paths provides centralized path management for modpilot.
//
// All XDG directories respect explicit environment overrides so tests and
// packaging can relocate everything without touching the real home.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/types"
)

const (
	// AppDirName is the directory name used under the XDG base dirs.
	AppDirName = "modpilot"

	// EnvInstancesDir overrides where game instances are looked up.
	EnvInstancesDir = "MODPILOT_INSTANCES_DIR"
	// EnvConfigDir overrides the modpilot config directory.
	EnvConfigDir = "MODPILOT_CONFIG_DIR"
	// EnvDataDir overrides the modpilot data directory.
	EnvDataDir = "MODPILOT_DATA_DIR"
)

// Paths resolves the directories modpilot reads and writes.
type Paths struct {
	instancesDir string
	configDir    string
	dataDir      string
	cacheDir     string
	stateDir     string
}

// New creates a Paths instance. If instancesDir is empty it is determined
// from the environment, falling back to the XDG data dir.
func New(instancesDir string) (*Paths, error) {
	p := &Paths{}

	if instancesDir == "" {
		if env := os.Getenv(EnvInstancesDir); env != "" {
			instancesDir = env
		} else {
			instancesDir = filepath.Join(xdg.DataHome, AppDirName, "instances")
		}
	}
	abs, err := filepath.Abs(expandHome(instancesDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to resolve instances dir %q", instancesDir)
	}
	p.instancesDir = abs

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = expandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		p.dataDir = expandHome(dir)
	} else {
		p.dataDir = filepath.Join(xdg.DataHome, AppDirName)
	}

	p.cacheDir = filepath.Join(xdg.CacheHome, AppDirName)

	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		p.stateDir = filepath.Join(stateDir, AppDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.stateDir = filepath.Join(homeDir, ".local", "state", AppDirName)
	}

	return p, nil
}

// InstancesDir returns the root under which game instances live.
func (p *Paths) InstancesDir() string { return p.instancesDir }

// ConfigDir returns the modpilot config directory.
func (p *Paths) ConfigDir() string { return p.configDir }

// DataDir returns the modpilot data directory.
func (p *Paths) DataDir() string { return p.dataDir }

// CacheDir returns the modpilot cache directory.
func (p *Paths) CacheDir() string { return p.cacheDir }

// StateDir returns the modpilot state directory (logs).
func (p *Paths) StateDir() string { return p.stateDir }

// ConfigFilePath returns the path of the user config file.
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(p.configDir, "config.toml")
}

// ProfilesDir returns the directory holding profile definition files.
func (p *Paths) ProfilesDir() string {
	return filepath.Join(p.dataDir, "profiles")
}

// InstanceDir returns the directory for a named game instance.
func (p *Paths) InstanceDir(instance string) string {
	return filepath.Join(p.instancesDir, instance)
}

// ContentDir returns where a content type lives inside an instance.
func (p *Paths) ContentDir(instance string, contentType types.ContentType) string {
	return filepath.Join(p.InstanceDir(instance), contentType.Dir())
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
