// Package config loads modpilot configuration by layering, in order:
// embedded defaults, the user config file (TOML or YAML), and MODPILOT_*
// environment variables.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Config is the resolved modpilot configuration.
type Config struct {
	Modrinth   ModrinthConfig   `koanf:"modrinth"`
	CurseForge CurseForgeConfig `koanf:"curseforge"`
	HTTP       HTTPConfig       `koanf:"http"`
	Updates    UpdatesConfig    `koanf:"updates"`
}

// ModrinthConfig holds Modrinth API settings.
type ModrinthConfig struct {
	APIURL string `koanf:"api_url"`
}

// CurseForgeConfig holds CurseForge API settings. The API key is sent as
// the x-api-key header; an empty key leaves CurseForge lookups disabled.
type CurseForgeConfig struct {
	APIURL string `koanf:"api_url"`
	APIKey string `koanf:"api_key"`
}

// HTTPConfig holds shared HTTP client settings.
type HTTPConfig struct {
	Timeout   time.Duration `koanf:"timeout"`
	UserAgent string        `koanf:"user_agent"`
}

// UpdatesConfig tunes the bulk update check.
type UpdatesConfig struct {
	Concurrency int `koanf:"concurrency"`
}

// Load resolves the configuration. configDir may be empty, in which case
// only defaults and environment variables apply.
func Load(configDir string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, ktoml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. User config file, first match wins
	if configDir != "" {
		for _, candidate := range []string{"config.toml", "config.yaml", "config.yml"} {
			path := filepath.Join(configDir, candidate)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			parser := koanf.Parser(ktoml.Parser())
			if strings.HasSuffix(candidate, ".yaml") || strings.HasSuffix(candidate, ".yml") {
				parser = kyaml.Parser()
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			break
		}
	}

	// 3. Environment overrides: MODPILOT_CURSEFORGE_API_KEY etc.
	err := k.Load(env.Provider("MODPILOT_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "MODPILOT_")), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Updates.Concurrency < 1 {
		cfg.Updates.Concurrency = 1
	}

	return &cfg, nil
}
