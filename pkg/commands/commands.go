// Package commands implements the command layer: each operation takes an
// options struct and returns a result struct, leaving rendering to the
// caller. Commands share an Env that wires the profile, config, registry
// clients and the content controller together.
package commands

import (
	"context"
	"net/http"

	"github.com/modpilot/modpilot/pkg/config"
	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/filesystem"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/paths"
	"github.com/modpilot/modpilot/pkg/profile"
	"github.com/modpilot/modpilot/pkg/registry"
	"github.com/modpilot/modpilot/pkg/types"
)

// EnvOptions configures environment construction. Zero-value fields fall
// back to production defaults.
type EnvOptions struct {
	ProfileName string
	ContentType types.ContentType

	// InstancesDir overrides instance directory resolution.
	InstancesDir string

	// FS, HTTP, Source and Projects are injection points for tests.
	FS       types.FS
	HTTP     *http.Client
	Source   content.VersionSource
	Projects ProjectSource
}

// ProjectSource resolves registry project details by platform and id.
type ProjectSource interface {
	GetProject(ctx context.Context, platform types.Platform, projectID string) (registry.Project, error)
}

// Env is the assembled runtime for one command invocation.
type Env struct {
	Config      *config.Config
	Paths       *paths.Paths
	Profile     *profile.Profile
	ContentType types.ContentType
	Controller  *content.Controller
	Projects    ProjectSource
	HTTP        *http.Client
}

// NewEnv loads configuration and the named profile, builds registry
// clients from the config and assembles a controller over the profile's
// content directory. The inventory is scanned before returning.
func NewEnv(ctx context.Context, opts EnvOptions) (*Env, error) {
	logger := logging.GetLogger("commands")

	p, err := paths.New(opts.InstancesDir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(p.ConfigDir())
	if err != nil {
		return nil, err
	}

	prof, err := profile.LoadByName(p.ProfilesDir(), opts.ProfileName)
	if err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.HTTP.Timeout}
	}
	source := opts.Source
	projects := opts.Projects
	if source == nil || projects == nil {
		directory := registry.NewDirectory(cfg)
		if source == nil {
			source = directory
		}
		if projects == nil {
			projects = directory
		}
	}

	ctrl := content.NewController(content.ControllerOptions{
		FS:                fs,
		HTTP:              httpClient,
		Source:            source,
		Profile:           prof,
		ContentType:       opts.ContentType,
		Dir:               p.ContentDir(prof.Instance, opts.ContentType),
		UpdateConcurrency: cfg.Updates.Concurrency,
	})
	if err := ctrl.Refresh(ctx); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("profile", prof.Name).
		Str("contentType", string(opts.ContentType)).
		Msg("Command environment ready")

	return &Env{
		Config:      cfg,
		Paths:       p,
		Profile:     prof,
		ContentType: opts.ContentType,
		Controller:  ctrl,
		Projects:    projects,
		HTTP:        httpClient,
	}, nil
}
