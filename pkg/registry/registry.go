// Package registry implements the Modrinth and CurseForge clients and
// normalizes their responses to the shared types.RemoteVersion shape.
package registry

import (
	"context"
	"net/http"
	"time"

	"github.com/modpilot/modpilot/pkg/config"
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/types"
)

// Project is registry project metadata, normalized across platforms.
type Project struct {
	ID          string
	Platform    types.Platform
	Slug        string
	Title       string
	Description string
	IconURL     string
}

// Client lists versions and project details for one registry platform.
type Client interface {
	// ListVersions returns the versions of a project, newest first,
	// narrowed by the filter. An empty filter returns everything.
	ListVersions(ctx context.Context, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error)

	// GetProject returns project details for display and enrichment.
	GetProject(ctx context.Context, projectID string) (Project, error)
}

// Directory routes registry calls to the client for a platform.
type Directory struct {
	clients map[types.Platform]Client
}

// NewDirectory builds a Directory from the configuration. CurseForge is
// only registered when an API key is configured.
func NewDirectory(cfg *config.Config) *Directory {
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	d := &Directory{clients: make(map[types.Platform]Client)}
	d.clients[types.PlatformModrinth] = NewModrinth(cfg.Modrinth.APIURL, cfg.HTTP.UserAgent, httpClient)
	if cfg.CurseForge.APIKey != "" {
		d.clients[types.PlatformCurseForge] = NewCurseForge(cfg.CurseForge.APIURL, cfg.CurseForge.APIKey, httpClient)
	}
	return d
}

// NewDirectoryWithClients builds a Directory from explicit clients,
// used by tests and by callers with custom transports.
func NewDirectoryWithClients(clients map[types.Platform]Client) *Directory {
	return &Directory{clients: clients}
}

// Client returns the client for a platform.
func (d *Directory) Client(platform types.Platform) (Client, bool) {
	c, ok := d.clients[platform]
	return c, ok
}

// ListVersions dispatches a version listing to the platform's client.
func (d *Directory) ListVersions(ctx context.Context, platform types.Platform, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error) {
	c, ok := d.clients[platform]
	if !ok {
		return nil, errors.Newf(errors.ErrUnknownPlatform, "no registry client for platform %q", platform)
	}
	return c.ListVersions(ctx, projectID, filter)
}

// GetProject dispatches a project lookup to the platform's client.
func (d *Directory) GetProject(ctx context.Context, platform types.Platform, projectID string) (Project, error) {
	c, ok := d.clients[platform]
	if !ok {
		return Project{}, errors.Newf(errors.ErrUnknownPlatform, "no registry client for platform %q", platform)
	}
	return c.GetProject(ctx, projectID)
}

// parseTime parses the RFC3339 timestamps both registries emit, tolerating
// fractional seconds. The zero time is returned on malformed input so one
// bad timestamp never fails a whole listing.
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
