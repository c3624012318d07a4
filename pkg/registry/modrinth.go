package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
	"github.com/rs/zerolog"
)

// Modrinth is the client for the Modrinth v2 API.
type Modrinth struct {
	baseURL   string
	userAgent string
	http      *http.Client
	logger    zerolog.Logger
}

// NewModrinth creates a Modrinth client. Modrinth requires a descriptive
// User-Agent on every request.
func NewModrinth(baseURL, userAgent string, httpClient *http.Client) *Modrinth {
	return &Modrinth{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      httpClient,
		logger:    logging.GetLogger("registry.modrinth"),
	}
}

type modrinthVersion struct {
	ID            string         `json:"id"`
	ProjectID     string         `json:"project_id"`
	Name          string         `json:"name"`
	VersionNumber string         `json:"version_number"`
	Changelog     string         `json:"changelog"`
	GameVersions  []string       `json:"game_versions"`
	Loaders       []string       `json:"loaders"`
	DatePublished string         `json:"date_published"`
	Downloads     int64          `json:"downloads"`
	VersionType   string         `json:"version_type"`
	Files         []modrinthFile `json:"files"`
}

type modrinthFile struct {
	URL      string            `json:"url"`
	Filename string            `json:"filename"`
	Primary  bool              `json:"primary"`
	Size     int64             `json:"size"`
	Hashes   map[string]string `json:"hashes"`
}

type modrinthProject struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}

// ListVersions implements Client. Loader and game-version filters are sent
// as JSON-array query parameters, the way the Modrinth API expects them.
func (m *Modrinth) ListVersions(ctx context.Context, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error) {
	query := url.Values{}
	if len(filter.Loaders) > 0 {
		query.Set("loaders", jsonArray(filter.Loaders))
	}
	if len(filter.GameVersions) > 0 {
		query.Set("game_versions", jsonArray(filter.GameVersions))
	}

	endpoint := fmt.Sprintf("%s/project/%s/version", m.baseURL, url.PathEscape(projectID))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	m.logger.Debug().Str("projectID", projectID).Str("url", endpoint).Msg("Listing Modrinth versions")

	var raw []modrinthVersion
	if err := m.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	versions := make([]types.RemoteVersion, 0, len(raw))
	for _, v := range raw {
		versions = append(versions, normalizeModrinthVersion(v))
	}
	return versions, nil
}

// GetProject implements Client.
func (m *Modrinth) GetProject(ctx context.Context, projectID string) (Project, error) {
	endpoint := fmt.Sprintf("%s/project/%s", m.baseURL, url.PathEscape(projectID))

	var raw modrinthProject
	if err := m.getJSON(ctx, endpoint, &raw); err != nil {
		return Project{}, err
	}

	return Project{
		ID:          raw.ID,
		Platform:    types.PlatformModrinth,
		Slug:        raw.Slug,
		Title:       raw.Title,
		Description: raw.Description,
		IconURL:     raw.IconURL,
	}, nil
}

// GetVersionByHash resolves a version from a file's SHA-1, used to
// identify manually placed files.
func (m *Modrinth) GetVersionByHash(ctx context.Context, sha1 string) (types.RemoteVersion, error) {
	endpoint := fmt.Sprintf("%s/version_file/%s", m.baseURL, url.PathEscape(sha1))

	var raw modrinthVersion
	if err := m.getJSON(ctx, endpoint, &raw); err != nil {
		return types.RemoteVersion{}, err
	}
	return normalizeModrinthVersion(raw), nil
}

func (m *Modrinth) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "failed to build Modrinth request")
	}
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "Modrinth request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "failed to read Modrinth response")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrRegistryFetch, "Modrinth returned HTTP %d for %s", resp.StatusCode, endpoint).
			WithDetail("body", truncate(string(body), 500))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.ErrRegistryDecode, "failed to decode Modrinth response")
	}
	return nil
}

func normalizeModrinthVersion(v modrinthVersion) types.RemoteVersion {
	files := make([]types.VersionFile, 0, len(v.Files))
	for _, f := range v.Files {
		files = append(files, types.VersionFile{
			Filename: f.Filename,
			URL:      f.URL,
			Size:     f.Size,
			Hashes:   f.Hashes,
			Primary:  f.Primary,
		})
	}

	release := types.ReleaseType(v.VersionType)
	switch release {
	case types.ReleaseTypeRelease, types.ReleaseTypeBeta, types.ReleaseTypeAlpha:
	default:
		release = types.ReleaseTypeRelease
	}

	return types.RemoteVersion{
		ID:            v.ID,
		ProjectID:     v.ProjectID,
		Platform:      types.PlatformModrinth,
		Name:          v.Name,
		VersionNumber: v.VersionNumber,
		Changelog:     v.Changelog,
		GameVersions:  v.GameVersions,
		Loaders:       v.Loaders,
		Files:         files,
		DatePublished: parseTime(v.DatePublished),
		Downloads:     v.Downloads,
		ReleaseType:   release,
	}
}

func jsonArray(values []string) string {
	encoded, _ := json.Marshal(values)
	return string(encoded)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
