package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
	"github.com/rs/zerolog"
)

// CurseForge mod loader type ids used by the files endpoint.
const (
	cfLoaderForge    = 1
	cfLoaderFabric   = 4
	cfLoaderQuilt    = 5
	cfLoaderNeoForge = 6
	cfFilesPageSize  = 50
	cfMaxFilePages   = 10
)

// CurseForge is the client for the CurseForge v1 API. Every request
// carries the x-api-key header.
type CurseForge struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  zerolog.Logger
}

// NewCurseForge creates a CurseForge client.
func NewCurseForge(baseURL, apiKey string, httpClient *http.Client) *CurseForge {
	return &CurseForge{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    httpClient,
		logger:  logging.GetLogger("registry.curseforge"),
	}
}

type cfFile struct {
	ID              int64    `json:"id"`
	ModID           int64    `json:"modId"`
	DisplayName     string   `json:"displayName"`
	FileName        string   `json:"fileName"`
	ReleaseType     int      `json:"releaseType"`
	FileDate        string   `json:"fileDate"`
	FileLength      int64    `json:"fileLength"`
	DownloadCount   int64    `json:"downloadCount"`
	DownloadURL     string   `json:"downloadUrl"`
	GameVersions    []string `json:"gameVersions"`
	FileFingerprint uint64   `json:"fileFingerprint"`
	Hashes          []cfHash `json:"hashes"`
}

type cfHash struct {
	Value string `json:"value"`
	Algo  int    `json:"algo"`
}

type cfFilesResponse struct {
	Data       []cfFile     `json:"data"`
	Pagination cfPagination `json:"pagination"`
}

type cfPagination struct {
	Index       int `json:"index"`
	PageSize    int `json:"pageSize"`
	ResultCount int `json:"resultCount"`
	TotalCount  int `json:"totalCount"`
}

type cfMod struct {
	ID      int64  `json:"id"`
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Logo    *struct {
		URL string `json:"url"`
	} `json:"logo"`
}

type cfModResponse struct {
	Data cfMod `json:"data"`
}

// ListVersions implements Client. The files endpoint filters by a single
// game version and numeric loader type; pagination is followed until the
// listing is exhausted.
func (c *CurseForge) ListVersions(ctx context.Context, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error) {
	modID, err := strconv.ParseInt(projectID, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "CurseForge project id %q is not numeric", projectID)
	}

	query := url.Values{}
	if len(filter.GameVersions) > 0 {
		query.Set("gameVersion", filter.GameVersions[0])
	}
	if len(filter.Loaders) > 0 {
		if loaderType, ok := cfLoaderType(filter.Loaders[0]); ok {
			query.Set("modLoaderType", strconv.Itoa(loaderType))
		}
	}
	query.Set("pageSize", strconv.Itoa(cfFilesPageSize))

	var versions []types.RemoteVersion
	for page := 0; page < cfMaxFilePages; page++ {
		query.Set("index", strconv.Itoa(page*cfFilesPageSize))
		endpoint := fmt.Sprintf("%s/mods/%d/files?%s", c.baseURL, modID, query.Encode())

		c.logger.Debug().Int64("modID", modID).Str("url", endpoint).Msg("Listing CurseForge files")

		var resp cfFilesResponse
		if err := c.getJSON(ctx, endpoint, &resp); err != nil {
			return nil, err
		}
		for _, f := range resp.Data {
			versions = append(versions, normalizeCurseForgeFile(f))
		}
		if len(resp.Data) < cfFilesPageSize || len(versions) >= resp.Pagination.TotalCount {
			break
		}
	}
	return versions, nil
}

// GetProject implements Client.
func (c *CurseForge) GetProject(ctx context.Context, projectID string) (Project, error) {
	modID, err := strconv.ParseInt(projectID, 10, 64)
	if err != nil {
		return Project{}, errors.Wrapf(err, errors.ErrInvalidInput, "CurseForge project id %q is not numeric", projectID)
	}

	var resp cfModResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/mods/%d", c.baseURL, modID), &resp); err != nil {
		return Project{}, err
	}

	p := Project{
		ID:          strconv.FormatInt(resp.Data.ID, 10),
		Platform:    types.PlatformCurseForge,
		Slug:        resp.Data.Slug,
		Title:       resp.Data.Name,
		Description: resp.Data.Summary,
	}
	if resp.Data.Logo != nil {
		p.IconURL = resp.Data.Logo.URL
	}
	return p, nil
}

func (c *CurseForge) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "failed to build CurseForge request")
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "CurseForge request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrRegistryFetch, "failed to read CurseForge response")
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrRegistryFetch, "CurseForge returned HTTP %d for %s", resp.StatusCode, endpoint).
			WithDetail("body", truncate(string(body), 500))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, errors.ErrRegistryDecode, "failed to decode CurseForge response")
	}
	return nil
}

// normalizeCurseForgeFile maps one CurseForge file to the normalized
// version shape. CurseForge has no primary flag; the single file is the
// primary one, and the displayName doubles as the version number.
func normalizeCurseForgeFile(f cfFile) types.RemoteVersion {
	hashes := make(map[string]string, len(f.Hashes))
	for _, h := range f.Hashes {
		switch h.Algo {
		case 1:
			hashes["sha1"] = h.Value
		case 2:
			hashes["md5"] = h.Value
		}
	}

	release := types.ReleaseTypeRelease
	switch f.ReleaseType {
	case 2:
		release = types.ReleaseTypeBeta
	case 3:
		release = types.ReleaseTypeAlpha
	}

	return types.RemoteVersion{
		ID:            strconv.FormatInt(f.ID, 10),
		ProjectID:     strconv.FormatInt(f.ModID, 10),
		Platform:      types.PlatformCurseForge,
		Name:          f.DisplayName,
		VersionNumber: f.DisplayName,
		GameVersions:  cfGameVersions(f.GameVersions),
		Loaders:       cfLoaders(f.GameVersions),
		Files: []types.VersionFile{{
			Filename:    f.FileName,
			URL:         f.DownloadURL,
			Size:        f.FileLength,
			Hashes:      hashes,
			Primary:     true,
			Fingerprint: f.FileFingerprint,
		}},
		DatePublished: parseTime(f.FileDate),
		Downloads:     f.DownloadCount,
		ReleaseType:   release,
	}
}

// cfLoaderType maps a loader name to the CurseForge numeric loader type.
func cfLoaderType(loader string) (int, bool) {
	switch strings.ToLower(loader) {
	case "forge":
		return cfLoaderForge, true
	case "fabric":
		return cfLoaderFabric, true
	case "quilt":
		return cfLoaderQuilt, true
	case "neoforge":
		return cfLoaderNeoForge, true
	}
	return 0, false
}

// CurseForge mixes loader names into the gameVersions array; split them
// back out so the normalized record has distinct loader and game-version
// lists.
func cfLoaders(mixed []string) []string {
	var loaders []string
	for _, v := range mixed {
		if name, ok := loaderName(v); ok {
			loaders = append(loaders, name)
		}
	}
	return loaders
}

func cfGameVersions(mixed []string) []string {
	var versions []string
	for _, v := range mixed {
		if _, ok := loaderName(v); !ok {
			versions = append(versions, v)
		}
	}
	return versions
}

func loaderName(s string) (string, bool) {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "neoforge"):
		return "neoforge", true
	case strings.Contains(lower, "forge"):
		return "forge", true
	case strings.Contains(lower, "fabric"):
		return "fabric", true
	case strings.Contains(lower, "quilt"):
		return "quilt", true
	case strings.Contains(lower, "liteloader"):
		return "liteloader", true
	}
	return "", false
}
