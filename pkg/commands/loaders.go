package commands

import (
	"context"
	"net/http"
	"sort"

	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/registry"
)

// LoaderInfo is the resolved version listing for one mod loader.
type LoaderInfo struct {
	Name     string
	Latest   string
	Release  string
	Versions []string
}

// LoadersOptions defines the options for the Loaders command.
type LoadersOptions struct {
	HTTP *http.Client
	// Names restricts which loaders are queried. Empty means all known.
	Names []string
}

// LoadersResult holds per-loader version listings.
type LoadersResult struct {
	Loaders []LoaderInfo
	// Failures maps loader name to the fetch error, per-loader isolated.
	Failures map[string]error
}

var loaderMetadataURLs = map[string]string{
	"fabric":   registry.FabricLoaderMetadataURL,
	"quilt":    registry.QuiltLoaderMetadataURL,
	"neoforge": registry.NeoForgeLoaderMetadataURL,
}

// Loaders fetches available loader versions from each loader's maven
// repository. One loader's failure never hides the others.
func Loaders(ctx context.Context, opts LoadersOptions) (*LoadersResult, error) {
	logger := logging.GetLogger("commands.loaders")

	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resolver := registry.NewMavenResolver(httpClient)

	names := opts.Names
	if len(names) == 0 {
		for name := range loaderMetadataURLs {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	result := &LoadersResult{Failures: make(map[string]error)}
	for _, name := range names {
		url, ok := loaderMetadataURLs[name]
		if !ok {
			continue
		}
		versions, err := resolver.LoaderVersions(ctx, url)
		if err != nil {
			logger.Warn().Err(err).Str("loader", name).Msg("Loader version fetch failed")
			result.Failures[name] = err
			continue
		}
		result.Loaders = append(result.Loaders, LoaderInfo{
			Name:     name,
			Latest:   versions.Latest,
			Release:  versions.Release,
			Versions: versions.Versions,
		})
	}

	logger.Info().
		Int("loaders", len(result.Loaders)).
		Int("failures", len(result.Failures)).
		Msg("Loaders command completed")
	return result, nil
}
