package registry

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/beevik/etree"

	"github.com/modpilot/modpilot/pkg/errors"
)

// Default maven metadata locations for loader version resolution.
const (
	FabricLoaderMetadataURL   = "https://maven.fabricmc.net/net/fabricmc/fabric-loader/maven-metadata.xml"
	QuiltLoaderMetadataURL    = "https://maven.quiltmc.org/repository/release/org/quiltmc/quilt-loader/maven-metadata.xml"
	NeoForgeLoaderMetadataURL = "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml"
)

// LoaderVersions is the parsed content of a loader's maven-metadata.xml.
type LoaderVersions struct {
	Latest   string
	Release  string
	Versions []string
}

// MavenResolver fetches loader version listings from maven metadata.
type MavenResolver struct {
	http *http.Client
}

// NewMavenResolver creates a MavenResolver.
func NewMavenResolver(httpClient *http.Client) *MavenResolver {
	return &MavenResolver{http: httpClient}
}

// LoaderVersions downloads and parses a maven-metadata.xml document.
// Versions are returned newest first, matching the order callers present
// them in.
func (r *MavenResolver) LoaderVersions(ctx context.Context, metadataURL string) (LoaderVersions, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, metadataURL, nil)
	if err != nil {
		return LoaderVersions{}, errors.Wrap(err, errors.ErrRegistryFetch, "failed to build maven metadata request")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return LoaderVersions{}, errors.Wrap(err, errors.ErrRegistryFetch, "maven metadata request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return LoaderVersions{}, errors.Newf(errors.ErrRegistryFetch, "maven metadata returned HTTP %d for %s", resp.StatusCode, metadataURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LoaderVersions{}, errors.Wrap(err, errors.ErrRegistryFetch, "failed to read maven metadata")
	}

	return parseMavenMetadata(body)
}

func parseMavenMetadata(data []byte) (LoaderVersions, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return LoaderVersions{}, errors.Wrap(err, errors.ErrRegistryDecode, "failed to parse maven metadata XML")
	}

	root := doc.SelectElement("metadata")
	if root == nil {
		return LoaderVersions{}, errors.New(errors.ErrRegistryDecode, "maven metadata missing <metadata> root")
	}

	var out LoaderVersions
	if versioning := root.SelectElement("versioning"); versioning != nil {
		if latest := versioning.SelectElement("latest"); latest != nil {
			out.Latest = strings.TrimSpace(latest.Text())
		}
		if release := versioning.SelectElement("release"); release != nil {
			out.Release = strings.TrimSpace(release.Text())
		}
		if versions := versioning.SelectElement("versions"); versions != nil {
			for _, v := range versions.SelectElements("version") {
				if text := strings.TrimSpace(v.Text()); text != "" {
					out.Versions = append(out.Versions, text)
				}
			}
		}
	}

	// Maven lists oldest first; present newest first.
	for i, j := 0, len(out.Versions)-1; i < j; i, j = i+1, j-1 {
		out.Versions[i], out.Versions[j] = out.Versions[j], out.Versions[i]
	}

	return out, nil
}
