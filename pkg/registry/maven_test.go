package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modpilot/modpilot/pkg/errors"
)

const mavenMetadataBody = `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>net.fabricmc</groupId>
  <artifactId>fabric-loader</artifactId>
  <versioning>
    <latest>0.15.11</latest>
    <release>0.15.11</release>
    <versions>
      <version>0.15.9</version>
      <version>0.15.10</version>
      <version>0.15.11</version>
    </versions>
    <lastUpdated>20240501000000</lastUpdated>
  </versioning>
</metadata>`

func TestLoaderVersions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(mavenMetadataBody))
	}))
	defer srv.Close()

	resolver := NewMavenResolver(srv.Client())
	got, err := resolver.LoaderVersions(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "0.15.11", got.Latest)
	assert.Equal(t, "0.15.11", got.Release)
	// Newest first.
	assert.Equal(t, []string{"0.15.11", "0.15.10", "0.15.9"}, got.Versions)
}

func TestLoaderVersionsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	resolver := NewMavenResolver(srv.Client())
	_, err := resolver.LoaderVersions(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryFetch))
}

func TestParseMavenMetadataMalformed(t *testing.T) {
	_, err := parseMavenMetadata([]byte("<not-xml"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryDecode))
}

func TestParseMavenMetadataMissingRoot(t *testing.T) {
	_, err := parseMavenMetadata([]byte(`<?xml version="1.0"?><other/>`))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryDecode))
}
