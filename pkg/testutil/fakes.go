package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/modpilot/modpilot/pkg/registry"
	"github.com/modpilot/modpilot/pkg/types"
)

// FakeVersionSource is an in-memory registry source keyed by platform
// and project id. It records calls, injects errors per project and can
// block in-flight requests behind a gate to exercise stale-result
// handling.
type FakeVersionSource struct {
	mu       sync.Mutex
	versions map[string][]types.RemoteVersion
	errs     map[string]error
	calls    []string

	// Gate, when non-nil, blocks every ListVersions call until a value
	// is sent on it (or it is closed).
	Gate chan struct{}
}

// NewFakeVersionSource creates an empty fake source.
func NewFakeVersionSource() *FakeVersionSource {
	return &FakeVersionSource{
		versions: make(map[string][]types.RemoteVersion),
		errs:     make(map[string]error),
	}
}

func sourceKey(platform types.Platform, projectID string) string {
	return fmt.Sprintf("%s:%s", platform, projectID)
}

// AddVersions registers the versions returned for a project.
func (f *FakeVersionSource) AddVersions(platform types.Platform, projectID string, versions ...types.RemoteVersion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[sourceKey(platform, projectID)] = append(f.versions[sourceKey(platform, projectID)], versions...)
}

// SetVersions replaces the versions returned for a project.
func (f *FakeVersionSource) SetVersions(platform types.Platform, projectID string, versions ...types.RemoteVersion) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[sourceKey(platform, projectID)] = append([]types.RemoteVersion(nil), versions...)
}

// FailWith makes lookups for a project return err.
func (f *FakeVersionSource) FailWith(platform types.Platform, projectID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[sourceKey(platform, projectID)] = err
}

// Calls returns the project keys queried so far, in order.
func (f *FakeVersionSource) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ListVersions implements the version source interface used by update
// checks and version dropdowns.
func (f *FakeVersionSource) ListVersions(ctx context.Context, platform types.Platform, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error) {
	f.mu.Lock()
	key := sourceKey(platform, projectID)
	f.calls = append(f.calls, key)
	gate := f.Gate
	err := f.errs[key]
	versions := append([]types.RemoteVersion(nil), f.versions[key]...)
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// FakeProjectSource is an in-memory project detail lookup keyed by
// platform and project id.
type FakeProjectSource struct {
	mu       sync.Mutex
	projects map[string]registry.Project
	errs     map[string]error
}

// NewFakeProjectSource creates an empty fake project source.
func NewFakeProjectSource() *FakeProjectSource {
	return &FakeProjectSource{
		projects: make(map[string]registry.Project),
		errs:     make(map[string]error),
	}
}

// AddProject registers the project returned for an id.
func (f *FakeProjectSource) AddProject(platform types.Platform, projectID string, project registry.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[sourceKey(platform, projectID)] = project
}

// FailWith makes lookups for a project return err.
func (f *FakeProjectSource) FailWith(platform types.Platform, projectID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[sourceKey(platform, projectID)] = err
}

// GetProject implements the project source interface used by the info
// command.
func (f *FakeProjectSource) GetProject(ctx context.Context, platform types.Platform, projectID string) (registry.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := sourceKey(platform, projectID)
	if err := f.errs[key]; err != nil {
		return registry.Project{}, err
	}
	project, ok := f.projects[key]
	if !ok {
		return registry.Project{}, fmt.Errorf("no project registered for %s", key)
	}
	return project, nil
}
