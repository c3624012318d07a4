package content

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/profile"
	"github.com/modpilot/modpilot/pkg/types"
)

// VersionSource is the slice of the registry layer the core consumes.
// registry.Directory implements it.
type VersionSource interface {
	ListVersions(ctx context.Context, platform types.Platform, projectID string, filter types.VersionFilter) ([]types.RemoteVersion, error)
}

// UpdateIndex maps update identifiers to the latest compatible remote
// version that is newer than what is installed.
type UpdateIndex map[string]types.RemoteVersion

// UpdateChecker builds the Update Index for an inventory in one batched
// pass. One item's registry failure never aborts the batch; failed items
// simply have no entry, and one aggregate error is reported.
type UpdateChecker struct {
	source      VersionSource
	concurrency int
	logger      zerolog.Logger
}

// NewUpdateChecker creates an UpdateChecker. concurrency bounds how many
// items are checked against the registries at once.
func NewUpdateChecker(source VersionSource, concurrency int) *UpdateChecker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &UpdateChecker{
		source:      source,
		concurrency: concurrency,
		logger:      logging.GetLogger("content.updates"),
	}
}

// Build checks every eligible item and returns a fresh index. Centrally
// managed items and items without a platform project id are skipped. The
// returned error, if any, is the aggregate of individual fetch failures;
// the index is valid either way and must replace the previous one
// wholesale.
func (c *UpdateChecker) Build(ctx context.Context, prof *profile.Profile, items []*types.ContentItem) (UpdateIndex, error) {
	index := make(UpdateIndex)

	type task struct {
		item       *types.ContentItem
		identifier string
	}
	var tasks []task
	for _, item := range items {
		if item.Managed() {
			continue
		}
		identifier, ok := UpdateIdentifier(item)
		if !ok {
			continue
		}
		if _, ok := item.Info.ProjectID(); !ok {
			// Hash-only identity cannot be queried for newer versions.
			continue
		}
		tasks = append(tasks, task{item: item, identifier: identifier})
	}

	var (
		mu       sync.Mutex
		failures int
		lastErr  error
		wg       sync.WaitGroup
	)
	sem := make(chan struct{}, c.concurrency)

	for _, t := range tasks {
		wg.Add(1)
		go func(t task) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			latest, err := c.latestCompatible(ctx, prof, t.item)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				c.logger.Warn().Err(err).Str("filename", t.item.Filename).Msg("Update check failed for item")
				failures++
				lastErr = err
				return
			}
			if latest == nil {
				return
			}
			if latest.ID != t.item.InstalledVersionID() {
				index[t.identifier] = *latest
			}
		}(t)
	}
	wg.Wait()

	c.logger.Info().
		Int("checked", len(tasks)).
		Int("updates", len(index)).
		Int("failures", failures).
		Msg("Update check completed")

	if failures > 0 {
		return index, errors.Wrapf(lastErr, errors.ErrRegistryFetch, "update check failed for %d of %d items", failures, len(tasks))
	}
	return index, nil
}

// latestCompatible returns the newest version compatible with the
// profile, or nil when the listing is empty.
func (c *UpdateChecker) latestCompatible(ctx context.Context, prof *profile.Profile, item *types.ContentItem) (*types.RemoteVersion, error) {
	projectID, _ := item.Info.ProjectID()

	filter := types.VersionFilter{GameVersions: []string{prof.GameVersion}}
	if item.ContentType.LoaderFiltered() && prof.Loader != "" {
		filter.Loaders = []string{prof.Loader}
	}

	versions, err := c.source.ListVersions(ctx, item.Info.Platform(), projectID, filter)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, nil
	}

	latest := versions[0]
	for _, v := range versions[1:] {
		if v.DatePublished.After(latest.DatePublished) {
			latest = v
		}
	}
	return &latest, nil
}
