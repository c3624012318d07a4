package content

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/profile"
	"github.com/modpilot/modpilot/pkg/types"
)

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	FS          types.FS
	HTTP        *http.Client
	Source      VersionSource
	Profile     *profile.Profile
	ContentType types.ContentType
	// Dir is the content directory for the profile and content type.
	Dir string
	// UpdateConcurrency bounds parallel registry calls during bulk
	// update checks. Defaults to 1.
	UpdateConcurrency int
}

// Controller is the orchestrating state holder for one content directory:
// it owns the item set, the search view, the selection, per-item busy
// state, the update index and the single open version dropdown. It is the
// only writer of that state; presentation layers read through its views.
type Controller struct {
	mu sync.Mutex

	fs        types.FS
	scanner   *Scanner
	installer *Installer
	checker   *UpdateChecker
	source    VersionSource
	store     *MetadataStore
	prof      *profile.Profile
	ctype     types.ContentType
	dir       string
	busy      *busyTracker
	logger    zerolog.Logger

	items       []*types.ContentItem
	searchQuery string
	selection   map[string]struct{}

	updates   UpdateIndex
	updateErr error

	session    *VersionSession
	sessionSeq uint64
}

// NewController creates a Controller. The inventory is empty until the
// first Refresh.
func NewController(opts ControllerOptions) *Controller {
	httpClient := opts.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Controller{
		fs:        opts.FS,
		scanner:   NewScanner(opts.FS),
		installer: NewInstaller(opts.FS, httpClient),
		checker:   NewUpdateChecker(opts.Source, opts.UpdateConcurrency),
		source:    opts.Source,
		store:     NewMetadataStore(opts.FS, opts.Dir),
		prof:      opts.Profile,
		ctype:     opts.ContentType,
		dir:       opts.Dir,
		busy:      newBusyTracker(),
		selection: make(map[string]struct{}),
		updates:   make(UpdateIndex),
		logger:    logging.GetLogger("content.controller"),
	}
}

// Refresh rescans the content directory, recomputes hashes and clears
// the selection. Update entries whose backing item disappeared are
// dropped.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx, false)
}

func (c *Controller) refresh(ctx context.Context, keepSelection bool) error {
	items, err := c.scanner.Scan(c.dir, c.ctype)
	if err != nil {
		return err
	}
	if hashErr := c.scanner.ComputeHashes(ctx, items); hashErr != nil {
		c.logger.Warn().Err(hashErr).Msg("Some items could not be hashed")
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Filename < items[j].Filename })

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items

	if keepSelection {
		// Keep only selections whose items still exist.
		surviving := make(map[string]struct{}, len(c.selection))
		for _, item := range items {
			if _, ok := c.selection[item.Filename]; ok {
				surviving[item.Filename] = struct{}{}
			}
		}
		c.selection = surviving
	} else {
		c.selection = make(map[string]struct{})
	}

	// Prune update entries whose backing item is gone.
	present := make(map[string]struct{}, len(items))
	for _, item := range items {
		if identifier, ok := UpdateIdentifier(item); ok {
			present[identifier] = struct{}{}
		}
	}
	for identifier := range c.updates {
		if _, ok := present[identifier]; !ok {
			delete(c.updates, identifier)
		}
	}

	return nil
}

// Items returns the full inventory.
func (c *Controller) Items() []*types.ContentItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// FilteredItems applies the search query: a case-insensitive substring
// match over the display name. Filtering never mutates the inventory.
func (c *Controller) FilteredItems() []*types.ContentItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.searchQuery == "" {
		out := make([]*types.ContentItem, len(c.items))
		copy(out, c.items)
		return out
	}
	query := strings.ToLower(c.searchQuery)
	var out []*types.ContentItem
	for _, item := range c.items {
		if strings.Contains(strings.ToLower(item.DisplayName()), query) {
			out = append(out, item)
		}
	}
	return out
}

// SetSearchQuery updates the search filter.
func (c *Controller) SetSearchQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchQuery = query
}

// Select adds an item to the selection; selecting an already selected
// item is a no-op.
func (c *Controller) Select(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection[filename] = struct{}{}
}

// Deselect removes an item from the selection; idempotent.
func (c *Controller) Deselect(filename string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.selection, filename)
}

// IsSelected reports selection membership.
func (c *Controller) IsSelected(filename string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selection[filename]
	return ok
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = make(map[string]struct{})
}

// SelectedNames returns the selected filenames, sorted.
func (c *Controller) SelectedNames() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.selection))
	for name := range c.selection {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ItemState returns an item's busy state.
func (c *Controller) ItemState(filename string) ItemState {
	return c.busy.state(filename)
}

// AnyTaskRunning is the global guard for cross-cutting actions.
func (c *Controller) AnyTaskRunning() bool {
	return c.busy.anyTaskRunning()
}

// Updates returns a copy of the current update index.
func (c *Controller) Updates() UpdateIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(UpdateIndex, len(c.updates))
	for k, v := range c.updates {
		out[k] = v
	}
	return out
}

// UpdateFor returns the pending update for an item, if any.
func (c *Controller) UpdateFor(item *types.ContentItem) (types.RemoteVersion, bool) {
	identifier, ok := UpdateIdentifier(item)
	if !ok {
		return types.RemoteVersion{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.updates[identifier]
	return v, ok
}

// UpdateError returns the aggregate error of the last update check, or
// nil when every item was checked cleanly.
func (c *Controller) UpdateError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updateErr
}

// CheckForUpdates runs one batched update check over the inventory and
// replaces the update index wholesale, so a reader never observes a mix
// of two check cycles. A concurrent check request is collapsed to a
// no-op.
func (c *Controller) CheckForUpdates(ctx context.Context) error {
	c.busy.mu.Lock()
	if c.busy.checking {
		c.busy.mu.Unlock()
		return nil
	}
	c.busy.checking = true
	c.busy.mu.Unlock()
	defer c.busy.setChecking(false)

	index, err := c.checker.Build(ctx, c.prof, c.Items())

	c.mu.Lock()
	c.updates = index
	c.updateErr = err
	c.mu.Unlock()
	return err
}

// Toggle flips one item's enabled state. Busy items are rejected, not
// queued.
func (c *Controller) Toggle(filename string) error {
	if err := c.busy.begin(filename, ItemToggling); err != nil {
		return err
	}
	defer c.busy.end(filename)

	item, err := c.findItem(filename)
	if err != nil {
		return err
	}
	return c.installer.ToggleDisabled(item)
}

// Delete removes one item's file, its metadata and its update entry.
// Centrally managed items are never deletable by users.
func (c *Controller) Delete(filename string) error {
	if err := c.busy.begin(filename, ItemDeleting); err != nil {
		return err
	}
	defer c.busy.end(filename)

	item, err := c.findItem(filename)
	if err != nil {
		return err
	}
	if item.Managed() {
		return errors.Newf(errors.ErrItemManaged, "%s is centrally managed and cannot be deleted", filename)
	}

	if err := c.installer.Delete(item); err != nil {
		return err
	}
	if err := c.store.Delete(filename); err != nil {
		c.logger.Warn().Err(err).Str("filename", filename).Msg("Failed to drop metadata entry")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeItemLocked(item)
	return nil
}

// BatchToggle flips every selected item with per-item failure isolation.
// Successfully toggled items are deselected; failed items stay selected.
func (c *Controller) BatchToggle() *types.BatchResult {
	return c.runBatch("toggle", ItemToggling, func(item *types.ContentItem) error {
		return c.installer.ToggleDisabled(item)
	})
}

// BatchDelete deletes every selected item with per-item failure
// isolation. Centrally managed items are excluded regardless of
// selection and reported as skipped.
func (c *Controller) BatchDelete() *types.BatchResult {
	return c.runBatch("delete", ItemDeleting, func(item *types.ContentItem) error {
		if item.Managed() {
			return errors.Newf(errors.ErrItemManaged, "%s is centrally managed", item.Filename)
		}
		if err := c.installer.Delete(item); err != nil {
			return err
		}
		if err := c.store.Delete(item.Filename); err != nil {
			c.logger.Warn().Err(err).Str("filename", item.Filename).Msg("Failed to drop metadata entry")
		}
		c.mu.Lock()
		c.removeItemLocked(item)
		c.mu.Unlock()
		return nil
	})
}

func (c *Controller) runBatch(command string, state ItemState, op func(*types.ContentItem) error) *types.BatchResult {
	c.busy.setBatchActive(true)
	defer c.busy.setBatchActive(false)

	result := &types.BatchResult{
		OperationID: uuid.New(),
		Command:     command,
		Timestamp:   time.Now(),
	}

	for _, filename := range c.SelectedNames() {
		item, err := c.findItem(filename)
		if err != nil {
			result.Failed = append(result.Failed, types.ItemFailure{Filename: filename, Message: err.Error()})
			continue
		}

		if err := c.busy.begin(filename, state); err != nil {
			result.Failed = append(result.Failed, types.ItemFailure{Filename: filename, Message: err.Error()})
			continue
		}
		err = op(item)
		c.busy.end(filename)

		switch {
		case errors.IsErrorCode(err, errors.ErrItemManaged):
			result.Skipped = append(result.Skipped, filename)
			c.Deselect(filename)
		case err != nil:
			result.Failed = append(result.Failed, types.ItemFailure{Filename: filename, Message: err.Error()})
		default:
			result.Succeeded++
			c.Deselect(filename)
		}
	}

	c.logger.Info().
		Str("command", command).
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.Failed)).
		Int("skipped", len(result.Skipped)).
		Msg("Batch operation completed")
	return result
}

// OpenVersionDropdown opens the version dropdown for an item, implicitly
// closing any other open dropdown. Items without a resolvable platform
// project id get an Unavailable session: version history cannot be shown
// and no switch is offered.
func (c *Controller) OpenVersionDropdown(filename string) *VersionSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessionSeq++
	session := &VersionSession{
		Key:   filename,
		State: SessionLoading,
		seq:   c.sessionSeq,
	}

	item := c.findItemLocked(filename)
	if item == nil {
		session.State = SessionErrored
		session.Err = "item not found"
	} else if _, ok := item.Info.ProjectID(); !ok {
		session.State = SessionLoaded
		session.Unavailable = true
	}

	c.session = session
	return c.snapshotSessionLocked()
}

// FetchOpenVersions loads the version list for the currently open
// dropdown. The result is discarded if the dropdown has since closed or
// moved to a different item; staleness is checked at apply time.
func (c *Controller) FetchOpenVersions(ctx context.Context) *VersionSession {
	c.mu.Lock()
	if c.session == nil || c.session.State != SessionLoading {
		snapshot := c.snapshotSessionLocked()
		c.mu.Unlock()
		return snapshot
	}
	key := c.session.Key
	seq := c.session.seq
	item := c.findItemLocked(key)
	c.mu.Unlock()

	if item == nil {
		return c.applySessionResult(key, seq, nil, "item not found")
	}

	projectID, _ := item.Info.ProjectID()
	filter := types.VersionFilter{GameVersions: []string{c.prof.GameVersion}}
	if item.ContentType.LoaderFiltered() && c.prof.Loader != "" {
		filter.Loaders = []string{c.prof.Loader}
	}

	versions, err := c.source.ListVersions(ctx, item.Info.Platform(), projectID, filter)
	if err != nil {
		return c.applySessionResult(key, seq, nil, err.Error())
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].DatePublished.After(versions[j].DatePublished)
	})
	return c.applySessionResult(key, seq, classifyVersions(item, versions), "")
}

// applySessionResult installs a fetch outcome, unless the session moved.
func (c *Controller) applySessionResult(key string, seq uint64, entries []VersionEntry, errMsg string) *VersionSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil || c.session.seq != seq || c.session.Key != key {
		// Stale result: the dropdown closed or switched items while the
		// fetch was in flight.
		c.logger.Debug().Str("key", key).Msg("Discarding stale version fetch result")
		return c.snapshotSessionLocked()
	}

	if errMsg != "" {
		c.session.State = SessionErrored
		c.session.Err = errMsg
	} else {
		c.session.State = SessionLoaded
		c.session.Versions = entries
	}
	return c.snapshotSessionLocked()
}

// CloseVersionDropdown closes the open dropdown, if any.
func (c *Controller) CloseVersionDropdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
}

// OpenSession returns a snapshot of the open dropdown, or nil.
func (c *Controller) OpenSession() *VersionSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotSessionLocked()
}

func (c *Controller) snapshotSessionLocked() *VersionSession {
	if c.session == nil {
		return nil
	}
	snapshot := *c.session
	snapshot.Versions = append([]VersionEntry(nil), c.session.Versions...)
	return &snapshot
}

// SwitchVersion replaces an item's on-disk file with a chosen remote
// version: the new primary file is installed, the old file removed, the
// enabled state and selection membership carried over, and the inventory
// refreshed. Selecting a version also closes the item's dropdown.
func (c *Controller) SwitchVersion(ctx context.Context, filename string, version types.RemoteVersion) error {
	if err := c.busy.begin(filename, ItemUpdating); err != nil {
		return err
	}
	defer c.busy.end(filename)

	item, err := c.findItem(filename)
	if err != nil {
		return err
	}

	file, ok := version.PrimaryFile()
	if !ok {
		return errors.Newf(errors.ErrFileInstall, "version %s has no downloadable file", version.VersionNumber)
	}

	newName, err := c.installer.Install(ctx, c.dir, file, item.IsDisabled)
	if err != nil {
		return err
	}

	// Remove the superseded file unless the new one landed on the same
	// name, in which case the install already replaced it.
	if item.DiskName() != diskName(newName, item.IsDisabled) {
		if err := c.installer.Delete(item); err != nil {
			c.logger.Warn().Err(err).Str("filename", item.Filename).Msg("Failed to remove superseded file")
		}
	}

	if err := c.store.Rename(item.Filename, newName, switchedMetadata(item, &version, &file)); err != nil {
		c.logger.Warn().Err(err).Str("filename", newName).Msg("Failed to persist switched metadata")
	}

	c.mu.Lock()
	// Carry selection membership over to the new filename slot.
	if _, selected := c.selection[item.Filename]; selected {
		delete(c.selection, item.Filename)
		c.selection[newName] = struct{}{}
	}
	// Applying a version retires its update entry.
	if identifier, ok := UpdateIdentifier(item); ok {
		delete(c.updates, identifier)
	}
	// Selecting a version closes the item's dropdown.
	if c.session != nil && c.session.Key == item.Filename {
		c.session = nil
	}
	c.mu.Unlock()

	c.logger.Info().
		Str("from", item.Filename).
		Str("to", newName).
		Str("version", version.VersionNumber).
		Msg("Switched content version")

	return c.refresh(ctx, true)
}

// UpdateOne applies the pending update entry for an item.
func (c *Controller) UpdateOne(ctx context.Context, filename string) error {
	item, err := c.findItem(filename)
	if err != nil {
		return err
	}
	if item.Managed() {
		return errors.Newf(errors.ErrItemManaged, "%s is centrally managed and cannot be updated", filename)
	}

	version, ok := c.UpdateFor(item)
	if !ok {
		return errors.Newf(errors.ErrNoUpdateEntry, "no pending update for %s", filename)
	}
	return c.SwitchVersion(ctx, filename, version)
}

// UpdateAll applies every entry in the update index, each failure
// isolated and reported individually, then rebuilds the index.
func (c *Controller) UpdateAll(ctx context.Context) *types.BatchResult {
	c.busy.setUpdatingAll(true)
	defer c.busy.setUpdatingAll(false)

	result := &types.BatchResult{
		OperationID: uuid.New(),
		Command:     "update-all",
		Timestamp:   time.Now(),
	}

	// Snapshot identifier -> filename so switches that rename files do
	// not disturb iteration.
	targets := make(map[string]string)
	c.mu.Lock()
	for _, item := range c.items {
		if identifier, ok := UpdateIdentifier(item); ok {
			if _, pending := c.updates[identifier]; pending {
				targets[identifier] = item.Filename
			}
		}
	}
	c.mu.Unlock()

	for identifier, filename := range targets {
		c.mu.Lock()
		version, ok := c.updates[identifier]
		c.mu.Unlock()
		if !ok {
			continue
		}
		if err := c.SwitchVersion(ctx, filename, version); err != nil {
			result.Failed = append(result.Failed, types.ItemFailure{Filename: filename, Message: err.Error()})
			continue
		}
		result.Succeeded++
	}

	if err := c.CheckForUpdates(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("Update re-check after update-all reported failures")
	}

	c.logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.Failed)).
		Msg("Update all completed")
	return result
}

func (c *Controller) findItem(filename string) (*types.ContentItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item := c.findItemLocked(filename); item != nil {
		return item, nil
	}
	return nil, errors.Newf(errors.ErrItemNotFound, "no item named %s", filename)
}

func (c *Controller) findItemLocked(filename string) *types.ContentItem {
	for _, item := range c.items {
		if item.Filename == filename {
			return item
		}
	}
	return nil
}

func (c *Controller) removeItemLocked(target *types.ContentItem) {
	for i, item := range c.items {
		if item.Filename == target.Filename {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	delete(c.selection, target.Filename)
	if identifier, ok := UpdateIdentifier(target); ok {
		delete(c.updates, identifier)
	}
	if c.session != nil && c.session.Key == target.Filename {
		c.session = nil
	}
}

func diskName(filename string, disabled bool) string {
	if disabled {
		return filename + types.DisabledSuffix
	}
	return filename
}

// switchedMetadata carries the item's provenance forward onto the newly
// installed version.
func switchedMetadata(item *types.ContentItem, version *types.RemoteVersion, file *types.VersionFile) ItemMetadata {
	meta := ItemMetadata{
		SourceType:      item.SourceType,
		ManagedBy:       item.ManagedBy,
		FallbackVersion: item.FallbackVersion,
	}
	switch version.Platform {
	case types.PlatformModrinth:
		meta.Modrinth = &types.ModrinthInfo{
			ProjectID:     version.ProjectID,
			VersionID:     version.ID,
			VersionNumber: version.VersionNumber,
		}
	case types.PlatformCurseForge:
		meta.CurseForge = &types.CurseForgeInfo{
			ProjectID:     version.ProjectID,
			FileID:        version.ID,
			Fingerprint:   file.Fingerprint,
			VersionNumber: version.VersionNumber,
		}
	}
	return meta
}
