package commands

import (
	"context"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// ListOptions defines the options for the List command.
type ListOptions struct {
	Env *Env
	// Query filters items by a case-insensitive substring of the
	// display name.
	Query string
	// CheckUpdates also runs an update check so the listing can mark
	// pending updates.
	CheckUpdates bool
}

// ListResult holds the inventory view.
type ListResult struct {
	Items     []*types.ContentItem
	Updates   content.UpdateIndex
	UpdateErr error
}

// List returns the (optionally filtered) inventory, with pending updates
// when requested. A partially failed update check still returns the
// listing; the aggregate error is carried in the result.
func List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	logger := logging.GetLogger("commands.list")
	ctrl := opts.Env.Controller

	result := &ListResult{Updates: content.UpdateIndex{}}

	if opts.CheckUpdates {
		result.UpdateErr = ctrl.CheckForUpdates(ctx)
		result.Updates = ctrl.Updates()
	}

	ctrl.SetSearchQuery(opts.Query)
	result.Items = ctrl.FilteredItems()

	logger.Info().
		Int("items", len(result.Items)).
		Int("updates", len(result.Updates)).
		Msg("List command completed")
	return result, nil
}
