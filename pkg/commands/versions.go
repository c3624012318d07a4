package commands

import (
	"context"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// VersionsOptions defines the options for the Versions command.
type VersionsOptions struct {
	Env      *Env
	Filename string
}

// VersionsResult holds the fetched version history for one item.
type VersionsResult struct {
	Item    *types.ContentItem
	Session *content.VersionSession
}

// Versions opens the item's version dropdown and fetches its compatible
// version history. Items without registry identity yield an Unavailable
// session rather than an error.
func Versions(ctx context.Context, opts VersionsOptions) (*VersionsResult, error) {
	logger := logging.GetLogger("commands.versions")
	ctrl := opts.Env.Controller

	var item *types.ContentItem
	for _, candidate := range ctrl.Items() {
		if candidate.Filename == opts.Filename {
			item = candidate
			break
		}
	}
	if item == nil {
		return nil, errors.Newf(errors.ErrItemNotFound, "no item named %s", opts.Filename)
	}

	ctrl.OpenVersionDropdown(opts.Filename)
	session := ctrl.FetchOpenVersions(ctx)

	logger.Info().
		Str("filename", opts.Filename).
		Str("state", string(session.State)).
		Int("versions", len(session.Versions)).
		Msg("Versions command completed")
	return &VersionsResult{Item: item, Session: session}, nil
}
