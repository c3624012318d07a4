package commands

import (
	"context"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// CheckOptions defines the options for the Check command.
type CheckOptions struct {
	Env *Env
}

// CheckResult holds the outcome of an update check.
type CheckResult struct {
	Items   []*types.ContentItem
	Updates content.UpdateIndex
	// Err is the aggregate of per-item registry failures. The index is
	// valid even when it is set.
	Err error
}

// Check runs a batched update check over the inventory.
func Check(ctx context.Context, opts CheckOptions) (*CheckResult, error) {
	logger := logging.GetLogger("commands.check")
	ctrl := opts.Env.Controller

	err := ctrl.CheckForUpdates(ctx)

	result := &CheckResult{
		Items:   ctrl.Items(),
		Updates: ctrl.Updates(),
		Err:     err,
	}

	logger.Info().
		Int("items", len(result.Items)).
		Int("updates", len(result.Updates)).
		Bool("partialFailure", err != nil).
		Msg("Check command completed")
	return result, nil
}
