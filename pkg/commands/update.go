package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// UpdateOptions defines the options for the Update command.
type UpdateOptions struct {
	Env *Env
	// Filenames names the items to update. Empty with All set updates
	// everything that has a pending entry.
	Filenames []string
	All       bool
}

// Update applies pending updates. An update check runs first so the
// entries are fresh; each item's failure is isolated.
func Update(ctx context.Context, opts UpdateOptions) (*types.BatchResult, error) {
	logger := logging.GetLogger("commands.update")
	ctrl := opts.Env.Controller

	if err := ctrl.CheckForUpdates(ctx); err != nil {
		logger.Warn().Err(err).Msg("Update check reported partial failures, continuing with found entries")
	}

	var result *types.BatchResult
	if opts.All {
		result = ctrl.UpdateAll(ctx)
	} else {
		result = &types.BatchResult{
			OperationID: uuid.New(),
			Command:     "update",
			Timestamp:   time.Now(),
		}
		for _, name := range opts.Filenames {
			if err := ctrl.UpdateOne(ctx, name); err != nil {
				result.Failed = append(result.Failed, types.ItemFailure{Filename: name, Message: err.Error()})
				continue
			}
			result.Succeeded++
		}
	}

	logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.Failed)).
		Msg("Update command completed")
	return result, nil
}
