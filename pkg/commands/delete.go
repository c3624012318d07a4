package commands

import (
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// DeleteOptions defines the options for the Delete command.
type DeleteOptions struct {
	Env       *Env
	Filenames []string
}

// Delete removes the named items as one batch. Centrally managed items
// are skipped, never deleted.
func Delete(opts DeleteOptions) (*types.BatchResult, error) {
	logger := logging.GetLogger("commands.delete")
	ctrl := opts.Env.Controller

	ctrl.ClearSelection()
	for _, name := range opts.Filenames {
		ctrl.Select(name)
	}
	result := ctrl.BatchDelete()

	logger.Info().
		Int("succeeded", result.Succeeded).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Msg("Delete command completed")
	return result, nil
}
