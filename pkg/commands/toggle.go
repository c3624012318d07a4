package commands

import (
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// ToggleOptions defines the options for the Toggle command.
type ToggleOptions struct {
	Env *Env
	// Filenames are the enabled-form names of the items to flip.
	Filenames []string
}

// Toggle flips the enabled state of the named items as one batch. Each
// item succeeds or fails on its own.
func Toggle(opts ToggleOptions) (*types.BatchResult, error) {
	logger := logging.GetLogger("commands.toggle")
	ctrl := opts.Env.Controller

	ctrl.ClearSelection()
	for _, name := range opts.Filenames {
		ctrl.Select(name)
	}
	result := ctrl.BatchToggle()

	logger.Info().
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.Failed)).
		Msg("Toggle command completed")
	return result, nil
}
