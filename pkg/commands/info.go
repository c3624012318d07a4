package commands

import (
	"context"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/registry"
	"github.com/modpilot/modpilot/pkg/types"
)

// InfoOptions defines the options for the Info command.
type InfoOptions struct {
	Env      *Env
	Filename string
}

// InfoResult pairs an installed item with its registry project details.
// Project is zero-valued for local-only items.
type InfoResult struct {
	Item    *types.ContentItem
	Project registry.Project
	// HasProject reports whether Project was resolved from a registry.
	HasProject bool
}

// Info returns an item's local state enriched with its registry project
// details. Items without registry identity return local state only.
func Info(ctx context.Context, opts InfoOptions) (*InfoResult, error) {
	logger := logging.GetLogger("commands.info")
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

	result := &InfoResult{Item: item}

	projectID, ok := item.Info.ProjectID()
	if !ok {
		logger.Debug().Str("filename", opts.Filename).Msg("No registry identity, local state only")
		return result, nil
	}

	project, err := opts.Env.Projects.GetProject(ctx, item.Info.Platform(), projectID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRegistryFetch,
			"failed to fetch project details for %s", opts.Filename)
	}
	result.Project = project
	result.HasProject = true

	logger.Info().
		Str("filename", opts.Filename).
		Str("project", project.Title).
		Msg("Info command completed")
	return result, nil
}
