package commands

import (
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// OpenOptions defines the options for the Open command.
type OpenOptions struct {
	Env *Env
	// Filename, when set, resolves the item's registry project page.
	// Empty resolves the profile's content directory instead.
	Filename string
}

// OpenResult names what should be opened: a project page URL or a local
// directory path. Launching is left to the caller.
type OpenResult struct {
	Target string
	IsURL  bool
}

// Open resolves the browse target for an item or the content directory.
func Open(opts OpenOptions) (*OpenResult, error) {
	logger := logging.GetLogger("commands.open")
	env := opts.Env

	if opts.Filename == "" {
		dir := env.Paths.ContentDir(env.Profile.Instance, env.ContentType)
		return &OpenResult{Target: dir}, nil
	}

	var item *types.ContentItem
	for _, candidate := range env.Controller.Items() {
		if candidate.Filename == opts.Filename {
			item = candidate
			break
		}
	}
	if item == nil {
		return nil, errors.Newf(errors.ErrItemNotFound, "no item named %s", opts.Filename)
	}

	url, err := projectPageURL(item)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("filename", opts.Filename).Str("url", url).Msg("Resolved project page")
	return &OpenResult{Target: url, IsURL: true}, nil
}

// projectPageURL builds the public project page for an item's registry
// origin.
func projectPageURL(item *types.ContentItem) (string, error) {
	if mr, ok := item.Info.Modrinth(); ok && mr.ProjectID != "" {
		kind := map[types.ContentType]string{
			types.ContentTypeMod:          "mod",
			types.ContentTypeResourcePack: "resourcepack",
			types.ContentTypeShaderPack:   "shader",
			types.ContentTypeDataPack:     "datapack",
		}[item.ContentType]
		if kind == "" {
			kind = "mod"
		}
		return "https://modrinth.com/" + kind + "/" + mr.ProjectID, nil
	}
	if cf, ok := item.Info.CurseForge(); ok && cf.ProjectID != "" {
		return "https://www.curseforge.com/projects/" + cf.ProjectID, nil
	}
	return "", errors.Newf(errors.ErrNoIdentifier, "%s has no registry identity to browse", item.Filename)
}
