package commands

import (
	"context"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// SwitchOptions defines the options for the Switch command.
type SwitchOptions struct {
	Env      *Env
	Filename string
	// Version selects the target by registry version id or by version
	// number; ids win when both match something.
	Version string
}

// SwitchResult describes an applied version switch.
type SwitchResult struct {
	From    string
	To      string
	Version types.RemoteVersion
}

// Switch replaces an item's installed file with the chosen version from
// its registry version history.
func Switch(ctx context.Context, opts SwitchOptions) (*SwitchResult, error) {
	logger := logging.GetLogger("commands.switch")
	ctrl := opts.Env.Controller

	history, err := Versions(ctx, VersionsOptions{Env: opts.Env, Filename: opts.Filename})
	if err != nil {
		return nil, err
	}
	session := history.Session
	if session.Unavailable {
		return nil, errors.Newf(errors.ErrNoIdentifier,
			"%s has no registry identity, no versions to switch to", opts.Filename)
	}
	if session.Err != "" {
		return nil, errors.Newf(errors.ErrRegistryFetch,
			"failed to load versions for %s: %s", opts.Filename, session.Err)
	}

	target, ok := pickVersion(session.Versions, opts.Version)
	if !ok {
		return nil, errors.Newf(errors.ErrNotFound,
			"no version %q available for %s", opts.Version, opts.Filename)
	}

	if err := ctrl.SwitchVersion(ctx, opts.Filename, target); err != nil {
		return nil, err
	}

	file, _ := target.PrimaryFile()
	result := &SwitchResult{
		From:    opts.Filename,
		To:      file.Filename,
		Version: target,
	}

	logger.Info().
		Str("from", result.From).
		Str("to", result.To).
		Str("version", target.VersionNumber).
		Msg("Switch command completed")
	return result, nil
}

// pickVersion matches by version id first, then by version number.
func pickVersion(entries []content.VersionEntry, selector string) (types.RemoteVersion, bool) {
	for _, entry := range entries {
		if entry.Version.ID == selector {
			return entry.Version, true
		}
	}
	for _, entry := range entries {
		if entry.Version.VersionNumber == selector {
			return entry.Version, true
		}
	}
	return types.RemoteVersion{}, false
}
