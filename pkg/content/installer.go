package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/logging"
	"github.com/modpilot/modpilot/pkg/types"
)

// Installer performs the file mutations behind toggle, delete and version
// switches. Downloads land in a dotfile first and are renamed into place
// so a partially written artifact is never observed under its final name.
type Installer struct {
	fs     types.FS
	http   *http.Client
	logger zerolog.Logger
}

// NewInstaller creates an Installer.
func NewInstaller(fs types.FS, httpClient *http.Client) *Installer {
	return &Installer{
		fs:     fs,
		http:   httpClient,
		logger: logging.GetLogger("content.installer"),
	}
}

// Install downloads a version file into dir. When disabled is set the
// file is installed under its disabled name so the item keeps its state
// across a version switch. Returns the enabled-form filename.
func (i *Installer) Install(ctx context.Context, dir string, file types.VersionFile, disabled bool) (string, error) {
	if file.URL == "" {
		return "", errors.Newf(errors.ErrFileDownload, "version file %q has no download URL", file.Filename)
	}

	data, err := i.download(ctx, file.URL)
	if err != nil {
		return "", err
	}

	if err := i.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileInstall, "failed to create content directory %s", dir)
	}

	target := file.Filename
	diskName := target
	if disabled {
		diskName += types.DisabledSuffix
	}

	tempName := filepath.Join(dir, "."+target+".part")
	if err := i.fs.WriteFile(tempName, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileInstall, "failed to write %s", tempName)
	}
	if err := i.fs.Rename(tempName, filepath.Join(dir, diskName)); err != nil {
		_ = i.fs.Remove(tempName)
		return "", errors.Wrapf(err, errors.ErrFileInstall, "failed to move %s into place", target)
	}

	i.logger.Info().Str("filename", target).Bool("disabled", disabled).Msg("Installed content file")
	return target, nil
}

// Delete removes the item's on-disk file (or directory).
func (i *Installer) Delete(item *types.ContentItem) error {
	var err error
	if item.IsDirectory {
		err = i.fs.RemoveAll(item.Path)
	} else {
		err = i.fs.Remove(item.Path)
	}
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileDelete, "failed to delete %s", item.Filename)
	}
	i.logger.Info().Str("filename", item.Filename).Msg("Deleted content file")
	return nil
}

// ToggleDisabled flips the item's enabled state by renaming it between
// its enabled and disabled forms, and updates the item to match.
func (i *Installer) ToggleDisabled(item *types.ContentItem) error {
	dir := filepath.Dir(item.Path)

	oldName := item.DiskName()
	item.IsDisabled = !item.IsDisabled
	newName := item.DiskName()

	if err := i.fs.Rename(filepath.Join(dir, oldName), filepath.Join(dir, newName)); err != nil {
		item.IsDisabled = !item.IsDisabled
		return errors.Wrapf(err, errors.ErrFileToggle, "failed to rename %s", item.Filename)
	}
	item.Path = filepath.Join(dir, newName)

	i.logger.Info().Str("filename", item.Filename).Bool("disabled", item.IsDisabled).Msg("Toggled content file")
	return nil
}

func (i *Installer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileDownload, "failed to build download request")
	}

	resp, err := i.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileDownload, "download failed for %s", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrFileDownload, fmt.Sprintf("download returned HTTP %d for %s", resp.StatusCode, url))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileDownload, "failed to read download body for %s", url)
	}
	return data, nil
}
