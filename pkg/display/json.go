package display

import (
	"encoding/json"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/errors"
	"github.com/modpilot/modpilot/pkg/types"
)

// itemJSON is the machine-readable projection of one inventory item.
type itemJSON struct {
	Filename        string `json:"filename"`
	DisplayName     string `json:"display_name"`
	Enabled         bool   `json:"enabled"`
	ContentType     string `json:"content_type"`
	Version         string `json:"version,omitempty"`
	Platform        string `json:"platform"`
	ProjectID       string `json:"project_id,omitempty"`
	ManagedBy       string `json:"managed_by,omitempty"`
	SHA1            string `json:"sha1,omitempty"`
	Size            int64  `json:"size,omitempty"`
	UpdateVersion   string `json:"update_version,omitempty"`
	UpdateVersionID string `json:"update_version_id,omitempty"`
}

// ItemsJSON renders the inventory as a JSON array, pending updates
// folded onto their items.
func ItemsJSON(items []*types.ContentItem, updates content.UpdateIndex) (string, error) {
	views := make([]itemJSON, 0, len(items))
	for _, item := range items {
		view := itemJSON{
			Filename:    item.Filename,
			DisplayName: item.DisplayName(),
			Enabled:     !item.IsDisabled,
			ContentType: string(item.ContentType),
			Version:     item.VersionLabel(),
			Platform:    string(item.Info.Platform()),
			ManagedBy:   item.ManagedBy,
			SHA1:        item.SHA1Hash,
			Size:        item.FileSize,
		}
		if projectID, ok := item.Info.ProjectID(); ok {
			view.ProjectID = projectID
		}
		if identifier, ok := content.UpdateIdentifier(item); ok {
			if update, pending := updates[identifier]; pending {
				view.UpdateVersion = update.VersionNumber
				view.UpdateVersionID = update.ID
			}
		}
		views = append(views, view)
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to encode item list")
	}
	return string(data), nil
}
