package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/modpilot/modpilot/pkg/content"
	"github.com/modpilot/modpilot/pkg/registry"
	"github.com/modpilot/modpilot/pkg/types"
)

// TerminalRenderer renders inventory views and operation results for the
// terminal. In plain mode every style is a passthrough so piped output
// stays clean.
type TerminalRenderer struct {
	plain bool
	width int
}

// NewTerminalRenderer creates a renderer for the given format.
func NewTerminalRenderer(format Format) *TerminalRenderer {
	return &TerminalRenderer{
		plain: format != FormatTerminal,
		width: 80,
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

func (r *TerminalRenderer) style(s lipgloss.Style, text string) string {
	if r.plain {
		return text
	}
	return s.Render(text)
}

func (r *TerminalRenderer) indicator(styled, plain string) string {
	if r.plain {
		return plain
	}
	return styled
}

// RenderItemList renders the inventory, one line per item, with any
// pending updates marked.
func (r *TerminalRenderer) RenderItemList(items []*types.ContentItem, updates content.UpdateIndex) string {
	if len(items) == 0 {
		return r.style(MutedStyle, "No content installed")
	}

	var b strings.Builder
	for _, item := range items {
		state := r.indicator(EnabledIndicator, "on ")
		if item.IsDisabled {
			state = r.indicator(DisabledIndicator, "off")
		}

		line := fmt.Sprintf("%s %s", state, item.DisplayName())
		if label := item.VersionLabel(); label != "" {
			line += " " + r.style(VersionStyle, label)
		}
		if item.Managed() {
			line += " " + r.indicator(ManagedIndicator, "[managed]")
			line += r.style(MutedStyle, fmt.Sprintf(" (%s)", item.ManagedBy))
		}
		if identifier, ok := content.UpdateIdentifier(item); ok {
			if update, pending := updates[identifier]; pending {
				line += fmt.Sprintf(" %s %s",
					r.indicator(UpdateIndicator, "->"),
					r.style(WarningStyle, update.VersionNumber))
			}
		}
		if item.FileSize > 0 {
			line += " " + r.style(MutedStyle, humanSize(item.FileSize))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderBatchResult summarizes a batch operation: counts first, then one
// line per skip and failure.
func (r *TerminalRenderer) RenderBatchResult(result *types.BatchResult) string {
	var b strings.Builder

	summary := fmt.Sprintf("%d succeeded", result.Succeeded)
	if len(result.Skipped) > 0 {
		summary += fmt.Sprintf(", %d skipped", len(result.Skipped))
	}
	if len(result.Failed) > 0 {
		summary += fmt.Sprintf(", %d failed", len(result.Failed))
	}
	if result.Ok() {
		b.WriteString(r.style(SuccessStyle, summary))
	} else {
		b.WriteString(r.style(ErrorStyle, summary))
	}
	b.WriteString("\n")

	for _, name := range result.Skipped {
		b.WriteString(r.style(MutedStyle, fmt.Sprintf("  skipped %s (managed)", name)) + "\n")
	}
	for _, failure := range result.Failed {
		line := fmt.Sprintf("  %s %s: %s",
			r.indicator(FailureIndicator, "x"), failure.Filename, failure.Message)
		b.WriteString(r.style(ErrorStyle, line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderUpdateSummary lists pending updates against the inventory.
func (r *TerminalRenderer) RenderUpdateSummary(items []*types.ContentItem, updates content.UpdateIndex) string {
	if len(updates) == 0 {
		return r.style(SuccessStyle, "Everything is up to date")
	}

	var b strings.Builder
	b.WriteString(r.style(TitleStyle, fmt.Sprintf("%d update(s) available", len(updates))) + "\n")
	for _, item := range items {
		identifier, ok := content.UpdateIdentifier(item)
		if !ok {
			continue
		}
		update, pending := updates[identifier]
		if !pending {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
			item.DisplayName(),
			r.style(MutedStyle, item.VersionLabel()),
			r.indicator(UpdateIndicator, "->"),
			r.style(WarningStyle, update.VersionNumber)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderVersionList renders an open version dropdown.
func (r *TerminalRenderer) RenderVersionList(session *content.VersionSession) string {
	if session == nil {
		return ""
	}
	switch session.State {
	case content.SessionLoading:
		return r.style(MutedStyle, "Loading versions...")
	case content.SessionErrored:
		return r.style(ErrorStyle, "Failed to load versions: "+session.Err)
	}
	if session.Unavailable {
		return r.style(MutedStyle, "No version history available for this item")
	}
	if len(session.Versions) == 0 {
		return r.style(MutedStyle, "No compatible versions found")
	}

	var b strings.Builder
	for _, entry := range session.Versions {
		marker := "  "
		if entry.Current {
			marker = r.indicator(CurrentIndicator, "* ") + " "
		}
		line := fmt.Sprintf("%s%s", marker, entry.Version.VersionNumber)
		if entry.Version.ReleaseType != "" && entry.Version.ReleaseType != types.ReleaseTypeRelease {
			line += " " + r.style(WarningStyle, string(entry.Version.ReleaseType))
		}
		if !entry.Version.DatePublished.IsZero() {
			line += " " + r.style(MutedStyle, entry.Version.DatePublished.Format("2006-01-02"))
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderChangelog renders version changelog markdown. Plain mode and
// rendering failures fall back to the raw text.
func (r *TerminalRenderer) RenderChangelog(markdown string) string {
	if markdown == "" {
		return r.style(MutedStyle, "No changelog provided")
	}
	if r.plain {
		return markdown
	}
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}

// RenderItemInfo renders one item's local state plus its registry
// project details when resolved.
func (r *TerminalRenderer) RenderItemInfo(item *types.ContentItem, project registry.Project, hasProject bool) string {
	var b strings.Builder

	title := item.DisplayName()
	if hasProject && project.Title != "" {
		title = project.Title
	}
	b.WriteString(r.style(TitleStyle, title) + "\n")

	state := "enabled"
	if item.IsDisabled {
		state = "disabled"
	}
	b.WriteString(fmt.Sprintf("  file     %s (%s)\n", item.Filename, state))
	if label := item.VersionLabel(); label != "" {
		b.WriteString(fmt.Sprintf("  version  %s\n", label))
	}
	b.WriteString(fmt.Sprintf("  source   %s\n", item.Info.Platform()))
	if item.Managed() {
		b.WriteString(fmt.Sprintf("  managed  %s\n", item.ManagedBy))
	}
	if item.FileSize > 0 {
		b.WriteString(fmt.Sprintf("  size     %s\n", humanSize(item.FileSize)))
	}
	if item.SHA1Hash != "" {
		b.WriteString(fmt.Sprintf("  sha1     %s\n", item.SHA1Hash))
	}
	if item.Fingerprint != 0 {
		b.WriteString(fmt.Sprintf("  murmur2  %d\n", item.Fingerprint))
	}
	if hasProject && project.Description != "" {
		b.WriteString("\n" + r.style(MutedStyle, project.Description) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderError renders an error message.
func (r *TerminalRenderer) RenderError(err error) string {
	return r.style(ErrorStyle, "Error: "+err.Error())
}

func humanSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMG"[exp])
}
