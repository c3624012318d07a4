package display

import (
	"github.com/charmbracelet/lipgloss"
)

// Color definitions using AdaptiveColor for automatic light/dark mode switching
var (
	PrimaryColor = lipgloss.AdaptiveColor{
		Light: "#007ACC",
		Dark:  "#3D9EFF",
	}

	SuccessColor = lipgloss.AdaptiveColor{
		Light: "#28A745",
		Dark:  "#4CDD76",
	}

	ErrorColor = lipgloss.AdaptiveColor{
		Light: "#DC3545",
		Dark:  "#FF6B7D",
	}

	WarningColor = lipgloss.AdaptiveColor{
		Light: "#FFC107",
		Dark:  "#FFD54F",
	}

	HeadingColor = lipgloss.AdaptiveColor{
		Light: "#212529",
		Dark:  "#F8F9FA",
	}

	MutedColor = lipgloss.AdaptiveColor{
		Light: "#6C757D",
		Dark:  "#ADB5BD",
	}
)

// Base styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(HeadingColor).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	VersionStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ListItemStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

// Status indicators
var (
	EnabledIndicator  = SuccessStyle.Render("●")
	DisabledIndicator = MutedStyle.Render("○")
	UpdateIndicator   = WarningStyle.Render("↑")
	CurrentIndicator  = SuccessStyle.Render("✓")
	ManagedIndicator  = VersionStyle.Render("◆")
	FailureIndicator  = ErrorStyle.Render("✗")
)
