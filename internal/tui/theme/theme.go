package theme

import (
	"image/color"
	"strings"

	"charm.land/bubbles/v2/table"
	"charm.land/lipgloss/v2"
)

// Colors
var (
	Primary   = lipgloss.Color("#33A8FF")
	Secondary = lipgloss.Color("#163047")
	Muted     = lipgloss.Color("#6B7280")
	Success   = lipgloss.Color("#10B981")
	Warning   = lipgloss.Color("#F59E0B")
	Error     = lipgloss.Color("#EF4444")
)

// Shared styles
var (
	HeaderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Muted).
			Padding(0, 1)

	ExplorerStyle = lipgloss.NewStyle().
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(1, 0, 0, 0)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	BreadcrumbSepStyle = lipgloss.NewStyle().
				Foreground(Muted)

	SectionStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	DirectGrantStyle = lipgloss.NewStyle().
				Foreground(Warning).
				Bold(true)
)

// StatusColor maps organization account statuses to theme colors.
func StatusColor(status string) color.Color {
	switch strings.ToUpper(status) {
	case "ACTIVE":
		return Success
	case "SUSPENDED", "CLOSED":
		return Error
	case "PENDING_CLOSURE", "INVITED", "CREATE_IN_PROGRESS":
		return Warning
	default:
		return Muted
	}
}

// RenderStatus renders a status string with a colored bullet.
func RenderStatus(status string) string {
	c := StatusColor(status)
	bullet := lipgloss.NewStyle().Foreground(c).Render("●")
	return bullet + " " + status
}

// DefaultTableStyles returns styled table styles using theme colors.
func DefaultTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}
