package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/orgmap/orgmap/internal/tui/theme"
)

var (
	// Explorer styles that compose from the shared theme
	titleStyle = theme.TitleStyle

	headerStyle = theme.HeaderStyle

	breadcrumbStyle = theme.BreadcrumbStyle

	breadcrumbSepStyle = theme.BreadcrumbSepStyle

	helpStyle = theme.HelpStyle

	errorStyle = theme.ErrorStyle

	mutedStyle = theme.MutedStyle

	warningStyle = theme.WarningStyle

	sectionStyle = theme.SectionStyle

	directGrantStyle = theme.DirectGrantStyle

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success)

	explorerStyle = theme.ExplorerStyle
)
