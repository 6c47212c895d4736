package tui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/orgmap/orgmap/internal/model"
	"github.com/orgmap/orgmap/internal/nav"
	"github.com/orgmap/orgmap/internal/tui/theme"
	"github.com/orgmap/orgmap/internal/utils"
)

const maxBannerWarnings = 5

// Model is the interactive explorer over a loaded snapshot. All state
// transitions go through the navigation engine; the model only renders
// what the engine exposes.
type Model struct {
	engine   *nav.Engine
	warnings []model.ValidationWarning

	items  []nav.Item // rows currently in the table, same order
	table  table.Model
	width  int
	height int

	showWarnings bool
}

// NewModel creates the explorer positioned at the organization root.
func NewModel(data *model.ExplorerData, warnings []model.ValidationWarning) Model {
	columns := []table.Column{
		{Title: "Type", Width: 10},
		{Title: "Name", Width: 50},
		{Title: "Contains", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(15),
		table.WithWidth(80),
	)
	t.SetStyles(theme.DefaultTableStyles())

	m := Model{
		engine:   nav.NewEngine(data),
		warnings: warnings,
		table:    t,
		width:    80,
		height:   24,
	}
	m = m.reloadRows()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.engine.Select(nav.ExitID)
			return m, tea.Quit
		case "esc", "backspace":
			if m.engine.Back() {
				m = m.reloadRows()
			}
			return m, nil
		case "w":
			m.showWarnings = !m.showWarnings
			return m, nil
		case "enter":
			if m.engine.State() == nav.StateAccountDetail {
				return m, nil
			}
			cursor := m.table.Cursor()
			if cursor < 0 || cursor >= len(m.items) {
				return m, nil
			}
			if m.engine.Select(m.items[cursor].ID) {
				if m.engine.State() == nav.StateExit {
					return m, tea.Quit
				}
				m = m.reloadRows()
			} else {
				// Stale id: the engine has reset itself to the root.
				m = m.reloadRows()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resizeTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// reloadRows syncs the table with the engine's current items.
func (m Model) reloadRows() Model {
	view := m.engine.CurrentView()
	m.items = view.Items

	rows := make([]table.Row, len(m.items))
	for i, item := range m.items {
		kind := "Account"
		contains := ""
		if item.Kind == nav.ItemOU {
			kind = "OU"
			contains = utils.Pluralize(item.Accounts, "account")
		}
		rows[i] = table.Row{kind, item.Name, contains}
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
	return m
}

func (m Model) renderBreadcrumb() string {
	crumb := m.engine.Breadcrumb(m.width - 6)
	parts := strings.Split(crumb, " > ")
	for i, p := range parts {
		parts[i] = breadcrumbStyle.Render(p)
	}
	return strings.Join(parts, breadcrumbSepStyle.Render(" › "))
}

func (m Model) renderHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("Organization Explorer"),
		"   ",
		m.renderBreadcrumb(),
	)
}

// renderWarnings shows the first few load warnings, with a count for
// the rest.
func (m Model) renderWarnings() string {
	if len(m.warnings) == 0 {
		return ""
	}
	if !m.showWarnings {
		return warningStyle.Render(fmt.Sprintf("▲ %s (press w to show)",
			utils.Pluralize(len(m.warnings), "data warning"))) + "\n"
	}

	var b strings.Builder
	lineWidth := max(m.width-8, 20)
	shown := min(len(m.warnings), maxBannerWarnings)
	for _, w := range m.warnings[:shown] {
		b.WriteString(warningStyle.Render("▲ "+utils.Truncate(w.String(), lineWidth)) + "\n")
	}
	if rest := len(m.warnings) - shown; rest > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... and %d more", rest)) + "\n")
	}
	return b.String()
}

func (m Model) View() tea.View {
	var body string
	var help string

	if m.engine.State() == nav.StateAccountDetail {
		body = m.renderAccountDetail()
		help = "Esc back • q quit"
	} else {
		body = m.table.View()
		help = "Enter open • Esc back • w warnings • q quit"
	}

	var navErr string
	if err := m.engine.LastErr(); err != nil {
		navErr = errorStyle.Render(err.Error()) + "\n"
	}

	content := explorerStyle.Render(
		headerStyle.Render(m.renderHeader()) + "\n\n" +
			m.renderWarnings() +
			navErr +
			body + "\n" +
			helpStyle.Render(help),
	)

	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// renderAccountDetail builds the assignment view for the current
// account: permission sets with their group grants (members expanded)
// and direct user grants kept visually separate.
func (m Model) renderAccountDetail() string {
	view := m.engine.CurrentView()
	if view.Access == nil {
		return mutedStyle.Render("Account not found.")
	}
	access := *view.Access

	db := utils.NewDetailBuilder(16, sectionStyle)
	db.Row("Account", access.Account.Label())
	db.Row("Email", utils.ValueOrDash(access.Account.Email))
	if access.Account.Status != "" {
		db.Row("Status", theme.RenderStatus(access.Account.Status))
	}
	db.Blank()

	if !access.HasAccess() {
		db.WriteString(mutedStyle.Render("  No assignment data available.") + "\n")
		return db.String()
	}

	summary := access.Summary()
	db.WriteString("  " + summaryStyle.Render(fmt.Sprintf("%s • %s • %s",
		utils.Pluralize(summary.PermissionSets, "permission set"),
		utils.Pluralize(summary.Groups, "group"),
		utils.Pluralize(summary.Users, "user"),
	)) + "\n")
	db.Blank()

	for _, psa := range access.PermissionSets {
		db.Section(psa.PermissionSet.Name)
		db.Row("Id", utils.ShortName(psa.PermissionSet.ARN))

		if len(psa.Groups) > 0 {
			db.WriteString("  " + sectionStyle.Render("Group-Based Access") + "\n")
			for _, g := range psa.Groups {
				if !g.Resolved {
					db.Bullet(0, g.Name+" "+warningStyle.Render("(group not found in directory)"))
					continue
				}
				db.Bullet(0, g.Name+" "+mutedStyle.Render(fmt.Sprintf("(%s)", utils.Pluralize(len(g.Members), "member"))))
				for _, member := range g.Members {
					db.Bullet(1, member.Label())
				}
			}
		}

		if len(psa.DirectUsers) > 0 {
			db.WriteString("  " + directGrantStyle.Render("Direct User Access") + "\n")
			for _, u := range psa.DirectUsers {
				db.Bullet(0, directGrantStyle.Render(u.Name))
			}
		}
		db.Blank()
	}

	return db.String()
}

func (m Model) resizeTable() Model {
	contentWidth := m.width - 4 // explorerStyle Padding(1,2)
	typeColWidth := 10
	containsColWidth := 18
	borderWidth := 4
	nameColWidth := contentWidth - typeColWidth - containsColWidth - borderWidth
	if nameColWidth < 20 {
		nameColWidth = 20
	}

	m.table.SetColumns([]table.Column{
		{Title: "Type", Width: typeColWidth},
		{Title: "Name", Width: nameColWidth},
		{Title: "Contains", Width: containsColWidth},
	})
	m.table.SetWidth(contentWidth)

	tableHeight := m.height - 9 // header+warnings+help
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	return m
}
