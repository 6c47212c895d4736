// Package report renders a snapshot as a standalone HTML document for
// sharing outside the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/orgmap/orgmap/internal/model"
)

const pageCSS = `
body { font-family: Helvetica, Arial, sans-serif; margin: 2rem; color: #1a1a2e; }
h1 { border-bottom: 2px solid #0f3460; padding-bottom: .3rem; }
h2 { color: #0f3460; margin-top: 2rem; }
ul.tree { list-style: none; }
ul.tree li.ou::before { content: "\1F4C1  "; }
ul.tree li.account::before { content: "\1F4B3  "; }
table { border-collapse: collapse; margin-top: .5rem; }
th, td { border: 1px solid #ccc; padding: .3rem .8rem; text-align: left; }
th { background: #f0f0f5; }
.warning { color: #9a3412; }
.direct { font-weight: bold; }
.status { color: #666; font-size: .85em; }
`

// Page builds the full report document.
func Page(data *model.ExplorerData, warnings []model.ValidationWarning) Node {
	return Doctype(
		HTML(Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				TitleEl(Text("Organization Access Report")),
				StyleEl(Raw(pageCSS)),
			),
			Body(
				H1(Text("Organization Access Report")),
				summarySection(data),
				warningsSection(warnings),
				treeSection(data.Organization),
				accessSection(data),
			),
		),
	)
}

func summarySection(data *model.ExplorerData) Node {
	return P(Text(fmt.Sprintf(
		"%d organizational units, %d accounts, %d groups.",
		data.Organization.OUCount(),
		len(data.Organization.AllAccounts),
		len(data.GroupsByID),
	)))
}

func warningsSection(warnings []model.ValidationWarning) Node {
	if len(warnings) == 0 {
		return nil
	}
	items := make([]Node, 0, len(warnings))
	for _, w := range warnings {
		items = append(items, Li(Class("warning"), Text(w.String())))
	}
	return Group([]Node{
		H2(Text(fmt.Sprintf("Data Warnings (%d)", len(warnings)))),
		Ul(Group(items)),
	})
}

func accountItem(acct *model.Account) Node {
	return Li(Class("account"),
		Text(acct.Label()),
		If(acct.Status != "", Span(Class("status"), Text(" "+acct.Status))),
	)
}

func treeSection(tree *model.OrganizationTree) Node {
	var ouNode func(ou *model.OrganizationalUnit) Node
	ouNode = func(ou *model.OrganizationalUnit) Node {
		children := make([]Node, 0, len(ou.ChildOUs)+len(ou.Accounts))
		for _, child := range ou.ChildOUs {
			children = append(children, ouNode(child))
		}
		for _, acct := range ou.Accounts {
			children = append(children, accountItem(acct))
		}
		return Li(Class("ou"),
			Text(ou.Name),
			If(len(children) > 0, Ul(Class("tree"), Group(children))),
		)
	}

	items := make([]Node, 0, len(tree.RootOUs)+len(tree.RootAccounts))
	for _, ou := range tree.RootOUs {
		items = append(items, ouNode(ou))
	}
	for _, acct := range tree.RootAccounts {
		items = append(items, accountItem(acct))
	}

	return Group([]Node{
		H2(Text("Organization Structure")),
		Ul(Class("tree"), Group(items)),
	})
}

func accessSection(data *model.ExplorerData) Node {
	sections := []Node{H2(Text("Account Access"))}

	found := false
	data.Organization.WalkAccounts(func(acct *model.Account) {
		access := data.AccessFor(acct)
		if !access.HasAccess() {
			return
		}
		found = true
		sections = append(sections, accountTable(access))
	})
	if !found {
		sections = append(sections, P(Text("No assignment data available.")))
	}
	return Group(sections)
}

func accountTable(access model.AccountAccess) Node {
	rows := []Node{
		Tr(Th(Text("Permission Set")), Th(Text("Principal")), Th(Text("Members"))),
	}
	for _, ps := range access.PermissionSets {
		for _, g := range ps.Groups {
			members := ""
			for i, m := range g.Members {
				if i > 0 {
					members += ", "
				}
				members += m.Label()
			}
			if !g.Resolved {
				members = "(group not found in directory)"
			}
			rows = append(rows, Tr(
				Td(Text(ps.PermissionSet.Name)),
				Td(Text("group: "+g.Name)),
				Td(Text(members)),
			))
		}
		for _, u := range ps.DirectUsers {
			rows = append(rows, Tr(
				Td(Text(ps.PermissionSet.Name)),
				Td(Class("direct"), Text("user: "+u.Name)),
				Td(Text("direct assignment")),
			))
		}
	}

	summary := access.Summary()
	return Group([]Node{
		H3(Text(access.Account.Label())),
		P(Text(fmt.Sprintf("%d permission sets, %d groups, %d users.",
			summary.PermissionSets, summary.Groups, summary.Users))),
		Table(Group(rows)),
	})
}

// Render writes the report document to w.
func Render(w io.Writer, data *model.ExplorerData, warnings []model.ValidationWarning) error {
	return Page(data, warnings).Render(w)
}

// WriteFile renders the report to the given path, creating parent
// directories as needed.
func WriteFile(path string, data *model.ExplorerData, warnings []model.ValidationWarning) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := Render(f, data, warnings); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return f.Close()
}
