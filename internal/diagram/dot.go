// Package diagram renders snapshot data as Graphviz DOT documents:
// one for the organization tree and one for group-to-account access.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/orgmap/orgmap/internal/model"
)

// OrganizationDOT renders the OU/account tree. OUs become folder
// nodes, accounts become leaf nodes.
func OrganizationDOT(tree *model.OrganizationTree) string {
	var b strings.Builder
	b.WriteString("digraph organization {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n\n")

	rootNode := nodeID("root", tree.RootID)
	fmt.Fprintf(&b, "  %s [label=%s, shape=folder];\n", rootNode, quoteLabel("Organization Root"))

	var walk func(ou *model.OrganizationalUnit, parent string)
	walk = func(ou *model.OrganizationalUnit, parent string) {
		id := nodeID("ou", ou.ID)
		fmt.Fprintf(&b, "  %s [label=%s, shape=folder];\n", id, quoteLabel(wrapLabel(ou.Name)))
		fmt.Fprintf(&b, "  %s -> %s;\n", parent, id)
		for _, acct := range ou.Accounts {
			accountNode(&b, acct, id)
		}
		for _, child := range ou.ChildOUs {
			walk(child, id)
		}
	}

	for _, ou := range tree.RootOUs {
		walk(ou, rootNode)
	}
	for _, acct := range tree.RootAccounts {
		accountNode(&b, acct, rootNode)
	}

	b.WriteString("}\n")
	return b.String()
}

func accountNode(b *strings.Builder, acct *model.Account, parent string) {
	id := nodeID("acct", acct.ID)
	fmt.Fprintf(b, "  %s [label=%s];\n", id, quoteLabel(wrapLabel(acct.Label())))
	fmt.Fprintf(b, "  %s -> %s;\n", parent, id)
}

// IdentityDOT renders group/user to account edges, labeled with the
// permission set. Accounts with no assignments are omitted.
func IdentityDOT(data *model.ExplorerData) string {
	var b strings.Builder
	b.WriteString("digraph identity {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [fontname=\"Helvetica\"];\n\n")

	accountIDs := make([]string, 0, len(data.AssignmentsByAccount))
	for id := range data.AssignmentsByAccount {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	declaredPrincipals := map[string]bool{}
	declaredAccounts := map[string]bool{}

	for _, accountID := range accountIDs {
		assignments := data.AssignmentsByAccount[accountID]
		if len(assignments) == 0 {
			continue
		}

		acctNode := nodeID("acct", accountID)
		if !declaredAccounts[accountID] {
			declaredAccounts[accountID] = true
			label := accountID
			if acct, ok := data.Organization.AccountByID(accountID); ok {
				label = acct.Label()
			}
			fmt.Fprintf(&b, "  %s [label=%s, shape=box];\n", acctNode, quoteLabel(wrapLabel(label)))
		}

		for _, a := range assignments {
			principal := nodeID("grp", a.PrincipalID)
			shape := "ellipse"
			if a.IsUser() {
				principal = nodeID("usr", a.PrincipalID)
				shape = "diamond"
			}
			if !declaredPrincipals[principal] {
				declaredPrincipals[principal] = true
				name := a.PrincipalName
				if name == "" {
					name = a.PrincipalID
				}
				fmt.Fprintf(&b, "  %s [label=%s, shape=%s];\n", principal, quoteLabel(wrapLabel(name)), shape)
			}
			fmt.Fprintf(&b, "  %s -> %s [label=%s];\n", principal, acctNode, quoteLabel(a.PermissionSet.Name))
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// quoteLabel quotes a label for DOT, preserving the \n line breaks
// wrapLabel inserts.
func quoteLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// nodeID builds a DOT-safe node identifier from an AWS id.
func nodeID(prefix, raw string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	sb.WriteByte('_')
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// wrapLabel breaks long names across lines so nodes stay readable.
func wrapLabel(s string) string {
	const width = 17
	if len(s) <= width {
		return s
	}

	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\\n")
}
