// Package model holds the record types shared by the loader, the
// navigation engine, and the export/report generators. Everything here
// is plain data: it is built once by the loader and never mutated
// afterwards.
package model

import "fmt"

// PrincipalType identifies who an assignment grants access to.
type PrincipalType string

const (
	PrincipalGroup PrincipalType = "GROUP"
	PrincipalUser  PrincipalType = "USER"
)

// Valid reports whether the principal type is one of the known values.
func (p PrincipalType) Valid() bool {
	return p == PrincipalGroup || p == PrincipalUser
}

// User is an IAM Identity Center user.
type User struct {
	ID          string
	Username    string
	Email       string
	DisplayName string
}

// Label returns the display text for the user, preferring the display
// name with the email (or username) as disambiguation.
func (u User) Label() string {
	if u.DisplayName != "" {
		if u.Email != "" {
			return fmt.Sprintf("%s (%s)", u.DisplayName, u.Email)
		}
		return fmt.Sprintf("%s (%s)", u.DisplayName, u.Username)
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Username
}

// Group is an IAM Identity Center group with its resolved members.
type Group struct {
	ID          string
	Name        string
	Description string
	Members     []User
}

// PermissionSet is a named bundle of permissions; the ARN is the unique key.
type PermissionSet struct {
	ARN  string
	Name string
}

// Assignment grants one permission set to one principal on one account.
type Assignment struct {
	AccountID     string
	PermissionSet PermissionSet
	PrincipalType PrincipalType
	PrincipalID   string
	PrincipalName string
}

// IsGroup reports whether the assignment targets a group.
func (a Assignment) IsGroup() bool { return a.PrincipalType == PrincipalGroup }

// IsUser reports whether the assignment targets a user directly.
func (a Assignment) IsUser() bool { return a.PrincipalType == PrincipalUser }

// Account is an AWS account in the organization.
type Account struct {
	ID         string
	Name       string
	Email      string
	Status     string // ACTIVE, SUSPENDED, ..., empty in older snapshots
	ParentOUID string // empty when the account is attached at the root
}

// Label returns "Name (ID)" for display, or just the id when the name
// is unknown.
func (a *Account) Label() string {
	if a.Name == "" {
		return a.ID
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.ID)
}

// OrganizationalUnit is a node in the organization tree. Child OUs are
// owned by their parent; Accounts are references into the tree's
// AllAccounts index.
type OrganizationalUnit struct {
	ID       string
	Name     string
	ParentID string // the root id for top-level OUs
	ChildOUs []*OrganizationalUnit
	Accounts []*Account
}

// ChildCount returns the number of direct children (OUs plus accounts).
func (ou *OrganizationalUnit) ChildCount() int {
	return len(ou.ChildOUs) + len(ou.Accounts)
}

// AllAccounts returns every account in this OU and its descendants.
func (ou *OrganizationalUnit) AllAccounts() []*Account {
	out := make([]*Account, 0, len(ou.Accounts))
	out = append(out, ou.Accounts...)
	for _, child := range ou.ChildOUs {
		out = append(out, child.AllAccounts()...)
	}
	return out
}

// OrganizationTree is the complete organization structure. AllAccounts
// is the authoritative index of every account; the per-OU and root
// account slices hold pointers into it.
type OrganizationTree struct {
	RootID          string
	RootARN         string
	MasterAccountID string
	RootOUs         []*OrganizationalUnit
	RootAccounts    []*Account
	AllAccounts     map[string]*Account
}

// AccountByID looks up an account in the global index.
func (t *OrganizationTree) AccountByID(id string) (*Account, bool) {
	a, ok := t.AllAccounts[id]
	return a, ok
}

// OUCount returns the total number of OUs in the tree.
func (t *OrganizationTree) OUCount() int {
	count := 0
	t.WalkOUs(func(*OrganizationalUnit) { count++ })
	return count
}

// WalkOUs visits every OU in preorder.
func (t *OrganizationTree) WalkOUs(fn func(*OrganizationalUnit)) {
	var walk func(ous []*OrganizationalUnit)
	walk = func(ous []*OrganizationalUnit) {
		for _, ou := range ous {
			fn(ou)
			walk(ou.ChildOUs)
		}
	}
	walk(t.RootOUs)
}

// WalkAccounts visits root accounts first, then every OU's accounts in
// preorder, so iteration order follows the tree rather than map order.
func (t *OrganizationTree) WalkAccounts(fn func(*Account)) {
	for _, a := range t.RootAccounts {
		fn(a)
	}
	t.WalkOUs(func(ou *OrganizationalUnit) {
		for _, a := range ou.Accounts {
			fn(a)
		}
	})
}

// ExplorerData is the aggregate joined from the three snapshot files.
type ExplorerData struct {
	Organization         *OrganizationTree
	AssignmentsByAccount map[string][]Assignment
	GroupsByID           map[string]Group
}

// AssignmentsFor returns the assignments for an account. Accounts
// without an entry are treated as having no assignments.
func (d *ExplorerData) AssignmentsFor(accountID string) []Assignment {
	return d.AssignmentsByAccount[accountID]
}

// GroupByID looks up a group from the groups snapshot.
func (d *ExplorerData) GroupByID(id string) (Group, bool) {
	g, ok := d.GroupsByID[id]
	return g, ok
}

// ValidationWarning records a non-fatal data problem found while
// loading or cross-validating the snapshot files.
type ValidationWarning struct {
	Category string // e.g. "structure", "assignments", "groups", "cross-reference"
	Message  string
	Context  string // offending id or file, when known
}

func (w ValidationWarning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (%s)", w.Category, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Category, w.Message)
}
