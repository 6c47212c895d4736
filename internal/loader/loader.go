// Package loader reads a snapshot directory into a validated
// model.ExplorerData. The organization file is required; the
// assignments and groups files degrade to warnings when missing or
// partially unparseable.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/orgmap/orgmap/internal/model"
	"github.com/orgmap/orgmap/internal/snapshot"
)

// FatalError reports a problem with the organization snapshot that
// leaves nothing meaningful to explore.
type FatalError struct {
	Path string
	Err  error
	Hint string
}

func (e *FatalError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %v (%s)", e.Path, e.Err, e.Hint)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

const collectHint = "run `orgmap collect` to generate snapshot data first"

// Loader reads the three snapshot files from one directory and
// accumulates validation warnings across them.
type Loader struct {
	dir      string
	warnings []model.ValidationWarning
}

// New returns a loader for the given snapshot directory. The directory
// itself must exist.
func New(dir string) (*Loader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot directory %s: %w (%s)", dir, err, collectHint)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot path %s is not a directory", dir)
	}
	return &Loader{dir: dir}, nil
}

// Warnings returns every warning accumulated so far.
func (l *Loader) Warnings() []model.ValidationWarning {
	return l.warnings
}

func (l *Loader) warnf(category, context, format string, args ...any) {
	l.warnings = append(l.warnings, model.ValidationWarning{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
		Context:  context,
	})
}

// LoadAll loads the organization tree, the assignments, and the groups,
// then cross-validates references. It returns partial data plus
// warnings for everything recoverable; only a missing or unparseable
// organization file is fatal.
func (l *Loader) LoadAll() (*model.ExplorerData, []model.ValidationWarning, error) {
	org, err := l.LoadOrganization()
	if err != nil {
		return nil, l.warnings, err
	}

	assignments := l.LoadAssignments()
	groups := l.LoadGroups()

	// Every known account gets an entry, even when it has no grants.
	for id := range org.AllAccounts {
		if _, ok := assignments[id]; !ok {
			assignments[id] = nil
		}
	}

	data := &model.ExplorerData{
		Organization:         org,
		AssignmentsByAccount: assignments,
		GroupsByID:           groups,
	}
	l.warnings = append(l.warnings, ValidateIntegrity(data)...)
	return data, l.warnings, nil
}

// LoadOrganization reads and rebuilds the organization tree. Any
// problem here is fatal: the tree is the structural backbone of
// everything else.
func (l *Loader) LoadOrganization() (*model.OrganizationTree, error) {
	path := filepath.Join(l.dir, snapshot.OrganizationsFile)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &FatalError{Path: path, Err: errors.New("file not found"), Hint: collectHint}
		}
		return nil, &FatalError{Path: path, Err: err}
	}

	var doc snapshot.OrganizationDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &FatalError{Path: path, Err: err, Hint: collectHint}
	}
	if doc.RootID == "" {
		return nil, &FatalError{Path: path, Err: errors.New("missing rootId")}
	}
	for _, rec := range doc.OrganizationalUnits {
		if rec.ID == "" || rec.Name == "" {
			return nil, &FatalError{Path: path, Err: fmt.Errorf("organizational unit record missing Id or Name: %+v", rec)}
		}
	}
	for _, rec := range doc.Accounts {
		if rec.ID == "" {
			return nil, &FatalError{Path: path, Err: fmt.Errorf("account record missing Id: %+v", rec)}
		}
	}

	return l.buildTree(&doc), nil
}

// buildTree rebuilds the OU hierarchy from the flat records using a
// parent-id index, so construction is near-linear and handles any
// nesting depth. Records unreachable from the root (orphaned parents,
// cycles) become warnings rather than tree nodes; their accounts are
// re-attached at the root so no account is lost.
func (l *Loader) buildTree(doc *snapshot.OrganizationDoc) *model.OrganizationTree {
	ousByParent := make(map[string][]snapshot.OURecord)
	for _, rec := range doc.OrganizationalUnits {
		ousByParent[rec.ParentID] = append(ousByParent[rec.ParentID], rec)
	}
	accountsByParent := make(map[string][]snapshot.AccountRecord)
	for _, rec := range doc.Accounts {
		accountsByParent[rec.ParentID] = append(accountsByParent[rec.ParentID], rec)
	}

	tree := &model.OrganizationTree{
		RootID:          doc.RootID,
		RootARN:         doc.RootARN,
		MasterAccountID: doc.MasterAccountID,
		AllAccounts:     make(map[string]*model.Account),
	}

	reachedOUs := make(map[string]bool)
	placedAccounts := make(map[string]bool)

	addAccount := func(rec snapshot.AccountRecord, parentOUID string) *model.Account {
		if placedAccounts[rec.ID] {
			l.warnf("structure", rec.ID, "duplicate account id %q ignored", rec.ID)
			return nil
		}
		placedAccounts[rec.ID] = true
		acct := &model.Account{
			ID:         rec.ID,
			Name:       rec.Name,
			Email:      rec.Email,
			Status:     rec.Status,
			ParentOUID: parentOUID,
		}
		tree.AllAccounts[acct.ID] = acct
		return acct
	}

	var build func(parentID string, onPath map[string]bool) []*model.OrganizationalUnit
	build = func(parentID string, onPath map[string]bool) []*model.OrganizationalUnit {
		var out []*model.OrganizationalUnit
		for _, rec := range ousByParent[parentID] {
			if onPath[rec.ID] || reachedOUs[rec.ID] {
				l.warnf("structure", rec.ID, "cyclic or duplicate OU reference for %q dropped", rec.ID)
				continue
			}
			onPath[rec.ID] = true
			reachedOUs[rec.ID] = true
			node := &model.OrganizationalUnit{
				ID:       rec.ID,
				Name:     rec.Name,
				ParentID: parentID,
			}
			for _, ar := range accountsByParent[rec.ID] {
				if acct := addAccount(ar, rec.ID); acct != nil {
					node.Accounts = append(node.Accounts, acct)
				}
			}
			node.ChildOUs = build(rec.ID, onPath)
			delete(onPath, rec.ID)
			out = append(out, node)
		}
		return out
	}

	tree.RootOUs = build(doc.RootID, make(map[string]bool))

	// Accounts attached directly at the root: parent is the root id or
	// unset.
	for _, parent := range []string{doc.RootID, ""} {
		for _, ar := range accountsByParent[parent] {
			if acct := addAccount(ar, ""); acct != nil {
				tree.RootAccounts = append(tree.RootAccounts, acct)
			}
		}
	}

	// Anything left over references a parent that never made it into
	// the tree. OUs are dropped with a warning; accounts are kept at
	// the root so they stay reachable.
	for _, rec := range doc.OrganizationalUnits {
		if !reachedOUs[rec.ID] {
			l.warnf("structure", rec.ID,
				"organizational unit %q (%s) references unknown parent %q; subtree dropped",
				rec.Name, rec.ID, rec.ParentID)
		}
	}
	for _, rec := range doc.Accounts {
		if !placedAccounts[rec.ID] {
			l.warnf("structure", rec.ID,
				"account %q references unknown parent %q; attached at root", rec.ID, rec.ParentID)
			if acct := addAccount(rec, ""); acct != nil {
				tree.RootAccounts = append(tree.RootAccounts, acct)
			}
		}
	}

	return tree
}

// LoadAssignments reads the per-account assignment map. A missing or
// unreadable file degrades to an empty map with a warning; a bad record
// is skipped with a warning, never aborting the rest of the file.
func (l *Loader) LoadAssignments() map[string][]model.Assignment {
	out := make(map[string][]model.Assignment)
	path := filepath.Join(l.dir, snapshot.AssignmentsFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.warnf("assignments", path, "no assignment data: %s not found", snapshot.AssignmentsFile)
		} else {
			l.warnf("assignments", path, "could not read %s: %v", snapshot.AssignmentsFile, err)
		}
		return out
	}

	var byAccount map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byAccount); err != nil {
		l.warnf("assignments", path, "could not parse %s: %v", snapshot.AssignmentsFile, err)
		return out
	}

	for accountID, rawList := range byAccount {
		var list []json.RawMessage
		if err := json.Unmarshal(rawList, &list); err != nil {
			l.warnf("assignments", accountID, "assignments for account %q are not a list: %v", accountID, err)
			continue
		}
		for _, rawRec := range list {
			var rec assignmentRecord
			if err := json.Unmarshal(rawRec, &rec); err != nil {
				l.warnf("assignments", accountID, "skipping unparseable assignment for account %q: %v", accountID, err)
				continue
			}
			a, ok := rec.toAssignment(accountID)
			if !ok {
				l.warnf("assignments", accountID, "skipping assignment for account %q: missing required fields", accountID)
				continue
			}
			out[a.AccountID] = append(out[a.AccountID], a)
		}
	}
	return out
}

// assignmentRecord tolerates both the current field names and the
// legacy GroupName/UserName principal naming.
type assignmentRecord struct {
	AccountID         string `json:"AccountId"`
	PermissionSetARN  string `json:"PermissionSetArn"`
	PermissionSetName string `json:"PermissionSetName"`
	PrincipalType     string `json:"PrincipalType"`
	PrincipalID       string `json:"PrincipalId"`
	PrincipalName     string `json:"PrincipalName"`
	GroupName         string `json:"GroupName"`
	UserName          string `json:"UserName"`
}

func (r assignmentRecord) toAssignment(fallbackAccountID string) (model.Assignment, bool) {
	accountID := r.AccountID
	if accountID == "" {
		accountID = fallbackAccountID
	}
	name := r.PrincipalName
	if name == "" {
		name = r.GroupName
	}
	if name == "" {
		name = r.UserName
	}
	a := model.Assignment{
		AccountID: accountID,
		PermissionSet: model.PermissionSet{
			ARN:  r.PermissionSetARN,
			Name: r.PermissionSetName,
		},
		PrincipalType: model.PrincipalType(r.PrincipalType),
		PrincipalID:   r.PrincipalID,
		PrincipalName: name,
	}
	if a.AccountID == "" || a.PrincipalID == "" || !a.PrincipalType.Valid() || a.PermissionSet.ARN == "" {
		return model.Assignment{}, false
	}
	return a, true
}

// LoadGroups reads the group membership map with the same degradation
// policy as LoadAssignments.
func (l *Loader) LoadGroups() map[string]model.Group {
	out := make(map[string]model.Group)
	path := filepath.Join(l.dir, snapshot.GroupsFile)

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.warnf("groups", path, "no group data: %s not found", snapshot.GroupsFile)
		} else {
			l.warnf("groups", path, "could not read %s: %v", snapshot.GroupsFile, err)
		}
		return out
	}

	var byID map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byID); err != nil {
		l.warnf("groups", path, "could not parse %s: %v", snapshot.GroupsFile, err)
		return out
	}

	for groupID, rawRec := range byID {
		var rec groupRecord
		if err := json.Unmarshal(rawRec, &rec); err != nil {
			l.warnf("groups", groupID, "skipping unparseable group %q: %v", groupID, err)
			continue
		}
		g, ok := rec.toGroup(groupID)
		if !ok {
			l.warnf("groups", groupID, "skipping group %q: missing id or name", groupID)
			continue
		}
		out[g.ID] = g
	}
	return out
}

type groupRecord struct {
	GroupID     string         `json:"GroupId"`
	DisplayName string         `json:"DisplayName"`
	Description string         `json:"Description"`
	Members     []memberRecord `json:"Members"`
}

// memberRecord tolerates both the flat member shape and the nested
// MemberId shape the identity store returns for memberships.
type memberRecord struct {
	UserID      string `json:"UserId"`
	UserName    string `json:"UserName"`
	DisplayName string `json:"DisplayName"`
	Email       string `json:"Email"`
	MemberID    *struct {
		UserID   string `json:"UserId"`
		UserName string `json:"UserName"`
	} `json:"MemberId"`
}

func (r groupRecord) toGroup(fallbackID string) (model.Group, bool) {
	id := r.GroupID
	if id == "" {
		id = fallbackID
	}
	if id == "" || r.DisplayName == "" {
		return model.Group{}, false
	}
	g := model.Group{
		ID:          id,
		Name:        r.DisplayName,
		Description: r.Description,
	}
	for _, m := range r.Members {
		userID, userName := m.UserID, m.UserName
		if m.MemberID != nil {
			if userID == "" {
				userID = m.MemberID.UserID
			}
			if userName == "" {
				userName = m.MemberID.UserName
			}
		}
		if userID == "" || userName == "" {
			continue
		}
		g.Members = append(g.Members, model.User{
			ID:          userID,
			Username:    userName,
			DisplayName: m.DisplayName,
			Email:       m.Email,
		})
	}
	return g, true
}

// ValidateIntegrity cross-validates references between the three data
// sources. It never mutates the data; it only reports.
func ValidateIntegrity(data *model.ExplorerData) []model.ValidationWarning {
	var warnings []model.ValidationWarning
	warn := func(category, context, format string, args ...any) {
		warnings = append(warnings, model.ValidationWarning{
			Category: category,
			Message:  fmt.Sprintf(format, args...),
			Context:  context,
		})
	}

	for accountID, assignments := range data.AssignmentsByAccount {
		if _, ok := data.Organization.AccountByID(accountID); !ok {
			warn("cross-reference", accountID,
				"account %q has assignments but is not in the organization structure", accountID)
		}
		for _, a := range assignments {
			if a.IsGroup() {
				if _, ok := data.GroupByID(a.PrincipalID); !ok {
					warn("cross-reference", a.PrincipalID,
						"group %q (%s) assigned to account %q not found in group data",
						a.PrincipalName, a.PrincipalID, accountID)
				}
			}
		}
	}
	return warnings
}
