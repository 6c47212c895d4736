package model

import "sort"

// AccountAccess is an account's assignments organized for display:
// permission set → groups holding it (with members) plus direct user
// grants. Summary counts are derived from this structure so they can
// never drift from what is shown.
type AccountAccess struct {
	Account        *Account
	PermissionSets []PermissionSetAccess
}

// PermissionSetAccess groups everything granted through one permission set.
type PermissionSetAccess struct {
	PermissionSet PermissionSet
	Groups        []GroupAccess
	DirectUsers   []DirectUserAccess
}

// GroupAccess is a group-mediated grant. Resolved is false when the
// group id did not resolve in the groups snapshot; the grant is still
// shown, by name only.
type GroupAccess struct {
	ID       string
	Name     string
	Resolved bool
	Members  []User
}

// DirectUserAccess is a grant made directly to a user principal.
type DirectUserAccess struct {
	ID   string
	Name string
}

// AccessSummary holds the distinct counts for an account detail view.
type AccessSummary struct {
	PermissionSets int
	Groups         int
	Users          int
}

// AccessFor builds the organized access view for an account. Permission
// sets are ordered by name; within one, groups come before direct users,
// each in assignment order.
func (d *ExplorerData) AccessFor(account *Account) AccountAccess {
	byARN := make(map[string]*PermissionSetAccess)
	var order []string

	for _, a := range d.AssignmentsFor(account.ID) {
		psa, ok := byARN[a.PermissionSet.ARN]
		if !ok {
			psa = &PermissionSetAccess{PermissionSet: a.PermissionSet}
			byARN[a.PermissionSet.ARN] = psa
			order = append(order, a.PermissionSet.ARN)
		}
		switch {
		case a.IsGroup():
			ga := GroupAccess{ID: a.PrincipalID, Name: a.PrincipalName}
			if g, found := d.GroupByID(a.PrincipalID); found {
				ga.Resolved = true
				ga.Name = g.Name
				ga.Members = g.Members
			}
			psa.Groups = append(psa.Groups, ga)
		case a.IsUser():
			psa.DirectUsers = append(psa.DirectUsers, DirectUserAccess{
				ID:   a.PrincipalID,
				Name: a.PrincipalName,
			})
		}
	}

	access := AccountAccess{Account: account}
	for _, arn := range order {
		access.PermissionSets = append(access.PermissionSets, *byARN[arn])
	}
	sort.Slice(access.PermissionSets, func(i, j int) bool {
		a, b := access.PermissionSets[i].PermissionSet, access.PermissionSets[j].PermissionSet
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ARN < b.ARN
	})
	return access
}

// Summary counts distinct permission sets, groups, and users reachable
// in this view. A user who has both a direct grant and membership in a
// granted group counts once.
func (a AccountAccess) Summary() AccessSummary {
	groups := make(map[string]struct{})
	users := make(map[string]struct{})
	for _, psa := range a.PermissionSets {
		for _, ga := range psa.Groups {
			groups[ga.ID] = struct{}{}
			for _, m := range ga.Members {
				users[m.ID] = struct{}{}
			}
		}
		for _, du := range psa.DirectUsers {
			users[du.ID] = struct{}{}
		}
	}
	return AccessSummary{
		PermissionSets: len(a.PermissionSets),
		Groups:         len(groups),
		Users:          len(users),
	}
}

// HasAccess reports whether the view contains any grants at all.
func (a AccountAccess) HasAccess() bool {
	return len(a.PermissionSets) > 0
}
