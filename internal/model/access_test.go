package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acct0 = "111111111111"

func accessFixture(assignments []Assignment, groups map[string]Group) (*ExplorerData, *Account) {
	acct := &Account{ID: "111111111111", Name: "prod"}
	return &ExplorerData{
		Organization: &OrganizationTree{
			AllAccounts:  map[string]*Account{acct.ID: acct},
			RootAccounts: []*Account{acct},
		},
		AssignmentsByAccount: map[string][]Assignment{acct.ID: assignments},
		GroupsByID:           groups,
	}, acct
}

func TestAccessForGroupsByPermissionSet(t *testing.T) {
	ps := PermissionSet{ARN: "arn:ps-1", Name: "AdministratorAccess"}
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: ps, PrincipalType: PrincipalGroup, PrincipalID: "g-1", PrincipalName: "admins"},
			{AccountID: acct0, PermissionSet: ps, PrincipalType: PrincipalUser, PrincipalID: "u-9", PrincipalName: "carol"},
		},
		map[string]Group{
			"g-1": {ID: "g-1", Name: "admins", Members: []User{{ID: "u-1", Username: "alice"}}},
		},
	)

	access := d.AccessFor(acct)
	require.Len(t, access.PermissionSets, 1)
	psa := access.PermissionSets[0]
	require.Len(t, psa.Groups, 1)
	assert.True(t, psa.Groups[0].Resolved)
	assert.Equal(t, "admins", psa.Groups[0].Name)
	require.Len(t, psa.DirectUsers, 1)
	assert.Equal(t, "carol", psa.DirectUsers[0].Name)
}

func TestAccessForUnresolvedGroupDegrades(t *testing.T) {
	ps := PermissionSet{ARN: "arn:ps-1", Name: "ViewOnlyAccess"}
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: ps, PrincipalType: PrincipalGroup, PrincipalID: "g-ghost", PrincipalName: "ghosts"},
		},
		map[string]Group{},
	)

	access := d.AccessFor(acct)
	require.Len(t, access.PermissionSets, 1)
	g := access.PermissionSets[0].Groups[0]
	assert.False(t, g.Resolved)
	assert.Equal(t, "ghosts", g.Name)
	assert.Empty(t, g.Members)
}

// One direct USER assignment plus one GROUP assignment whose group has
// two members: the direct grant stays distinct from the group-derived
// ones, and the summary counts distinct principals across both paths.
func TestSummaryCountsDistinctPrincipals(t *testing.T) {
	ps1 := PermissionSet{ARN: "arn:ps-1", Name: "AdministratorAccess"}
	ps2 := PermissionSet{ARN: "arn:ps-2", Name: "ViewOnlyAccess"}
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: ps1, PrincipalType: PrincipalGroup, PrincipalID: "g-1", PrincipalName: "admins"},
			{AccountID: acct0, PermissionSet: ps2, PrincipalType: PrincipalUser, PrincipalID: "u-3", PrincipalName: "carol"},
		},
		map[string]Group{
			"g-1": {ID: "g-1", Name: "admins", Members: []User{
				{ID: "u-1", Username: "alice"},
				{ID: "u-2", Username: "bob"},
			}},
		},
	)

	s := d.AccessFor(acct).Summary()
	assert.Equal(t, 2, s.PermissionSets)
	assert.Equal(t, 1, s.Groups)
	assert.Equal(t, 3, s.Users)
}

// The same user reached both directly and through a group counts once.
func TestSummaryDeduplicatesSharedPrincipal(t *testing.T) {
	ps := PermissionSet{ARN: "arn:ps-1", Name: "AdministratorAccess"}
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: ps, PrincipalType: PrincipalGroup, PrincipalID: "g-1", PrincipalName: "admins"},
			{AccountID: acct0, PermissionSet: ps, PrincipalType: PrincipalUser, PrincipalID: "u-1", PrincipalName: "alice"},
		},
		map[string]Group{
			"g-1": {ID: "g-1", Name: "admins", Members: []User{
				{ID: "u-1", Username: "alice"},
				{ID: "u-2", Username: "bob"},
			}},
		},
	)

	s := d.AccessFor(acct).Summary()
	assert.Equal(t, 1, s.PermissionSets)
	assert.Equal(t, 1, s.Groups)
	assert.Equal(t, 2, s.Users)
}

func TestHasAccess(t *testing.T) {
	d, acct := accessFixture(nil, nil)
	assert.False(t, d.AccessFor(acct).HasAccess())
}

func TestAccessForOrdersPermissionSetsByName(t *testing.T) {
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: PermissionSet{ARN: "arn:ps-z", Name: "ViewOnlyAccess"}, PrincipalType: PrincipalUser, PrincipalID: "u-1", PrincipalName: "alice"},
			{AccountID: acct0, PermissionSet: PermissionSet{ARN: "arn:ps-a", Name: "AdministratorAccess"}, PrincipalType: PrincipalUser, PrincipalID: "u-2", PrincipalName: "bob"},
		},
		nil,
	)

	access := d.AccessFor(acct)
	require.Len(t, access.PermissionSets, 2)
	assert.Equal(t, "AdministratorAccess", access.PermissionSets[0].PermissionSet.Name)
	assert.Equal(t, "ViewOnlyAccess", access.PermissionSets[1].PermissionSet.Name)
}

// Permission sets sharing a display name keep a fixed order across
// renders, falling back to the ARN.
func TestAccessForBreaksNameTiesByARN(t *testing.T) {
	d, acct := accessFixture(
		[]Assignment{
			{AccountID: acct0, PermissionSet: PermissionSet{ARN: "arn:ps-b", Name: "AdministratorAccess"}, PrincipalType: PrincipalUser, PrincipalID: "u-1", PrincipalName: "alice"},
			{AccountID: acct0, PermissionSet: PermissionSet{ARN: "arn:ps-a", Name: "AdministratorAccess"}, PrincipalType: PrincipalUser, PrincipalID: "u-2", PrincipalName: "bob"},
		},
		nil,
	)

	access := d.AccessFor(acct)
	require.Len(t, access.PermissionSets, 2)
	assert.Equal(t, "arn:ps-a", access.PermissionSets[0].PermissionSet.ARN)
	assert.Equal(t, "arn:ps-b", access.PermissionSets[1].PermissionSet.ARN)
}
