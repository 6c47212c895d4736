package diagram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orgmap/orgmap/internal/model"
)

func testTree() *model.OrganizationTree {
	x := &model.Account{ID: "222222222222", Name: "prod-app", ParentOUID: "ou-b"}
	b := &model.OrganizationalUnit{ID: "ou-b", Name: "Production", ParentID: "ou-a", Accounts: []*model.Account{x}}
	a := &model.OrganizationalUnit{ID: "ou-a", Name: "Workloads", ParentID: "r-root", ChildOUs: []*model.OrganizationalUnit{b}}
	mgmt := &model.Account{ID: "111111111111", Name: "management"}
	return &model.OrganizationTree{
		RootID:       "r-root",
		RootOUs:      []*model.OrganizationalUnit{a},
		RootAccounts: []*model.Account{mgmt},
		AllAccounts:  map[string]*model.Account{x.ID: x, mgmt.ID: mgmt},
	}
}

func TestOrganizationDOT(t *testing.T) {
	dot := OrganizationDOT(testTree())

	assert.True(t, strings.HasPrefix(dot, "digraph organization {"))
	assert.Contains(t, dot, `"Workloads"`)
	assert.Contains(t, dot, `"Production"`)
	assert.Contains(t, dot, "ou_ou_a -> ou_ou_b;")
	assert.Contains(t, dot, "ou_ou_b -> acct_222222222222;")
	assert.Contains(t, dot, "root_r_root -> acct_111111111111;")
	assert.True(t, strings.HasSuffix(dot, "}\n"))
}

func TestIdentityDOT(t *testing.T) {
	data := &model.ExplorerData{
		Organization: testTree(),
		AssignmentsByAccount: map[string][]model.Assignment{
			"222222222222": {
				{
					AccountID:     "222222222222",
					PermissionSet: model.PermissionSet{ARN: "arn:ps-1", Name: "AdministratorAccess"},
					PrincipalType: model.PrincipalGroup,
					PrincipalID:   "g-1",
					PrincipalName: "admins",
				},
				{
					AccountID:     "222222222222",
					PermissionSet: model.PermissionSet{ARN: "arn:ps-2", Name: "ViewOnlyAccess"},
					PrincipalType: model.PrincipalUser,
					PrincipalID:   "u-1",
					PrincipalName: "alice",
				},
			},
			"111111111111": nil,
		},
		GroupsByID: map[string]model.Group{},
	}

	dot := IdentityDOT(data)

	assert.Contains(t, dot, `"admins"`)
	assert.Contains(t, dot, `"alice"`)
	assert.Contains(t, dot, `[label="AdministratorAccess"]`)
	assert.Contains(t, dot, "grp_g_1 -> acct_222222222222")
	assert.Contains(t, dot, "usr_u_1 -> acct_222222222222")
	// Users and groups get visually distinct shapes.
	assert.Contains(t, dot, `grp_g_1 [label="admins", shape=ellipse]`)
	assert.Contains(t, dot, `usr_u_1 [label="alice", shape=diamond]`)
	// Accounts without assignments stay out of the access diagram.
	assert.NotContains(t, dot, "acct_111111111111")
}

func TestWrapLabel(t *testing.T) {
	assert.Equal(t, "short", wrapLabel("short"))
	wrapped := wrapLabel("Shared Services Infrastructure Team")
	assert.Contains(t, wrapped, `\n`)
	for _, line := range strings.Split(wrapped, `\n`) {
		assert.LessOrEqual(t, len(line), 20)
	}
}
