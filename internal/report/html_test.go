package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgmap/orgmap/internal/model"
)

func testData() *model.ExplorerData {
	x := &model.Account{ID: "222222222222", Name: "prod-app", Status: "SUSPENDED", ParentOUID: "ou-a"}
	a := &model.OrganizationalUnit{ID: "ou-a", Name: "Workloads", ParentID: "r-root", Accounts: []*model.Account{x}}
	return &model.ExplorerData{
		Organization: &model.OrganizationTree{
			RootID:      "r-root",
			RootOUs:     []*model.OrganizationalUnit{a},
			AllAccounts: map[string]*model.Account{x.ID: x},
		},
		AssignmentsByAccount: map[string][]model.Assignment{
			x.ID: {
				{
					AccountID:     x.ID,
					PermissionSet: model.PermissionSet{ARN: "arn:ps-1", Name: "AdministratorAccess"},
					PrincipalType: model.PrincipalGroup,
					PrincipalID:   "g-1",
					PrincipalName: "admins",
				},
			},
		},
		GroupsByID: map[string]model.Group{
			"g-1": {ID: "g-1", Name: "admins", Members: []model.User{
				{ID: "u-1", Username: "alice", Email: "alice@example.com"},
			}},
		},
	}
}

func TestRender(t *testing.T) {
	var b strings.Builder
	err := Render(&b, testData(), nil)
	require.NoError(t, err)

	html := b.String()
	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "Organization Access Report")
	assert.Contains(t, html, "Workloads")
	assert.Contains(t, html, "prod-app (222222222222)")
	assert.Contains(t, html, `<span class="status"> SUSPENDED</span>`)
	assert.Contains(t, html, "AdministratorAccess")
	assert.Contains(t, html, "group: admins")
	assert.Contains(t, html, "alice@example.com")
	assert.Contains(t, html, "1 permission sets, 1 groups, 1 users.")
}

func TestRenderWithWarnings(t *testing.T) {
	var b strings.Builder
	warnings := []model.ValidationWarning{
		{Category: "assignments", Message: "no assignment data", Context: "account_assignments.json"},
	}
	err := Render(&b, testData(), warnings)
	require.NoError(t, err)

	html := b.String()
	assert.Contains(t, html, "Data Warnings (1)")
	assert.Contains(t, html, "no assignment data")
}

func TestRenderNoAssignments(t *testing.T) {
	data := testData()
	data.AssignmentsByAccount = map[string][]model.Assignment{}

	var b strings.Builder
	require.NoError(t, Render(&b, data, nil))
	assert.Contains(t, b.String(), "No assignment data available.")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "access.html")
	require.NoError(t, WriteFile(path, testData(), nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Organization Access Report")
}
