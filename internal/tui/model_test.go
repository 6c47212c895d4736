package tui

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/orgmap/orgmap/internal/model"
)

func testData() *model.ExplorerData {
	x := &model.Account{ID: "222222222222", Name: "prod-app", Email: "prod@example.com", Status: "SUSPENDED", ParentOUID: "ou-a"}
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
					PermissionSet: model.PermissionSet{ARN: "arn:aws:sso:::permissionSet/ssoins-1/ps-1", Name: "AdministratorAccess"},
					PrincipalType: model.PrincipalGroup,
					PrincipalID:   "g-1",
					PrincipalName: "admins",
				},
				{
					AccountID:     x.ID,
					PermissionSet: model.PermissionSet{ARN: "arn:aws:sso:::permissionSet/ssoins-1/ps-1", Name: "AdministratorAccess"},
					PrincipalType: model.PrincipalUser,
					PrincipalID:   "u-3",
					PrincipalName: "carol",
				},
			},
		},
		GroupsByID: map[string]model.Group{
			"g-1": {ID: "g-1", Name: "admins", Members: []model.User{
				{ID: "u-1", Username: "alice"},
				{ID: "u-2", Username: "bob"},
			}},
		},
	}
}

func keyPress(m Model, key string) Model {
	updated, _ := m.Update(tea.KeyPressMsg{Code: rune(key[0]), Text: key})
	return updated.(Model)
}

func pressEnter(m Model) Model {
	updated, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return updated.(Model)
}

func pressEsc(m Model) Model {
	updated, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	return updated.(Model)
}

func TestView_Root(t *testing.T) {
	m := NewModel(testData(), nil)

	view := m.View().Content
	if !strings.Contains(view, "Organization Explorer") {
		t.Error("root view should contain the title")
	}
	if !strings.Contains(view, "Root") {
		t.Error("root view should contain the root breadcrumb")
	}
	if !strings.Contains(view, "Workloads") {
		t.Error("root view should list the top-level OU")
	}
}

func TestEnter_DrillsIntoOU(t *testing.T) {
	m := NewModel(testData(), nil)
	m = pressEnter(m)

	view := m.View().Content
	if !strings.Contains(view, "prod-app") {
		t.Error("OU view should list the OU's account")
	}
	if !strings.Contains(view, "Workloads") {
		t.Error("OU view breadcrumb should contain the OU name")
	}
}

func TestEnter_AccountDetail(t *testing.T) {
	m := NewModel(testData(), nil)
	m = pressEnter(m) // into Workloads
	m = pressEnter(m) // into prod-app

	view := m.View().Content
	if !strings.Contains(view, "AdministratorAccess") {
		t.Error("detail should name the permission set")
	}
	if !strings.Contains(view, "Group-Based Access") {
		t.Error("detail should have a group section")
	}
	if !strings.Contains(view, "Direct User Access") {
		t.Error("detail should keep direct grants separate")
	}
	if !strings.Contains(view, "carol") {
		t.Error("detail should show the direct user")
	}
	if !strings.Contains(view, "alice") || !strings.Contains(view, "bob") {
		t.Error("detail should expand group members")
	}
	if !strings.Contains(view, "1 permission set") {
		t.Error("detail should show the summary counts")
	}
	if !strings.Contains(view, "3 users") {
		t.Error("summary should count direct plus group users")
	}
	if !strings.Contains(view, "SUSPENDED") {
		t.Error("detail should show the account status")
	}
}

func TestEsc_GoesBack(t *testing.T) {
	m := NewModel(testData(), nil)
	m = pressEnter(m)
	m = pressEnter(m)
	m = pressEsc(m)
	m = pressEsc(m)

	view := m.View().Content
	if !strings.Contains(view, "Workloads") {
		t.Error("after backing out, the root listing should return")
	}
	if strings.Contains(view, "Group-Based Access") {
		t.Error("after backing out, the detail should be gone")
	}
}

func TestWarningsBanner(t *testing.T) {
	warnings := []model.ValidationWarning{
		{Category: "assignments", Message: "no assignment data"},
		{Category: "groups", Message: "no group data"},
	}
	m := NewModel(testData(), warnings)

	view := m.View().Content
	if !strings.Contains(view, "2 data warnings") {
		t.Error("collapsed banner should show the warning count")
	}

	m = keyPress(m, "w")
	view = m.View().Content
	if !strings.Contains(view, "no assignment data") {
		t.Error("expanded banner should show warning text")
	}
}

func TestWarningsBannerTruncatesLongLists(t *testing.T) {
	var warnings []model.ValidationWarning
	for i := 0; i < 8; i++ {
		warnings = append(warnings, model.ValidationWarning{Category: "structure", Message: "problem"})
	}
	m := NewModel(testData(), warnings)
	m = keyPress(m, "w")

	view := m.View().Content
	if !strings.Contains(view, "and 3 more") {
		t.Error("expanded banner should cap at five warnings")
	}
}

func TestWarningsBannerTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("duplicate account id ignored ", 10)
	m := NewModel(testData(), []model.ValidationWarning{
		{Category: "structure", Message: long},
	})
	m = keyPress(m, "w")

	view := m.View().Content
	if strings.Contains(view, long) {
		t.Error("expanded banner should not render the full overlong message")
	}
	if !strings.Contains(view, "…") {
		t.Error("truncated warning should end with an ellipsis")
	}
}

func TestQuitSetsExit(t *testing.T) {
	m := NewModel(testData(), nil)
	updated, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
	_ = updated
}
