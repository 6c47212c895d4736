// Package snapshot defines the on-disk JSON contract shared by the
// collectors, the loader, and the export generators: file names inside
// a snapshot directory and the document shapes written there.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Snapshot directory file names. The organization file is the
// structural backbone and is required by every consumer; the other two
// are optional and consumers degrade without them.
const (
	OrganizationsFile = "organizations.json"
	AssignmentsFile   = "account_assignments.json"
	GroupsFile        = "groups.json"
)

// OrganizationDoc is the organization snapshot. OUs and accounts are
// stored flat with parent references so readers can rebuild the tree at
// any depth.
type OrganizationDoc struct {
	RootID              string          `json:"rootId"`
	RootARN             string          `json:"rootArn,omitempty"`
	MasterAccountID     string          `json:"masterAccountId,omitempty"`
	OrganizationalUnits []OURecord      `json:"organizationalUnits"`
	Accounts            []AccountRecord `json:"accounts"`
}

// OURecord is one organizational unit. ParentID is the root id for
// top-level OUs.
type OURecord struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	ParentID string `json:"ParentId"`
}

// AccountRecord is one account. ParentID is an OU id, the root id, or
// empty for root-attached accounts.
type AccountRecord struct {
	ID       string `json:"Id"`
	Name     string `json:"Name"`
	Email    string `json:"Email,omitempty"`
	Status   string `json:"Status,omitempty"`
	ParentID string `json:"ParentId"`
}

// AssignmentRecord is one permission-set grant in the assignments
// snapshot, which maps account id to a list of these.
type AssignmentRecord struct {
	AccountID         string `json:"AccountId"`
	PermissionSetARN  string `json:"PermissionSetArn"`
	PermissionSetName string `json:"PermissionSetName"`
	PrincipalType     string `json:"PrincipalType"`
	PrincipalID       string `json:"PrincipalId"`
	PrincipalName     string `json:"PrincipalName"`
}

// GroupDoc is one group in the groups snapshot, which maps group id to
// one of these.
type GroupDoc struct {
	GroupID     string         `json:"GroupId"`
	DisplayName string         `json:"DisplayName"`
	Description string         `json:"Description,omitempty"`
	Members     []MemberRecord `json:"Members"`
}

// MemberRecord is one group member.
type MemberRecord struct {
	UserID      string `json:"UserId"`
	UserName    string `json:"UserName"`
	DisplayName string `json:"DisplayName,omitempty"`
	Email       string `json:"Email,omitempty"`
}

// WriteJSON writes v as indented JSON to dir/name, creating the
// directory if needed.
func WriteJSON(dir, name string, v any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON reads dir/name into v.
func ReadJSON(dir, name string, v any) error {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
