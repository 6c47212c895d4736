package identity

type Instance struct {
	ARN             string
	IdentityStoreID string
}

type PermissionSet struct {
	ARN         string
	Name        string
	Description string
}

// Assignment is one permission set granted to one principal on one
// account. PrincipalName is resolved from the identity store when the
// directory data is available.
type Assignment struct {
	AccountID         string
	PermissionSetARN  string
	PermissionSetName string
	PrincipalType     string // GROUP or USER
	PrincipalID       string
	PrincipalName     string
}

type Group struct {
	ID          string
	DisplayName string
	Description string
	MemberIDs   []string
}

type User struct {
	ID          string
	Username    string
	DisplayName string
	Email       string
}
