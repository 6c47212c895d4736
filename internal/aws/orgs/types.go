package orgs

type Organization struct {
	ID              string
	ARN             string
	MasterAccountID string
	RootID          string
	RootARN         string
}

type OrganizationalUnit struct {
	ID       string
	ARN      string
	Name     string
	ParentID string
}

type Account struct {
	ID       string
	ARN      string
	Name     string
	Email    string
	Status   string
	ParentID string
}
