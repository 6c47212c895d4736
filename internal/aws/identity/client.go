package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/identitystore"
	idstypes "github.com/aws/aws-sdk-go-v2/service/identitystore/types"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"

	"github.com/orgmap/orgmap/internal/snapshot"
)

type SSOAdminAPI interface {
	ListInstances(ctx context.Context, params *ssoadmin.ListInstancesInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.ListInstancesOutput, error)
	DescribePermissionSet(ctx context.Context, params *ssoadmin.DescribePermissionSetInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.DescribePermissionSetOutput, error)
	ListPermissionSetsProvisionedToAccount(ctx context.Context, params *ssoadmin.ListPermissionSetsProvisionedToAccountInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.ListPermissionSetsProvisionedToAccountOutput, error)
	ListAccountAssignments(ctx context.Context, params *ssoadmin.ListAccountAssignmentsInput, optFns ...func(*ssoadmin.Options)) (*ssoadmin.ListAccountAssignmentsOutput, error)
}

type IdentityStoreAPI interface {
	ListGroups(ctx context.Context, params *identitystore.ListGroupsInput, optFns ...func(*identitystore.Options)) (*identitystore.ListGroupsOutput, error)
	ListGroupMemberships(ctx context.Context, params *identitystore.ListGroupMembershipsInput, optFns ...func(*identitystore.Options)) (*identitystore.ListGroupMembershipsOutput, error)
	ListUsers(ctx context.Context, params *identitystore.ListUsersInput, optFns ...func(*identitystore.Options)) (*identitystore.ListUsersOutput, error)
}

// Client wraps IAM Identity Center's two halves: ssoadmin for
// assignments and permission sets, identitystore for the directory.
type Client struct {
	sso SSOAdminAPI
	ids IdentityStoreAPI
}

func NewClient(sso SSOAdminAPI, ids IdentityStoreAPI) *Client {
	return &Client{sso: sso, ids: ids}
}

// Instance returns the first Identity Center instance; accounts have
// at most one.
func (c *Client) Instance(ctx context.Context) (Instance, error) {
	out, err := c.sso.ListInstances(ctx, &ssoadmin.ListInstancesInput{})
	if err != nil {
		return Instance{}, fmt.Errorf("ListInstances: %w", err)
	}
	if len(out.Instances) == 0 {
		return Instance{}, errors.New("no IAM Identity Center instance found")
	}
	return Instance{
		ARN:             aws.ToString(out.Instances[0].InstanceArn),
		IdentityStoreID: aws.ToString(out.Instances[0].IdentityStoreId),
	}, nil
}

// AccountAssignments returns every assignment on the given account,
// walking the provisioned permission sets and their assignments with
// full pagination.
func (c *Client) AccountAssignments(ctx context.Context, instanceARN, accountID string) ([]Assignment, error) {
	psARNs, err := c.provisionedPermissionSets(ctx, instanceARN, accountID)
	if err != nil {
		return nil, err
	}

	var assignments []Assignment
	for _, psARN := range psARNs {
		psName, err := c.permissionSetName(ctx, instanceARN, psARN)
		if err != nil {
			return nil, err
		}

		var nextToken *string
		for {
			out, err := c.sso.ListAccountAssignments(ctx, &ssoadmin.ListAccountAssignmentsInput{
				InstanceArn:      aws.String(instanceARN),
				AccountId:        aws.String(accountID),
				PermissionSetArn: aws.String(psARN),
				NextToken:        nextToken,
			})
			if err != nil {
				return nil, fmt.Errorf("ListAccountAssignments %s: %w", accountID, err)
			}

			for _, a := range out.AccountAssignments {
				assignments = append(assignments, Assignment{
					AccountID:         accountID,
					PermissionSetARN:  psARN,
					PermissionSetName: psName,
					PrincipalType:     string(a.PrincipalType),
					PrincipalID:       aws.ToString(a.PrincipalId),
				})
			}

			if out.NextToken == nil {
				break
			}
			nextToken = out.NextToken
		}
	}

	return assignments, nil
}

func (c *Client) provisionedPermissionSets(ctx context.Context, instanceARN, accountID string) ([]string, error) {
	var arns []string
	var nextToken *string

	for {
		out, err := c.sso.ListPermissionSetsProvisionedToAccount(ctx, &ssoadmin.ListPermissionSetsProvisionedToAccountInput{
			InstanceArn: aws.String(instanceARN),
			AccountId:   aws.String(accountID),
			NextToken:   nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ListPermissionSetsProvisionedToAccount %s: %w", accountID, err)
		}
		arns = append(arns, out.PermissionSets...)

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return arns, nil
}

func (c *Client) permissionSetName(ctx context.Context, instanceARN, psARN string) (string, error) {
	out, err := c.sso.DescribePermissionSet(ctx, &ssoadmin.DescribePermissionSetInput{
		InstanceArn:      aws.String(instanceARN),
		PermissionSetArn: aws.String(psARN),
	})
	if err != nil {
		return "", fmt.Errorf("DescribePermissionSet %s: %w", psARN, err)
	}
	return aws.ToString(out.PermissionSet.Name), nil
}

// ListGroups returns every group in the identity store with member ids
// resolved via ListGroupMemberships.
func (c *Client) ListGroups(ctx context.Context, identityStoreID string) ([]Group, error) {
	var groups []Group
	var nextToken *string

	for {
		out, err := c.ids.ListGroups(ctx, &identitystore.ListGroupsInput{
			IdentityStoreId: aws.String(identityStoreID),
			NextToken:       nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ListGroups: %w", err)
		}

		for _, g := range out.Groups {
			group := Group{
				ID:          aws.ToString(g.GroupId),
				DisplayName: aws.ToString(g.DisplayName),
				Description: aws.ToString(g.Description),
			}
			memberIDs, err := c.groupMemberIDs(ctx, identityStoreID, group.ID)
			if err != nil {
				return nil, err
			}
			group.MemberIDs = memberIDs
			groups = append(groups, group)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return groups, nil
}

func (c *Client) groupMemberIDs(ctx context.Context, identityStoreID, groupID string) ([]string, error) {
	var ids []string
	var nextToken *string

	for {
		out, err := c.ids.ListGroupMemberships(ctx, &identitystore.ListGroupMembershipsInput{
			IdentityStoreId: aws.String(identityStoreID),
			GroupId:         aws.String(groupID),
			NextToken:       nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ListGroupMemberships %s: %w", groupID, err)
		}

		for _, m := range out.GroupMemberships {
			if userID, ok := m.MemberId.(*idstypes.MemberIdMemberUserId); ok {
				ids = append(ids, userID.Value)
			}
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return ids, nil
}

// ListUsers returns every user in the identity store with the primary
// email flattened.
func (c *Client) ListUsers(ctx context.Context, identityStoreID string) ([]User, error) {
	var users []User
	var nextToken *string

	for {
		out, err := c.ids.ListUsers(ctx, &identitystore.ListUsersInput{
			IdentityStoreId: aws.String(identityStoreID),
			NextToken:       nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ListUsers: %w", err)
		}

		for _, u := range out.Users {
			user := User{
				ID:          aws.ToString(u.UserId),
				Username:    aws.ToString(u.UserName),
				DisplayName: aws.ToString(u.DisplayName),
			}
			for _, email := range u.Emails {
				if email.Primary || user.Email == "" {
					user.Email = aws.ToString(email.Value)
				}
			}
			users = append(users, user)
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return users, nil
}

// Snapshot collects assignments for the given accounts plus the full
// group directory, with principal and member names resolved, in the
// shapes the explorer loads.
func (c *Client) Snapshot(ctx context.Context, accountIDs []string) (map[string][]snapshot.AssignmentRecord, map[string]snapshot.GroupDoc, error) {
	instance, err := c.Instance(ctx)
	if err != nil {
		return nil, nil, err
	}

	groups, err := c.ListGroups(ctx, instance.IdentityStoreID)
	if err != nil {
		return nil, nil, err
	}
	users, err := c.ListUsers(ctx, instance.IdentityStoreID)
	if err != nil {
		return nil, nil, err
	}

	usersByID := make(map[string]User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}
	groupNames := make(map[string]string, len(groups))
	for _, g := range groups {
		groupNames[g.ID] = g.DisplayName
	}

	groupDocs := make(map[string]snapshot.GroupDoc, len(groups))
	for _, g := range groups {
		doc := snapshot.GroupDoc{
			GroupID:     g.ID,
			DisplayName: g.DisplayName,
			Description: g.Description,
		}
		for _, memberID := range g.MemberIDs {
			u, ok := usersByID[memberID]
			if !ok {
				// Membership pointing at a deleted user; record the id
				// so the explorer can still show something.
				doc.Members = append(doc.Members, snapshot.MemberRecord{UserID: memberID, UserName: memberID})
				continue
			}
			doc.Members = append(doc.Members, snapshot.MemberRecord{
				UserID:      u.ID,
				UserName:    u.Username,
				DisplayName: u.DisplayName,
				Email:       u.Email,
			})
		}
		groupDocs[g.ID] = doc
	}

	assignmentsByAccount := make(map[string][]snapshot.AssignmentRecord)
	for _, accountID := range accountIDs {
		assignments, err := c.AccountAssignments(ctx, instance.ARN, accountID)
		if err != nil {
			return nil, nil, err
		}
		for _, a := range assignments {
			name := ""
			switch a.PrincipalType {
			case "GROUP":
				name = groupNames[a.PrincipalID]
			case "USER":
				if u, ok := usersByID[a.PrincipalID]; ok {
					name = u.Username
				}
			}
			assignmentsByAccount[accountID] = append(assignmentsByAccount[accountID], snapshot.AssignmentRecord{
				AccountID:         a.AccountID,
				PermissionSetARN:  a.PermissionSetARN,
				PermissionSetName: a.PermissionSetName,
				PrincipalType:     a.PrincipalType,
				PrincipalID:       a.PrincipalID,
				PrincipalName:     name,
			})
		}
	}

	return assignmentsByAccount, groupDocs, nil
}
