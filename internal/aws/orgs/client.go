package orgs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsorgs "github.com/aws/aws-sdk-go-v2/service/organizations"

	"github.com/orgmap/orgmap/internal/snapshot"
)

type OrganizationsAPI interface {
	DescribeOrganization(ctx context.Context, params *awsorgs.DescribeOrganizationInput, optFns ...func(*awsorgs.Options)) (*awsorgs.DescribeOrganizationOutput, error)
	ListRoots(ctx context.Context, params *awsorgs.ListRootsInput, optFns ...func(*awsorgs.Options)) (*awsorgs.ListRootsOutput, error)
	ListOrganizationalUnitsForParent(ctx context.Context, params *awsorgs.ListOrganizationalUnitsForParentInput, optFns ...func(*awsorgs.Options)) (*awsorgs.ListOrganizationalUnitsForParentOutput, error)
	ListAccountsForParent(ctx context.Context, params *awsorgs.ListAccountsForParentInput, optFns ...func(*awsorgs.Options)) (*awsorgs.ListAccountsForParentOutput, error)
}

type Client struct {
	api OrganizationsAPI
}

func NewClient(api OrganizationsAPI) *Client {
	return &Client{api: api}
}

// DescribeOrganization returns the organization with its first root
// resolved, since every tree walk starts there.
func (c *Client) DescribeOrganization(ctx context.Context) (Organization, error) {
	out, err := c.api.DescribeOrganization(ctx, &awsorgs.DescribeOrganizationInput{})
	if err != nil {
		return Organization{}, fmt.Errorf("DescribeOrganization: %w", err)
	}

	org := Organization{
		ID:              aws.ToString(out.Organization.Id),
		ARN:             aws.ToString(out.Organization.Arn),
		MasterAccountID: aws.ToString(out.Organization.MasterAccountId),
	}

	var nextToken *string
	for {
		roots, err := c.api.ListRoots(ctx, &awsorgs.ListRootsInput{
			NextToken: nextToken,
		})
		if err != nil {
			return Organization{}, fmt.Errorf("ListRoots: %w", err)
		}
		if org.RootID == "" && len(roots.Roots) > 0 {
			org.RootID = aws.ToString(roots.Roots[0].Id)
			org.RootARN = aws.ToString(roots.Roots[0].Arn)
		}
		if roots.NextToken == nil {
			break
		}
		nextToken = roots.NextToken
	}

	if org.RootID == "" {
		return Organization{}, fmt.Errorf("organization %s has no root", org.ID)
	}
	return org, nil
}

// ListOrganizationalUnits walks the whole OU hierarchy under rootID
// depth-first and returns every OU with its parent id retained. The
// walk recurses to any depth.
func (c *Client) ListOrganizationalUnits(ctx context.Context, rootID string) ([]OrganizationalUnit, error) {
	var all []OrganizationalUnit

	var walk func(parentID string) error
	walk = func(parentID string) error {
		var nextToken *string
		for {
			out, err := c.api.ListOrganizationalUnitsForParent(ctx, &awsorgs.ListOrganizationalUnitsForParentInput{
				ParentId:  aws.String(parentID),
				NextToken: nextToken,
			})
			if err != nil {
				return fmt.Errorf("ListOrganizationalUnitsForParent %s: %w", parentID, err)
			}

			for _, ou := range out.OrganizationalUnits {
				all = append(all, OrganizationalUnit{
					ID:       aws.ToString(ou.Id),
					ARN:      aws.ToString(ou.Arn),
					Name:     aws.ToString(ou.Name),
					ParentID: parentID,
				})
				if err := walk(aws.ToString(ou.Id)); err != nil {
					return err
				}
			}

			if out.NextToken == nil {
				return nil
			}
			nextToken = out.NextToken
		}
	}

	if err := walk(rootID); err != nil {
		return nil, err
	}
	return all, nil
}

// ListAccountsForParent returns the accounts attached directly to the
// given root or OU.
func (c *Client) ListAccountsForParent(ctx context.Context, parentID string) ([]Account, error) {
	var accounts []Account
	var nextToken *string

	for {
		out, err := c.api.ListAccountsForParent(ctx, &awsorgs.ListAccountsForParentInput{
			ParentId:  aws.String(parentID),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("ListAccountsForParent %s: %w", parentID, err)
		}

		for _, a := range out.Accounts {
			accounts = append(accounts, Account{
				ID:       aws.ToString(a.Id),
				ARN:      aws.ToString(a.Arn),
				Name:     aws.ToString(a.Name),
				Email:    aws.ToString(a.Email),
				Status:   string(a.Status),
				ParentID: parentID,
			})
		}

		if out.NextToken == nil {
			break
		}
		nextToken = out.NextToken
	}

	return accounts, nil
}

// Snapshot collects the full organization structure into the flat
// document the explorer loads: every OU and account record carries its
// parent id, so nesting depth is unlimited on both sides.
func (c *Client) Snapshot(ctx context.Context) (*snapshot.OrganizationDoc, error) {
	org, err := c.DescribeOrganization(ctx)
	if err != nil {
		return nil, err
	}

	ous, err := c.ListOrganizationalUnits(ctx, org.RootID)
	if err != nil {
		return nil, err
	}

	doc := &snapshot.OrganizationDoc{
		RootID:          org.RootID,
		RootARN:         org.RootARN,
		MasterAccountID: org.MasterAccountID,
	}
	for _, ou := range ous {
		doc.OrganizationalUnits = append(doc.OrganizationalUnits, snapshot.OURecord{
			ID:       ou.ID,
			Name:     ou.Name,
			ParentID: ou.ParentID,
		})
	}

	parents := make([]string, 0, len(ous)+1)
	parents = append(parents, org.RootID)
	for _, ou := range ous {
		parents = append(parents, ou.ID)
	}
	for _, parentID := range parents {
		accounts, err := c.ListAccountsForParent(ctx, parentID)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			doc.Accounts = append(doc.Accounts, snapshot.AccountRecord{
				ID:       a.ID,
				Name:     a.Name,
				Email:    a.Email,
				Status:   a.Status,
				ParentID: a.ParentID,
			})
		}
	}

	return doc, nil
}
