package aws

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/identitystore"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/ssoadmin"
	"github.com/aws/smithy-go"

	awsidentity "github.com/orgmap/orgmap/internal/aws/identity"
	awsorgs "github.com/orgmap/orgmap/internal/aws/orgs"
)

// AuditClient bundles the two service clients the collector needs:
// Organizations for the account tree and Identity Center for
// assignments and the directory.
type AuditClient struct {
	Orgs     *awsorgs.Client
	Identity *awsidentity.Client

	// AccountID is the caller's account, when resolvable.
	AccountID string
}

func NewAuditClient(ctx context.Context, profile, region string) (*AuditClient, error) {
	cfg, err := LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &AuditClient{
		Orgs: awsorgs.NewClient(organizations.NewFromConfig(cfg)),
		Identity: awsidentity.NewClient(
			ssoadmin.NewFromConfig(cfg),
			identitystore.NewFromConfig(cfg),
		),
		AccountID: CallerAccountID(ctx, cfg),
	}, nil
}

// IsAccessDenied reports whether err is an AWS access-denied response,
// so callers can degrade to partial collection instead of aborting.
func IsAccessDenied(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDeniedException", "AccessDenied", "UnauthorizedException":
			return true
		}
	}
	return false
}
