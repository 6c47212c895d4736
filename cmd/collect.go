package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	awsclient "github.com/orgmap/orgmap/internal/aws"
	"github.com/orgmap/orgmap/internal/config"
	"github.com/orgmap/orgmap/internal/snapshot"
)

func NewCollectCmd() *cobra.Command {
	var profile string
	var region string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect organization and Identity Center data into a snapshot directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			profile, region, outputDir = cfg.Merge(profile, region, outputDir)

			ctx := context.Background()
			client, err := awsclient.NewAuditClient(ctx, profile, region)
			if err != nil {
				return fmt.Errorf("initializing AWS client: %w", err)
			}
			if client.AccountID != "" {
				fmt.Printf("Collecting as account %s\n", client.AccountID)
			}

			orgDoc, err := client.Orgs.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("collecting organization structure: %w", err)
			}
			if err := snapshot.WriteJSON(outputDir, snapshot.OrganizationsFile, orgDoc); err != nil {
				return err
			}
			fmt.Printf("Wrote %s: %d OUs, %d accounts\n",
				snapshot.OrganizationsFile, len(orgDoc.OrganizationalUnits), len(orgDoc.Accounts))

			accountIDs := make([]string, 0, len(orgDoc.Accounts))
			for _, a := range orgDoc.Accounts {
				accountIDs = append(accountIDs, a.ID)
			}

			assignments, groups, err := client.Identity.Snapshot(ctx, accountIDs)
			if err != nil {
				// Identity Center data is optional for the explorer, so
				// a permissions gap degrades instead of failing the run.
				if awsclient.IsAccessDenied(err) {
					fmt.Printf("Skipping Identity Center data (access denied): %v\n", err)
					return nil
				}
				return fmt.Errorf("collecting Identity Center data: %w", err)
			}

			if err := snapshot.WriteJSON(outputDir, snapshot.AssignmentsFile, assignments); err != nil {
				return err
			}
			fmt.Printf("Wrote %s: %d accounts with assignments\n", snapshot.AssignmentsFile, len(assignments))

			if err := snapshot.WriteJSON(outputDir, snapshot.GroupsFile, groups); err != nil {
				return err
			}
			fmt.Printf("Wrote %s: %d groups\n", snapshot.GroupsFile, len(groups))
			return nil
		},
	}

	cmd.Flags().StringVarP(&profile, "profile", "p", "", "AWS profile to use")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region to use")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "snapshot output directory")

	return cmd
}
