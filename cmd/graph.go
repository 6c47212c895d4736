package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orgmap/orgmap/internal/config"
	"github.com/orgmap/orgmap/internal/diagram"
	"github.com/orgmap/orgmap/internal/loader"
)

func NewGraphCmd() *cobra.Command {
	var dataDir string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render a snapshot as Graphviz DOT files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			_, _, dataDir = cfg.Merge("", "", dataDir)
			if outputDir == "" {
				outputDir = dataDir
			}

			l, err := loader.New(dataDir)
			if err != nil {
				return err
			}
			data, warnings, err := l.LoadAll()
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w.String())
			}

			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			orgPath := filepath.Join(outputDir, "organization.dot")
			if err := os.WriteFile(orgPath, []byte(diagram.OrganizationDOT(data.Organization)), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", orgPath, err)
			}
			fmt.Printf("Wrote %s\n", orgPath)

			idPath := filepath.Join(outputDir, "identity.dot")
			if err := os.WriteFile(idPath, []byte(diagram.IdentityDOT(data)), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", idPath, err)
			}
			fmt.Printf("Wrote %s\n", idPath)

			fmt.Println("Render with e.g.: dot -Tpng organization.dot -o organization.png")
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "snapshot directory to load")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "directory for the .dot files (default: data dir)")

	return cmd
}
