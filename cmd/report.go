package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orgmap/orgmap/internal/config"
	"github.com/orgmap/orgmap/internal/loader"
	"github.com/orgmap/orgmap/internal/report"
)

func NewReportCmd() *cobra.Command {
	var dataDir string
	var outputPath string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a snapshot as a standalone HTML report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			_, _, dataDir = cfg.Merge("", "", dataDir)
			if outputPath == "" {
				outputPath = filepath.Join(dataDir, "access-report.html")
			}

			l, err := loader.New(dataDir)
			if err != nil {
				return err
			}
			data, warnings, err := l.LoadAll()
			if err != nil {
				return err
			}

			if err := report.WriteFile(outputPath, data, warnings); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "snapshot directory to load")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "report file path (default: <data dir>/access-report.html)")

	return cmd
}
