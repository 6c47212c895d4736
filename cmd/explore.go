package cmd

import (
	"errors"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/orgmap/orgmap/internal/config"
	"github.com/orgmap/orgmap/internal/loader"
	"github.com/orgmap/orgmap/internal/tui"
)

func NewExploreCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore a collected snapshot interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			_, _, dataDir = cfg.Merge("", "", dataDir)

			l, err := loader.New(dataDir)
			if err != nil {
				return err
			}
			data, warnings, err := l.LoadAll()
			if err != nil {
				var fatal *loader.FatalError
				if errors.As(err, &fatal) {
					fmt.Fprintln(os.Stderr, fatal.Error())
					os.Exit(1)
				}
				return err
			}

			model := tui.NewModel(data, warnings)
			p := tea.NewProgram(model)
			if _, err := p.Run(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "snapshot directory to load")

	return cmd
}
