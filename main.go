package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/orgmap/orgmap/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "orgmap",
		Short: "Audit and explore AWS Organizations and Identity Center access",
	}

	rootCmd.AddCommand(cmd.NewCollectCmd())
	rootCmd.AddCommand(cmd.NewExploreCmd())
	rootCmd.AddCommand(cmd.NewGraphCmd())
	rootCmd.AddCommand(cmd.NewReportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
