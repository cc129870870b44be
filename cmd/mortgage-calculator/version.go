package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "mortgage-calculator %s\n", version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
