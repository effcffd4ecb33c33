package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qj0r9j0vc2/timereport-bridge/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of timereport",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "timereport version %s\n", app.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
