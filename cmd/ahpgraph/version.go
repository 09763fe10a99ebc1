package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/devicegraph"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ahpgraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ahpgraph version %s\n", strings.TrimSpace(devicegraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
