package main

import (
	"fmt"

	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <arch.yaml>",
	Short: "Check the graph for consistency",
	Long: `Flattens the graph for every rank and reports required ports left
unlinked, devices without a partition and assemblies that fail to expand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		reports, err := cli.Validate(cmd.Context(), opts, logger)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		w := cmd.OutOrStdout()
		for _, r := range reports {
			if opts.Ranks > 1 {
				fmt.Fprintf(w, "rank %d: %d devices, %d links\n", r.Rank, r.Devices, r.Links)
			} else {
				fmt.Fprintf(w, "%d devices, %d links\n", r.Devices, r.Links)
			}
		}
		fmt.Fprintln(w, "Graph is valid!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
