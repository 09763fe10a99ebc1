package main

import (
	"os"

	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/aretw0/devicegraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <arch.yaml>",
	Short: "Print device counts per category",
	Long:  `Prints a markdown report of the graph, rendered for the terminal when stdout is one.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		flatten, _ := cmd.Flags().GetBool("flatten")
		raw, _ := cmd.Flags().GetBool("raw")

		out := cmd.OutOrStdout()
		render := false
		if f, ok := out.(*os.File); ok && !raw {
			render = tui.IsTerminal(f)
		}
		return cli.Summary(cmd.Context(), cli.SummaryOptions{
			Options: opts,
			Flatten: flatten,
			Render:  render,
		}, out, logger)
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().Bool("flatten", true, "Flatten assemblies before counting")
	summaryCmd.Flags().Bool("raw", false, "Print plain markdown even on a terminal")
}
