package main

import (
	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <arch.yaml>",
	Short: "Export the device graph visualization",
	Long:  `Outputs the device graph as Graphviz DOT or as a Mermaid flowchart.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")
		ports, _ := cmd.Flags().GetBool("ports")
		flatten, _ := cmd.Flags().GetBool("flatten")

		return cli.Diagram(cmd.Context(), cli.DiagramOptions{
			Options: opts,
			Format:  format,
			Ports:   ports,
			Flatten: flatten,
		}, cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("format", "f", "dot", "Diagram format (dot, mermaid)")
	graphCmd.Flags().Bool("ports", false, "Draw devices as port records (dot only)")
	graphCmd.Flags().Bool("flatten", false, "Flatten assemblies before drawing")
}
