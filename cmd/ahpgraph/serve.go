package main

import (
	"fmt"
	"net"
	"os"

	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/aretw0/devicegraph/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve <arch.yaml>",
	Short: "Start the read-only inspect server",
	Long: `Loads the architecture and serves its devices, links, diagrams and
metrics over HTTP until interrupted.

With --mcp the same views are exposed as MCP tools and resources, over SSE
on /mcp/sse next to the HTTP routes. --mcp=stdio serves MCP on stdin and
stdout instead of HTTP.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		flatten, _ := cmd.Flags().GetBool("flatten")
		mcpMode, _ := cmd.Flags().GetString("mcp")
		if mcpMode != "" && mcpMode != "sse" && mcpMode != "stdio" {
			return fmt.Errorf("unknown MCP transport %q (want sse or stdio)", mcpMode)
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		srv, err := cli.NewServer(sc, cli.ServeOptions{Options: opts, Flatten: flatten, MCP: mcpMode == "sse"}, logger)
		if err != nil {
			return err
		}
		if mcpMode == "stdio" {
			return srv.MCP.ServeStdio()
		}
		ln, err := net.Listen("tcp", ":"+port)
		if err != nil {
			return err
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on %s\n", opts.Path, ln.Addr())
		if err := cli.Serve(sc, srv, ln, logger); err != nil {
			return err
		}
		if sig := sc.Signal(); sig != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped on %v\n", sig)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("flatten", true, "Flatten assemblies before serving")
	serveCmd.Flags().String("mcp", "", "Expose MCP tools over sse (next to HTTP) or stdio")
	serveCmd.Flags().Lookup("mcp").NoOptDefVal = "sse"
}
