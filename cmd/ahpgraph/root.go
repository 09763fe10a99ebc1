package main

import (
	"log/slog"
	"os"

	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/aretw0/devicegraph/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ahpgraph",
	Short: "ahpgraph compiles hierarchical device graphs into simulator models",
	Long: `ahpgraph reads an architecture file describing device kinds, assemblies and
their links, flattens it and writes one component model per simulation rank.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger := logging.New(slog.LevelError)
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "off", "Log level (debug, info, warn, error, off)")
	flags.String("log-format", "text", "Log format (text, json)")
	flags.Int("ranks", 1, "Number of ranks the graph is split over")
	flags.Int("rank", -1, "Only work on this rank (default: all ranks)")
	flags.StringP("out", "o", "", "Output directory for artifacts")
	flags.StringSlice("datasheet", nil, "Extra datasheet overlaid on the ones the file names (repeatable)")
}

// setup reads the persistent flags and the architecture file argument.
func setup(cmd *cobra.Command, args []string) (cli.Options, *slog.Logger, error) {
	flags := cmd.Flags()
	level, _ := flags.GetString("log-level")
	format, _ := flags.GetString("log-format")
	ranks, _ := flags.GetInt("ranks")
	rank, _ := flags.GetInt("rank")
	datasheets, _ := flags.GetStringSlice("datasheet")

	logger, err := logging.Parse(level, format)
	if err != nil {
		return cli.Options{}, nil, err
	}
	opts := cli.Options{
		Datasheets: datasheets,
		Ranks:      ranks,
		Rank:       rank,
	}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	return opts, logger, nil
}
