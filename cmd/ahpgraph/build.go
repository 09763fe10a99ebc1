package main

import (
	"fmt"

	"github.com/aretw0/devicegraph/internal/cli"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <arch.yaml>",
	Short: "Compile the architecture and write one model per rank",
	Long: `Flattens the architecture for every rank (or only --rank) and writes the
component models to the --out directory, or to Redis when --redis is set.
A single rank writes <name>.json; several ranks write <name><rank>.json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := setup(cmd, args)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		format, _ := cmd.Flags().GetString("format")
		redisAddr, _ := cmd.Flags().GetString("redis")
		prefix, _ := cmd.Flags().GetString("redis-prefix")
		native, _ := cmd.Flags().GetBool("native")
		keyFile, _ := cmd.Flags().GetString("key-file")

		var key []byte
		if keyFile != "" {
			if key, err = cli.ReadKey(keyFile); err != nil {
				return err
			}
		}

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		names, err := cli.Build(sc, cli.BuildOptions{
			Options:     opts,
			Out:         out,
			Format:      format,
			Redis:       redisAddr,
			RedisPrefix: prefix,
			Native:      native,
			Key:         key,
		}, logger)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("format", "f", "json", "Artifact format (json, cbor)")
	buildCmd.Flags().String("redis", "", "Redis address to store artifacts in instead of --out")
	buildCmd.Flags().String("redis-prefix", "", "Redis key prefix for artifacts")
	buildCmd.Flags().Bool("native", false, "Keep parameters in their native types instead of strings")
	buildCmd.Flags().String("key-file", "", "Encrypt artifacts with the AES-256 key in this file (raw or hex)")
}
