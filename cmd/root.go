package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gsea-project/gsea-bench/pkg/config"
	"github.com/gsea-project/gsea-bench/pkg/flags"
	"github.com/gsea-project/gsea-bench/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func init() {
	cobra.EnableTraverseRunHooks = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)

	rootCmd.PersistentFlags().
		String(flags.ConfigFlag.Full, "", "one-time config JSON string (merge with existing config)")
	rootCmd.PersistentFlags().String(flags.ConfigDirFlag.Full, "", "custom config directory")
	rootCmd.MarkPersistentFlagDirname(flags.ConfigDirFlag.Full)
	rootCmd.MarkFlagsMutuallyExclusive(flags.ConfigFlag.Full, flags.ConfigDirFlag.Full)
}

var rootCmd = &cobra.Command{
	Use:   "gsea-bench",
	Short: "Benchmark and resource-management suite for the GSEA binary",
	Long: "gsea-bench drives a compression+encryption binary across every algorithm\n" +
		"combination and workload shape, watching its CPU, memory, file descriptors\n" +
		"and child processes while it runs, and reporting per-test performance records.",

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf, _ := cmd.Flags().GetString(flags.ConfigFlag.Full)
		confDir, _ := cmd.Flags().GetString(flags.ConfigDirFlag.Full)

		if confDir == "" {
			confDir = os.Getenv("GSEA_CONFIG_DIR")
		}

		if err := config.Init(config.InitArgs{
			Config:    conf,
			ConfigDir: confDir,
		}); err != nil {
			return fmt.Errorf("Failed to initialize config: %w", err)
		}

		logging.InitLogger(config.Global.LogLevel)

		return nil
	},
}

func Execute(ctx context.Context) error {
	ctx = log.With().Str("context", "cmd").Logger().WithContext(ctx)

	rootCmd.SilenceUsage = true // only show usage when true usage error

	return rootCmd.ExecuteContext(ctx)
}
