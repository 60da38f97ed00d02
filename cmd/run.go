package cmd

// This file contains the `run` command, which executes the full benchmark
// matrix and persists the results.

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gsea-project/gsea-bench/pkg/bench"
	"github.com/gsea-project/gsea-bench/pkg/config"
	"github.com/gsea-project/gsea-bench/pkg/flags"
	"github.com/gsea-project/gsea-bench/pkg/report"
	"github.com/gsea-project/gsea-bench/pkg/testdata"
	"github.com/gsea-project/gsea-bench/pkg/utils"
	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Predefined workload shape sets, matching the harness's historical
// quick/default/full tiers.
var (
	quickShapes = []bench.WorkloadShape{
		{NumFiles: 10, FileSize: 10 * utils.KIBIBYTE},
		{NumFiles: 50, FileSize: 50 * utils.KIBIBYTE},
	}
	defaultShapes = []bench.WorkloadShape{
		{NumFiles: 10, FileSize: 10 * utils.KIBIBYTE},
		{NumFiles: 50, FileSize: 50 * utils.KIBIBYTE},
		{NumFiles: 100, FileSize: 100 * utils.KIBIBYTE},
	}
	fullShapes = []bench.WorkloadShape{
		{NumFiles: 10, FileSize: 10 * utils.KIBIBYTE},
		{NumFiles: 50, FileSize: 50 * utils.KIBIBYTE},
		{NumFiles: 100, FileSize: 100 * utils.KIBIBYTE},
		{NumFiles: 500, FileSize: 100 * utils.KIBIBYTE},
		{NumFiles: 100, FileSize: 1 * utils.MEBIBYTE},
	}
)

func init() {
	runCmd.Flags().StringP(flags.BinaryFlag.Full, flags.BinaryFlag.Short, "", "path to the binary under test")
	runCmd.Flags().StringP(flags.OutputFlag.Full, flags.OutputFlag.Short, "", "output directory for results")
	runCmd.Flags().Bool(flags.QuickFlag.Full, false, "run quick test with minimal configurations")
	runCmd.Flags().Bool(flags.FullFlag.Full, false, "run full benchmark suite")
	runCmd.Flags().IntSlice(flags.FilesFlag.Full, nil, "file counts to test (e.g. 10,50,100)")
	runCmd.Flags().IntSlice(flags.SizesFlag.Full, nil, "file sizes in bytes (e.g. 1024,10240)")
	runCmd.Flags().String(flags.PatternFlag.Full, "", "data pattern for test files (random, text, repetitive)")
	runCmd.Flags().Bool(flags.ValgrindFlag.Full, false, "enable valgrind memory leak detection (slow)")
	runCmd.Flags().Int(flags.TimeoutFlag.Full, 0, "per-test timeout in seconds")
	runCmd.MarkFlagsMutuallyExclusive(flags.QuickFlag.Full, flags.FullFlag.Full)
	runCmd.MarkFlagsRequiredTogether(flags.FilesFlag.Full, flags.SizesFlag.Full)

	viper.BindPFlag("subject.binary", runCmd.Flags().Lookup(flags.BinaryFlag.Full))
	viper.BindPFlag("results.dir", runCmd.Flags().Lookup(flags.OutputFlag.Full))
	viper.BindPFlag("bench.pattern", runCmd.Flags().Lookup(flags.PatternFlag.Full))
	viper.BindPFlag("bench.valgrind", runCmd.Flags().Lookup(flags.ValgrindFlag.Full))
	viper.BindPFlag("bench.timeout_seconds", runCmd.Flags().Lookup(flags.TimeoutFlag.Full))
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark matrix against the subject binary",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		conf := config.Global

		pattern, err := testdata.ParsePattern(conf.Bench.Pattern)
		if err != nil {
			return err
		}

		shapes, err := selectShapes(cmd)
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		resultsDir := conf.Results.Dir
		logsDir := filepath.Join(resultsDir, "logs")
		for _, dir := range []string{resultsDir, filepath.Join(resultsDir, "csv"), logsDir} {
			if err := fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("could not create results directory: %w", err)
			}
		}

		orchestrator, err := bench.NewOrchestrator(bench.Options{
			Binary:         conf.Subject.Binary,
			Key:            conf.Subject.Key,
			Threads:        conf.Subject.Threads,
			Timeout:        time.Duration(conf.Bench.TimeoutSeconds) * time.Second,
			SampleInterval: time.Duration(conf.Bench.SampleIntervalMS) * time.Millisecond,
			Pattern:        pattern,
			Valgrind:       conf.Bench.Valgrind,
			LogsDir:        logsDir,
		}, fs)
		if err != nil {
			return err
		}

		log.Info().
			Str("binary", conf.Subject.Binary).
			Int("shapes", len(shapes)).
			Int("total_tests", orchestrator.TotalTests(shapes)).
			Bool("valgrind", conf.Bench.Valgrind).
			Msg("starting benchmark suite")

		started := time.Now()
		records, runErr := orchestrator.Run(ctx, shapes)

		// Partial result sets from an interrupted run are preserved, not
		// discarded.
		if len(records) > 0 {
			runID := xid.New().String()
			csvPath := filepath.Join(resultsDir, "csv", fmt.Sprintf("results_%s.csv", started.Format("20060102_150405")))
			if err := report.WriteCSV(fs, csvPath, records); err != nil {
				return err
			}
			log.Info().Str("path", csvPath).Int("records", len(records)).Msg("results saved")

			history := report.NewHistory(filepath.Join(resultsDir, "history.db"))
			if err := history.Record(runID, started, records); err != nil {
				log.Warn().Err(err).Msg("could not record run history")
			}

			report.PrintSummary(os.Stdout, records)
		}

		if runErr != nil {
			if errors.Is(runErr, ctx.Err()) {
				log.Warn().Msg("benchmark interrupted")
			}
			return runErr
		}

		return nil
	},
}

// selectShapes resolves the workload shape tier from flags: quick, full,
// an explicit files × sizes product, or the default tier.
func selectShapes(cmd *cobra.Command) ([]bench.WorkloadShape, error) {
	quick, _ := cmd.Flags().GetBool(flags.QuickFlag.Full)
	full, _ := cmd.Flags().GetBool(flags.FullFlag.Full)
	files, _ := cmd.Flags().GetIntSlice(flags.FilesFlag.Full)
	sizes, _ := cmd.Flags().GetIntSlice(flags.SizesFlag.Full)

	switch {
	case quick:
		return quickShapes, nil
	case full:
		return fullShapes, nil
	case len(files) > 0:
		var shapes []bench.WorkloadShape
		for _, n := range files {
			for _, s := range sizes {
				if n <= 0 || s <= 0 {
					return nil, fmt.Errorf("file counts and sizes must be positive, got %d files of %d bytes", n, s)
				}
				shapes = append(shapes, bench.WorkloadShape{NumFiles: n, FileSize: int64(s)})
			}
		}
		return shapes, nil
	default:
		return defaultShapes, nil
	}
}
