package bench

// The orchestrator drives the full test matrix: for each workload shape it
// creates an isolated scratch area, generates input once, then runs every
// compression × encryption pair against it, sampling the subject's resource
// use until it exits or times out. Runs are strictly sequential so resource
// measurements stay attributable to exactly one subject process.

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gsea-project/gsea-bench/pkg/leak"
	"github.com/gsea-project/gsea-bench/pkg/monitor"
	"github.com/gsea-project/gsea-bench/pkg/testdata"
	"github.com/gsea-project/gsea-bench/pkg/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Options struct {
	// Binary is the path to the subject executable. Must exist at startup.
	Binary string
	// Key is the shared secret passed to the subject.
	Key string
	// Threads is the thread-count hint passed to the subject.
	Threads int
	// Timeout is the per-test ceiling before force-kill.
	Timeout time.Duration
	// SampleInterval is the resource sampling cadence.
	SampleInterval time.Duration
	// Pattern shapes the generated input data.
	Pattern testdata.Pattern
	// Valgrind enables the independent leak check per test.
	Valgrind bool
	// LogsDir receives valgrind diagnostic logs when Valgrind is set.
	LogsDir string
	// ScratchRoot is the base for per-shape scratch areas. Empty means the
	// system temp directory.
	ScratchRoot string
	// Compression and Encryption restrict the matrix. Empty means all
	// known algorithms.
	Compression []CompressionAlgorithm
	Encryption  []EncryptionAlgorithm
}

type Orchestrator struct {
	opts     Options
	fs       afero.Fs
	analyzer *leak.Analyzer
}

// NewOrchestrator validates the options and probes leak-check availability
// once. A missing subject binary is fatal here, before any test runs.
func NewOrchestrator(opts Options, fs afero.Fs) (*Orchestrator, error) {
	if _, err := fs.Stat(opts.Binary); err != nil {
		return nil, fmt.Errorf("subject binary not found: %s: %w", opts.Binary, err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 300 * time.Second
	}
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = 100 * time.Millisecond
	}
	if len(opts.Compression) == 0 {
		opts.Compression = CompressionAlgorithms()
	}
	if len(opts.Encryption) == 0 {
		opts.Encryption = EncryptionAlgorithms()
	}

	o := &Orchestrator{opts: opts, fs: fs}
	if opts.Valgrind {
		o.analyzer = leak.NewAnalyzer()
		if !o.analyzer.Available() {
			log.Warn().Msg("valgrind not found, leak detection will be skipped")
		}
	}
	return o, nil
}

// TotalTests returns the matrix size for the given shapes.
func (o *Orchestrator) TotalTests(shapes []WorkloadShape) int {
	return len(o.opts.Compression) * len(o.opts.Encryption) * len(shapes)
}

// Run executes every algorithm pair against every workload shape and
// returns one RunRecord per test case, in traversal order. An individual
// test's failure never aborts the matrix; it is captured in that test's
// record. On interrupt the in-flight scratch area is still torn down and
// the records produced so far are returned alongside the context error.
func (o *Orchestrator) Run(ctx context.Context, shapes []WorkloadShape) ([]RunRecord, error) {
	records := make([]RunRecord, 0, o.TotalTests(shapes))

	for _, shape := range shapes {
		shapeRecords, err := o.runShape(ctx, shape)
		records = append(records, shapeRecords...)
		if err != nil {
			return records, err
		}
	}

	return records, nil
}

// runShape creates the scratch area for one workload shape, generates its
// input once, and runs every algorithm pair against it. The scratch area
// is removed unconditionally, whatever the outcome of individual runs.
func (o *Orchestrator) runShape(ctx context.Context, shape WorkloadShape) ([]RunRecord, error) {
	scratch, err := afero.TempDir(o.fs, o.opts.ScratchRoot, "gsea-bench-")
	if err != nil {
		return nil, fmt.Errorf("could not create scratch area: %w", err)
	}
	defer o.fs.RemoveAll(scratch)

	inputDir := filepath.Join(scratch, "input")
	err = testdata.WriteFiles(o.fs, inputDir, shape.NumFiles, shape.FileSize, o.opts.Pattern)
	if err != nil {
		return nil, fmt.Errorf("could not generate input files: %w", err)
	}

	var records []RunRecord
	for _, comp := range o.opts.Compression {
		for _, enc := range o.opts.Encryption {
			if err := ctx.Err(); err != nil {
				return records, err
			}

			tc := TestCase{
				Compression: comp,
				Encryption:  enc,
				NumFiles:    shape.NumFiles,
				FileSize:    shape.FileSize,
			}
			outputDir := filepath.Join(scratch, fmt.Sprintf("output_%s_%s", comp, enc))
			if err := o.fs.MkdirAll(outputDir, 0o755); err != nil {
				return records, fmt.Errorf("could not create output directory: %w", err)
			}

			log.Info().
				Str("compression", string(comp)).
				Str("encryption", string(enc)).
				Int("files", shape.NumFiles).
				Int64("size", shape.FileSize).
				Msg("running test case")

			record, err := o.runCase(ctx, tc, inputDir, outputDir)
			if err != nil {
				return records, err
			}
			records = append(records, record)
		}
	}

	return records, nil
}

// runCase executes one test case through its full lifecycle: leak check
// (optional), spawn, sample until exit or timeout, then derive metrics.
// The only error it returns is context cancellation; everything that goes
// wrong with the subject itself is recorded as data.
func (o *Orchestrator) runCase(ctx context.Context, tc TestCase, inputDir, outputDir string) (RunRecord, error) {
	args := o.subjectArgs(tc, inputDir, outputDir)
	originalSize := tc.OriginalSize()

	var leaked bool
	if o.opts.Valgrind {
		leaked = o.leakCheck(ctx, tc, args)
	}

	start := time.Now()
	series := &SampleSeries{}
	exitCode := 0
	zombies := false

	h, err := startSubject(o.opts.Binary, args, nil)
	if err != nil {
		// Treated like a crash: recorded, traversal continues. 127 follows
		// the shell convention for a command that could not be executed.
		log.Error().Err(err).Msg("failed to start subject process")
		exitCode = 127
	} else {
		sampler := monitor.NewSampler(h.pid())
		exitCode, zombies, err = o.observe(ctx, h, sampler, series, start)
		if err != nil {
			return RunRecord{}, err
		}
	}

	elapsed := time.Since(start)
	compressedSize := o.dirSize(outputDir)

	return RunRecord{
		Compression:      tc.Compression,
		Encryption:       tc.Encryption,
		NumFiles:         tc.NumFiles,
		FileSize:         tc.FileSize,
		CPUPercent:       series.AvgCPU(),
		MemoryMB:         series.AvgMemoryMB(),
		TimeSeconds:      elapsed.Seconds(),
		LeaksDetected:    leaked,
		ZombiesDetected:  zombies,
		ExitCode:         exitCode,
		OriginalSizeMB:   float64(originalSize) / utils.MEBIBYTE,
		CompressedSizeMB: float64(compressedSize) / utils.MEBIBYTE,
		CompressionRatio: CompressionRatio(originalSize, compressedSize),
		ThroughputMBPS:   Throughput(originalSize, elapsed),
	}, nil
}

// observe is the sampling loop: the only polling construct in the harness.
// Suspension is a true sleep between samples so the subject is not starved
// of scheduling time while being measured. The zombie check always happens
// after the subject has stopped running or been killed.
func (o *Orchestrator) observe(ctx context.Context, h *handle, sampler *monitor.Sampler, series *SampleSeries, start time.Time) (exitCode int, zombies bool, err error) {
	interval := o.opts.SampleInterval
	deadline := start.Add(o.opts.Timeout)

	for {
		select {
		case code := <-h.exited:
			// COMPLETED (or CRASHED when nonzero): check any lingering
			// descendants once.
			return code, sampler.HasZombieDescendant(), nil

		case <-ctx.Done():
			// Interrupted: abandon the run, but never leave the subject
			// behind.
			h.kill()
			h.reap()
			return 0, false, ctx.Err()

		case <-time.After(interval):
			if time.Now().After(deadline) {
				// TIMED_OUT: force-terminate the process group, record the
				// sentinel, keep whatever samples were collected.
				log.Warn().
					Dur("timeout", o.opts.Timeout).
					Int32("pid", h.pid()).
					Int("open_fds", sampler.OpenFileCount()).
					Msg("subject exceeded timeout, killing process group")
				zombies = sampler.HasZombieDescendant()
				h.kill()
				h.reap()
				return ExitTimedOut, zombies, nil
			}
			series.Append(sampler.CPUPercent(interval), sampler.MemoryBytes())
		}
	}
}

// leakCheck runs the subject once under valgrind, independent of the timed
// run, and writes the diagnostic output to the logs directory.
func (o *Orchestrator) leakCheck(ctx context.Context, tc TestCase, args []string) bool {
	leaked, diagnostic := o.analyzer.CheckForLeaks(ctx, o.opts.Binary, args, o.opts.Timeout)

	if o.opts.LogsDir != "" {
		name := filepath.Join(o.opts.LogsDir, fmt.Sprintf("valgrind_%s_%s.log", tc.Compression, tc.Encryption))
		if err := afero.WriteFile(o.fs, name, []byte(diagnostic), 0o644); err != nil {
			log.Warn().Err(err).Str("path", name).Msg("could not write valgrind log")
		}
	}

	return leaked
}

// subjectArgs builds the invocation per the subject's CLI contract.
func (o *Orchestrator) subjectArgs(tc TestCase, inputDir, outputDir string) []string {
	return []string{
		"-ce", // compress and encrypt
		"--comp-alg", string(tc.Compression),
		"--enc-alg", string(tc.Encryption),
		"-i", inputDir,
		"-o", outputDir,
		"-k", o.opts.Key,
		"-t", strconv.Itoa(o.opts.Threads),
	}
}

// dirSize sums the byte sizes of all regular files under dir, recursively.
// An absent or empty directory is 0, not an error: a crashed subject may
// have produced no output at all.
func (o *Orchestrator) dirSize(dir string) int64 {
	var total int64
	afero.Walk(o.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total
}
