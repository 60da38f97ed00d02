package report

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gsea-project/gsea-bench/pkg/bench"
	"github.com/spf13/afero"
)

// Columns is the persisted record schema, in fixed order, written as the
// header row of every results file.
var Columns = []string{
	"compression_algorithm",
	"encryption_algorithm",
	"num_files",
	"file_size",
	"cpu_percent",
	"memory_mb",
	"time_seconds",
	"leaks_detected",
	"zombies_detected",
	"exit_code",
	"original_size_mb",
	"compressed_size_mb",
	"compression_ratio",
	"throughput_mbps",
}

// WriteCSV persists one row per record under path, creating parent
// directories as needed.
func WriteCSV(fs afero.Fs, path string, records []bench.RunRecord) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create results directory: %w", err)
	}

	file, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("could not create results file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := w.Write(row(r)); err != nil {
			return err
		}
	}
	w.Flush()

	return w.Error()
}

func row(r bench.RunRecord) []string {
	return []string{
		string(r.Compression),
		string(r.Encryption),
		strconv.Itoa(r.NumFiles),
		strconv.FormatInt(r.FileSize, 10),
		formatFloat(r.CPUPercent),
		formatFloat(r.MemoryMB),
		formatFloat(r.TimeSeconds),
		strconv.FormatBool(r.LeaksDetected),
		strconv.FormatBool(r.ZombiesDetected),
		strconv.Itoa(r.ExitCode),
		formatFloat(r.OriginalSizeMB),
		formatFloat(r.CompressedSizeMB),
		formatFloat(r.CompressionRatio),
		formatFloat(r.ThroughputMBPS),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
