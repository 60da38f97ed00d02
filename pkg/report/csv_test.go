package report

import (
	"encoding/csv"
	"testing"

	"github.com/gsea-project/gsea-bench/pkg/bench"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []bench.RunRecord {
	return []bench.RunRecord{
		{
			Compression:      bench.LZ77,
			Encryption:       bench.AES128,
			NumFiles:         10,
			FileSize:         10240,
			CPUPercent:       42.5,
			MemoryMB:         12.25,
			TimeSeconds:      1.5,
			ExitCode:         0,
			OriginalSizeMB:   0.09765625,
			CompressedSizeMB: 0.048828125,
			CompressionRatio: 50,
			ThroughputMBPS:   0.06510416666666667,
		},
		{
			Compression:     bench.RLE,
			Encryption:      bench.RC4,
			NumFiles:        1,
			FileSize:        256,
			ExitCode:        bench.ExitTimedOut,
			ZombiesDetected: true,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/results/csv/results_test.csv"

	require.NoError(t, WriteCSV(fs, path, sampleRecords()))

	file, err := fs.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per record")

	assert.Equal(t, Columns, rows[0])

	assert.Equal(t, "lz77", rows[1][0])
	assert.Equal(t, "aes128", rows[1][1])
	assert.Equal(t, "10", rows[1][2])
	assert.Equal(t, "50", rows[1][12])

	assert.Equal(t, "rle", rows[2][0])
	assert.Equal(t, "-1", rows[2][9], "timeout sentinel exit code")
	assert.Equal(t, "true", rows[2][8], "zombies column")
}

func TestWriteCSVEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/results/empty.csv"

	require.NoError(t, WriteCSV(fs, path, nil))

	file, err := fs.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
	assert.Equal(t, Columns, rows[0])
}
