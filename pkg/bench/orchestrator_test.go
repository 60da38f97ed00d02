package bench

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gsea-project/gsea-bench/pkg/testdata"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSubject writes a shell script standing in for the binary under test.
func writeSubject(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "subject.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

// halfSizeSubject parses the -i/-o arguments and writes a single output
// file of exactly half the total input bytes.
const halfSizeSubject = `
in=""
out=""
while [ "$#" -gt 0 ]; do
	case "$1" in
		-i) in="$2"; shift ;;
		-o) out="$2"; shift ;;
	esac
	shift
done
mkdir -p "$out"
total=0
for f in "$in"/*; do
	sz=$(wc -c < "$f")
	total=$((total + sz))
done
head -c $((total / 2)) /dev/zero > "$out/archive.bin"
exit 0
`

func testOptions(t *testing.T, binary string) Options {
	t.Helper()
	return Options{
		Binary:         binary,
		Key:            "test_key",
		Threads:        2,
		Timeout:        30 * time.Second,
		SampleInterval: 10 * time.Millisecond,
		Pattern:        testdata.Repetitive,
		ScratchRoot:    t.TempDir(),
	}
}

func TestNewOrchestratorMissingBinary(t *testing.T) {
	_, err := NewOrchestrator(Options{Binary: "/nonexistent/subject"}, afero.NewOsFs())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject binary not found")
}

func TestRunProducesOneRecordPerCase(t *testing.T) {
	binary := writeSubject(t, "exit 0\n")
	opts := testOptions(t, binary)
	opts.Compression = []CompressionAlgorithm{LZ77, Huffman}
	opts.Encryption = []EncryptionAlgorithm{AES128, RC4}

	o, err := NewOrchestrator(opts, afero.NewOsFs())
	require.NoError(t, err)

	shapes := []WorkloadShape{{NumFiles: 2, FileSize: 1024}, {NumFiles: 3, FileSize: 512}}
	assert.Equal(t, 8, o.TotalTests(shapes))

	records, err := o.Run(context.Background(), shapes)
	require.NoError(t, err)
	require.Len(t, records, 8)

	for _, r := range records {
		assert.Equal(t, 0, r.ExitCode)
		assert.False(t, r.LeaksDetected)
		assert.False(t, r.ZombiesDetected)
		assert.Greater(t, r.TimeSeconds, 0.0)
	}
}

func TestRunEndToEndHalfSizeSubject(t *testing.T) {
	binary := writeSubject(t, halfSizeSubject)
	opts := testOptions(t, binary)
	opts.Compression = []CompressionAlgorithm{LZ77}
	opts.Encryption = []EncryptionAlgorithm{AES128}

	o, err := NewOrchestrator(opts, afero.NewOsFs())
	require.NoError(t, err)

	records, err := o.Run(context.Background(), []WorkloadShape{{NumFiles: 10, FileSize: 10240}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, 0, r.ExitCode)
	assert.False(t, r.LeaksDetected)
	assert.False(t, r.ZombiesDetected)
	assert.InDelta(t, 102400.0/1048576, r.OriginalSizeMB, 1e-9)
	assert.InDelta(t, 0.0488, r.CompressedSizeMB, 1e-4)
	assert.InDelta(t, 50.0, r.CompressionRatio, 1e-9)
	assert.Greater(t, r.ThroughputMBPS, 0.0)
}

func TestCrashDoesNotAbortMatrix(t *testing.T) {
	binary := writeSubject(t, "exit 3\n")
	opts := testOptions(t, binary)
	opts.Compression = []CompressionAlgorithm{RLE, LZW}
	opts.Encryption = []EncryptionAlgorithm{Salsa20}

	o, err := NewOrchestrator(opts, afero.NewOsFs())
	require.NoError(t, err)

	records, err := o.Run(context.Background(), []WorkloadShape{{NumFiles: 1, FileSize: 256}})
	require.NoError(t, err)
	require.Len(t, records, 2)

	for _, r := range records {
		assert.Equal(t, 3, r.ExitCode)
		// a crashed subject produced no output, which is data, not an error
		assert.Equal(t, 0.0, r.CompressedSizeMB)
		assert.InDelta(t, 100.0, r.CompressionRatio, 1e-9)
	}
}

func TestTimeoutKillsSubject(t *testing.T) {
	binary := writeSubject(t, "exec sleep 30\n")
	opts := testOptions(t, binary)
	opts.Timeout = 300 * time.Millisecond
	opts.Compression = []CompressionAlgorithm{LZ77}
	opts.Encryption = []EncryptionAlgorithm{AES128}

	o, err := NewOrchestrator(opts, afero.NewOsFs())
	require.NoError(t, err)

	start := time.Now()
	records, err := o.Run(context.Background(), []WorkloadShape{{NumFiles: 1, FileSize: 256}})
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, ExitTimedOut, records[0].ExitCode)
	assert.Less(t, time.Since(start), 10*time.Second, "a hung subject must not block the suite")
}

func TestScratchCleanup(t *testing.T) {
	scratchRoot := t.TempDir()

	run := func(script string) {
		binary := writeSubject(t, script)
		opts := testOptions(t, binary)
		opts.ScratchRoot = scratchRoot
		opts.Compression = []CompressionAlgorithm{LZ77}
		opts.Encryption = []EncryptionAlgorithm{AES128}

		o, err := NewOrchestrator(opts, afero.NewOsFs())
		require.NoError(t, err)

		_, err = o.Run(context.Background(), []WorkloadShape{{NumFiles: 2, FileSize: 128}})
		require.NoError(t, err)
	}

	run("exit 0\n") // success
	run("exit 1\n") // crash

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch areas must be removed unconditionally")
}

func TestInterruptHaltsTraversalAndCleansUp(t *testing.T) {
	scratchRoot := t.TempDir()
	binary := writeSubject(t, "exec sleep 30\n")
	opts := testOptions(t, binary)
	opts.ScratchRoot = scratchRoot

	o, err := NewOrchestrator(opts, afero.NewOsFs())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err = o.Run(ctx, []WorkloadShape{{NumFiles: 1, FileSize: 128}, {NumFiles: 2, FileSize: 128}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 10*time.Second)

	entries, err := os.ReadDir(scratchRoot)
	require.NoError(t, err)
	assert.Empty(t, entries, "in-flight scratch area must still be torn down on interrupt")
}
