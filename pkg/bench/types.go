package bench

import (
	"time"

	"github.com/gsea-project/gsea-bench/pkg/utils"
)

type (
	CompressionAlgorithm string
	EncryptionAlgorithm  string
)

const (
	LZ77    CompressionAlgorithm = "lz77"
	Huffman CompressionAlgorithm = "huffman"
	RLE     CompressionAlgorithm = "rle"
	LZW     CompressionAlgorithm = "lzw"

	AES128   EncryptionAlgorithm = "aes128"
	ChaCha20 EncryptionAlgorithm = "chacha20"
	Salsa20  EncryptionAlgorithm = "salsa20"
	RC4      EncryptionAlgorithm = "rc4"
)

// ExitTimedOut is the sentinel exit code recorded when the subject process
// exceeded the configured ceiling and was force-killed. Not to be confused
// with a genuine exit code from the subject.
const ExitTimedOut = -1

func CompressionAlgorithms() []CompressionAlgorithm {
	return []CompressionAlgorithm{LZ77, Huffman, RLE, LZW}
}

func EncryptionAlgorithms() []EncryptionAlgorithm {
	return []EncryptionAlgorithm{AES128, ChaCha20, Salsa20, RC4}
}

// WorkloadShape defines the synthetic input volume for a group of tests:
// NumFiles input files of FileSize bytes each, generated once and shared by
// every algorithm pair.
type WorkloadShape struct {
	NumFiles int
	FileSize int64
}

// TestCase identifies one point in the benchmark matrix. Immutable once
// constructed.
type TestCase struct {
	Compression CompressionAlgorithm
	Encryption  EncryptionAlgorithm
	NumFiles    int
	FileSize    int64
}

// OriginalSize is the total input volume in bytes.
func (tc TestCase) OriginalSize() int64 {
	return int64(tc.NumFiles) * tc.FileSize
}

// RunRecord is the complete outcome of executing one TestCase. Created
// exactly once per case after the subject terminates; never mutated
// afterwards.
type RunRecord struct {
	Compression      CompressionAlgorithm `json:"compression_algorithm"`
	Encryption       EncryptionAlgorithm  `json:"encryption_algorithm"`
	NumFiles         int                  `json:"num_files"`
	FileSize         int64                `json:"file_size"`
	CPUPercent       float64              `json:"cpu_percent"`
	MemoryMB         float64              `json:"memory_mb"`
	TimeSeconds      float64              `json:"time_seconds"`
	LeaksDetected    bool                 `json:"leaks_detected"`
	ZombiesDetected  bool                 `json:"zombies_detected"`
	ExitCode         int                  `json:"exit_code"`
	OriginalSizeMB   float64              `json:"original_size_mb"`
	CompressedSizeMB float64              `json:"compressed_size_mb"`
	CompressionRatio float64              `json:"compression_ratio"`
	ThroughputMBPS   float64              `json:"throughput_mbps"`
}

// SampleSeries is the ordered sequence of (cpu%, memory) samples collected
// during one run. Consumed immediately after the run to produce the
// averaged fields of the RunRecord.
type SampleSeries struct {
	cpu []float64
	mem []uint64
}

func (s *SampleSeries) Append(cpuPercent float64, memoryBytes uint64) {
	s.cpu = append(s.cpu, cpuPercent)
	s.mem = append(s.mem, memoryBytes)
}

func (s *SampleSeries) Len() int {
	return len(s.cpu)
}

// AvgCPU is the arithmetic mean of the CPU samples. Samples are taken at a
// fixed cadence, so this is an approximation of the true time average.
func (s *SampleSeries) AvgCPU() float64 {
	if len(s.cpu) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.cpu {
		sum += v
	}
	return sum / float64(len(s.cpu))
}

// AvgMemoryMB is the arithmetic mean of the resident memory samples, in
// mebibytes.
func (s *SampleSeries) AvgMemoryMB() float64 {
	if len(s.mem) == 0 {
		return 0
	}
	var sum float64
	for _, v := range s.mem {
		sum += float64(v)
	}
	return sum / float64(len(s.mem)) / utils.MEBIBYTE
}

// CompressionRatio is (1 - compressed/original) × 100, or 0 when the
// original size is zero. Negative values (output larger than input) are
// reported as-is, never clamped.
func CompressionRatio(originalBytes, compressedBytes int64) float64 {
	if originalBytes <= 0 {
		return 0
	}
	return (1 - float64(compressedBytes)/float64(originalBytes)) * 100
}

// Throughput is original_size_MB / elapsed_seconds, or 0 (not infinite)
// when the elapsed time is measured as zero.
func Throughput(originalBytes int64, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(originalBytes) / utils.MEBIBYTE / seconds
}
