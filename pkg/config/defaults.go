package config

// Contains all config defaults

const (
	DEFAULT_LOG_LEVEL = "info"

	DEFAULT_SUBJECT_BINARY  = "./bin/gsea"
	DEFAULT_SUBJECT_KEY     = "benchmark_test_key_123"
	DEFAULT_SUBJECT_THREADS = 4

	DEFAULT_RESULTS_DIR = "benchmark_results"

	DEFAULT_TIMEOUT_SECONDS    = 300
	DEFAULT_SAMPLE_INTERVAL_MS = 100
	DEFAULT_PATTERN            = "text"
	DEFAULT_VALGRIND           = false
)
