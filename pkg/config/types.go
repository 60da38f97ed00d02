package config

type (
	// Harness configuration. Each of the below fields can also be set
	// through an environment variable with the same name, prefixed, and in
	// uppercase. E.g. `Subject.Binary` can be set with `GSEA_SUBJECT_BINARY`.
	Config struct {
		// LogLevel is the default log level used by the harness
		LogLevel string `json:"log_level" mapstructure:"log_level" yaml:"log_level"`

		// Subject binary settings
		Subject Subject `json:"subject" mapstructure:"subject" yaml:"subject"`
		// Result output settings
		Results Results `json:"results" mapstructure:"results" yaml:"results"`
		// Benchmark run settings
		Bench Bench `json:"bench" mapstructure:"bench" yaml:"bench"`
	}

	Subject struct {
		// Binary is the path to the binary under test
		Binary string `json:"binary" mapstructure:"binary" yaml:"binary" env_aliases:"GSEA_BINARY"`
		// Key is the shared secret passed to the binary for encryption
		Key string `json:"key" mapstructure:"key" yaml:"key"`
		// Threads is the thread-count hint passed to the binary
		Threads int `json:"threads" mapstructure:"threads" yaml:"threads"`
	}

	Results struct {
		// Dir is the root directory for CSV output, valgrind logs and run history
		Dir string `json:"dir" mapstructure:"dir" yaml:"dir" env_aliases:"GSEA_RESULTS_DIR"`
	}

	Bench struct {
		// TimeoutSeconds is the per-test ceiling before the subject is force-killed
		TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		// SampleIntervalMS is the resource sampling cadence while a test runs
		SampleIntervalMS int `json:"sample_interval_ms" mapstructure:"sample_interval_ms" yaml:"sample_interval_ms"`
		// Pattern selects the synthetic input data shape (random, text, repetitive)
		Pattern string `json:"pattern" mapstructure:"pattern" yaml:"pattern"`
		// Valgrind sets whether to run the independent leak check per test
		Valgrind bool `json:"valgrind" mapstructure:"valgrind" yaml:"valgrind"`
	}
)
