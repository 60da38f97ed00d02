package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/gsea-project/gsea-bench/pkg/utils"
	"github.com/spf13/viper"
)

const (
	DIR_NAME   = ".gsea-bench"
	FILE_NAME  = "config"
	FILE_TYPE  = "json"
	DIR_PERM   = 0o755
	FILE_PERM  = 0o644
	ENV_PREFIX = "GSEA"
)

// The default global config. This will get overwritten
// by the config file or env vars during startup, if they exist.
var Global Config = Config{
	LogLevel: DEFAULT_LOG_LEVEL,
	Subject: Subject{
		Binary:  DEFAULT_SUBJECT_BINARY,
		Key:     DEFAULT_SUBJECT_KEY,
		Threads: DEFAULT_SUBJECT_THREADS,
	},
	Results: Results{
		Dir: DEFAULT_RESULTS_DIR,
	},
	Bench: Bench{
		TimeoutSeconds:   DEFAULT_TIMEOUT_SECONDS,
		SampleIntervalMS: DEFAULT_SAMPLE_INTERVAL_MS,
		Pattern:          DEFAULT_PATTERN,
		Valgrind:         DEFAULT_VALGRIND,
	},
}

// The current config directory, set during Init
var Dir string

func init() {
	setDefaults()
	bindEnvVars()
	viper.Unmarshal(&Global)
}

type InitArgs struct {
	Config    string
	ConfigDir string
}

func Init(args InitArgs) error {
	if args.ConfigDir == "" {
		u, err := user.Current()
		if err != nil {
			return err
		}
		Dir = filepath.Join(u.HomeDir, DIR_NAME)
	} else {
		Dir = args.ConfigDir
	}

	viper.AddConfigPath(Dir)
	viper.SetConfigPermissions(FILE_PERM)
	viper.SetConfigType(FILE_TYPE)
	viper.SetConfigName(FILE_NAME)

	// Create config directory if it does not exist
	_, err := os.Stat(Dir)
	if os.IsNotExist(err) {
		err = os.MkdirAll(Dir, DIR_PERM)
		if err != nil {
			return err
		}
	}

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("Config file %s is either outdated or invalid. Please delete or update it: %w", viper.ConfigFileUsed(), err)
		}
	}

	if args.Config != "" {
		reader := strings.NewReader(args.Config)
		err = viper.MergeConfig(reader)
		if err != nil {
			return fmt.Errorf("Provided config string is invalid: %w", err)
		}
	} else {
		viper.SafeWriteConfig() // Will only overwrite if file does not exist, ignore other errors
	}

	err = viper.UnmarshalExact(&Global)
	if err != nil {
		return fmt.Errorf("Config file %s is either outdated or invalid. Please delete or update it: %w", viper.ConfigFileUsed(), err)
	}

	return nil
}

// Loads the global defaults into viper
func setDefaults() {
	for _, field := range utils.ListLeaves(Config{}) {
		tag := utils.GetTag(Config{}, field, FILE_TYPE)
		defaultVal := utils.GetValue(Global, field)
		viper.SetDefault(tag, defaultVal)
	}
	viper.SetTypeByDefaultValue(true)
}

// Add bindings for env vars so env vars can be used as backup
// when a value is not found in config. Goes through all the json keys
// in the config type and binds an env var for it. The env var
// is prefixed with the envVarPrefix, all uppercase.
//
// Example: The field `bench.valgrind` will bind to env var `GSEA_BENCH_VALGRIND`.
func bindEnvVars() {
	for _, field := range utils.ListLeaves(Config{}) {
		tag := utils.GetTag(Config{}, field, FILE_TYPE)
		envVar := ENV_PREFIX + "_" + strings.ToUpper(strings.ReplaceAll(tag, ".", "_"))

		// get env aliases from struct tag
		aliasesStr := utils.GetTag(Config{}, field, "env_aliases")
		aliases := []string{tag, envVar}
		aliases = append(aliases, strings.Split(aliasesStr, ",")...)

		viper.MustBindEnv(aliases...)
	}

	viper.AutomaticEnv()
}
