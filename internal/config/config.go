package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment override, e.g.
// PROMPTGEN_GENERATION_PACK=iovu.
const EnvPrefix = "PROMPTGEN"

// Manager loads configuration from defaults, an optional config file and
// the environment, in increasing order of precedence.
type Manager struct {
	v      *viper.Viper
	config *Config
}

// NewManager creates a new config manager and loads the config.
// If cfgFile is empty, config.yaml is searched for in the working directory
// and then in homeDir.
func NewManager(cfgFile, homeDir string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile, homeDir); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile, homeDir string) error {
	v := cm.v
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homeDir != "" {
			v.AddConfigPath(homeDir)
		} else {
			v.AddConfigPath("$HOME/.promptgen")
		}
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("generation.pack", d.Generation.Pack)
	v.SetDefault("generation.packs_dir", d.Generation.PacksDir)
	v.SetDefault("generation.seed_file", d.Generation.SeedFile)
	v.SetDefault("generation.seed", d.Generation.Seed)
	v.SetDefault("generation.max_attempts", d.Generation.MaxAttempts)
	v.SetDefault("generation.similarity_threshold", d.Generation.SimilarityThreshold)
	v.SetDefault("generation.polish", d.Generation.Polish)
	v.SetDefault("generation.plan", d.Generation.Plan)

	v.SetDefault("quality.weights.label", d.Quality.Weights.Label)
	v.SetDefault("quality.weights.length", d.Quality.Weights.Length)
	v.SetDefault("quality.weights.diversity", d.Quality.Weights.Diversity)
	v.SetDefault("quality.weights.coverage", d.Quality.Weights.Coverage)
	v.SetDefault("quality.weights.context", d.Quality.Weights.Context)
	v.SetDefault("quality.weights.link", d.Quality.Weights.Link)
	v.SetDefault("quality.min_words", d.Quality.MinWords)
	v.SetDefault("quality.max_words", d.Quality.MaxWords)
	v.SetDefault("quality.min_unique_words", d.Quality.MinUniqueWords)
	v.SetDefault("quality.coverage_saturation", d.Quality.CoverageSaturation)
	v.SetDefault("quality.threshold", d.Quality.Threshold)

	v.SetDefault("output.dir", d.Output.Dir)
	v.SetDefault("output.prefix", d.Output.Prefix)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.batch_size", d.Output.BatchSize)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)

	v.SetDefault("log.level", d.Log.Level)
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the loaded configuration.
func (cm *Manager) Get() *Config {
	return cm.config
}

// ConfigFile returns the config file in use, or "" when running on
// defaults and environment only.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# promptgen configuration
# Every key can be overridden from the environment, e.g.
#   export PROMPTGEN_GENERATION_PACK=iovu PROMPTGEN_LOG_LEVEL=debug
# quality.weights must sum to 1.0.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
