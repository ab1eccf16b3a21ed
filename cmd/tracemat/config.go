// Config loading for the tracemat CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/mapper"
	"github.com/radhika-Qq/healthcare-ai-testcase-generator/pkg/trace"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyDataDir      = "data_dir"
	cfgKeyThreshold    = "acceptance_threshold"
	cfgKeyContextBoost = "context_boost"
	cfgKeyWorkers      = "workers"
	cfgKeyLogLevel     = "log_level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Tracemat CLI configuration

# Data directory for the audit database (optional; overridable by --data-dir)
# data_dir:

# Mapping acceptance threshold: mappings below it are kept for audit but
# excluded from coverage.
acceptance_threshold: 0.5

# Confidence boost for compliance- and security-typed requirements.
context_boost: 0.1

# Per-requirement fan-out width for matrix builds (0 = sequential).
workers: 0

# Log level: debug, info, warn, error.
log_level: info
`

// config is the effective CLI configuration after defaults and config.yaml.
type config struct {
	dataDir      string
	threshold    float64
	contextBoost float64
	workers      int
	logLevel     string
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyThreshold, trace.DefaultThreshold)
	v.SetDefault(cfgKeyContextBoost, mapper.DefaultContextBoost)
	v.SetDefault(cfgKeyWorkers, 0)
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return config{
		dataDir:      v.GetString(cfgKeyDataDir),
		threshold:    v.GetFloat64(cfgKeyThreshold),
		contextBoost: v.GetFloat64(cfgKeyContextBoost),
		workers:      v.GetInt(cfgKeyWorkers),
		logLevel:     v.GetString(cfgKeyLogLevel),
	}, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
