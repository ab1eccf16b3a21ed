// Root command for the tracemat CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/radhika-Qq/healthcare-ai-testcase-generator/internal/paths"
)

// Version is the CLI version string.
const Version = "0.3.0"

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagLogLevel  string
)

// cfg holds the configuration loaded by PersistentPreRunE so all
// subcommands can use it.
var cfg config

// logger is the process-wide structured logger, configured in
// PersistentPreRunE from the effective log level.
var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:     "tracemat",
	Short:   "Tracemat maps requirements and test cases to compliance clauses",
	Version: Version,
	Long: `Tracemat builds traceability matrices for regulated software projects:
it maps requirements to compliance clauses, validates test cases against
those clauses, and derives coverage and gap views over the result.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		loaded, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		cfg = loaded

		level := cfg.logLevel
		if flagLogLevel != "" {
			level = flagLogLevel
		}
		logger = newLogger(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $(CWD)/.tracemat-db)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(standardsCmd)
	rootCmd.AddCommand(runsCmd)
}

// resolveDataDir follows the precedence chain:
// --data-dir flag > config.yaml data_dir > TRACEMAT_DATA_DIR env > default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, cfg.dataDir)
}

// resolveConfigDir follows the precedence chain:
// --config-dir flag > TRACEMAT_CONFIG_DIR env > DefaultConfigDir().
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// newLogger builds the process logger writing to stderr, leaving stdout for
// command output.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
