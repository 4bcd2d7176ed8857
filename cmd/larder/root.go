package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/internal/paths"
	"github.com/mesh-intelligence/larder/internal/store"
	"github.com/mesh-intelligence/larder/pkg/convert"
	"github.com/mesh-intelligence/larder/pkg/larder"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagJSON      bool
	flagVerbose   bool
)

// Values loaded from config.yaml by PersistentPreRunE.
var (
	configDataDir string
	configBackend string
)

var rootCmd = &cobra.Command{
	Use:     "larder",
	Short:   "Larder stores and converts robot planning resources",
	Version: larder.Version,
	// Errors are printed once by main.
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}
		configDataDir = cfg.GetString(cfgKeyDataDir)
		configBackend = cfg.GetString(cfgKeyBackend)

		log, err := newLogger(flagVerbose, cfg.GetString(cfgKeyLogLevel))
		if err != nil {
			return fmt.Errorf("%w: log_level: %v", errUsage, err)
		}
		library.SetLogger(log.Named("library"))
		store.SetLogger(log.Named("store"))
		convert.SetLogger(log.Named("convert"))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug output to stderr")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(castCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(unpackCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(deleteCmd)
}

// newLogger builds a development logger when verbose, otherwise a
// production logger at level (default warn).
func newLogger(verbose bool, level string) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	if level == "" {
		level = defaultLogLevel
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg.Level = lvl
	return cfg.Build()
}

// resolveDataDir returns the data directory:
// --data-dir > LARDER_DATA_DIR > config.yaml data_dir > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}

// resolveConfigDir returns the configuration directory:
// --config-dir > LARDER_CONFIG_DIR > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}
