// Package paths resolves where larder keeps its configuration and its stored
// resources.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDir is the directory name used under every platform base directory.
const appDir = "larder"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LARDER_CONFIG_DIR"
	EnvDataDir   = "LARDER_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/larder (fallback ~/.config/larder)
// macOS:   ~/Library/Application Support/larder
// Windows: %APPDATA%/larder
func DefaultConfigDir() (string, error) {
	return platformBase("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
// On macOS and Windows it is the configuration directory.
//
// Linux:   $XDG_DATA_HOME/larder (fallback ~/.local/share/larder)
func DefaultDataDir() (string, error) {
	return platformBase("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformBase(xdgEnv, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDir), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, appDir), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > LARDER_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	return resolve(flag, os.Getenv(EnvConfigDir), "", DefaultConfigDir)
}

// ResolveDataDir returns the data directory:
// flag > LARDER_DATA_DIR > configValue (data_dir in config.yaml) > DefaultDataDir().
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(flag, os.Getenv(EnvDataDir), configValue, DefaultDataDir)
}

// resolve returns the absolute form of the first non-empty candidate, or
// the platform default.
func resolve(flag, env, config string, fallback func() (string, error)) (string, error) {
	for _, dir := range []string{flag, env, config} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return fallback()
}
