package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"malformed", fmt.Errorf("walk.path: %w", types.ErrMalformed), exitUserError},
		{"pack mismatch", &types.PackError{Target: "Configs", Expected: "one or more Config"}, exitUserError},
		{"not found", fmt.Errorf("%w: Config q", types.ErrNotFound), exitUserError},
		{"usage", fmt.Errorf("%w: bad ref", errUsage), exitUserError},
		{"io", errors.New("disk on fire"), exitSysError},
		{"permission", os.ErrPermission, exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref      string
		tag      string
		name     string
		wantFail bool
	}{
		{ref: "Config:home", tag: "Config", name: "home"},
		{ref: "Vector:walk.times", tag: "Vector", name: "walk.times"},
		{ref: "Config:a:b", tag: "Config", name: "a:b"},
		{ref: "Config", wantFail: true},
		{ref: ":home", wantFail: true},
		{ref: "Config:", wantFail: true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			tag, name, err := parseRef(tt.ref)
			if tt.wantFail {
				assert.ErrorIs(t, err, errUsage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.tag, tag)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestLoadConfigWritesDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, defaultBackend, v.GetString(cfgKeyBackend))
	assert.Equal(t, defaultLogLevel, v.GetString(cfgKeyLogLevel))
	assert.Empty(t, v.GetString(cfgKeyDataDir))
	assert.FileExists(t, filepath.Join(dir, configFileExt))
}

func TestLoadConfigReadsExisting(t *testing.T) {
	dir := t.TempDir()
	body := "backend: sqlite\ndata_dir: /srv/larder\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(body), 0o644))

	v, err := loadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/larder", v.GetString(cfgKeyDataDir))
	assert.Equal(t, "debug", v.GetString(cfgKeyLogLevel))
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"", "debug", "warn", "error"} {
		log, err := newLogger(false, level)
		require.NoError(t, err, level)
		assert.NotNil(t, log)
	}
	_, err := newLogger(false, "chatty")
	assert.Error(t, err)

	log, err := newLogger(true, "chatty")
	require.NoError(t, err, "verbose ignores the configured level")
	assert.NotNil(t, log)
}

// runCLI executes the root command against throwaway config and data
// directories and returns its standard output.
func runCLI(t *testing.T, configDir, dataDir string, args ...string) (string, error) {
	t.Helper()
	flagJSON, flagSave, flagVerbose = false, false, false
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--config-dir", configDir, "--data-dir", dataDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportListConvert(t *testing.T) {
	configDir, dataDir := t.TempDir(), t.TempDir()
	src := t.TempDir()
	pathFile := filepath.Join(src, "walk.path")
	require.NoError(t, os.WriteFile(pathFile, []byte("0 2 0 0\n1 2 1 1\n2 2 2 2\n"), 0o644))

	out, err := runCLI(t, configDir, dataDir, "import", pathFile)
	require.NoError(t, err)
	assert.Contains(t, out, "saved LinearPath walk")
	assert.Contains(t, out, "imported 1 resources")

	out, err = runCLI(t, configDir, dataDir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "LinearPath")
	assert.Contains(t, out, "walk")

	out, err = runCLI(t, configDir, dataDir, "unpack", "LinearPath", "walk")
	require.NoError(t, err)
	assert.Contains(t, out, "status: success")
	assert.Contains(t, out, "# Vector walk.times")
	assert.Contains(t, out, "# Config walk[2]")

	out, err = runCLI(t, configDir, dataDir, "cast", "LinearPath", "walk", "Configs")
	require.NoError(t, err)
	assert.Contains(t, out, "# Configs walk")

	_, err = runCLI(t, configDir, dataDir, "cast", "LinearPath", "walk", "World")
	assert.ErrorIs(t, err, types.ErrUnsupportedType)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = runCLI(t, configDir, dataDir, "show", "LinearPath", "nowhere")
	assert.ErrorIs(t, err, types.ErrNotFound)
}
