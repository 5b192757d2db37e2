package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/fieldctl/internal/registry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fieldctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Namespaces)

	filter, err := cfg.NamespaceFilter()
	require.NoError(t, err)
	assert.Equal(t, registry.Namespaces, filter)
}

func TestLoadTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldctl.toml")
	require.NoError(t, WriteTemplate(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.15.0", cfg.FirmwareVersion)
	assert.Equal(t, []string{"command", "info", "feedback"}, cfg.Namespaces)

	err = WriteTemplate(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, WriteTemplate(path, true))
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `namespaces = [" Info ", ""]`+"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "toml", cfg.Format)
	assert.Equal(t, []string{"Info"}, cfg.Namespaces)

	filter, err := cfg.NamespaceFilter()
	require.NoError(t, err)
	assert.Equal(t, []registry.Namespace{registry.NamespaceInfo}, filter)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "format = \"yaml\"\nfirmware_version = \"0.14\"\n")
	t.Setenv("FIELDCTL_FORMAT", "JSON")
	t.Setenv("FIELDCTL_NAMESPACES", "feedback,command")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "0.14", cfg.FirmwareVersion)
	assert.Equal(t, []string{"feedback", "command"}, cfg.Namespaces)
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{name: "unknown key", body: "colour = \"red\"\n", errMsg: "unknown key"},
		{name: "bad format", body: "format = \"xml\"\n", errMsg: "invalid format"},
		{name: "bad namespace", body: "namespaces = [\"telemetry\"]\n", errMsg: "invalid namespaces"},
		{name: "bad level", body: "log_level = \"loud\"\n", errMsg: "invalid log_level"},
		{name: "malformed", body: "format = \n", errMsg: "config load failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config load failed")
}
