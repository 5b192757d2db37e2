package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danmuck/fieldctl/internal/registry"
	"github.com/danmuck/fieldctl/internal/testutil/testlog"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	testlog.Start(t)
	var buf bytes.Buffer
	err := New(&buf).Run(context.Background(), append([]string{name}, args...))
	return buf.String(), err
}

func TestCodeCommand(t *testing.T) {
	out, err := run(t, "code", "command", "float", "VelocityKp")
	require.NoError(t, err)
	assert.Equal(t, "15\n", out)

	_, err = run(t, "code", "info", "float", "Velocity")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnknownField))

	_, err = run(t, "code", "info", "float")
	require.Error(t, err)
}

func TestNameCommand(t *testing.T) {
	out, err := run(t, "name", "feedback", "float", "14")
	require.NoError(t, err)
	assert.Equal(t, "MotorWindingTemperature\n", out)

	_, err = run(t, "name", "feedback", "float", "15")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrInvalidCode))

	_, err = run(t, "name", "feedback", "float", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse code")

	_, err = run(t, "name", "telemetry", "float", "1")
	require.Error(t, err)
}

func TestGroupCommand(t *testing.T) {
	out, err := run(t, "group", "TorqueKd")
	require.NoError(t, err)
	assert.Equal(t, "Torque\n", out)

	out, err = run(t, "group", "Family")
	require.NoError(t, err)
	assert.Equal(t, "none\n", out)
}

func TestListCommandFilters(t *testing.T) {
	out, err := run(t, "list", "--namespace", "info", "--kind", "string")
	require.NoError(t, err)
	assert.Contains(t, out, "NAMESPACE")
	assert.Contains(t, out, "Family")
	assert.NotContains(t, out, "PositionKp")

	out, err = run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ControlStrategy")
	assert.Contains(t, out, "MotorHousingTemperature")
}

func TestValidateBuiltin(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Equal(t, "ok source=builtin api=0.15 spaces=7 fields=102\n", out)
}

func TestExportThenValidateFile(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{"toml", "yaml", "json"} {
		path := filepath.Join(dir, "schema."+ext)
		_, err := run(t, "export", "--format", ext, "--output", path)
		require.NoError(t, err)

		out, err := run(t, "validate", "--file", path)
		require.NoError(t, err, ext)
		assert.Contains(t, out, "fields=102")
	}
}

func TestValidateFileReportsDefects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	body := `{"api_version":"0.15","spaces":[{"namespace":"command","kind":"float","fields":[
		{"name":"Velocity","code":0,"group":"Velocity"},
		{"name":"Torque","code":2,"group":"Torque"}]}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	_, err := run(t, "validate", "--file", path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrSchema))
	assert.Contains(t, err.Error(), "code gap")
}

func TestExportGoToStdout(t *testing.T) {
	out, err := run(t, "export", "--format", "go", "--namespace", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "InfoStringFamily")
	assert.NotContains(t, out, "CommandFloat")
}

func TestCheckVersion(t *testing.T) {
	out, err := run(t, "check-version", "0.15.3")
	require.NoError(t, err)
	assert.Equal(t, "compatible firmware=0.15.3 api=0.15\n", out)

	_, err = run(t, "check-version", "0.16")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrVersion))

	_, err = run(t, "check-version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no firmware version")
}

func TestCheckVersionFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("firmware_version = \"v0.15.1\"\n"), 0o600))

	out, err := run(t, "--config", path, "check-version")
	require.NoError(t, err)
	assert.Contains(t, out, "firmware=v0.15.1")
}

func TestMetricsCommand(t *testing.T) {
	out, err := run(t, "metrics")
	require.NoError(t, err)
	assert.Contains(t, out, `fieldctl_registry_fields{kind="string",namespace="info"} 2`)
}

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldctl.toml")
	out, err := run(t, "init-config", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	_, err = run(t, "init-config", "--output", path)
	require.Error(t, err)

	_, err = run(t, "--config", path, "validate")
	require.NoError(t, err)
}

func TestInitConfigReplacesBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fieldctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("format = \"xml\"\nbogus = 1\n"), 0o600))

	_, err := run(t, "--config", path, "validate")
	require.Error(t, err)

	out, err := run(t, "--config", path, "init-config", "--output", path, "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	_, err = run(t, "--config", path, "validate")
	require.NoError(t, err)
}

func TestInvalidLogLevelRejected(t *testing.T) {
	_, err := run(t, "--log-level", "loud", "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
