package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_RunsDemoSuite(t *testing.T) {
	out, _, err := execute(t, "--no-color")
	require.NoError(t, err)

	assert.Contains(t, out, "probe demo\n")
	assert.Contains(t, out, "Test probing the return type")
	assert.Contains(t, out, "(test case 2: 24 returned instead of 20)")
	assert.Contains(t, out, "Test class member function")
	assert.Contains(t, out, "Summary: 6/7 (85.71%) of the tests passed")
	assert.NotContains(t, out, "\x1b[")
}

func TestRoot_Strict(t *testing.T) {
	_, _, err := execute(t, "--no-color", "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTestsFailed))
	assert.Contains(t, err.Error(), ": 1")
}

func TestRoot_JSONFormat(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "--suite", "json suite")
	require.NoError(t, err)

	var events []map[string]any
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var ev map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		events = append(events, ev)
	}
	require.Len(t, events, 9)
	assert.Equal(t, "open", events[0]["event"])
	assert.Equal(t, "json suite", events[0]["suite"])
	assert.Equal(t, "summary", events[8]["event"])
	totals, ok := events[8]["totals"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 7, totals["total"])
	assert.EqualValues(t, 6, totals["passed"])
	assert.Equal(t, "json suite", events[1]["suite"])
}

func TestRoot_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"suite: from file\nname_width: 40\ncolor: never\nlog_level: error\n",
	), 0o644))

	out, stderr, err := execute(t, "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "from file\n")
	assert.Contains(t, out, strings.Repeat("_", 46)+"\n")
	assert.Empty(t, stderr)
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, _, err := execute(t, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRoot_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.log")
	_, _, err := execute(t, "--no-color", "--log-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session opened"`)
	assert.Contains(t, string(data), `"test failed"`)
}

func TestRoot_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"PROBE_FORMAT=json\nPROBE_LOG_LEVEL=error\n",
	), 0o644))

	out, _, err := execute(t, "--env-file", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"event":"open"`), out)

	_, _, err = execute(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "open env file")
}

func TestResolveConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "probe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"suite: file\nformat: json\ncolor: always\n",
	), 0o644))

	env := map[string]string{"PROBE_FORMAT": "text", "PROBE_NAME_WIDTH": "30"}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	o := &runOptions{configPath: path, noColor: true, monitor: ":0"}
	cfg, err := o.resolveConfig(lookup)
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Suite)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 30, cfg.NameWidth)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, ":0", cfg.MonitorAddr)

	o = &runOptions{}
	cfg, err = o.resolveConfig(func(string) (string, bool) { return "", false })
	require.NoError(t, err)
	assert.Equal(t, "probe demo", cfg.Suite)
}

func TestRoot_Monitor(t *testing.T) {
	out, stderr, err := execute(t, "--no-color", "--monitor", "127.0.0.1:0")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 6/7")
	assert.Contains(t, stderr, "monitor listening")
}

func TestRoot_RejectsArgs(t *testing.T) {
	_, _, err := execute(t, "extra")
	assert.Error(t, err)
}

func TestComparatorsCommand(t *testing.T) {
	out, _, err := execute(t, "comparators")
	require.NoError(t, err)

	names := strings.Fields(out)
	assert.Contains(t, names, "equal")
	assert.Contains(t, names, "not_equal")
	assert.Contains(t, names, "deep_equal")
}

func TestConfigInitAndCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "probe.yaml")

	out, _, err := execute(t, "config", "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	out, _, err = execute(t, "config", "check", path)
	require.NoError(t, err)
	assert.Contains(t, out, path+": ok")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("color: sometimes\n"), 0o644))
	_, _, err = execute(t, "config", "check", bad)
	assert.ErrorContains(t, err, "invalid color mode")
}
