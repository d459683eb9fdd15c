package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.probe/pkg/comparator"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultNameWidth, cfg.NameWidth)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, comparator.NameEqual, cfg.Comparator)
	assert.NoError(t, cfg.Validate(nil))
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
suite: k_test demo
name_width: 40
color: never
format: json
comparator: not_equal
log_level: debug
monitor_addr: 127.0.0.1:8089
`))
	require.NoError(t, err)

	assert.Equal(t, "k_test demo", cfg.Suite)
	assert.Equal(t, 40, cfg.NameWidth)
	assert.Equal(t, ColorNever, cfg.Color)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, comparator.NameNotEqual, cfg.Comparator)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:8089", cfg.MonitorAddr)
	assert.NoError(t, cfg.Validate(nil))
}

func TestParse_EmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_UnknownKey(t *testing.T) {
	_, err := Parse([]byte("colour: never\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoad_And_WriteYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "probe.yaml")

	orig := Default()
	orig.Suite = "round trip"
	orig.NameWidth = 30
	require.NoError(t, orig.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, orig, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvNameWidth:   " 50 ",
		EnvColor:       "ALWAYS",
		EnvFormat:      "Json",
		EnvComparator:  "less",
		EnvLogLevel:    "warn",
		EnvMonitorAddr: ":9000",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))

	assert.Equal(t, 50, cfg.NameWidth)
	assert.Equal(t, ColorAlways, cfg.Color)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, comparator.NameLess, cfg.Comparator)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.MonitorAddr)
}

func TestApplyEnv_BadWidth(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) (string, bool) {
		return "wide", k == EnvNameWidth
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvNameWidth)
}

func TestApplyEnv_DefaultLookup(t *testing.T) {
	t.Setenv(EnvFormat, "json")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(nil))
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"narrow", func(c *Config) { c.NameWidth = 3 }, "name_width"},
		{"color", func(c *Config) { c.Color = "rainbow" }, "color mode"},
		{"format", func(c *Config) { c.Format = "xml" }, "format"},
		{"comparator", func(c *Config) { c.Comparator = "approx" }, "unknown comparator"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate(nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CustomRegistry(t *testing.T) {
	reg := comparator.NewRegistry()
	require.NoError(t, reg.Register("approx", comparator.Equal))

	cfg := Default()
	cfg.Comparator = "approx"
	assert.NoError(t, cfg.Validate(reg))
}
