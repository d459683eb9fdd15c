// Package config loads suite configuration for probe sessions from
// YAML files and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"digital.vasic.probe/pkg/comparator"
	"digital.vasic.probe/pkg/logging"
)

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// DefaultNameWidth is the display width test names are truncated
// to in report lines.
const DefaultNameWidth = 65

// minNameWidth leaves room for the "Test " prefix and truncation.
const minNameWidth = 10

// Environment variables consulted by ApplyEnv.
const (
	EnvNameWidth   = "PROBE_NAME_WIDTH"
	EnvColor       = "PROBE_COLOR"
	EnvFormat      = "PROBE_FORMAT"
	EnvComparator  = "PROBE_COMPARATOR"
	EnvLogLevel    = "PROBE_LOG_LEVEL"
	EnvMonitorAddr = "PROBE_MONITOR_ADDR"
)

// Config holds the settings of a probe session.
type Config struct {
	// Suite is the suite name printed in the opening banner.
	Suite string `yaml:"suite" json:"suite"`

	// NameWidth is the display width of the test name column.
	NameWidth int `yaml:"name_width" json:"name_width"`

	// Color is one of ColorAuto, ColorAlways, ColorNever.
	Color string `yaml:"color" json:"color"`

	// Format is one of FormatText, FormatJSON.
	Format string `yaml:"format" json:"format"`

	// Comparator names the comparator probes use when they do
	// not set one explicitly.
	Comparator string `yaml:"comparator" json:"comparator"`

	// LogLevel is the minimum session log level.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// MonitorAddr, when set, is the listen address of the live
	// event stream.
	MonitorAddr string `yaml:"monitor_addr,omitempty" json:"monitor_addr,omitempty"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		NameWidth:  DefaultNameWidth,
		Color:      ColorAuto,
		Format:     FormatText,
		Comparator: comparator.NameEqual,
		LogLevel:   "info",
	}
}

// Parse decodes YAML on top of the defaults. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// WriteYAML marshals the config and writes it to path, creating
// parent directories as needed.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from PROBE_* environment variables
// looked up with lookup (os.LookupEnv when nil).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvNameWidth); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNameWidth, err)
		}
		c.NameWidth = n
	}
	if v, ok := lookup(EnvColor); ok {
		c.Color = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvFormat); ok {
		c.Format = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := lookup(EnvComparator); ok {
		c.Comparator = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvMonitorAddr); ok {
		c.MonitorAddr = strings.TrimSpace(v)
	}
	return nil
}

// Validate checks field values. Comparator names are resolved
// against reg (comparator.Default when nil).
func (c *Config) Validate(reg *comparator.Registry) error {
	if reg == nil {
		reg = comparator.Default
	}

	if c.NameWidth < minNameWidth {
		return fmt.Errorf(
			"name_width must be at least %d, got %d",
			minNameWidth, c.NameWidth,
		)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %q", c.Color)
	}

	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("invalid format: %q", c.Format)
	}

	if !reg.Has(c.Comparator) {
		return fmt.Errorf("unknown comparator: %q", c.Comparator)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
