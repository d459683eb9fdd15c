// Package env reads KEY=VALUE files and layers them under the
// process environment, so PROBE_* overrides can be kept next to a
// suite instead of exported in the shell.
package env

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Loader holds variables read from env files. It is safe for
// concurrent use.
type Loader struct {
	mu     sync.RWMutex
	vars   map[string]string
	lookup func(string) (string, bool)
}

// NewLoader creates an empty Loader backed by os.LookupEnv.
func NewLoader() *Loader {
	return &Loader{
		vars:   make(map[string]string),
		lookup: os.LookupEnv,
	}
}

// Load reads the env file at path. Later files override earlier
// ones for the same key.
func (l *Loader) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open env file %s: %w", path, err)
	}
	defer file.Close()

	if err := l.Parse(file); err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	return nil
}

// Parse reads KEY=VALUE lines from r. Blank lines and lines
// starting with # are skipped, an optional "export " prefix is
// dropped and surrounding quotes are removed from values.
func (l *Loader) Parse(r io.Reader) error {
	parsed := make(map[string]string)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		parsed[key] = unquote(strings.TrimSpace(value))
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for k, v := range parsed {
		l.vars[k] = v
	}
	return nil
}

func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') ||
			(v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// Lookup returns the value of key. The process environment takes
// precedence over loaded files. Its signature matches
// os.LookupEnv so it can be passed to config.Config.ApplyEnv.
func (l *Loader) Lookup(key string) (string, bool) {
	if v, ok := l.lookup(key); ok {
		return v, true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.vars[key]
	return v, ok
}

// All returns a copy of the variables loaded from files.
func (l *Loader) All() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]string, len(l.vars))
	for k, v := range l.vars {
		result[k] = v
	}
	return result
}
