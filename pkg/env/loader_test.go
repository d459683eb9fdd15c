package env

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(osEnv map[string]string) *Loader {
	l := NewLoader()
	l.lookup = func(key string) (string, bool) {
		v, ok := osEnv[key]
		return v, ok
	}
	return l
}

func TestLoader_Parse(t *testing.T) {
	l := newTestLoader(nil)
	err := l.Parse(strings.NewReader(`
# probe settings
PROBE_FORMAT=json
export PROBE_COLOR = never
PROBE_SUITE_NAME="quoted value"
SINGLE='single'
EMPTY=
not a pair
=novalue
`))
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"PROBE_FORMAT":     "json",
		"PROBE_COLOR":      "never",
		"PROBE_SUITE_NAME": "quoted value",
		"SINGLE":           "single",
		"EMPTY":            "",
	}, l.All())
}

func TestLoader_Lookup(t *testing.T) {
	l := newTestLoader(map[string]string{"PROBE_FORMAT": "text"})
	require.NoError(t, l.Parse(strings.NewReader(
		"PROBE_FORMAT=json\nPROBE_COLOR=never\n",
	)))

	v, ok := l.Lookup("PROBE_FORMAT")
	assert.True(t, ok)
	assert.Equal(t, "text", v, "process environment wins")

	v, ok = l.Lookup("PROBE_COLOR")
	assert.True(t, ok)
	assert.Equal(t, "never", v)

	_, ok = l.Lookup("PROBE_MISSING")
	assert.False(t, ok)
}

func TestLoader_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.env")
	second := filepath.Join(dir, "b.env")
	require.NoError(t, os.WriteFile(first, []byte("K=1\nA=a\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("K=2\n"), 0o644))

	l := newTestLoader(nil)
	require.NoError(t, l.Load(first))
	require.NoError(t, l.Load(second))

	assert.Equal(t, map[string]string{"K": "2", "A": "a"}, l.All())
}

func TestLoader_LoadMissingFile(t *testing.T) {
	err := NewLoader().Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "open env file")
}

func TestLoader_AllIsCopy(t *testing.T) {
	l := newTestLoader(nil)
	require.NoError(t, l.Parse(strings.NewReader("K=1\n")))

	all := l.All()
	all["K"] = "changed"
	v, _ := l.Lookup("K")
	assert.Equal(t, "1", v)
}
