package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "objects.json")
	data := `{
  "objects": {"helper": ["trim", "stripTags"]},
  "docs": {"call:helper.trim": "Removes surrounding whitespace."}
}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	d, err := LoadDictionary(path)
	require.NoError(t, err)

	methods, ok := d.Members("helper")
	assert.True(t, ok)
	assert.Equal(t, []string{"stripTags", "trim"}, methods)

	_, ok = d.Members("unknown")
	assert.False(t, ok)

	text, ok := d.Describe("call:helper.trim")
	assert.True(t, ok)
	assert.Equal(t, "Removes surrounding whitespace.", text)
}

func TestLoadDictionaryErrors(t *testing.T) {
	_, err := LoadDictionary(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ParseDictionary([]byte("{not json"))
	assert.Error(t, err)
}

func TestNilDictionary(t *testing.T) {
	var d *Dictionary
	_, ok := d.Members("helper")
	assert.False(t, ok)
	_, ok = d.Describe("func:a()")
	assert.False(t, ok)
}
