package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/scriptlens/internal/config"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	color.NoColor = true
	return &app{cfg: config.New()}
}

func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunCheck(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	good := writeScript(t, dir, "good.js", "function a() {}\n")
	dup := writeScript(t, dir, "dup.js", "function a() {}\nfunction a() {}\n")
	bad := writeScript(t, dir, "bad.js", "function a(\n")

	var out bytes.Buffer
	require.NoError(t, runCheck(a, []string{good, dup}, &out))
	assert.Contains(t, out.String(), good+": ok\n")
	assert.Contains(t, out.String(), dup+":2:0: information: function a() is already defined (see line 1)\n")

	out.Reset()
	err := runCheck(a, []string{good, bad}, &out)
	assert.EqualError(t, err, "1 file(s) with errors")
	assert.Contains(t, out.String(), bad+":1:10: error: unexpected end of input")
}

func TestRunCheckMissingFile(t *testing.T) {
	a := newTestApp(t)
	err := runCheck(a, []string{filepath.Join(t.TempDir(), "missing.js")}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRunScan(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	writeScript(t, dir, "a.js", "function a() {}\nfunction b() {}\n")
	writeScript(t, dir, "b.js", "x = (1\n")

	var out bytes.Buffer
	require.NoError(t, runScan(a, dir, &out))
	assert.Contains(t, out.String(), filepath.Join(dir, "a.js"))
	footer := strings.ToLower(out.String())
	assert.Contains(t, footer, "2 files")
	assert.Contains(t, footer, "1 errors, 0 warnings")
}

func TestRenderOutline(t *testing.T) {
	a := newTestApp(t)
	path := writeScript(t, t.TempDir(), "a.js", "// Adds. More text.\nfunction add(a, b) {\n  return a + b;\n}\n")
	c, f, err := a.load(path)
	require.NoError(t, err)

	var out bytes.Buffer
	renderOutline(&out, c.Outline(f.Path))
	assert.Contains(t, out.String(), "add(a, b)")
	assert.Contains(t, out.String(), "2-4")
}
