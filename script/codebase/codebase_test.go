package codebase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/scriptlens/script/parser"
)

const script = `/**
 * Adds two numbers.
 * @param a first
 */
function add(a, b) {
  return a + b;
}

function main() {
  var x = add(1, 2);
  helper.trim(x);
  helper.
}
`

type docMap map[string]string

func (d docMap) Describe(id string) (string, bool) {
	text, ok := d[id]
	return text, ok
}

func newTestCodebase(t *testing.T) (*Codebase, string) {
	t.Helper()
	c := New("/tmp/scripts",
		WithMembers(parser.MemberMap{"helper": {"trim", "stripTags"}}),
		WithDocs(docMap{"call:helper.trim": "Removes whitespace."}),
	)
	path := "/tmp/scripts/main.js"
	f := c.UpdateFile(path, []byte(script))
	fErr := f.Error()
	require.False(t, fErr.HasError, "unexpected error: %v", fErr.Err())
	return c, path
}

func TestUpdateFile(t *testing.T) {
	c, path := newTestCodebase(t)

	f := c.GetFile(path)
	require.NotNil(t, f)
	assert.Equal(t, []string{"add", "main"}, f.Model.FunctionNames())
	assert.Equal(t, []string{path}, c.Paths())

	f = c.UpdateFile(path, []byte("function add() {}\nfunction add() {}"))
	assert.Same(t, f, c.GetFile(path))
	assert.Equal(t, parser.SeverityInformation, f.Error().Severity)

	c.RemoveFile(path)
	assert.Nil(t, c.GetFile(path))
	assert.Empty(t, c.Paths())
}

func TestMemberCheck(t *testing.T) {
	c, path := newTestCodebase(t)
	f := c.UpdateFile(path, []byte("helper.strip(x);"))
	assert.True(t, f.Error().HasError)
	assert.Equal(t, "strip is not a member of helper", f.Error().Message)
}

func TestSemicolonCheckOption(t *testing.T) {
	c := New("/tmp", WithSemicolonCheck(true))
	f := c.UpdateFile("/tmp/a.js", []byte("x = a\ny = b;"))
	assert.Equal(t, parser.SeverityWarning, f.Error().Severity)
}

func TestCompletionsAfterDot(t *testing.T) {
	c, path := newTestCodebase(t)

	items := c.CompletionsAtPoint(path, 12, 9)
	require.Len(t, items, 2)
	assert.Equal(t, "trim", items[0].Label)
	assert.Equal(t, CompletionKindMethod, items[0].Kind)
	assert.Equal(t, "Removes whitespace.", items[0].Documentation)
	assert.Equal(t, "stripTags", items[1].Label)

	items = c.CompletionsAtPoint(path, 11, 10)
	require.Len(t, items, 1)
	assert.Equal(t, "trim", items[0].Label)
}

func TestCompletionsOfFunctions(t *testing.T) {
	c, path := newTestCodebase(t)

	items := c.CompletionsAtPoint(path, 10, 12)
	require.Len(t, items, 1)
	assert.Equal(t, "add", items[0].Label)
	assert.Equal(t, CompletionKindFunction, items[0].Kind)
	assert.Equal(t, "function add(a, b)", items[0].Detail)
	assert.Contains(t, items[0].Documentation, "Adds two numbers.")

	items = c.CompletionsAtPoint(path, 8, 0)
	assert.Len(t, items, 2)
}

func TestCompletionContext(t *testing.T) {
	tests := []struct {
		line     string
		column   int
		object   string
		prefix   string
		afterDot bool
	}{
		{"  helper.", 9, "helper", "", true},
		{"  helper.tr", 11, "helper", "tr", true},
		{"  helper.trim(x)", 11, "helper", "tr", true},
		{"  var x = ad", 12, "", "ad", false},
		{"x = ", 4, "", "", false},
		{"", 0, "", "", false},
		{"(a).", 4, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			object, prefix, afterDot := completionContext(tt.line, tt.column)
			assert.Equal(t, tt.object, object)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.afterDot, afterDot)
		})
	}
}

func TestHoverAt(t *testing.T) {
	c, path := newTestCodebase(t)

	h, ok := c.HoverAt(path, 11, 10)
	require.True(t, ok)
	assert.Equal(t, "call:helper.trim", h.Node.ID())
	assert.Contains(t, h.Markdown, "**FunctionCall** `call:helper.trim`")
	assert.Contains(t, h.Markdown, "Removes whitespace.")

	h, ok = c.HoverAt(path, 10, 11)
	require.True(t, ok)
	assert.Equal(t, parser.KindStatement, h.Node.Kind())
	assert.Contains(t, h.Markdown, "function add(a, b)")
	assert.Contains(t, h.Markdown, "Adds two numbers.")
	assert.Contains(t, h.Markdown, "**Parameters**")

	_, ok = c.HoverAt(path, 8, 0)
	assert.False(t, ok)
	_, ok = c.HoverAt("/tmp/scripts/missing.js", 1, 0)
	assert.False(t, ok)
}

func TestDefinition(t *testing.T) {
	c, path := newTestCodebase(t)

	fn, ok := c.Definition(path, 10, 11)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name())
	assert.Equal(t, 5, fn.Range().Start.Line)

	_, ok = c.Definition(path, 11, 4)
	assert.False(t, ok)
}

func TestOutline(t *testing.T) {
	c, path := newTestCodebase(t)

	entries := c.Outline(path)
	require.Len(t, entries, 2)
	assert.Equal(t, OutlineEntry{Name: "add", Signature: "add(a, b)", Line: 5, EndLine: 7, Summary: "Adds two numbers."}, entries[0])
	assert.Equal(t, "main", entries[1].Name)
	assert.Empty(t, entries[1].Summary)
}

func TestIsScript(t *testing.T) {
	c := New(".")
	assert.True(t, c.IsScript("a.js"))
	assert.True(t, c.IsScript("lib/A.JS"))
	assert.False(t, c.IsScript("notes.txt"))
	assert.False(t, c.IsScript("node_modules/lib/a.js"))

	c = New(".", WithExtensions([]string{".tt"}))
	assert.True(t, c.IsScript("provider.tt"))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.js"), "function a() {}")
	writeFile(t, filepath.Join(root, "sub", "b.js"), "function b() {}")
	writeFile(t, filepath.Join(root, ".hidden", "c.js"), "function c() {}")
	writeFile(t, filepath.Join(root, "node_modules", "d.js"), "function d() {}")
	writeFile(t, filepath.Join(root, "readme.txt"), "text")

	c := New(root)
	require.NoError(t, c.ScanAll())
	assert.Equal(t, []string{
		filepath.Join(root, "a.js"),
		filepath.Join(root, "sub", "b.js"),
	}, c.Paths())
}
