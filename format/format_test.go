package format

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/scriptlens/script/parser"
)

const example = "/* Comment */\nfunction test( i ) {\n    return i;\n}\n"

func TestASTJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewASTJSONEncoder(&buf).Encode(parser.Parse(example)))

	var got astJSONResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Nodes, 2)
	assert.Nil(t, got.Error)

	assert.Equal(t, "Comment", got.Nodes[0].Kind)
	assert.Equal(t, "Comment", got.Nodes[0].Text)

	fn := got.Nodes[1]
	assert.Equal(t, "Function", fn.Kind)
	assert.Equal(t, "func:test()", fn.ID)
	assert.Equal(t, "test", fn.Function)
	assert.Equal(t, []string{"i"}, fn.Arguments)
	assert.Equal(t, astJSONSpan{
		Start: astJSONPosition{Line: 2, Column: 0},
		End:   astJSONPosition{Line: 4, Column: 0},
	}, fn.Span)
	require.Len(t, fn.Children, 2)
	assert.Equal(t, "return", fn.Children[1].Children[0].Keyword)
}

func TestASTJSONEncoderError(t *testing.T) {
	text, err := (&ASTJSONEncoder{res: parser.Parse("function test() {}\nfunction test() {}")}).MarshalText()
	require.NoError(t, err)
	assert.Contains(t, string(text), `"message": "function test() is already defined"`)
	assert.Contains(t, string(text), `"severity": "information"`)
	assert.Contains(t, string(text), `"affectedLine": 1`)
}

func TestASTJSONEncoderEmpty(t *testing.T) {
	text, err := (&ASTJSONEncoder{res: parser.Parse("")}).MarshalText()
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": []}`, string(text))
}

func TestLineEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(parser.Parse(example)))
	want := "0\tComment\t1:0\t1:12\tcomment\n" +
		"0\tFunction\t2:0\t4:0\tfunc:test()\n" +
		"1\tArgument\t2:15\t2:15\targ:i\n" +
		"1\tBlock\t2:19\t4:0\tblock\n" +
		"2\tStatement\t3:4\t3:12\tstmt:return\n"
	assert.Equal(t, want, buf.String())
}

func TestLineEncoderError(t *testing.T) {
	text, err := (&LineEncoder{res: parser.Parse("function f(a")}).MarshalText()
	require.NoError(t, err)
	assert.Contains(t, string(text), "error\terror\t1:11\tunexpected end of input\t0\n")
}

func TestTreeEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTreeEncoder(&buf, false).Encode(parser.Parse("x = 1;\ny = 2;")))
	assert.Equal(t, "Statement stmt:x\nStatement stmt:y\n", buf.String())

	buf.Reset()
	require.NoError(t, NewTreeEncoder(&buf, true).Encode(parser.Parse("foo(a, b")))
	assert.Contains(t, buf.String(), "error: 1:3: unclosed bracket")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	for _, name := range []string{"json", "line", "text"} {
		enc, ok := New(name, &buf, false)
		assert.True(t, ok, name)
		assert.NotNil(t, enc, name)
	}
	_, ok := New("yaml", &buf, false)
	assert.False(t, ok)
}
