package codebase

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/scriptlens/script/parser"
)

func TestToDiagnostics(t *testing.T) {
	assert.Empty(t, toDiagnostics("file:///a.js", parser.ErrorState{}))
	assert.NotNil(t, toDiagnostics("file:///a.js", parser.ErrorState{}))

	res := parser.Parse("function test(a) {\n}\nfunction test() {\n}\n")
	diags := toDiagnostics("file:///a.js", res.Error)
	require.Len(t, diags, 1)

	d := diags[0]
	assert.Equal(t, "function test() is already defined", d.Message)
	assert.Equal(t, protocol.DiagnosticSeverityInformation, *d.Severity)
	assert.Equal(t, protocol.Position{Line: 2, Character: 0}, d.Range.Start)
	require.Len(t, d.RelatedInformation, 1)
	assert.Equal(t, protocol.UInteger(0), d.RelatedInformation[0].Location.Range.Start.Line)
	assert.Equal(t, "file:///a.js", d.RelatedInformation[0].Location.URI)
}

func TestToDiagnosticsSeverity(t *testing.T) {
	res := parser.Parse("function f(")
	diags := toDiagnostics("a.js", res.Error)
	require.Len(t, diags, 1)
	assert.Equal(t, protocol.DiagnosticSeverityError, *diags[0].Severity)
	assert.Empty(t, diags[0].RelatedInformation)
}

func TestDocumentSymbols(t *testing.T) {
	res := parser.Parse("function add(a, b) {\n  return a + b;\n}\nfunction() {}")
	fns := make([]*parser.Function, 0)
	for _, n := range res.Nodes {
		fns = append(fns, n.(*parser.Function))
	}

	symbols := documentSymbols(fns)
	require.Len(t, symbols, 2)
	assert.Equal(t, "add", symbols[0].Name)
	assert.Equal(t, "function add(a, b)", *symbols[0].Detail)
	assert.Equal(t, protocol.SymbolKindFunction, symbols[0].Kind)
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 2, Character: 1},
	}, symbols[0].Range)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, "b", symbols[0].Children[1].Name)
	assert.Equal(t, "(anonymous)", symbols[1].Name)
}

func TestPositionConversion(t *testing.T) {
	line, col := fromProtocolPosition(protocol.Position{Line: 0, Character: 4})
	assert.Equal(t, 1, line)
	assert.Equal(t, 4, col)
	assert.Equal(t, protocol.Position{Line: 0, Character: 4}, toProtocolPosition(parser.Position{Line: 1, Column: 4}))
}

func TestURIToPath(t *testing.T) {
	path, err := uriToPath("file:///home/user/scripts/a%20b.js")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/scripts/a b.js", path)

	path, err = uriToPath("untitled:1")
	require.NoError(t, err)
	assert.Equal(t, "untitled:1", path)
}

type recorder struct {
	mu     sync.Mutex
	params []protocol.PublishDiagnosticsParams
}

func (r *recorder) notify(method string, params any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := params.(protocol.PublishDiagnosticsParams); ok {
		r.params = append(r.params, p)
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.params)
}

func TestScheduleDebounces(t *testing.T) {
	ls := NewLSPServer("test", 20*time.Millisecond)
	rec := &recorder{}

	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("function a("))
	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("function a() {}"))

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "superseded edits are not parsed")
	assert.Empty(t, rec.params[0].Diagnostics)
	assert.Equal(t, []string{"a"}, ls.codebase.GetFile("/a.js").Model.FunctionNames())
}

func TestScheduleWithoutDebounce(t *testing.T) {
	ls := NewLSPServer("test", 0)
	rec := &recorder{}

	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("function a("))
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "unexpected end of input", rec.params[0].Diagnostics[0].Message)
}

func TestCancel(t *testing.T) {
	ls := NewLSPServer("test", time.Hour)
	rec := &recorder{}
	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("x"))
	ls.cancel("/a.js")
	ls.mu.Lock()
	defer ls.mu.Unlock()
	assert.Empty(t, ls.pending)
}

func TestSaveSupersedesPendingEdit(t *testing.T) {
	ls := NewLSPServer("test", 20*time.Millisecond)
	rec := &recorder{}
	ctx := &glsp.Context{Notify: rec.notify}

	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("function edited() {}"))
	saved := "function saved() {}"
	require.NoError(t, ls.textDocumentDidSave(ctx, &protocol.DidSaveTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.js"},
		Text:         &saved,
	}))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, []string{"saved"}, ls.codebase.GetFile("/a.js").Model.FunctionNames())
	assert.Equal(t, 1, rec.count())
}

func TestSupersededCommitIsDropped(t *testing.T) {
	ls := NewLSPServer("test", time.Hour)

	// a timer that already left the pending map still holds its generation
	ls.mu.Lock()
	gen := ls.nextGeneration("/a.js")
	ls.mu.Unlock()

	ls.update("/a.js", []byte("function current() {}"))
	assert.Nil(t, ls.commit("/a.js", []byte("function stale() {}"), gen))
	assert.Equal(t, []string{"current"}, ls.codebase.GetFile("/a.js").Model.FunctionNames())
}

func TestOpenCancelsPendingEdit(t *testing.T) {
	ls := NewLSPServer("test", time.Hour)
	rec := &recorder{}
	ctx := &glsp.Context{Notify: rec.notify}

	ls.schedule(rec.notify, "file:///a.js", "/a.js", []byte("function edited() {}"))
	require.NoError(t, ls.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "file:///a.js", Text: "function opened() {}"},
	}))

	ls.mu.Lock()
	assert.Empty(t, ls.pending)
	ls.mu.Unlock()
	assert.Equal(t, []string{"opened"}, ls.codebase.GetFile("/a.js").Model.FunctionNames())
	assert.Equal(t, 1, rec.count())
}
