package codebase

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/scriptlens/script/parser"
)

const lsName = "scriptlens"

type LSPServer struct {
	codebase *Codebase
	options  []Option
	handler  protocol.Handler
	server   *server.Server
	version  string
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	// bumped for every new version of a document; a parse only commits
	// while its generation is current
	generations map[string]uint64
}

// NewLSPServer creates a language server. Edits are re-parsed once no
// further change arrived for the debounce delay.
func NewLSPServer(version string, debounce time.Duration, opts ...Option) *LSPServer {
	ls := &LSPServer{
		codebase: New(".", opts...),
		options:  opts,
		version:  version,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),

		generations: make(map[string]uint64),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentCompletion:     ls.textDocumentCompletion,
		TextDocumentHover:          ls.textDocumentHover,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentDefinition:     ls.textDocumentDefinition,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.options...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	triggerChars := []string{"."}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: triggerChars,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("scan %s: %s", ls.codebase.RootDir(), err)
	}
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for path, t := range ls.pending {
		t.Stop()
		delete(ls.pending, path)
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	f := ls.update(path, []byte(params.TextDocument.Text))
	publishDiagnostics(ctx.Notify, params.TextDocument.URI, f)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.schedule(ctx.Notify, params.TextDocument.URI, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.cancel(path)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}

	var content []byte
	if params.Text != nil {
		content = []byte(*params.Text)
	} else if content, err = os.ReadFile(path); err != nil {
		log.Warningf("scan %s: %s", path, err)
		return nil
	}
	publishDiagnostics(ctx.Notify, params.TextDocument.URI, ls.update(path, content))
	return nil
}

// schedule re-parses path once no newer change arrived within the debounce
// delay.
func (ls *LSPServer) schedule(notify glsp.NotifyFunc, uri, path string, content []byte) {
	if ls.debounce <= 0 {
		publishDiagnostics(notify, uri, ls.update(path, content))
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.stopPending(path)
	gen := ls.nextGeneration(path)
	var t *time.Timer
	t = time.AfterFunc(ls.debounce, func() {
		ls.mu.Lock()
		if ls.pending[path] == t {
			delete(ls.pending, path)
		}
		ls.mu.Unlock()
		publishDiagnostics(notify, uri, ls.commit(path, content, gen))
	})
	ls.pending[path] = t
}

// update commits content as the newest version of path, superseding any
// pending edit.
func (ls *LSPServer) update(path string, content []byte) *FileInfo {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.stopPending(path)
	ls.nextGeneration(path)
	return ls.codebase.UpdateFile(path, content)
}

// commit parses content for path unless a newer version arrived after gen
// was taken. It returns nil for a superseded version.
func (ls *LSPServer) commit(path string, content []byte, gen uint64) *FileInfo {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.generations[path] != gen {
		return nil
	}
	return ls.codebase.UpdateFile(path, content)
}

func (ls *LSPServer) cancel(path string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.stopPending(path)
	ls.nextGeneration(path)
}

// stopPending and nextGeneration expect ls.mu to be held.
func (ls *LSPServer) stopPending(path string) {
	if t, ok := ls.pending[path]; ok {
		t.Stop()
		delete(ls.pending, path)
	}
}

func (ls *LSPServer) nextGeneration(path string) uint64 {
	ls.generations[path]++
	return ls.generations[path]
}

func publishDiagnostics(notify glsp.NotifyFunc, uri string, f *FileInfo) {
	if notify == nil || f == nil {
		return
	}
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toDiagnostics(uri, f.Error()),
	})
}

// toDiagnostics converts the single diagnostic of a parse. A previous
// definition is attached as related information.
func toDiagnostics(uri string, e parser.ErrorState) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if !e.HasError {
		return diagnostics
	}

	severity := toProtocolSeverity(e.Severity)
	source := lsName
	start := toProtocolPosition(e.Position())
	d := protocol.Diagnostic{
		Range: protocol.Range{
			Start: start,
			End:   protocol.Position{Line: start.Line, Character: start.Character + 1},
		},
		Severity: &severity,
		Source:   &source,
		Message:  e.Message,
	}
	if e.AffectedLine > 0 {
		line := toProtocolPosition(parser.Position{Line: e.AffectedLine})
		d.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
			Location: protocol.Location{
				URI:   uri,
				Range: protocol.Range{Start: line, End: line},
			},
			Message: "first defined here",
		}}
	}
	return append(diagnostics, d)
}

func toProtocolSeverity(s parser.Severity) protocol.DiagnosticSeverity {
	switch s {
	case parser.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	case parser.SeverityInformation:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	line, col := fromProtocolPosition(params.Position)
	completions := ls.codebase.CompletionsAtPoint(path, line, col)
	if len(completions) == 0 {
		return nil, nil
	}

	var items []protocol.CompletionItem
	for _, c := range completions {
		kind := toProtocolKind(c.Kind)
		detail := c.Detail
		insertText := c.InsertText
		item := protocol.CompletionItem{
			Label:      c.Label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &insertText,
		}
		if c.Documentation != "" {
			item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: c.Documentation}
		}
		items = append(items, item)
	}

	return items, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line, col := fromProtocolPosition(params.Position)
	h, ok := ls.codebase.HoverAt(path, line, col)
	if !ok {
		return nil, nil
	}
	rng := toProtocolRange(h.Node.Range())
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: h.Markdown},
		Range:    &rng,
	}, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := ls.codebase.GetFile(path)
	if f == nil {
		return nil, nil
	}
	return documentSymbols(f.Model.Functions()), nil
}

func documentSymbols(fns []*parser.Function) []protocol.DocumentSymbol {
	symbols := []protocol.DocumentSymbol{}
	for _, fn := range fns {
		name := fn.Name()
		if fn.Anonymous() {
			name = "(anonymous)"
		}
		detail := "function " + fn.Signature()
		sym := protocol.DocumentSymbol{
			Name:           name,
			Detail:         &detail,
			Kind:           protocol.SymbolKindFunction,
			Range:          toProtocolRange(fn.Range()),
			SelectionRange: toProtocolRange(fn.Range()),
		}
		for _, arg := range fn.Arguments() {
			sym.Children = append(sym.Children, protocol.DocumentSymbol{
				Name:           arg.Name(),
				Kind:           protocol.SymbolKindVariable,
				Range:          toProtocolRange(arg.Range()),
				SelectionRange: toProtocolRange(arg.Range()),
			})
		}
		symbols = append(symbols, sym)
	}
	return symbols
}

func (ls *LSPServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	line, col := fromProtocolPosition(params.Position)
	fn, ok := ls.codebase.Definition(path, line, col)
	if !ok {
		return nil, nil
	}
	return protocol.Location{
		URI:   params.TextDocument.URI,
		Range: toProtocolRange(fn.Range()),
	}, nil
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindMethod:
		return protocol.CompletionItemKindMethod
	case CompletionKindFunction:
		return protocol.CompletionItemKindFunction
	default:
		return protocol.CompletionItemKindText
	}
}

// Script positions use 1-based lines; protocol positions are 0-based.
func toProtocolPosition(pos parser.Position) protocol.Position {
	return protocol.Position{
		Line:      protocol.UInteger(max(pos.Line-1, 0)),
		Character: protocol.UInteger(max(pos.Column, 0)),
	}
}

func fromProtocolPosition(pos protocol.Position) (line, column int) {
	return int(pos.Line) + 1, int(pos.Character)
}

// toProtocolRange converts an inclusive range into the exclusive end the
// protocol expects.
func toProtocolRange(r parser.Range) protocol.Range {
	end := toProtocolPosition(r.End)
	end.Character++
	return protocol.Range{Start: toProtocolPosition(r.Start), End: end}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
