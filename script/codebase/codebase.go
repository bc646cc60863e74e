package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/go-enry/go-enry/v2"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/scriptlens/script/model"
	"github.com/dhamidi/scriptlens/script/parser"
	"github.com/dhamidi/scriptlens/script/scriptdoc"
)

var log = commonlog.GetLogger("scriptlens.codebase")

// Docs supplies the documentation shown for a node id such as
// "call:helper.trim".
type Docs interface {
	Describe(id string) (string, bool)
}

type Option func(*Codebase)

func WithMembers(table parser.MemberTable) Option {
	return func(c *Codebase) {
		c.members = table
	}
}

func WithDocs(docs Docs) Option {
	return func(c *Codebase) {
		c.docs = docs
	}
}

func WithSemicolonCheck(enabled bool) Option {
	return func(c *Codebase) {
		c.semicolons = enabled
	}
}

// WithExtensions sets the file extensions treated as scripts in addition to
// files detected as JavaScript.
func WithExtensions(exts []string) Option {
	return func(c *Codebase) {
		c.extensions = exts
	}
}

// Codebase holds the committed parse of every script under a root directory.
// Each update parses outside the lock and then swaps in a fresh model, so
// readers never see a partially built tree.
type Codebase struct {
	mu         sync.RWMutex
	rootDir    string
	files      map[string]*FileInfo
	members    parser.MemberTable
	docs       Docs
	semicolons bool
	extensions []string
}

type FileInfo struct {
	Path    string
	Content []byte
	Model   *model.Model
}

// Error is the diagnostic of the file's last parse.
func (f *FileInfo) Error() parser.ErrorState {
	return f.Model.Error()
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir:    rootDir,
		files:      make(map[string]*FileInfo),
		extensions: []string{".js"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// IsScript reports whether path should be parsed: its extension is
// configured, or it is detected as JavaScript. Vendored paths never are.
func (c *Codebase) IsScript(path string) bool {
	if enry.IsVendor(filepath.ToSlash(path)) {
		return false
	}
	if slices.Contains(c.extensions, strings.ToLower(filepath.Ext(path))) {
		return true
	}
	return enry.GetLanguage(filepath.Base(path), nil) == "JavaScript"
}

// walkScripts calls fn for every script below the root directory, skipping
// hidden and vendored directories.
func (c *Codebase) walkScripts(fn func(path string, info fs.FileInfo)) error {
	return filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path == c.rootDir {
				return nil
			}
			rel, _ := filepath.Rel(c.rootDir, path)
			if strings.HasPrefix(d.Name(), ".") || enry.IsVendor(filepath.ToSlash(rel)+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(c.rootDir, path)
		if err != nil || !c.IsScript(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info)
		return nil
	})
}

func (c *Codebase) ScanAll() error {
	return c.walkScripts(func(path string, _ fs.FileInfo) {
		if _, err := c.ScanFile(path); err != nil {
			log.Warningf("scan %s: %s", path, err)
		}
	})
}

func (c *Codebase) ScanFile(path string) (*FileInfo, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.UpdateFile(path, content), nil
}

// Parse parses content with the codebase's options.
func (c *Codebase) Parse(content []byte) *parser.Result {
	opts := []parser.Option{parser.WithMembers(c.members)}
	if c.semicolons {
		opts = append(opts, parser.WithSemicolonCheck())
	}
	return parser.Parse(string(content), opts...)
}

// UpdateFile re-parses path from content and commits the result.
func (c *Codebase) UpdateFile(path string, content []byte) *FileInfo {
	f := &FileInfo{
		Path:    path,
		Content: content,
		Model:   model.FromResult(c.Parse(content)),
	}
	if err := f.Model.Error(); err.HasError {
		log.Debugf("%s: %s", path, err.Error())
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.files[path] = f
	return f
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

func (c *Codebase) GetFile(path string) *FileInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Paths returns the known files in lexical order.
func (c *Codebase) Paths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// NodeAt returns the most specific node at line:column of path.
func (c *Codebase) NodeAt(path string, line, column int) parser.Node {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	return f.Model.NodeAtPosition(line, column, true)
}

type Hover struct {
	Node     parser.Node
	Markdown string
}

// HoverAt describes the node at line:column. The dictionary is consulted for
// the node and then for each of its parents; a name under the cursor that
// refers to a top-level function adds that function's documentation.
func (c *Codebase) HoverAt(path string, line, column int) (*Hover, bool) {
	f := c.GetFile(path)
	if f == nil {
		return nil, false
	}
	node := f.Model.NodeAtPosition(line, column, true)
	if node == nil {
		return nil, false
	}

	parts := []string{"**" + node.Kind().String() + "** `" + node.ID() + "`"}
	if text, ok := c.describe(node); ok {
		parts = append(parts, text)
	}

	fn, _ := node.(*parser.Function)
	if fn == nil {
		if word := wordAt(f.Content, line, column); word != "" {
			fn = f.Model.Function(word)
		}
	}
	if fn != nil && !fn.Anonymous() {
		parts = append(parts, "```\nfunction "+fn.Signature()+"\n```")
		if doc := f.Model.DocComment(fn); doc != nil {
			if text := scriptdoc.Format(scriptdoc.Parse(doc.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return &Hover{Node: node, Markdown: strings.Join(parts, "\n\n")}, true
}

// describe looks up the documentation of node or of its closest documented
// parent.
func (c *Codebase) describe(node parser.Node) (string, bool) {
	if c.docs == nil {
		return "", false
	}
	for n := node; n != nil; n = n.Parent() {
		if text, ok := c.docs.Describe(n.ID()); ok {
			return text, true
		}
	}
	return "", false
}

// Definition returns the top-level function named by the word at
// line:column.
func (c *Codebase) Definition(path string, line, column int) (*parser.Function, bool) {
	f := c.GetFile(path)
	if f == nil {
		return nil, false
	}
	word := wordAt(f.Content, line, column)
	if word == "" {
		return nil, false
	}
	fn := f.Model.Function(word)
	return fn, fn != nil
}

type OutlineEntry struct {
	Name      string
	Signature string
	Line      int
	EndLine   int
	Summary   string
}

// Outline lists the top-level functions of path with the first sentence of
// their doc comments.
func (c *Codebase) Outline(path string) []OutlineEntry {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}
	var entries []OutlineEntry
	for _, fn := range f.Model.Functions() {
		entry := OutlineEntry{
			Name:      fn.Name(),
			Signature: fn.Signature(),
			Line:      fn.Range().Start.Line,
			EndLine:   fn.Range().End.Line,
		}
		if doc := f.Model.DocComment(fn); doc != nil {
			entry.Summary = scriptdoc.Summary(scriptdoc.Parse(doc.Text()))
		}
		entries = append(entries, entry)
	}
	return entries
}

// lineAt returns the 1-based line of content.
func lineAt(content []byte, line int) string {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if line <= 0 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// wordAt returns the name token touching line:column, including a cursor
// placed right after the name.
func wordAt(content []byte, line, column int) string {
	for _, tok := range parser.Tokenize(lineAt(content, line)) {
		if tok.IsName && tok.Column <= column && column <= tok.EndColumn+1 {
			return tok.Text
		}
	}
	return ""
}
