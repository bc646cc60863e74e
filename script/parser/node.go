package parser

import (
	"strings"
)

type NodeKind int

const (
	KindEmpty NodeKind = iota
	KindUnknown
	KindComment
	KindString
	KindStatement
	KindBracketed
	KindFunctionCall
	KindBlock
	KindArgument
	KindFunction
)

var nodeKindNames = map[NodeKind]string{
	KindEmpty:        "Empty",
	KindUnknown:      "Unknown",
	KindComment:      "Comment",
	KindString:       "String",
	KindStatement:    "Statement",
	KindBracketed:    "Bracketed",
	KindFunctionCall: "FunctionCall",
	KindBlock:        "Block",
	KindArgument:     "Argument",
	KindFunction:     "Function",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Invalid"
}

func (k NodeKind) Mask() KindMask {
	return 1 << uint(k)
}

// KindMask is a set of node kinds, used to filter queries.
type KindMask uint32

const AllKinds KindMask = 1<<(uint(KindFunction)+1) - 1

func MaskOf(kinds ...NodeKind) KindMask {
	var m KindMask
	for _, k := range kinds {
		m |= k.Mask()
	}
	return m
}

func (m KindMask) Has(k NodeKind) bool {
	return m&k.Mask() != 0
}

// Node is one element of a parsed script. The set of implementations is
// closed: *Empty, *Unknown, *Comment, *String, *Statement, *Bracketed,
// *FunctionCall, *Block, *Argument and *Function.
//
// Children are owned by their node. Parent is a back-reference for upward
// searches only and is nil for top-level nodes.
type Node interface {
	Kind() NodeKind
	Text() string
	Range() Range
	ID() string
	Children() []Node
	Parent() Node
	node() *base
}

type base struct {
	text     string
	rng      Range
	children []Node
	parent   Node
}

func (b *base) Text() string { return b.text }
func (b *base) Range() Range { return b.rng }
func (b *base) Children() []Node { return b.children }
func (b *base) Parent() Node { return b.parent }
func (b *base) node() *base { return b }

// adopt wires the parent reference of every child. It is only called while
// parent is being constructed.
func adopt(parent Node, children []Node) {
	for _, child := range children {
		child.node().parent = parent
	}
}

// Empty is a synthetic placeholder; the parser never produces one.
type Empty struct{ base }

func NewEmpty(text string) *Empty {
	return &Empty{base{text: text}}
}

func (*Empty) Kind() NodeKind { return KindEmpty }
func (*Empty) ID() string { return "" }

// Unknown is a fragment the parser could not classify further, such as the
// tokens between two commas inside a bracket group, or the comma itself.
type Unknown struct {
	base
	separator bool
}

func (*Unknown) Kind() NodeKind { return KindUnknown }
func (*Unknown) ID() string { return "unknown" }

// Separator reports whether u is the "," between two bracket groups.
func (u *Unknown) Separator() bool { return u.separator }

type Comment struct{ base }

func (*Comment) Kind() NodeKind { return KindComment }
func (*Comment) ID() string { return "comment" }

func (c *Comment) Multiline() bool { return c.rng.Multiline() }

// String is a string literal or a regular expression literal. Text holds the
// content without delimiters.
type String struct {
	base
	delim rune
	flags string
}

func (*String) Kind() NodeKind { return KindString }
func (s *String) ID() string { return "str:" + s.text }

func (s *String) Delimiter() rune { return s.delim }
func (s *String) Regex() bool { return s.delim == '/' }

// Flags returns the letters following a regular expression, e.g. "gi".
func (s *String) Flags() string { return s.flags }

type Statement struct {
	base
	keyword string
}

func (*Statement) Kind() NodeKind { return KindStatement }
func (s *Statement) ID() string { return "stmt:" + s.keyword }

// Keyword is the first name token of the statement, if it starts with one.
func (s *Statement) Keyword() string { return s.keyword }

func (s *Statement) Multiline() bool { return s.rng.Multiline() }

type Bracketed struct {
	base
	open rune
}

func (*Bracketed) Kind() NodeKind { return KindBracketed }
func (b *Bracketed) ID() string { return "bracket:" + string(b.open) }

// Open returns the opening bracket, '(' or '['.
func (b *Bracketed) Open() rune { return b.open }

func (b *Bracketed) Close() rune { return closerOf(b.open) }

func (b *Bracketed) Multiline() bool { return b.rng.Multiline() }

// Groups splits the children at separator nodes. Separators themselves are
// not part of any group. An empty bracket has no groups.
func (b *Bracketed) Groups() [][]Node {
	if len(b.children) == 0 {
		return nil
	}
	groups := [][]Node{nil}
	for _, child := range b.children {
		if u, ok := child.(*Unknown); ok && u.separator {
			groups = append(groups, nil)
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], child)
	}
	return groups
}

// FunctionCall is an object.function(...) call. Its only child is the
// argument list.
type FunctionCall struct {
	base
	object   string
	function string
	args     *Bracketed
}

func (*FunctionCall) Kind() NodeKind { return KindFunctionCall }
func (c *FunctionCall) ID() string { return "call:" + c.object + "." + c.function }

func (c *FunctionCall) Object() string { return c.object }
func (c *FunctionCall) Function() string { return c.function }
func (c *FunctionCall) Arguments() *Bracketed { return c.args }

type Block struct{ base }

func (*Block) Kind() NodeKind { return KindBlock }
func (*Block) ID() string { return "block" }

func (b *Block) Multiline() bool { return b.rng.Multiline() }

type Argument struct{ base }

func (*Argument) Kind() NodeKind { return KindArgument }
func (a *Argument) ID() string { return "arg:" + a.text }

func (a *Argument) Name() string { return a.text }

// Function is a function definition. Body is nil when the definition was cut
// short by a syntax error, which has then already been recorded.
type Function struct {
	base
	args []*Argument
	body *Block
}

func (*Function) Kind() NodeKind { return KindFunction }
func (f *Function) ID() string { return "func:" + f.text + "()" }

func (f *Function) Name() string { return f.text }
func (f *Function) Anonymous() bool { return f.text == "" }
func (f *Function) Arguments() []*Argument { return f.args }
func (f *Function) Body() *Block { return f.body }
func (f *Function) Multiline() bool { return f.rng.Multiline() }

// Signature renders the function as name(arg1, arg2).
func (f *Function) Signature() string {
	names := make([]string, len(f.args))
	for i, arg := range f.args {
		names[i] = arg.text
	}
	return f.text + "(" + strings.Join(names, ", ") + ")"
}

func newUnknown(text string, r Range, separator bool) *Unknown {
	return &Unknown{base: base{text: text, rng: r}, separator: separator}
}

func newComment(text string, r Range) *Comment {
	return &Comment{base{text: text, rng: r}}
}

func newString(text string, r Range, delim rune, flags string) *String {
	return &String{base: base{text: text, rng: r}, delim: delim, flags: flags}
}

func newStatement(text string, r Range, keyword string, children []Node) *Statement {
	s := &Statement{base: base{text: text, rng: r, children: children}, keyword: keyword}
	adopt(s, children)
	return s
}

func newBracketed(text string, r Range, open rune, children []Node) *Bracketed {
	b := &Bracketed{base: base{text: text, rng: r, children: children}, open: open}
	adopt(b, children)
	return b
}

func newFunctionCall(text string, r Range, object, function string, args *Bracketed) *FunctionCall {
	c := &FunctionCall{
		base:     base{text: text, rng: r, children: []Node{args}},
		object:   object,
		function: function,
		args:     args,
	}
	adopt(c, c.children)
	return c
}

func newBlock(text string, r Range, children []Node) *Block {
	b := &Block{base{text: text, rng: r, children: children}}
	adopt(b, children)
	return b
}

func newArgument(tok Token) *Argument {
	return &Argument{base{text: tok.Text, rng: Range{Start: tok.Start(), End: tok.End()}}}
}

func newFunction(name string, r Range, args []*Argument, body *Block) *Function {
	var children []Node
	for _, arg := range args {
		children = append(children, arg)
	}
	if body != nil {
		children = append(children, body)
	}
	f := &Function{base: base{text: name, rng: r, children: children}, args: args, body: body}
	adopt(f, children)
	return f
}

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children() {
		Walk(child, fn)
	}
}

// Contains reports whether the script position line:column lies inside n.
func Contains(n Node, line, column int) bool {
	return n.Range().Contains(Position{Line: line, Column: column})
}

// Ancestor returns the closest ancestor of n (n included) whose kind is in
// mask, or nil.
func Ancestor(n Node, mask KindMask) Node {
	for ; n != nil; n = n.Parent() {
		if mask.Has(n.Kind()) {
			return n
		}
	}
	return nil
}

// Dump renders n and its descendants one node per line.
func Dump(n Node, showPositions bool) string {
	var sb strings.Builder
	dumpIndent(&sb, n, 0, showPositions)
	return sb.String()
}

func dumpIndent(sb *strings.Builder, n Node, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind().String())
	if showPositions {
		sb.WriteString(" [" + n.Range().String() + "]")
	}
	if id := n.ID(); id != "" {
		sb.WriteString(" " + id)
	}
	switch n.(type) {
	case *Comment, *Block, *Bracketed, *Unknown, *Empty:
		if text := n.Text(); text != "" {
			sb.WriteString(" " + quoteLine(text))
		}
	}
	sb.WriteString("\n")
	for _, child := range n.Children() {
		dumpIndent(sb, child, indent+1, showPositions)
	}
}

func quoteLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "..."
	}
	return "\"" + text + "\""
}
