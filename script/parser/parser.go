package parser

import (
	"io"
	"strings"
)

type Option func(*Parser)

// WithMembers supplies the table of known objects used to check
// object.function(...) calls after parsing.
func WithMembers(table MemberTable) Option {
	return func(p *Parser) {
		p.members = table
	}
}

// WithSemicolonCheck enables the missing-semicolon heuristic. It is off by
// default.
func WithSemicolonCheck() Option {
	return func(p *Parser) {
		p.semicolons = true
	}
}

// Result is the outcome of one parse pass: the top-level nodes in line order
// and the single diagnostic, if any. Nodes are returned even when Error is
// set.
type Result struct {
	Nodes []Node
	Error ErrorState
}

// result is what every production returns: the node it built, if any, and
// the error slot shared by the whole pass.
type result struct {
	node Node
	err  *ErrorState
}

func (r result) matched() bool {
	return r.node != nil
}

type production func(*Parser) result

type Parser struct {
	lines      [][]rune
	tokens     []Token
	pos        int
	last       *Token
	err        *ErrorState
	members    MemberTable
	semicolons bool
	// first place where the semicolon heuristic fired
	semicolonHint *Position
	// last consumed token outside comments, for the regex check
	lastCode *Token
}

func New(src string, opts ...Option) *Parser {
	p := &Parser{}
	lexer := NewLexer(src)
	p.lines = lexer.lines
	for {
		tok, ok := lexer.NextToken()
		if !ok {
			break
		}
		p.tokens = append(p.tokens, tok)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses src in one pass and runs the validator over the result.
func Parse(src string, opts ...Option) *Result {
	return New(src, opts...).Finish()
}

func ParseReader(r io.Reader, opts ...Option) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data), opts...), nil
}

// Finish runs the parse. It may be called again and always starts over.
func (p *Parser) Finish() *Result {
	p.pos = 0
	p.last = nil
	p.lastCode = nil
	p.err = &ErrorState{}
	p.semicolonHint = nil

	nodes := p.parseTopLevel()
	v := validator{err: p.err, members: p.members}
	v.run(nodes)
	if p.semicolons && p.semicolonHint != nil {
		p.err.record(SeverityWarning, "missing ';'", *p.semicolonHint, 0)
	}
	return &Result{Nodes: nodes, Error: *p.err}
}

func (p *Parser) atEnd() bool {
	return p.pos >= len(p.tokens)
}

func (p *Parser) peek() (Token, bool) {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) (Token, bool) {
	if p.pos+n >= len(p.tokens) {
		return Token{}, false
	}
	return p.tokens[p.pos+n], true
}

func (p *Parser) check(text string) bool {
	tok, ok := p.peek()
	return ok && tok.Text == text
}

func (p *Parser) advance() Token {
	tok := p.tokens[p.pos]
	p.last = &p.tokens[p.pos]
	p.lastCode = p.last
	p.pos++
	return tok
}

// skipThrough consumes every token that starts at or before pos.
func (p *Parser) skipThrough(pos Position) {
	for {
		tok, ok := p.peek()
		if !ok || pos.Before(tok.Start()) {
			return
		}
		p.advance()
	}
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end; it skips one token if nothing was consumed.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.atEnd() {
				p.advance()
			}
			return false
		}
		return true
	}
}

// lastEnd is the end of the last consumed token, or from when nothing was
// consumed yet.
func (p *Parser) lastEnd(from Position) Position {
	if p.last == nil || p.last.End().Before(from) {
		return from
	}
	return p.last.End()
}

// here is the position to report a problem with the upcoming token.
func (p *Parser) here() Position {
	if tok, ok := p.peek(); ok {
		return tok.Start()
	}
	if p.last != nil {
		return p.last.End()
	}
	return Position{Line: 1}
}

func (p *Parser) none() result {
	return result{err: p.err}
}

func (p *Parser) ok(n Node) result {
	return result{node: n, err: p.err}
}

// fail records msg at pos, subject to the first-error-wins rule, and returns
// n as the best-effort result of the production.
func (p *Parser) fail(n Node, msg string, pos Position) result {
	p.err.record(SeverityError, msg, pos, 0)
	return result{node: n, err: p.err}
}

func (p *Parser) first(prods ...production) result {
	for _, prod := range prods {
		if r := prod(p); r.matched() {
			return r
		}
	}
	return p.none()
}

// text returns the script text between from and to, both inclusive.
func (p *Parser) text(from, to Position) string {
	if to.Before(from) {
		return ""
	}
	var sb strings.Builder
	for line := from.Line; line <= to.Line; line++ {
		if line < 1 || line > len(p.lines) {
			continue
		}
		runes := p.lines[line-1]
		start, end := 0, len(runes)
		if line == from.Line {
			start = from.Column
		}
		if line == to.Line {
			end = to.Column + 1
		}
		start = clamp(start, 0, len(runes))
		end = clamp(end, start, len(runes))
		if line > from.Line {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// find locates the first unescaped occurrence of target at or after from.
// A backslash escapes the character after it. With sameLine the search stops
// at the end of from's line.
func (p *Parser) find(from Position, target string, sameLine bool) (Position, bool) {
	want := []rune(target)
	for line := from.Line; line <= len(p.lines); line++ {
		runes := p.lines[line-1]
		col := 0
		if line == from.Line {
			col = from.Column
		}
		for col < len(runes) {
			if runes[col] == '\\' {
				col += 2
				continue
			}
			if hasPrefixAt(runes, col, want) {
				return Position{Line: line, Column: col}, true
			}
			col++
		}
		if sameLine {
			break
		}
	}
	return Position{}, false
}

func hasPrefixAt(runes []rune, at int, prefix []rune) bool {
	if at+len(prefix) > len(runes) {
		return false
	}
	for i, r := range prefix {
		if runes[at+i] != r {
			return false
		}
	}
	return true
}

func closerOf(open rune) rune {
	if open == '[' {
		return ']'
	}
	return ')'
}

func (p *Parser) parseTopLevel() []Node {
	var nodes []Node
	for !p.atEnd() {
		progress := p.mustProgress()
		r := p.parseComment()
		// After the first error only comments are still recognised, so one
		// real mistake does not cascade.
		if !r.matched() && !p.err.HasError {
			r = p.first(
				(*Parser).parseString,
				(*Parser).parseBracketed,
				(*Parser).parseFunction,
				(*Parser).parseBlock,
				(*Parser).parseStatement,
			)
		}
		if r.matched() {
			nodes = append(nodes, r.node)
		}
		progress()
	}
	return nodes
}

// parseNested tries the productions that may appear inside brackets, blocks
// and statements.
func (p *Parser) parseNested() result {
	return p.first(
		(*Parser).parseComment,
		(*Parser).parseString,
		(*Parser).parseBracketed,
		(*Parser).parseFunction,
		(*Parser).parseBlock,
	)
}

func (p *Parser) parseComment() result {
	tok, ok := p.peek()
	if !ok || tok.Text != "/" {
		return p.none()
	}
	next, ok := p.peekN(1)
	if !ok || !tok.adjacent(next) {
		return p.none()
	}

	start := tok.Start()
	contentStart := Position{Line: tok.Line, Column: next.EndColumn + 1}
	code := p.lastCode
	defer func() { p.lastCode = code }()

	switch next.Text {
	case "/":
		for {
			cur, ok := p.peek()
			if !ok || cur.Line != tok.Line {
				break
			}
			p.advance()
		}
		end := p.last.End()
		content := strings.TrimSpace(p.text(contentStart, end))
		return p.ok(newComment(content, Range{Start: start, End: end}))

	case "*":
		p.advance()
		p.advance()
		closing, found := p.find(contentStart, "*/", false)
		if !found {
			for !p.atEnd() {
				p.advance()
			}
			end := p.last.End()
			content := strings.TrimSpace(p.text(contentStart, end))
			return p.fail(newComment(content, Range{Start: start, End: end}), "unclosed multiline comment", start)
		}
		end := Position{Line: closing.Line, Column: closing.Column + 1}
		p.skipThrough(end)
		contentEnd := Position{Line: closing.Line, Column: closing.Column - 1}
		content := strings.TrimSpace(p.text(contentStart, contentEnd))
		return p.ok(newComment(content, Range{Start: start, End: end}))
	}

	return p.none()
}

func (p *Parser) parseString() result {
	tok, ok := p.peek()
	if !ok {
		return p.none()
	}
	switch tok.Text {
	case `"`, `'`:
	case "/":
		if !regexAllowedAfter(p.lastCode) {
			return p.none()
		}
	default:
		return p.none()
	}

	p.advance()
	delim := []rune(tok.Text)[0]
	start := tok.Start()
	contentStart := Position{Line: tok.Line, Column: tok.EndColumn + 1}

	closing, found := p.find(contentStart, tok.Text, true)
	if !found {
		for {
			cur, ok := p.peek()
			if !ok || cur.Line != tok.Line {
				break
			}
			p.advance()
		}
		end := p.last.End()
		node := newString(p.text(contentStart, end), Range{Start: start, End: end}, delim, "")
		msg := "unclosed string"
		if delim == '/' {
			msg = "unclosed regular expression"
		}
		return p.fail(node, msg, start)
	}

	p.skipThrough(closing)
	end := closing
	flags := ""
	if delim == '/' {
		if next, ok := p.peek(); ok && next.IsName && next.Line == closing.Line && next.Column == closing.Column+1 {
			flags = next.Text
			p.advance()
			end = next.End()
		}
	}
	content := p.text(contentStart, Position{Line: closing.Line, Column: closing.Column - 1})
	return p.ok(newString(content, Range{Start: start, End: end}, delim, flags))
}

func (p *Parser) parseBracketed() result {
	open, ok := p.peek()
	if !ok || (open.Text != "(" && open.Text != "[") {
		return p.none()
	}
	p.advance()
	openRune := []rune(open.Text)[0]
	want := string(closerOf(openRune))
	start := open.Start()
	contentStart := Position{Line: open.Line, Column: open.EndColumn + 1}

	var children []Node
	var fragment []Token
	flush := func() {
		if len(fragment) == 0 {
			return
		}
		r := Range{Start: fragment[0].Start(), End: fragment[len(fragment)-1].End()}
		children = append(children, newUnknown(p.text(r.Start, r.End), r, false))
		fragment = nil
	}
	build := func(contentEnd, end Position) *Bracketed {
		text := strings.TrimSpace(p.text(contentStart, contentEnd))
		return newBracketed(text, Range{Start: start, End: end}, openRune, children)
	}

	for {
		cur, ok := p.peek()
		if !ok {
			flush()
			end := p.lastEnd(start)
			return p.fail(build(end, end), "unclosed bracket", start)
		}

		switch cur.Text {
		case want:
			flush()
			p.advance()
			return p.ok(build(Position{Line: cur.Line, Column: cur.Column - 1}, cur.End()))
		case ")", "]":
			flush()
			p.advance()
			return p.fail(build(Position{Line: cur.Line, Column: cur.Column - 1}, cur.End()), "expected '"+want+"'", cur.Start())
		case "}":
			flush()
			end := p.lastEnd(start)
			return p.fail(build(end, end), "unexpected '}'", cur.Start())
		case ",":
			flush()
			p.advance()
			children = append(children, newUnknown(",", Range{Start: cur.Start(), End: cur.End()}, true))
			continue
		}

		if cur.Text == "(" && isCallPrefix(fragment) {
			object, function := fragment[len(fragment)-3], fragment[len(fragment)-1]
			fragment = fragment[:len(fragment)-3]
			flush()
			children = append(children, p.parseCall(object, function))
			continue
		}
		if r := p.parseNested(); r.matched() {
			flush()
			children = append(children, r.node)
			continue
		}
		fragment = append(fragment, p.advance())
	}
}

func (p *Parser) parseFunction() result {
	tok, ok := p.peek()
	if !ok || !tok.IsName || tok.Text != "function" {
		return p.none()
	}
	p.advance()
	start := tok.Start()

	name := ""
	if next, ok := p.peek(); ok && next.IsName {
		name = next.Text
		p.advance()
	}

	var args []*Argument
	build := func(body *Block) *Function {
		return newFunction(name, Range{Start: start, End: p.lastEnd(start)}, args, body)
	}

	if !p.check("(") {
		pos := p.here()
		return p.fail(build(nil), "expected '('", pos)
	}
	p.advance()

	expectArg := true
	for closed := false; !closed; {
		if p.parseComment().matched() {
			continue
		}
		cur, ok := p.peek()
		switch {
		case !ok:
			pos := p.here()
			return p.fail(build(nil), "unexpected end of input", pos)
		case cur.Text == ")":
			p.advance()
			closed = true
		case expectArg && cur.IsName:
			p.advance()
			args = append(args, newArgument(cur))
			expectArg = false
		case !expectArg && cur.Text == ",":
			p.advance()
			expectArg = true
		case expectArg:
			return p.fail(build(nil), "expected argument or ')'", cur.Start())
		default:
			return p.fail(build(nil), "expected ',' or ')'", cur.Start())
		}
	}

	for p.parseComment().matched() {
	}
	if !p.check("{") {
		pos := p.here()
		return p.fail(build(nil), "missing function body", pos)
	}
	r := p.parseBlock()
	return result{node: build(r.node.(*Block)), err: r.err}
}

func (p *Parser) parseBlock() result {
	open, ok := p.peek()
	if !ok || open.Text != "{" {
		return p.none()
	}
	p.advance()
	start := open.Start()
	contentStart := Position{Line: open.Line, Column: open.EndColumn + 1}

	var children []Node
	build := func(contentEnd, end Position) *Block {
		text := strings.TrimSpace(p.text(contentStart, contentEnd))
		return newBlock(text, Range{Start: start, End: end}, children)
	}

	for {
		cur, ok := p.peek()
		if !ok {
			end := p.lastEnd(start)
			return p.fail(build(end, end), "unclosed block", start)
		}
		if cur.Text == "}" {
			p.advance()
			return p.ok(build(Position{Line: cur.Line, Column: cur.Column - 1}, cur.End()))
		}

		progress := p.mustProgress()
		r := p.parseNested()
		if !r.matched() {
			r = p.parseStatement()
		}
		if r.matched() {
			children = append(children, r.node)
		}
		progress()
	}
}

// parseStatement collects tokens up to a ';' (consumed) or a '}' (left for
// the enclosing block). Nested constructs become children.
func (p *Parser) parseStatement() result {
	first, ok := p.peek()
	if !ok {
		return p.none()
	}
	start := first.Start()

	var children []Node
	var direct []Token
	// tokens read since the last child, to spot name.name(
	var recent []Token
	hasContent := false

	for {
		cur, ok := p.peek()
		if !ok || cur.Text == "}" {
			break
		}
		if cur.Text == ";" {
			p.advance()
			break
		}

		if cur.Text == "(" && isCallPrefix(recent) {
			children = append(children, p.parseCall(recent[len(recent)-3], recent[len(recent)-1]))
			recent = nil
			hasContent = true
			continue
		}

		if r := p.parseNested(); r.matched() {
			children = append(children, r.node)
			recent = nil
			hasContent = true
			if end, ok := blockEnd(r.node); ok {
				if next, ok := p.peek(); ok && statementEndsAfterBlock(end, next) {
					break
				}
			}
			continue
		}

		tok := p.advance()
		if p.semicolons && p.semicolonHint == nil && len(recent) > 0 && missingSemicolon(recent[len(recent)-1], tok) {
			pos := tok.Start()
			p.semicolonHint = &pos
		}
		direct = append(direct, tok)
		recent = append(recent, tok)
		hasContent = true
	}

	if !hasContent {
		return p.none()
	}
	end := p.lastEnd(start)
	keyword := ""
	if len(direct) > 0 && direct[0].IsName && direct[0].Start() == start {
		keyword = direct[0].Text
	}
	text := strings.TrimSpace(p.text(start, end))
	return p.ok(newStatement(text, Range{Start: start, End: end}, keyword, children))
}

// blockEnd returns where n closes a brace: a Block, or a Function with its
// body.
func blockEnd(n Node) (Position, bool) {
	switch v := n.(type) {
	case *Block:
		return v.Range().End, true
	case *Function:
		if v.Body() != nil {
			return v.Range().End, true
		}
	}
	return Position{}, false
}

// parseCall reads the argument list of object.function(...).
func (p *Parser) parseCall(object, function Token) *FunctionCall {
	args := p.parseBracketed().node.(*Bracketed)
	r := Range{Start: object.Start(), End: args.Range().End}
	return newFunctionCall(p.text(r.Start, r.End), r, object.Text, function.Text, args)
}

func isCallPrefix(recent []Token) bool {
	if len(recent) < 3 {
		return false
	}
	object, dot, function := recent[len(recent)-3], recent[len(recent)-2], recent[len(recent)-1]
	return object.IsName && dot.Text == "." && function.IsName
}
