package parser

import "fmt"

// Position addresses a character in a script: Line is 1-based, Column is the
// 0-based code point index within that line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Range is a span of script text. Both ends are inclusive.
type Range struct {
	Start Position
	End   Position
}

func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && !r.End.Before(pos)
}

func (r Range) ContainsRange(other Range) bool {
	return r.Contains(other.Start) && r.Contains(other.End)
}

func (r Range) Multiline() bool {
	return r.End.Line > r.Start.Line
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Token is a line-scoped piece of script text. EndColumn is inclusive.
type Token struct {
	Text      string
	Line      int
	Column    int
	EndColumn int
	IsName    bool
}

func (t Token) Start() Position {
	return Position{Line: t.Line, Column: t.Column}
}

func (t Token) End() Position {
	return Position{Line: t.Line, Column: t.EndColumn}
}

// adjacent reports whether next starts directly after t, with no whitespace
// or line break in between.
func (t Token) adjacent(next Token) bool {
	return t.Line == next.Line && next.Column == t.EndColumn+1
}

func (t Token) String() string {
	return fmt.Sprintf("%q@%d:%d", t.Text, t.Line, t.Column)
}
