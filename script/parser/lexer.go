package parser

import (
	"strings"
	"unicode"
)

// delimiters end a name token. They are always read as single-character tokens.
const delimiters = "-=#!$%&~;:,<>^`´/.+*(){}[]'\"?|"

// Lexer splits script text into tokens. It does no classification beyond
// telling names apart from single-character tokens; strings, regular
// expressions and comments are recognised later by the parser.
type Lexer struct {
	lines [][]rune
	line  int
	col   int
}

func NewLexer(src string) *Lexer {
	return &Lexer{lines: splitLines(src)}
}

// splitLines breaks src at "\n", "\r\n" and "\r".
func splitLines(src string) [][]rune {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	parts := strings.Split(src, "\n")
	lines := make([][]rune, len(parts))
	for i, part := range parts {
		lines[i] = []rune(part)
	}
	return lines
}

// NextToken returns the next token, or false once the input is exhausted.
func (l *Lexer) NextToken() (Token, bool) {
	for l.line < len(l.lines) {
		text := l.lines[l.line]
		for l.col < len(text) && unicode.IsSpace(text[l.col]) {
			l.col++
		}
		if l.col >= len(text) {
			l.line++
			l.col = 0
			continue
		}

		start := l.col
		if isASCIILetter(text[start]) {
			end := start + 1
			for end < len(text) && !unicode.IsSpace(text[end]) && !isDelimiter(text[end]) {
				end++
			}
			l.col = end
			return Token{
				Text:      string(text[start:end]),
				Line:      l.line + 1,
				Column:    start,
				EndColumn: end - 1,
				IsName:    true,
			}, true
		}

		l.col++
		return Token{
			Text:      string(text[start]),
			Line:      l.line + 1,
			Column:    start,
			EndColumn: start,
		}, true
	}
	return Token{}, false
}

// Tokenize returns every token of src in order.
func Tokenize(src string) []Token {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, ok := l.NextToken()
		if !ok {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDelimiter(r rune) bool {
	return strings.ContainsRune(delimiters, r)
}
