package parser

// The checks in this file are lossy heuristics. They are kept apart from the
// productions so each can be reasoned about on its own.

// regexAllowedAfter decides whether a '/' following prev starts a regular
// expression literal rather than a division. prev is nil at the start of the
// input.
func regexAllowedAfter(prev *Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Text {
	case "=", "(", ":", "?":
		return true
	}
	return false
}

// Words after which a line break inside a statement is expected.
var continuationWords = map[string]bool{
	"else":       true,
	"do":         true,
	"var":        true,
	"let":        true,
	"const":      true,
	"new":        true,
	"typeof":     true,
	"in":         true,
	"instanceof": true,
	"case":       true,
}

// missingSemicolon reports whether the line break between two consecutive
// tokens of one statement probably lacks a ';'. Only used with
// WithSemicolonCheck.
func missingSemicolon(prev, next Token) bool {
	if next.Line <= prev.Line {
		return false
	}
	return prev.IsName && next.IsName && !continuationWords[prev.Text]
}

// Words that continue a statement after a closing '}'.
var blockContinuations = map[string]bool{
	"else":    true,
	"catch":   true,
	"finally": true,
	"while":   true,
}

// statementEndsAfterBlock reports whether a statement that just read a nested
// block ending at blockEnd is finished, given the token that follows. This
// keeps "if (x) { ... }" from swallowing the declarations after it.
func statementEndsAfterBlock(blockEnd Position, next Token) bool {
	return next.IsName && next.Line > blockEnd.Line && !blockContinuations[next.Text]
}
