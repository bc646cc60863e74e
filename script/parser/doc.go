// Package parser turns script source into a tree of nodes for editor tooling.
//
// # Overview
//
// The parser is built for text that is being typed: it never gives up on
// malformed input. It returns the nodes it could build together with a
// single diagnostic, the first problem it met.
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Source    │────▶│   Lexer     │────▶│   Parser    │────▶│  Validator  │
//	│  (string)   │     │  (tokens)   │     │  (nodes)    │     │ (post-pass) │
//	└─────────────┘     └─────────────┘     └─────────────┘     └─────────────┘
//
// # Tokens
//
// Tokens never span lines. A token starting with an ASCII letter extends up
// to whitespace or a delimiter and is a name; every other character is a
// token of its own. Strings, regular expressions and comments are recognised
// by the parser from those single-character tokens, using the source text to
// honour backslash escapes.
//
// # Nodes
//
// Node is a closed set of kinds: Comment, String, Statement, Bracketed,
// FunctionCall, Block, Argument, Function, Unknown and Empty. Every node
// carries its range (1-based lines, 0-based columns, inclusive ends), its
// children and a back-reference to its parent.
//
// # Errors
//
// Each production returns the node it built and the error slot shared by the
// pass. Only the first recorded problem is kept. Once a problem is recorded,
// the top level only recognises comments for the rest of the pass. The
// validator then checks for duplicate function names and, given a
// MemberTable, for calls to unknown methods of known objects; both only
// report when the slot is still empty.
//
// # Usage
//
//	res := parser.Parse(src, parser.WithMembers(parser.MemberMap{
//	    "helper": {"trim", "stripTags"},
//	}))
//	for _, n := range res.Nodes {
//	    fmt.Print(parser.Dump(n, true))
//	}
//	if err := res.Error.Err(); err != nil {
//	    fmt.Println(err)
//	}
package parser
