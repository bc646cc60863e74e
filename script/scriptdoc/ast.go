// Package scriptdoc parses documentation comments written above script
// functions, e.g.
//
//	/**
//	 * Trims the text. Uses {@code helper.trim}.
//	 * @param text the input
//	 * @return the trimmed text
//	 */
package scriptdoc

// Node is the interface implemented by all doc comment nodes.
type Node interface {
	node()
}

// DocComment is a parsed documentation comment.
type DocComment struct {
	Body      []Node // Description before the first block tag
	BlockTags []Node
}

func (DocComment) node() {}

// Text is plain text content.
type Text struct {
	Content string
}

func (Text) node() {}

// Code is a {@code ...} inline tag.
type Code struct {
	Content string
}

func (Code) node() {}

// Link is a {@link ...} inline tag.
type Link struct {
	Reference string // e.g. "helper.trim"
	Label     string
}

func (Link) node() {}

type UnknownInlineTag struct {
	Name    string
	Content string
}

func (UnknownInlineTag) node() {}

// Param is a @param block tag.
type Param struct {
	Name        string
	Description []Node
}

func (Param) node() {}

// Return is a @return or @returns block tag.
type Return struct {
	Description []Node
}

func (Return) node() {}

type See struct {
	Reference []Node
}

func (See) node() {}

type Since struct {
	Version []Node
}

func (Since) node() {}

type Deprecated struct {
	Description []Node
}

func (Deprecated) node() {}

// UnknownBlockTag is any block tag without a dedicated node.
type UnknownBlockTag struct {
	Name    string
	Content []Node
}

func (UnknownBlockTag) node() {}
