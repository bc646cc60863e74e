package scriptdoc

import (
	"strings"
	"unicode"
)

// Parser reads the cleaned lines of one doc comment.
type Parser struct {
	lines []string
	pos   int
}

// Parse parses a doc comment. It accepts the raw comment including its
// markers as well as the content of a parsed comment node.
func Parse(comment string) *DocComment {
	p := &Parser{lines: cleanLines(comment)}
	return p.parseDocComment()
}

// cleanLines removes the comment markers and the leading '*' of every line.
func cleanLines(comment string) []string {
	s := strings.TrimSpace(comment)
	if len(s) >= 4 && strings.HasPrefix(s, "/*") && strings.HasSuffix(s, "*/") {
		s = s[2 : len(s)-2]
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line[1:], " ")
		}
		lines = append(lines, strings.TrimRightFunc(line, unicode.IsSpace))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (p *Parser) parseDocComment() *DocComment {
	doc := &DocComment{}

	var body []string
	for p.pos < len(p.lines) && !isBlockTag(p.lines[p.pos]) {
		body = append(body, p.lines[p.pos])
		p.pos++
	}
	doc.Body = parseInline(strings.Join(body, "\n"))

	for p.pos < len(p.lines) {
		doc.BlockTags = append(doc.BlockTags, p.parseBlockTag())
	}
	return doc
}

func isBlockTag(line string) bool {
	return len(line) > 1 && line[0] == '@' && unicode.IsLetter(rune(line[1]))
}

// parseBlockTag reads one @tag line and its continuation lines.
func (p *Parser) parseBlockTag() Node {
	line := p.lines[p.pos]
	p.pos++

	name, rest, _ := strings.Cut(line[1:], " ")
	content := []string{strings.TrimSpace(rest)}
	for p.pos < len(p.lines) && !isBlockTag(p.lines[p.pos]) {
		content = append(content, strings.TrimSpace(p.lines[p.pos]))
		p.pos++
	}
	text := strings.TrimSpace(strings.Join(content, "\n"))

	switch name {
	case "param":
		paramName, desc, _ := strings.Cut(text, " ")
		return Param{Name: paramName, Description: parseInline(strings.TrimSpace(desc))}
	case "return", "returns":
		return Return{Description: parseInline(text)}
	case "see":
		return See{Reference: parseInline(text)}
	case "since":
		return Since{Version: parseInline(text)}
	case "deprecated":
		return Deprecated{Description: parseInline(text)}
	}
	return UnknownBlockTag{Name: name, Content: parseInline(text)}
}

// parseInline splits text into Text nodes and {@...} inline tags. An
// unclosed inline tag is kept as text.
func parseInline(text string) []Node {
	var nodes []Node
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			nodes = append(nodes, Text{Content: buf.String()})
			buf.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); {
		if runes[i] == '{' && i+1 < len(runes) && runes[i+1] == '@' {
			if end, ok := matchingBrace(runes, i); ok {
				flush()
				nodes = append(nodes, inlineTag(string(runes[i+2:end])))
				i = end + 1
				continue
			}
		}
		buf.WriteRune(runes[i])
		i++
	}
	flush()
	return nodes
}

// matchingBrace finds the '}' closing the '{' at open, honouring nesting.
func matchingBrace(runes []rune, open int) (int, bool) {
	depth := 0
	for i := open; i < len(runes); i++ {
		switch runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func inlineTag(tag string) Node {
	name, content, _ := strings.Cut(tag, " ")
	content = strings.TrimSpace(content)
	switch name {
	case "code", "literal":
		return Code{Content: content}
	case "link", "linkplain":
		ref, label, _ := strings.Cut(content, " ")
		return Link{Reference: ref, Label: strings.TrimSpace(label)}
	}
	return UnknownInlineTag{Name: name, Content: content}
}
