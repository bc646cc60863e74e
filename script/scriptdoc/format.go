package scriptdoc

import (
	"strings"
)

// Format renders doc as Markdown for hover text.
func Format(doc *DocComment) string {
	if doc == nil {
		return ""
	}

	var parts []string
	if body := normalizeWhitespace(formatNodes(doc.Body)); body != "" {
		parts = append(parts, body)
	}

	var params []string
	for _, tag := range doc.BlockTags {
		if p, ok := tag.(Param); ok {
			params = append(params, strings.TrimSpace("- `"+p.Name+"` "+inlineText(p.Description)))
		}
	}
	if len(params) > 0 {
		parts = append(parts, "**Parameters**\n"+strings.Join(params, "\n"))
	}

	for _, tag := range doc.BlockTags {
		if s := formatBlockTag(tag); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// FormatPlainText renders the description of doc without any markup.
func FormatPlainText(doc *DocComment) string {
	if doc == nil {
		return ""
	}
	var sb strings.Builder
	for _, n := range doc.Body {
		sb.WriteString(formatNodePlain(n))
	}
	return normalizeWhitespace(sb.String())
}

// Summary returns the first sentence of the description.
func Summary(doc *DocComment) string {
	text := FormatPlainText(doc)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, ". "); i >= 0 {
		return text[:i+1]
	}
	return text
}

func formatNodes(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(formatNode(n))
	}
	return sb.String()
}

func formatNode(node Node) string {
	switch n := node.(type) {
	case Text:
		return n.Content
	case Code:
		return "`" + n.Content + "`"
	case Link:
		if n.Label != "" {
			return n.Label + " (`" + n.Reference + "`)"
		}
		return "`" + n.Reference + "`"
	case UnknownInlineTag:
		return n.Content
	}
	return ""
}

func formatNodePlain(node Node) string {
	switch n := node.(type) {
	case Text:
		return n.Content
	case Code:
		return n.Content
	case Link:
		if n.Label != "" {
			return n.Label
		}
		return n.Reference
	case UnknownInlineTag:
		return n.Content
	}
	return ""
}

func inlineText(nodes []Node) string {
	return normalizeWhitespace(formatNodes(nodes))
}

func formatBlockTag(tag Node) string {
	switch t := tag.(type) {
	case Return:
		return "**Returns** " + inlineText(t.Description)
	case See:
		return "**See** " + inlineText(t.Reference)
	case Since:
		return "**Since** " + inlineText(t.Version)
	case Deprecated:
		return strings.TrimSpace("**Deprecated** " + inlineText(t.Description))
	case UnknownBlockTag:
		return strings.TrimSpace("**@" + t.Name + "** " + inlineText(t.Content))
	}
	return ""
}

// normalizeWhitespace joins the lines of each paragraph with single spaces
// and separates paragraphs by one blank line.
func normalizeWhitespace(s string) string {
	var paragraphs []string
	for _, para := range strings.Split(s, "\n\n") {
		if words := strings.Fields(para); len(words) > 0 {
			paragraphs = append(paragraphs, strings.Join(words, " "))
		}
	}
	return strings.Join(paragraphs, "\n\n")
}
