package codebase

import (
	"strings"

	"github.com/dhamidi/scriptlens/script/parser"
)

type CompletionKind int

const (
	CompletionKindMethod CompletionKind = iota
	CompletionKindFunction
)

type CompletionItem struct {
	Label         string
	Kind          CompletionKind
	Detail        string
	InsertText    string
	Documentation string
}

// CompletionsAtPoint lists what may be typed at line:column. After
// "object." these are the methods of a known object; elsewhere the
// top-level functions of the file. Only items starting with the partly typed
// name are returned.
func (c *Codebase) CompletionsAtPoint(path string, line, column int) []CompletionItem {
	f := c.GetFile(path)
	if f == nil {
		return nil
	}

	object, prefix, afterDot := completionContext(lineAt(f.Content, line), column)
	if afterDot {
		return c.memberCompletions(object, prefix)
	}

	var items []CompletionItem
	for _, fn := range f.Model.Functions() {
		if fn.Anonymous() || !strings.HasPrefix(fn.Name(), prefix) {
			continue
		}
		item := CompletionItem{
			Label:      fn.Name(),
			Kind:       CompletionKindFunction,
			Detail:     "function " + fn.Signature(),
			InsertText: fn.Name() + "(",
		}
		if doc := f.Model.DocComment(fn); doc != nil {
			item.Documentation = doc.Text()
		}
		items = append(items, item)
	}
	return items
}

func (c *Codebase) memberCompletions(object, prefix string) []CompletionItem {
	if c.members == nil || object == "" {
		return nil
	}
	methods, ok := c.members.Members(object)
	if !ok {
		return nil
	}

	var items []CompletionItem
	for _, method := range methods {
		if !strings.HasPrefix(method, prefix) {
			continue
		}
		item := CompletionItem{
			Label:      method,
			Kind:       CompletionKindMethod,
			Detail:     object + "." + method,
			InsertText: method + "(",
		}
		if c.docs != nil {
			item.Documentation, _ = c.docs.Describe("call:" + object + "." + method)
		}
		items = append(items, item)
	}
	return items
}

// completionContext inspects the text before column. It returns the object
// name and the partly typed member when the cursor follows "object." or
// "object.par", and otherwise the partly typed name.
func completionContext(line string, column int) (object, prefix string, afterDot bool) {
	runes := []rune(line)
	before := parser.Tokenize(string(runes[:min(max(column, 0), len(runes))]))
	if len(before) == 0 {
		return "", "", false
	}

	last := before[len(before)-1]
	if last.IsName && last.EndColumn == column-1 {
		prefix = last.Text
		before = before[:len(before)-1]
		if len(before) == 0 || before[len(before)-1].EndColumn != last.Column-1 {
			return "", prefix, false
		}
		last = before[len(before)-1]
	}

	if last.Text != "." || last.EndColumn != column-1-len([]rune(prefix)) {
		return "", prefix, false
	}
	if len(before) >= 2 {
		if obj := before[len(before)-2]; obj.IsName && obj.EndColumn == last.Column-1 {
			return obj.Text, prefix, true
		}
	}
	return "", prefix, true
}
