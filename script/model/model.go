// Package model indexes the committed top-level nodes of one parse for
// repeated editor queries: position lookups, outline navigation and id
// lookups for the documentation dictionary.
//
// Row 0 of a Model is always a synthetic placeholder summarising the list
// ("no functions", "1 function", "3 functions"). A Model is not safe for
// concurrent mutation; hosts commit a new Model instead of editing a shared
// one.
package model

import (
	"fmt"
	"sort"

	"github.com/dhamidi/scriptlens/script/parser"
)

type Model struct {
	placeholder *parser.Empty
	nodes       []parser.Node
	err         parser.ErrorState
}

// New returns an empty model holding only the placeholder.
func New() *Model {
	m := &Model{}
	m.refresh()
	return m
}

// FromResult commits the nodes and diagnostic of a parse.
func FromResult(res *parser.Result) *Model {
	m := New()
	if res == nil {
		return m
	}
	m.SetAll(res.Nodes)
	m.err = res.Error
	return m
}

// Error is the diagnostic of the parse the model was built from.
func (m *Model) Error() parser.ErrorState {
	return m.err
}

// SetAll replaces every node.
func (m *Model) SetAll(nodes []parser.Node) {
	m.nodes = append([]parser.Node(nil), nodes...)
	m.sort()
	m.refresh()
}

// AppendAll merges nodes into the list, keeping it ordered by start line.
// On equal lines existing nodes come first.
func (m *Model) AppendAll(nodes []parser.Node) {
	merged := make([]parser.Node, 0, len(m.nodes)+len(nodes))
	merged = append(merged, m.nodes...)
	m.nodes = append(merged, nodes...)
	m.sort()
	m.refresh()
}

// RemoveRange removes rows first through last, both inclusive. Row 0 is the
// placeholder and is never removed.
func (m *Model) RemoveRange(first, last int) {
	first = max(first, 1)
	last = min(last, len(m.nodes))
	if first > last {
		return
	}
	kept := make([]parser.Node, 0, len(m.nodes)-(last-first+1))
	kept = append(kept, m.nodes[:first-1]...)
	m.nodes = append(kept, m.nodes[last:]...)
	m.refresh()
}

func (m *Model) Clear() {
	m.nodes = nil
	m.err = parser.ErrorState{}
	m.refresh()
}

func (m *Model) sort() {
	sort.SliceStable(m.nodes, func(i, j int) bool {
		return m.nodes[i].Range().Start.Line < m.nodes[j].Range().Start.Line
	})
}

func (m *Model) refresh() {
	m.placeholder = parser.NewEmpty(summary(len(m.Functions())))
}

func summary(functions int) string {
	switch functions {
	case 0:
		return "no functions"
	case 1:
		return "1 function"
	}
	return fmt.Sprintf("%d functions", functions)
}

// Len is the number of rows, placeholder included.
func (m *Model) Len() int {
	return len(m.nodes) + 1
}

// Node returns the node in row, or nil when row is out of range.
func (m *Model) Node(row int) parser.Node {
	switch {
	case row == 0:
		return m.placeholder
	case row < 0 || row > len(m.nodes):
		return nil
	}
	return m.nodes[row-1]
}

// Nodes returns the parsed top-level nodes without the placeholder.
func (m *Model) Nodes() []parser.Node {
	return m.nodes
}

// Content returns every row, placeholder first.
func (m *Model) Content() []parser.Node {
	rows := make([]parser.Node, 0, m.Len())
	rows = append(rows, m.placeholder)
	return append(rows, m.nodes...)
}

func (m *Model) Placeholder() *parser.Empty {
	return m.placeholder
}

// Functions returns the top-level functions in line order.
func (m *Model) Functions() []*parser.Function {
	var fns []*parser.Function
	for _, n := range m.nodes {
		if fn, ok := n.(*parser.Function); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// FunctionNames returns the names of the named top-level functions.
func (m *Model) FunctionNames() []string {
	var names []string
	for _, fn := range m.Functions() {
		if !fn.Anonymous() {
			names = append(names, fn.Name())
		}
	}
	return names
}

// Function returns the first top-level function called name.
func (m *Model) Function(name string) *parser.Function {
	for _, fn := range m.Functions() {
		if fn.Name() == name {
			return fn
		}
	}
	return nil
}

// FindByID returns the first node in document order whose ID is id.
func (m *Model) FindByID(id string) parser.Node {
	if id == "" {
		return nil
	}
	var found parser.Node
	for _, n := range m.nodes {
		parser.Walk(n, func(n parser.Node) bool {
			if found != nil {
				return false
			}
			if n.ID() == id {
				found = n
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// DocComment returns the top-level comment ending on the line directly above
// fn, if any.
func (m *Model) DocComment(fn *parser.Function) *parser.Comment {
	if fn == nil {
		return nil
	}
	want := fn.Range().Start.Line - 1
	for _, n := range m.nodes {
		if c, ok := n.(*parser.Comment); ok && c.Range().End.Line == want {
			return c
		}
	}
	return nil
}
