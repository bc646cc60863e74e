package model

import (
	"github.com/dhamidi/scriptlens/script/parser"
)

// NodeAtPosition returns the top-level node containing line:column. With
// descend it returns the most specific descendant containing the position
// instead. It returns nil when no node contains the position.
func (m *Model) NodeAtPosition(line, column int, descend bool) parser.Node {
	pos := parser.Position{Line: line, Column: column}
	for _, n := range m.nodes {
		if !n.Range().Contains(pos) {
			continue
		}
		if descend {
			return findNodeAtPosition(n, pos)
		}
		return n
	}
	return nil
}

// findNodeAtPosition returns the deepest node under node containing pos.
func findNodeAtPosition(node parser.Node, pos parser.Position) parser.Node {
	for _, child := range node.Children() {
		if child.Range().Contains(pos) {
			return findNodeAtPosition(child, pos)
		}
	}
	return node
}

// NodeBeforeLine returns the closest top-level node of a kind in mask that
// starts before line. Failing that it returns a qualifying node whose range
// contains line, and failing that the placeholder.
func (m *Model) NodeBeforeLine(line int, mask parser.KindMask) parser.Node {
	var best parser.Node
	for _, n := range m.nodes {
		if !mask.Has(n.Kind()) {
			continue
		}
		if n.Range().Start.Line >= line {
			break
		}
		best = n
	}
	if best != nil {
		return best
	}
	return m.containingLine(line, mask)
}

// NodeAfterLine returns the closest top-level node of a kind in mask that
// starts after line, with the same fallbacks as NodeBeforeLine.
func (m *Model) NodeAfterLine(line int, mask parser.KindMask) parser.Node {
	for _, n := range m.nodes {
		if mask.Has(n.Kind()) && n.Range().Start.Line > line {
			return n
		}
	}
	return m.containingLine(line, mask)
}

func (m *Model) containingLine(line int, mask parser.KindMask) parser.Node {
	for _, n := range m.nodes {
		r := n.Range()
		if mask.Has(n.Kind()) && r.Start.Line <= line && line <= r.End.Line {
			return n
		}
	}
	return m.placeholder
}
