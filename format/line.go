package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/scriptlens/script/parser"
)

// LineEncoder writes one tab separated line per node:
//
//	depth	kind	start	end	id
//
// followed by a final "error" line when the parse recorded a diagnostic.
type LineEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	if e.res == nil {
		return nil, nil
	}
	var sb strings.Builder

	for _, n := range e.res.Nodes {
		e.writeNode(&sb, n, 0)
	}

	if err := e.res.Error; err.HasError {
		fmt.Fprintf(&sb, "error\t%s\t%s\t%s\t%d\n",
			err.Severity,
			err.Position(),
			err.Message,
			err.AffectedLine,
		)
	}
	return []byte(sb.String()), nil
}

func (e *LineEncoder) writeNode(sb *strings.Builder, n parser.Node, depth int) {
	r := n.Range()
	fmt.Fprintf(sb, "%d\t%s\t%s\t%s\t%s\n", depth, n.Kind(), r.Start, r.End, n.ID())
	for _, child := range n.Children() {
		e.writeNode(sb, child, depth+1)
	}
}

// TreeEncoder writes the indented dump of every node.
type TreeEncoder struct {
	w             io.Writer
	res           *parser.Result
	showPositions bool
}

func NewTreeEncoder(w io.Writer, showPositions bool) *TreeEncoder {
	return &TreeEncoder{w: w, showPositions: showPositions}
}

func (e *TreeEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	if e.res == nil {
		return nil, nil
	}
	var sb strings.Builder
	for _, n := range e.res.Nodes {
		sb.WriteString(parser.Dump(n, e.showPositions))
	}
	if err := e.res.Error; err.HasError {
		fmt.Fprintf(&sb, "%s: %s\n", err.Severity, err.Error())
	}
	return []byte(sb.String()), nil
}
