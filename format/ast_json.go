package format

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/dhamidi/scriptlens/script/parser"
)

// ASTJSONEncoder writes the nodes of a parse and its diagnostic as indented
// JSON.
type ASTJSONEncoder struct {
	w   io.Writer
	res *parser.Result
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(res *parser.Result) error {
	e.res = res
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText() ([]byte, error) {
	return json.MarshalIndent(resultToJSON(e.res), "", "  ")
}

type astJSONResult struct {
	Nodes []*astJSONNode  `json:"nodes"`
	Error *astJSONProblem `json:"error,omitempty"`
}

type astJSONNode struct {
	Kind      string         `json:"kind"`
	ID        string         `json:"id,omitempty"`
	Span      astJSONSpan    `json:"span"`
	Text      string         `json:"text,omitempty"`
	Keyword   string         `json:"keyword,omitempty"`
	Delimiter string         `json:"delimiter,omitempty"`
	Flags     string         `json:"flags,omitempty"`
	Object    string         `json:"object,omitempty"`
	Function  string         `json:"function,omitempty"`
	Arguments []string       `json:"arguments,omitempty"`
	Children  []*astJSONNode `json:"children,omitempty"`
}

type astJSONSpan struct {
	Start astJSONPosition `json:"start"`
	End   astJSONPosition `json:"end"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type astJSONProblem struct {
	Message      string          `json:"message"`
	Severity     string          `json:"severity"`
	Position     astJSONPosition `json:"position"`
	AffectedLine int             `json:"affectedLine,omitempty"`
}

func resultToJSON(res *parser.Result) *astJSONResult {
	out := &astJSONResult{Nodes: []*astJSONNode{}}
	if res == nil {
		return out
	}
	for _, n := range res.Nodes {
		out.Nodes = append(out.Nodes, nodeToJSON(n))
	}
	if e := res.Error; e.HasError {
		out.Error = &astJSONProblem{
			Message:      e.Message,
			Severity:     e.Severity.String(),
			Position:     astJSONPosition{Line: e.Line, Column: e.Column},
			AffectedLine: e.AffectedLine,
		}
	}
	return out
}

func nodeToJSON(n parser.Node) *astJSONNode {
	r := n.Range()
	jn := &astJSONNode{
		Kind: n.Kind().String(),
		ID:   n.ID(),
		Span: astJSONSpan{
			Start: astJSONPosition{Line: r.Start.Line, Column: r.Start.Column},
			End:   astJSONPosition{Line: r.End.Line, Column: r.End.Column},
		},
	}

	switch v := n.(type) {
	case *parser.Statement:
		jn.Keyword = v.Keyword()
	case *parser.String:
		jn.Text = v.Text()
		jn.Delimiter = string(v.Delimiter())
		jn.Flags = v.Flags()
	case *parser.FunctionCall:
		jn.Object = v.Object()
		jn.Function = v.Function()
	case *parser.Function:
		jn.Function = v.Name()
		for _, arg := range v.Arguments() {
			jn.Arguments = append(jn.Arguments, arg.Name())
		}
	case *parser.Comment, *parser.Unknown:
		jn.Text = n.Text()
	}

	if children := n.Children(); len(children) > 0 {
		jn.Children = make([]*astJSONNode, len(children))
		for i, child := range children {
			jn.Children[i] = nodeToJSON(child)
		}
	}

	return jn
}
