package format

import (
	"encoding"
	"io"

	"github.com/dhamidi/scriptlens/script/parser"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(res *parser.Result) error
}

// New returns the encoder registered under name ("json", "line" or "text").
func New(name string, w io.Writer, showPositions bool) (Encoder, bool) {
	switch name {
	case "json":
		return NewASTJSONEncoder(w), true
	case "line":
		return NewLineEncoder(w), true
	case "text":
		return NewTreeEncoder(w, showPositions), true
	}
	return nil, false
}
