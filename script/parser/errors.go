package parser

import "fmt"

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInformation
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInformation:
		return "information"
	}
	return "unknown"
}

// ErrorState holds the single diagnostic of a parse pass. The first recorded
// problem wins; later ones are dropped.
type ErrorState struct {
	HasError bool
	Message  string
	Line     int
	Column   int
	// AffectedLine points at a related earlier line, e.g. a previous
	// definition. Zero when unset.
	AffectedLine int
	Severity     Severity
}

// record is the only place an ErrorState is written. It reports whether the
// problem was kept.
func (e *ErrorState) record(severity Severity, msg string, pos Position, affectedLine int) bool {
	if e.HasError {
		return false
	}
	*e = ErrorState{
		HasError:     true,
		Message:      msg,
		Line:         pos.Line,
		Column:       pos.Column,
		AffectedLine: affectedLine,
		Severity:     severity,
	}
	return true
}

func (e *ErrorState) Position() Position {
	return Position{Line: e.Line, Column: e.Column}
}

func (e *ErrorState) Error() string {
	msg := fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	if e.AffectedLine > 0 {
		msg += fmt.Sprintf(" (see line %d)", e.AffectedLine)
	}
	return msg
}

// Err returns e as an error, or nil when nothing was recorded.
func (e *ErrorState) Err() error {
	if e == nil || !e.HasError {
		return nil
	}
	return e
}
