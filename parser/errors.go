package parser

import (
	"encoding/json"
	"fmt"

	"ledgerparse/ast"
)

// DiagnosticKind classifies a Diagnostic by where it was detected and how severe
// it is. None of them abort parsing; they accumulate on a Diagnostics collector
// and the directive (or token) that produced them is handled per the recovery
// rule for that kind.
type DiagnosticKind uint8

const (
	// LexerError: an unrecognized or invalid byte, a malformed account/currency
	// lexeme, or an invalid calendar date. The scanner skips the rest of the line
	// after an unrecognized or invalid byte; a malformed account, currency, or
	// date drops the directive that contains it.
	LexerError DiagnosticKind = iota
	// ParserSyntaxError: the token stream didn't match the grammar at some point.
	// The parser resyncs at the next DATE token or directive keyword.
	ParserSyntaxError
	// ParserError: the grammar matched but a semantic rule was violated (e.g. a
	// zero-unit posting with a cost). The offending directive is usually dropped.
	ParserError
	// DeprecatedWarning: the input is accepted, but uses a deprecated construct.
	DeprecatedWarning
)

func (k DiagnosticKind) String() string {
	switch k {
	case LexerError:
		return "LexerError"
	case ParserSyntaxError:
		return "ParserSyntaxError"
	case ParserError:
		return "ParserError"
	case DeprecatedWarning:
		return "DeprecatedWarning"
	default:
		return "Unknown"
	}
}

// Diagnostic is a single non-fatal finding produced while scanning or parsing.
type Diagnostic struct {
	Kind     DiagnosticKind
	Location ast.Position
	Message  string
	// OffendingEntity is a short description of what was dropped or altered as a
	// result (e.g. "posting on line 12"), empty when nothing was dropped.
	OffendingEntity string
}

func (d Diagnostic) Error() string {
	if d.OffendingEntity != "" {
		return fmt.Sprintf("%s: %s: %s (%s)", d.Location, d.Kind, d.Message, d.OffendingEntity)
	}
	return fmt.Sprintf("%s: %s: %s", d.Location, d.Kind, d.Message)
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"kind":             d.Kind.String(),
		"location":         d.Location,
		"message":          d.Message,
		"offending_entity": d.OffendingEntity,
	})
}

// Diagnostics accumulates findings across a single parse. It is never used to
// abort: every parse method keeps going after recording one.
type Diagnostics struct {
	items []Diagnostic
}

func (d *Diagnostics) Add(kind DiagnosticKind, pos ast.Position, format string, args ...any) {
	d.items = append(d.items, Diagnostic{Kind: kind, Location: pos, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) AddDropped(kind DiagnosticKind, pos ast.Position, entity, format string, args ...any) {
	d.items = append(d.items, Diagnostic{Kind: kind, Location: pos, Message: fmt.Sprintf(format, args...), OffendingEntity: entity})
}

// All returns every diagnostic recorded so far, in the order they were added
// (which is source order, since the parser never reorders directives).
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Kind != DeprecatedWarning {
			return true
		}
	}
	return false
}
