package copyorder

import (
	"fmt"
	"math"

	"github.com/lex00/copysort-go/lsp"
	"github.com/lex00/copysort-go/shell"
)

// Source is the diagnostic source reported to editors.
const Source = "copysort"

// Kind identifies which convention a diagnostic reports.
type Kind int

const (
	// MissingArgument means a copy command has no non-flag argument.
	MissingArgument Kind = iota
	// NonLiteralArgument means the first non-flag argument is not a plain word.
	NonLiteralArgument
	// OutOfOrderSection means a d command follows an f command.
	OutOfOrderSection
	// UnsortedArgument means two first arguments of one section are out of order.
	UnsortedArgument
	// ParseFailure means the script could not be parsed at all.
	ParseFailure
)

// String returns the stable code of the kind.
func (k Kind) String() string {
	switch k {
	case MissingArgument:
		return "missing-argument"
	case NonLiteralArgument:
		return "non-literal-argument"
	case OutOfOrderSection:
		return "out-of-order-section"
	case UnsortedArgument:
		return "unsorted-argument"
	case ParseFailure:
		return "parse-failure"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Kind    Kind      `json:"kind"`
	Range   lsp.Range `json:"range"`
	Message string    `json:"message"`
}

// Protocol converts the diagnostic to its editor protocol form.
func (d *Diagnostic) Protocol() lsp.Diagnostic {
	return lsp.Diagnostic{
		Range:    d.Range,
		Severity: lsp.SeverityError,
		Code:     d.Kind.String(),
		Source:   Source,
		Message:  d.Message,
	}
}

// ParseError is returned when a script cannot be parsed.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse script: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Diagnostic reports the parse failure at the start of the document.
func (e *ParseError) Diagnostic() *Diagnostic {
	return &Diagnostic{
		Kind:    ParseFailure,
		Message: e.Error(),
	}
}

func newDiagnostic(kind Kind, r shell.Range, message string) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Range:   toProtocol(r),
		Message: message,
	}
}

// toProtocol re-wraps a syntax tree range as a protocol range. Both are
// zero-based, so only the integer width changes.
func toProtocol(r shell.Range) lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: coord(r.Start.Row), Character: coord(r.Start.Column)},
		End:   lsp.Position{Line: coord(r.End.Row), Character: coord(r.End.Column)},
	}
}

// coord panics if v exceeds the protocol's uinteger range.
func coord(v uint32) int {
	if v > math.MaxInt32 {
		panic(fmt.Sprintf("copyorder: coordinate %d out of protocol range", v))
	}
	return int(v)
}
