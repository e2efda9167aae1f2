// Package copyorder checks the ordering convention of `d` (directory) and
// `f` (file) copy commands in shell scripts.
//
// Within each run of same-kind commands the first non-flag arguments must
// be in ascending lexical order, and every `d` command must precede every
// `f` command. Validation stops at the first violation and reports exactly
// one Diagnostic.
package copyorder

import (
	"context"
	"fmt"

	"github.com/lex00/copysort-go/seq"
	"github.com/lex00/copysort-go/shell"
)

const sectionOrderMessage = "The first f command should appear after the last d command."

// Validate parses text as a bash script and checks it. It returns nil, nil
// when the script follows the convention, or the first violation found.
// A script that cannot be parsed yields a *ParseError.
func Validate(ctx context.Context, text []byte) (*Diagnostic, error) {
	script, err := shell.Parse(ctx, text)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return Check(script), nil
}

// Check validates an already parsed script.
func Check(script *shell.Script) *Diagnostic {
	for prev, curr := range seq.Pairs(Records(script)) {
		if d := checkPair(prev, curr); d != nil {
			return d
		}
	}
	return nil
}

func checkPair(prev, curr Record) *Diagnostic {
	prevArg, d := prev.First.literal()
	if d != nil {
		return d
	}
	currArg, d := curr.First.literal()
	if d != nil {
		return d
	}

	if prev.Kind != curr.Kind {
		if prev.Kind == File {
			return newDiagnostic(OutOfOrderSection, prev.Name, sectionOrderMessage)
		}
		return nil
	}

	if prevArg.Text <= currArg.Text {
		return nil
	}
	return newDiagnostic(UnsortedArgument, currArg.Range, sortMessage(prevArg.Text, currArg.Text))
}

func sortMessage(prev, curr string) string {
	return fmt.Sprintf("First argument `%s` should appear before `%s`. "+
		"First arguments should be sorted alphabetically within the f(ile) and d(irectory) sections.", curr, prev)
}
