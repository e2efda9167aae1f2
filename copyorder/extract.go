package copyorder

import (
	"iter"
	"strings"

	"github.com/lex00/copysort-go/seq"
	"github.com/lex00/copysort-go/shell"
)

// CommandKind is the kind of a recognized copy command.
type CommandKind int

const (
	// Directory is the `d` command.
	Directory CommandKind = iota
	// File is the `f` command.
	File
)

// Command names recognized as copy commands. Matching is exact.
const (
	DirectoryCommand = "d"
	FileCommand      = "f"
)

// String returns the command name of the kind.
func (k CommandKind) String() string {
	if k == File {
		return FileCommand
	}
	return DirectoryCommand
}

func commandKind(name string) (CommandKind, bool) {
	switch name {
	case DirectoryCommand:
		return Directory, true
	case FileCommand:
		return File, true
	default:
		return 0, false
	}
}

// FirstArgument is the outcome of looking for a command's first non-flag
// argument. It is one of Absent, NonLiteral or Literal.
type FirstArgument interface {
	// literal returns the argument, or the diagnostic explaining why there
	// is no usable one.
	literal() (Literal, *Diagnostic)
}

// Absent means every argument, if any, starts with "-".
type Absent struct {
	Diagnostic *Diagnostic
}

func (a Absent) literal() (Literal, *Diagnostic) { return Literal{}, a.Diagnostic }

// NonLiteral means the first non-flag argument is not a plain word.
type NonLiteral struct {
	Token      shell.Token
	Diagnostic *Diagnostic
}

func (n NonLiteral) literal() (Literal, *Diagnostic) { return Literal{}, n.Diagnostic }

// Literal is a plain word argument, used as the sort key.
type Literal struct {
	Text  string
	Range shell.Range
}

func (l Literal) literal() (Literal, *Diagnostic) { return l, nil }

// Record is one recognized copy command.
type Record struct {
	// Name is the range of the command name token.
	Name  shell.Range
	Kind  CommandKind
	First FirstArgument
}

// Records returns the recognized copy commands among the top-level
// statements of script, in document order.
func Records(script *shell.Script) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, stmt := range script.Statements {
			switch s := stmt.(type) {
			case *shell.Command:
				kind, ok := commandKind(s.Name.Text)
				if !ok {
					continue
				}
				rec := Record{Name: s.Name.Range, Kind: kind, First: firstArgument(s)}
				if !yield(rec) {
					return
				}
			default:
				continue
			}
		}
	}
}

func isFlag(text string) bool {
	return strings.HasPrefix(text, "-")
}

func firstArgument(cmd *shell.Command) FirstArgument {
	for _, arg := range cmd.Args {
		if seq.Apply(arg.Text, isFlag) {
			continue
		}
		if arg.Kind != shell.TokenWord {
			return NonLiteral{
				Token:      arg,
				Diagnostic: newDiagnostic(NonLiteralArgument, arg.Range, "First argument must be a string literal."),
			}
		}
		return Literal{Text: arg.Text, Range: arg.Range}
	}
	return Absent{
		Diagnostic: newDiagnostic(MissingArgument, cmd.Name.Range, "Missing first argument."),
	}
}
