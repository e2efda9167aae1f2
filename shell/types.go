// Package shell parses bash scripts into a small typed model of their
// top-level statements.
//
// Only the parts of the syntax tree that lint rules inspect are kept: the
// ordered top-level statements, and for simple commands their name and
// argument tokens with literal text, syntactic kind, and source range.
package shell

// Point is a zero-based row and column (byte offset within the row).
type Point struct {
	Row    uint32 `json:"row"`
	Column uint32 `json:"column"`
}

// Range is a half-open span between two points.
type Range struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// TokenKind classifies the syntax of a command word.
type TokenKind int

const (
	// TokenOther is any node the model does not distinguish.
	TokenOther TokenKind = iota
	// TokenWord is a bare, unquoted word.
	TokenWord
	// TokenString is a double-quoted string.
	TokenString
	// TokenRawString is a single-quoted or ANSI-C quoted string.
	TokenRawString
	// TokenExpansion is a parameter expansion, command or process
	// substitution, or arithmetic expansion.
	TokenExpansion
	// TokenConcatenation joins adjacent words, strings and expansions.
	TokenConcatenation
	// TokenNumber is a numeric literal.
	TokenNumber
)

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenWord:
		return "word"
	case TokenString:
		return "string"
	case TokenRawString:
		return "raw_string"
	case TokenExpansion:
		return "expansion"
	case TokenConcatenation:
		return "concatenation"
	case TokenNumber:
		return "number"
	default:
		return "other"
	}
}

// Token is a single command word.
type Token struct {
	Text  string
	Kind  TokenKind
	Range Range
}

// Statement is a top-level statement of a script. The set of
// implementations is closed: *Command and *Other.
type Statement interface {
	Span() Range
	statement()
}

// Command is a simple command invocation such as `cp -r src dst`.
type Command struct {
	// Name is the command name token.
	Name Token
	// Args are the argument tokens in source order. Redirections and
	// leading variable assignments are not arguments.
	Args []Token
	// Range covers the whole command.
	Range Range
}

// Span returns the range of the whole command.
func (c *Command) Span() Range { return c.Range }

func (*Command) statement() {}

// Other is any top-level statement that is not a simple command, such as
// a pipeline, list, function definition or control structure.
type Other struct {
	// Type is the grammar node type (e.g. "pipeline", "if_statement").
	Type  string
	Range Range
}

// Span returns the range of the statement.
func (o *Other) Span() Range { return o.Range }

func (*Other) statement() {}

// Script is a parsed bash script.
type Script struct {
	// Source is the text the script was parsed from.
	Source []byte
	// Statements are the top-level statements in document order.
	Statements []Statement
	// HasErrors reports whether the parser recovered from syntax errors.
	HasErrors bool
}

// Commands returns the top-level simple commands in document order.
func (s *Script) Commands() []*Command {
	var cmds []*Command
	for _, stmt := range s.Statements {
		if cmd, ok := stmt.(*Command); ok {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}
