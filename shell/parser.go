package shell

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
)

// Parser parses bash scripts. A Parser must not be used from more than
// one goroutine at a time.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a bash parser. Call Close to release it.
func NewParser() *Parser {
	p := sitter.NewParser()
	p.SetLanguage(bash.GetLanguage())
	return &Parser{parser: p}
}

// Close releases resources held by the parser.
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse parses src into a Script. The returned Script does not reference
// the syntax tree, which is released before Parse returns.
func (p *Parser) Parse(ctx context.Context, src []byte) (*Script, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse bash: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	script := &Script{
		Source:    src,
		HasErrors: root.HasError(),
	}

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		if node == nil || !node.IsNamed() || node.Type() == "comment" {
			continue
		}
		script.Statements = append(script.Statements, statementFrom(node, src))
	}

	return script, nil
}

// Parse parses src with a parser that is discarded afterwards.
func Parse(ctx context.Context, src []byte) (*Script, error) {
	p := NewParser()
	defer p.Close()
	return p.Parse(ctx, src)
}

func statementFrom(node *sitter.Node, src []byte) Statement {
	if node.Type() == "command" {
		if name := node.ChildByFieldName("name"); name != nil {
			cmd := &Command{
				Name:  tokenFrom(name, src),
				Range: rangeOf(node),
			}
			for i := 0; i < int(node.ChildCount()); i++ {
				if node.FieldNameForChild(i) != "argument" {
					continue
				}
				cmd.Args = append(cmd.Args, tokenFrom(node.Child(i), src))
			}
			return cmd
		}
	}
	return &Other{Type: node.Type(), Range: rangeOf(node)}
}

func tokenFrom(node *sitter.Node, src []byte) Token {
	return Token{
		Text:  node.Content(src),
		Kind:  kindOf(node.Type()),
		Range: rangeOf(node),
	}
}

func kindOf(nodeType string) TokenKind {
	switch nodeType {
	case "word", "command_name":
		return TokenWord
	case "string":
		return TokenString
	case "raw_string", "ansi_c_string":
		return TokenRawString
	case "simple_expansion", "expansion", "command_substitution",
		"process_substitution", "arithmetic_expansion":
		return TokenExpansion
	case "concatenation":
		return TokenConcatenation
	case "number":
		return TokenNumber
	default:
		return TokenOther
	}
}

func rangeOf(node *sitter.Node) Range {
	start, end := node.StartPoint(), node.EndPoint()
	return Range{
		Start: Point{Row: start.Row, Column: start.Column},
		End:   Point{Row: end.Row, Column: end.Column},
	}
}
