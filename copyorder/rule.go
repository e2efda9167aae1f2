package copyorder

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/lex00/copysort-go/lint"
	"github.com/lex00/copysort-go/lsp"
	"github.com/lex00/copysort-go/shell"
)

// RuleID identifies the copy-order lint rule.
const RuleID = "COPY001"

// Rule adapts Check to the lint engine.
type Rule struct{}

// NewRule returns the copy-order lint rule.
func NewRule() *Rule { return &Rule{} }

// ID returns the rule identifier.
func (*Rule) ID() string { return RuleID }

// Description returns a brief description of the rule.
func (*Rule) Description() string {
	return "d commands precede f commands and first arguments are sorted within each section"
}

// Check reports at most one issue, the first violation in the script.
func (*Rule) Check(script *shell.Script) []lint.Issue {
	d := Check(script)
	if d == nil {
		return nil
	}
	return []lint.Issue{d.Issue()}
}

// Issue converts the diagnostic to a lint issue with 1-based positions.
func (d *Diagnostic) Issue() lint.Issue {
	return lint.Issue{
		Rule:      RuleID,
		Code:      d.Kind.String(),
		Message:   d.Message,
		Line:      d.Range.Start.Line + 1,
		Column:    d.Range.Start.Character + 1,
		EndLine:   d.Range.End.Line + 1,
		EndColumn: d.Range.End.Character + 1,
		Severity:  lint.SeverityError,
	}
}

// Provider serves copy-order diagnostics to the language server.
type Provider struct {
	logger *zap.Logger
}

// NewProvider creates a Provider. A nil logger disables logging.
func NewProvider(logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{logger: logger}
}

// Diagnose validates text and returns zero or one diagnostic. A script that
// cannot be parsed is reported as a parse-failure diagnostic rather than
// an error.
func (p *Provider) Diagnose(ctx context.Context, uri, text string) ([]lsp.Diagnostic, error) {
	d, err := Validate(ctx, []byte(text))
	if err != nil {
		var perr *ParseError
		if !errors.As(err, &perr) {
			return nil, err
		}
		p.logger.Warn("parse failed", zap.String("uri", uri), zap.Error(err))
		d = perr.Diagnostic()
	}

	if d == nil {
		p.logger.Debug("no violations", zap.String("uri", uri))
		return []lsp.Diagnostic{}, nil
	}

	p.logger.Debug("violation found",
		zap.String("uri", uri),
		zap.Stringer("kind", d.Kind),
		zap.Int("line", d.Range.Start.Line),
		zap.Int("character", d.Range.Start.Character))
	return []lsp.Diagnostic{d.Protocol()}, nil
}
