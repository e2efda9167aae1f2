// Package cmd provides the cobra command builders for the copysort CLI.
//
// The binary in cmd/copysort supplies the Linter and LanguageServer
// implementations; this package owns flags, help text and output.
package cmd

import (
	"context"

	"github.com/lex00/copysort-go/lint"
)

// LintOptions contains options for the lint command.
type LintOptions struct {
	Format  string
	Watch   bool
	Verbose bool
}

// Linter checks shell scripts for issues.
type Linter interface {
	Lint(ctx context.Context, path string, opts LintOptions) ([]lint.Issue, error)
}

// WatchingLinter is a Linter that can re-lint scripts as they change.
type WatchingLinter interface {
	Linter
	// Watch calls report with the issues of each changed script under path
	// until ctx is done.
	Watch(ctx context.Context, path string, opts LintOptions, report func(path string, issues []lint.Issue)) error
}

// LanguageServer serves diagnostics to an editor over stdio.
type LanguageServer interface {
	Serve(ctx context.Context) error
}
