package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lex00/copysort-go/lint"
)

// NewLintCommand creates a new lint command that uses the provided Linter.
func NewLintCommand(linter Linter) *cobra.Command {
	var opts LintOptions
	var path string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Check copy command ordering in shell scripts",
		Long: `Lint checks the d and f copy commands of shell scripts.

A path may be a single script or a directory, which is searched
recursively for scripts. At most one issue is reported per script:
the first ordering violation found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose, _ = cmd.Flags().GetBool("verbose")
			out := cmd.OutOrStdout()

			issues, err := linter.Lint(cmd.Context(), path, opts)
			if err != nil {
				return fmt.Errorf("lint failed: %w", err)
			}
			if err := writeIssues(out, issues, opts.Format); err != nil {
				return err
			}

			if opts.Watch {
				return watch(cmd.Context(), linter, path, opts, out)
			}

			if n := countErrors(issues); n > 0 {
				return fmt.Errorf("lint found %d error(s)", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", ".", "Script or directory to lint")
	opts.Format = "text"
	cmd.Flags().Var(formatFlag{&opts.Format}, "format", "Output format (text|json|yaml)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint scripts when they change")

	return cmd
}

func watch(ctx context.Context, linter Linter, path string, opts LintOptions, out io.Writer) error {
	watcher, ok := linter.(WatchingLinter)
	if !ok {
		return errors.New("watch is not supported by this linter")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return watcher.Watch(ctx, path, opts, func(changed string, issues []lint.Issue) {
		if opts.Format == "" || opts.Format == "text" {
			_, _ = fmt.Fprintf(out, "--- %s\n", changed)
		}
		if err := writeIssues(out, issues, opts.Format); err != nil {
			_, _ = fmt.Fprintln(out, err)
		}
	})
}

func writeIssues(out io.Writer, issues []lint.Issue, format string) error {
	formatted, err := FormatIssues(issues, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, formatted)
	return err
}

func countErrors(issues []lint.Issue) int {
	n := 0
	for _, issue := range issues {
		if issue.Severity == lint.SeverityError {
			n++
		}
	}
	return n
}
