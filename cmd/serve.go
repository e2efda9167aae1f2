package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCommand creates a command that runs the language server on stdio.
func NewServeCommand(server LanguageServer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the language server on stdio",
		Long: `Serve speaks the Language Server Protocol on stdin and stdout.

Editors open shell scripts with it and receive a diagnostic for the
first copy command ordering violation as the document changes. Logs
are written to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Serve(ctx); err != nil {
				return fmt.Errorf("serve failed: %w", err)
			}
			return nil
		},
	}
}

// NewVersionCommand creates a command that prints the version.
func NewVersionCommand(name, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, version)
		},
	}
}
