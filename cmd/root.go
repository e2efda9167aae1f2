package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the CLI.
func NewRootCommand(name, description string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: description,
		Long: description + `

Copy commands are the d (directory) and f (file) commands of a shell script.
All d commands must come before all f commands, and within each section the
first non-flag arguments must be sorted alphabetically.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags available to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error) [default: info]")
	cmd.PersistentFlags().String("config", "", "Config file [default: ./.copysort.yaml]")

	return cmd
}
