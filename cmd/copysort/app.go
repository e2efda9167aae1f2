package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/lex00/copysort-go/cmd"
	"github.com/lex00/copysort-go/config"
	"github.com/lex00/copysort-go/copyorder"
	"github.com/lex00/copysort-go/discover"
	"github.com/lex00/copysort-go/lint"
	"github.com/lex00/copysort-go/logging"
	"github.com/lex00/copysort-go/lsp"
	"github.com/lex00/copysort-go/version"
)

const name = "copysort"

// app holds the state shared by every subcommand once flags are parsed.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *zap.Logger
	rules  *lint.RuleRegistry

	// stdin and stdout carry the language server protocol.
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func newApp() *app {
	rules := lint.NewRuleRegistry()
	rules.Register(copyorder.NewRule())

	return &app{
		v:      config.New(),
		rules:  rules,
		logger: zap.NewNop(),
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

func (a *app) command() *cobra.Command {
	root := cmd.NewRootCommand(name, "Check ordering of copy commands in shell scripts")
	_ = a.v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup("log-level"))
	root.PersistentPreRunE = a.setup
	root.PersistentPostRun = func(*cobra.Command, []string) {
		_ = a.logger.Sync()
	}

	root.AddCommand(
		cmd.NewLintCommand(a),
		cmd.NewServeCommand(a),
		cmd.NewVersionCommand(name, version.Version()),
	)
	return root
}

func (a *app) setup(c *cobra.Command, _ []string) error {
	path, _ := c.Flags().GetString("config")
	cfg, err := config.Load(a.v, path)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if verbose, _ := c.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger, err := logging.NewWithWriter(level, a.stderr)
	if err != nil {
		return err
	}
	a.logger = logger.Named(name)
	if cfg.File != "" {
		a.logger.Debug("loaded config", zap.String("file", cfg.File))
	}
	return nil
}

// Lint implements cmd.Linter.
func (a *app) Lint(ctx context.Context, path string, opts cmd.LintOptions) ([]lint.Issue, error) {
	a.logger.Debug("linting", zap.String("path", path), zap.String("format", opts.Format))
	issues, err := lint.LintPath(ctx, path, a.cfg.WalkOptions(), a.rules.All(), &a.cfg.Lint)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("lint complete", zap.Int("issues", len(issues)))
	return issues, nil
}

// Watch implements cmd.WatchingLinter.
func (a *app) Watch(ctx context.Context, path string, opts cmd.LintOptions, report func(string, []lint.Issue)) error {
	a.logger.Info("watching for changes", zap.String("path", path))
	err := discover.Watch(ctx, path, a.cfg.WalkOptions(), a.logger, func(changed string) {
		issues, err := lint.LintFile(ctx, changed, a.rules.All(), &a.cfg.Lint)
		if err != nil {
			a.logger.Warn("lint failed", zap.String("path", changed), zap.Error(err))
			return
		}
		report(changed, issues)
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}

// Serve implements cmd.LanguageServer.
func (a *app) Serve(ctx context.Context) error {
	var provider lsp.DiagnosticProvider
	if !a.cfg.Lint.IsRuleDisabled(copyorder.RuleID) {
		provider = copyorder.NewProvider(a.logger)
	}

	server := lsp.NewServer(lsp.Config{
		Name:    name,
		Version: version.Version(),
		Linter:  provider,
		Logger:  a.logger,
	})
	server.SetIO(a.stdin, a.stdout)
	return server.Start(ctx)
}
