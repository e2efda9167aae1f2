package lint

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/lex00/copysort-go/discover"
	"github.com/lex00/copysort-go/shell"
)

// LintFile lints a single script with the given rules and config.
// Returns all issues found that pass the config filters.
func LintFile(ctx context.Context, path string, rules []Rule, cfg *Config) ([]Issue, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LintBytes(ctx, src, path, rules, cfg)
}

// LintBytes lints script source from bytes with the given rules and config.
// The filename is used for issue reporting.
func LintBytes(ctx context.Context, src []byte, filename string, rules []Rule, cfg *Config) ([]Issue, error) {
	script, err := shell.Parse(ctx, src)
	if err != nil {
		return nil, err
	}

	return lintScript(script, filename, rules, cfg), nil
}

// LintDir lints all scripts directly inside a directory (non-recursively).
func LintDir(ctx context.Context, dir string, opts discover.WalkOptions, rules []Rule, cfg *Config) ([]Issue, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !opts.IsScript(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	return lintPaths(ctx, paths, rules, cfg)
}

// LintDirRecursive lints all scripts in a directory and its subdirectories.
func LintDirRecursive(ctx context.Context, root string, opts discover.WalkOptions, rules []Rule, cfg *Config) ([]Issue, error) {
	paths, err := discover.CollectScripts(root, opts)
	if err != nil {
		return nil, err
	}
	return lintPaths(ctx, paths, rules, cfg)
}

// LintPath lints path recursively if it is a directory, or as a single
// script otherwise. An explicitly named file is linted whatever its extension.
func LintPath(ctx context.Context, path string, opts discover.WalkOptions, rules []Rule, cfg *Config) ([]Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LintDirRecursive(ctx, path, opts, rules, cfg)
	}
	return LintFile(ctx, path, rules, cfg)
}

// lintPaths parses each script once with a shared parser.
func lintPaths(ctx context.Context, paths []string, rules []Rule, cfg *Config) ([]Issue, error) {
	parser := shell.NewParser()
	defer parser.Close()

	var issues []Issue
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		script, err := parser.Parse(ctx, src)
		if err != nil {
			return nil, err
		}
		issues = append(issues, lintScript(script, path, rules, cfg)...)
	}

	SortIssues(issues)
	return issues, nil
}

// lintScript runs all rules on the parsed script and returns filtered issues.
func lintScript(script *shell.Script, path string, rules []Rule, cfg *Config) []Issue {
	var issues []Issue

	for _, rule := range rules {
		if cfg != nil && cfg.IsRuleDisabled(rule.ID()) {
			continue
		}
		for _, issue := range rule.Check(script) {
			// Set file path if not already set
			if issue.File == "" {
				issue.File = path
			}
			if issue.Rule == "" {
				issue.Rule = rule.ID()
			}

			// Filter by config
			if cfg != nil && !cfg.ShouldReport(issue) {
				continue
			}

			issues = append(issues, issue)
		}
	}

	return issues
}

// SortIssues orders issues by file, then position, then rule.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Rule < b.Rule
	})
}
