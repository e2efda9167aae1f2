package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/lex00/copysort-go/lint"
)

// formatFlag is a pflag.Value that only accepts supported output formats.
type formatFlag struct {
	value *string
}

var _ pflag.Value = formatFlag{}

func (f formatFlag) String() string {
	if f.value == nil {
		return ""
	}
	return *f.value
}

func (f formatFlag) Set(s string) error {
	switch format := strings.ToLower(s); format {
	case "text", "json", "yaml", "yml":
		*f.value = format
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", s)
	}
}

func (f formatFlag) Type() string {
	return "format"
}

// FormatIssues formats lint issues in the requested output format.
// Supported formats: text, json, yaml.
func FormatIssues(issues []lint.Issue, format string) (string, error) {
	if issues == nil {
		issues = []lint.Issue{}
	}

	switch strings.ToLower(format) {
	case "json":
		bytes, err := json.MarshalIndent(issues, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bytes) + "\n", nil
	case "yaml", "yml":
		bytes, err := yaml.Marshal(issues)
		if err != nil {
			return "", fmt.Errorf("failed to marshal YAML: %w", err)
		}
		return string(bytes), nil
	case "text", "":
		return formatText(issues), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, yaml)", format)
	}
}

func formatText(issues []lint.Issue) string {
	if len(issues) == 0 {
		return "No issues found\n"
	}

	var sb strings.Builder
	for _, issue := range issues {
		fmt.Fprintf(&sb, "%s:%d:%d: %s: %s (%s)\n",
			issue.File, issue.Line, issue.Column,
			issue.Severity, issue.Message, issue.Rule)
	}
	return sb.String()
}
