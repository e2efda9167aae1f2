// Package lint provides rule-based linting of shell scripts.
package lint

import (
	"fmt"
	"slices"
	"strings"
)

// Severity indicates the severity level of a lint issue.
type Severity int

const (
	// SeverityError indicates a critical issue that should be fixed.
	SeverityError Severity = iota
	// SeverityWarning indicates a potential problem that should be reviewed.
	SeverityWarning
	// SeverityInfo indicates a suggestion or informational message.
	SeverityInfo
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity parses a severity name. The empty string means info.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "error":
		return SeverityError, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "info", "":
		return SeverityInfo, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity %q (want error, warning or info)", name)
	}
}

// Issue represents a single lint issue found during analysis.
type Issue struct {
	// Rule is the unique identifier of the rule that found this issue.
	Rule string `json:"rule" yaml:"rule"`
	// Code is a rule-specific code for the kind of problem.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
	// Message describes the issue.
	Message string `json:"message" yaml:"message"`
	// File is the path to the file containing the issue.
	File string `json:"file" yaml:"file"`
	// Line is the line number (1-based) where the issue starts.
	Line int `json:"line" yaml:"line"`
	// Column is the column number (1-based) where the issue starts.
	Column int `json:"column" yaml:"column"`
	// EndLine and EndColumn (1-based) mark where the issue ends.
	EndLine   int `json:"endLine,omitempty" yaml:"endLine,omitempty"`
	EndColumn int `json:"endColumn,omitempty" yaml:"endColumn,omitempty"`
	// Severity indicates how serious the issue is.
	Severity Severity `json:"severity" yaml:"severity"`
}

// Config controls linting behavior.
type Config struct {
	// DisabledRules is a list of rule IDs to skip.
	DisabledRules []string
	// MinSeverity is the minimum severity level to report.
	// Issues with lower severity will be filtered out.
	MinSeverity Severity
}

// IsRuleDisabled returns true if the given rule ID is disabled.
func (c *Config) IsRuleDisabled(ruleID string) bool {
	return slices.Contains(c.DisabledRules, ruleID)
}

// ShouldReport returns true if the issue should be reported based on config.
func (c *Config) ShouldReport(issue Issue) bool {
	if c.IsRuleDisabled(issue.Rule) {
		return false
	}
	// Lower severity value means higher priority (Error=0 is most severe)
	return issue.Severity <= c.MinSeverity
}
