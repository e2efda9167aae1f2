// Package lsp provides Language Server Protocol infrastructure for editor
// integration.
//
// Linters implement DiagnosticProvider while this package handles document
// synchronization and protocol communication over stdio.
package lsp

import "context"

// Position represents a position in a text document (0-based line and character).
type Position struct {
	Line      int `json:"line" yaml:"line"`
	Character int `json:"character" yaml:"character"`
}

// Range represents a range in a text document.
type Range struct {
	Start Position `json:"start" yaml:"start"`
	End   Position `json:"end" yaml:"end"`
}

// DiagnosticSeverity represents the severity of a diagnostic.
type DiagnosticSeverity int

const (
	SeverityError       DiagnosticSeverity = 1
	SeverityWarning     DiagnosticSeverity = 2
	SeverityInformation DiagnosticSeverity = 3
	SeverityHint        DiagnosticSeverity = 4
)

// Diagnostic represents a diagnostic (error, warning, info, hint).
type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
}

// TextDocumentSyncKind defines how the client sends document changes.
type TextDocumentSyncKind int

const (
	SyncNone        TextDocumentSyncKind = 0
	SyncFull        TextDocumentSyncKind = 1
	SyncIncremental TextDocumentSyncKind = 2
)

// DiagnosticProvider provides diagnostics for a document's current text.
type DiagnosticProvider interface {
	Diagnose(ctx context.Context, uri, text string) ([]Diagnostic, error)
}

// DiagnosticProviderFunc adapts a function to DiagnosticProvider.
type DiagnosticProviderFunc func(ctx context.Context, uri, text string) ([]Diagnostic, error)

// Diagnose calls f.
func (f DiagnosticProviderFunc) Diagnose(ctx context.Context, uri, text string) ([]Diagnostic, error) {
	return f(ctx, uri, text)
}
