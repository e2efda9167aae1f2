package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrExitWithoutShutdown is returned by Start when the client sends exit
// before shutdown.
var ErrExitWithoutShutdown = errors.New("exit received before shutdown")

// Config configures the LSP server.
type Config struct {
	// Name is the server name reported to clients (e.g., "copysort")
	Name string

	// Version is the server version reported to clients
	Version string

	// Linter provides diagnostics for documents
	Linter DiagnosticProvider

	// Logger receives protocol and lint logging. Nil disables logging.
	Logger *zap.Logger
}

// Server implements the LSP protocol over stdio.
type Server struct {
	config Config
	logger *zap.Logger
	docs   *DocumentStore

	shutdown bool
	exited   bool

	// For testing - allow injection of reader/writer
	reader  io.Reader
	writer  io.Writer
	writeMu sync.Mutex
}

// NewServer creates a new LSP server with the given configuration.
func NewServer(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		config: config,
		logger: logger.With(zap.String("server", config.Name)),
		docs:   NewDocumentStore(),
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// SetIO replaces the stdio streams the server reads from and writes to.
func (s *Server) SetIO(r io.Reader, w io.Writer) {
	s.reader = r
	s.writer = w
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.config.Name
}

// Documents returns the store of open documents.
func (s *Server) Documents() *DocumentStore {
	return s.docs
}

// Diagnose runs diagnostics on the specified open document.
func (s *Server) Diagnose(ctx context.Context, uri string) ([]Diagnostic, error) {
	doc, ok := s.docs.Get(uri)
	if !ok || s.config.Linter == nil {
		return []Diagnostic{}, nil
	}
	diags, err := s.config.Linter.Diagnose(ctx, uri, doc.Text)
	if err != nil {
		return nil, err
	}
	if diags == nil {
		diags = []Diagnostic{}
	}
	return diags, nil
}

// Start serves LSP requests on stdio.
// This method blocks until the client sends exit, the input is closed,
// or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting language server")

	r := bufio.NewReader(s.reader)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		body, err := readMessage(r)
		if errors.Is(err, io.EOF) {
			s.logger.Info("input closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		s.logger.Debug("received", zap.ByteString("message", body))

		response := s.handleMessage(ctx, body)
		if response != nil {
			if err := s.send(response); err != nil {
				return fmt.Errorf("write response: %w", err)
			}
		}

		if s.exited {
			if !s.shutdown {
				return ErrExitWithoutShutdown
			}
			s.logger.Info("exiting")
			return nil
		}
	}
}

// handleMessage processes a single JSON-RPC message. Notifications return nil.
func (s *Server) handleMessage(ctx context.Context, data []byte) *Response {
	if !gjson.ValidBytes(data) {
		return errorResponse(nullID, ParseError, "Parse error")
	}

	msg := gjson.ParseBytes(data)
	method := msg.Get("method").String()
	params := msg.Get("params")
	id := msg.Get("id")
	isRequest := id.Exists()

	var reqID json.RawMessage
	if isRequest {
		reqID = json.RawMessage(id.Raw)
	}

	s.logger.Debug("handling method", zap.String("method", method), zap.Bool("request", isRequest))

	if s.shutdown && method != "exit" {
		if isRequest {
			return errorResponse(reqID, InvalidRequest, "Server is shutting down")
		}
		return nil
	}

	switch method {
	case "initialize":
		return s.handleInitialize(reqID)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		doc := Document{
			URI:     params.Get("textDocument.uri").String(),
			Version: int(params.Get("textDocument.version").Int()),
			Text:    params.Get("textDocument.text").String(),
		}
		s.docs.Set(doc)
		s.publish(ctx, doc.URI)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(ctx, params)
		return nil
	case "textDocument/didSave":
		uri := params.Get("textDocument.uri").String()
		if text := params.Get("text"); text.Exists() {
			doc, _ := s.docs.Get(uri)
			doc.URI = uri
			doc.Text = text.String()
			s.docs.Set(doc)
		}
		s.publish(ctx, uri)
		return nil
	case "textDocument/didClose":
		uri := params.Get("textDocument.uri").String()
		s.docs.Delete(uri)
		s.notifyDiagnostics(uri, nil, []Diagnostic{})
		return nil
	case "shutdown":
		s.shutdown = true
		return resultResponse(reqID, nil)
	case "exit":
		s.exited = true
		return nil
	default:
		if !isRequest {
			// Unhandled notification, nothing to answer
			return nil
		}
		return errorResponse(reqID, MethodNotFound, fmt.Sprintf("Method not found: %s", method))
	}
}

// handleInitialize handles the initialize request.
func (s *Server) handleInitialize(id json.RawMessage) *Response {
	return resultResponse(id, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: TextDocumentSyncOptions{
				OpenClose: true,
				Change:    SyncFull,
				Save:      &SaveOptions{IncludeText: true},
			},
		},
		ServerInfo: ServerInfo{
			Name:    s.config.Name,
			Version: s.config.Version,
		},
	})
}

// handleDidChange applies full-content changes; the last one wins.
func (s *Server) handleDidChange(ctx context.Context, params gjson.Result) {
	uri := params.Get("textDocument.uri").String()
	changes := params.Get("contentChanges").Array()
	if len(changes) == 0 {
		return
	}
	s.docs.Set(Document{
		URI:     uri,
		Version: int(params.Get("textDocument.version").Int()),
		Text:    changes[len(changes)-1].Get("text").String(),
	})
	s.publish(ctx, uri)
}

// publish lints the document and sends its diagnostics.
func (s *Server) publish(ctx context.Context, uri string) {
	diags, err := s.Diagnose(ctx, uri)
	if err != nil {
		s.logger.Error("diagnose failed", zap.String("uri", uri), zap.Error(err))
		return
	}

	var version *int
	if doc, ok := s.docs.Get(uri); ok {
		version = &doc.Version
	}
	s.notifyDiagnostics(uri, version, diags)
}

func (s *Server) notifyDiagnostics(uri string, version *int, diags []Diagnostic) {
	s.logger.Debug("publishing diagnostics", zap.String("uri", uri), zap.Int("count", len(diags)))
	err := s.send(Notification{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         uri,
			Version:     version,
			Diagnostics: diags,
		},
	})
	if err != nil {
		s.logger.Error("publish diagnostics failed", zap.String("uri", uri), zap.Error(err))
	}
}

func (s *Server) send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return writeMessage(s.writer, v)
}

func resultResponse(id json.RawMessage, result any) *Response {
	raw, err := json.Marshal(result)
	if err != nil {
		return errorResponse(id, InternalError, err.Error())
	}
	return &Response{JSONRPC: "2.0", ID: id, Result: raw}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	if id == nil {
		id = nullID
	}
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &ResponseError{Code: code, Message: message},
	}
}
