package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockDiagnosticProvider struct {
	calls []string
}

// Diagnose reports one diagnostic per line containing "bad".
func (m *mockDiagnosticProvider) Diagnose(ctx context.Context, uri, text string) ([]Diagnostic, error) {
	m.calls = append(m.calls, text)
	var diags []Diagnostic
	for i, line := range strings.Split(text, "\n") {
		if idx := strings.Index(line, "bad"); idx >= 0 {
			diags = append(diags, Diagnostic{
				Range: Range{
					Start: Position{Line: i, Character: idx},
					End:   Position{Line: i, Character: idx + 3},
				},
				Severity: SeverityError,
				Message:  "bad found",
			})
		}
	}
	return diags, nil
}

func frame(t *testing.T, msgs ...any) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	for _, m := range msgs {
		var body []byte
		switch v := m.(type) {
		case string:
			body = []byte(v)
		default:
			var err error
			body, err = json.Marshal(v)
			require.NoError(t, err)
		}
		fmt.Fprintf(buf, "Content-Length: %d\r\n\r\n%s", len(body), body)
	}
	return buf
}

func request(id int, method string, params any) map[string]any {
	return map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params}
}

func notification(method string, params any) map[string]any {
	return map[string]any{"jsonrpc": "2.0", "method": method, "params": params}
}

func readAll(t *testing.T, out *bytes.Buffer) []gjson.Result {
	t.Helper()
	r := bufio.NewReader(out)
	var msgs []gjson.Result
	for {
		body, err := readMessage(r)
		if errors.Is(err, io.EOF) {
			return msgs
		}
		require.NoError(t, err)
		msgs = append(msgs, gjson.ParseBytes(body))
	}
}

func newTestServer(in io.Reader, linter DiagnosticProvider) (*Server, *bytes.Buffer) {
	out := new(bytes.Buffer)
	s := NewServer(Config{Name: "test-lsp", Version: "1.2.3", Linter: linter})
	s.SetIO(in, out)
	return s, out
}

func openDoc(uri, text string) map[string]any {
	return notification("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "shellscript", "version": 1, "text": text},
	})
}

func TestNewServer(t *testing.T) {
	server := NewServer(Config{Name: "test-lsp"})
	assert.NotNil(t, server)
	assert.Equal(t, "test-lsp", server.Name())
}

func TestInitializeShutdownExit(t *testing.T) {
	in := frame(t,
		request(1, "initialize", map[string]any{"processId": nil}),
		notification("initialized", map[string]any{}),
		request(2, "shutdown", nil),
		notification("exit", nil),
	)
	s, out := newTestServer(in, nil)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 2)

	assert.Equal(t, int64(1), msgs[0].Get("id").Int())
	assert.Equal(t, "test-lsp", msgs[0].Get("result.serverInfo.name").String())
	assert.Equal(t, "1.2.3", msgs[0].Get("result.serverInfo.version").String())
	assert.Equal(t, int64(SyncFull), msgs[0].Get("result.capabilities.textDocumentSync.change").Int())
	assert.True(t, msgs[0].Get("result.capabilities.textDocumentSync.save.includeText").Bool())

	assert.Equal(t, int64(2), msgs[1].Get("id").Int())
	assert.True(t, msgs[1].Get("result").Exists(), "shutdown must carry a null result")
	assert.Equal(t, gjson.Null, msgs[1].Get("result").Type)
}

func TestExitWithoutShutdown(t *testing.T) {
	s, _ := newTestServer(frame(t, notification("exit", nil)), nil)
	err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrExitWithoutShutdown)
}

func TestStartReturnsOnEOF(t *testing.T) {
	s, out := newTestServer(new(bytes.Buffer), nil)
	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, out.String())
}

func TestStartHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, _ := newTestServer(frame(t, request(1, "initialize", nil)), nil)
	assert.ErrorIs(t, s.Start(ctx), context.Canceled)
}

func TestDidOpenPublishesDiagnostics(t *testing.T) {
	provider := &mockDiagnosticProvider{}
	in := frame(t, openDoc("file:///a.sh", "ok\nbad line\n"))
	s, out := newTestServer(in, provider)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 1)
	assert.Equal(t, "textDocument/publishDiagnostics", msgs[0].Get("method").String())
	assert.Equal(t, "file:///a.sh", msgs[0].Get("params.uri").String())
	assert.Equal(t, int64(1), msgs[0].Get("params.version").Int())

	diags := msgs[0].Get("params.diagnostics").Array()
	require.Len(t, diags, 1)
	assert.Equal(t, int64(1), diags[0].Get("range.start.line").Int())
	assert.Equal(t, int64(0), diags[0].Get("range.start.character").Int())
	assert.Equal(t, "bad found", diags[0].Get("message").String())
	assert.Equal(t, int64(SeverityError), diags[0].Get("severity").Int())
}

func TestDidChangeUsesLastContentChange(t *testing.T) {
	provider := &mockDiagnosticProvider{}
	in := frame(t,
		openDoc("file:///a.sh", "bad"),
		notification("textDocument/didChange", map[string]any{
			"textDocument": map[string]any{"uri": "file:///a.sh", "version": 2},
			"contentChanges": []map[string]any{
				{"text": "still bad"},
				{"text": "fine now"},
			},
		}),
	)
	s, out := newTestServer(in, provider)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 2)
	assert.Len(t, msgs[0].Get("params.diagnostics").Array(), 1)

	assert.Equal(t, int64(2), msgs[1].Get("params.version").Int())
	assert.True(t, msgs[1].Get("params.diagnostics").IsArray(), "diagnostics must be an array, not null")
	assert.Empty(t, msgs[1].Get("params.diagnostics").Array())

	doc, ok := s.Documents().Get("file:///a.sh")
	require.True(t, ok)
	assert.Equal(t, "fine now", doc.Text)
	assert.Equal(t, []string{"bad", "fine now"}, provider.calls)
}

func TestDidSaveWithText(t *testing.T) {
	provider := &mockDiagnosticProvider{}
	in := frame(t,
		openDoc("file:///a.sh", "ok"),
		notification("textDocument/didSave", map[string]any{
			"textDocument": map[string]any{"uri": "file:///a.sh"},
			"text":         "bad",
		}),
	)
	s, out := newTestServer(in, provider)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 2)
	assert.Len(t, msgs[1].Get("params.diagnostics").Array(), 1)
	assert.Equal(t, int64(1), msgs[1].Get("params.version").Int())
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	in := frame(t,
		openDoc("file:///a.sh", "bad"),
		notification("textDocument/didClose", map[string]any{
			"textDocument": map[string]any{"uri": "file:///a.sh"},
		}),
	)
	s, out := newTestServer(in, &mockDiagnosticProvider{})

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].Get("params.diagnostics").IsArray())
	assert.Empty(t, msgs[1].Get("params.diagnostics").Array())
	assert.False(t, msgs[1].Get("params.version").Exists())

	_, ok := s.Documents().Get("file:///a.sh")
	assert.False(t, ok)
}

func TestUnknownMethods(t *testing.T) {
	in := frame(t,
		request(7, "textDocument/hover", map[string]any{}),
		notification("$/cancelRequest", map[string]any{"id": 7}),
	)
	s, out := newTestServer(in, nil)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 1)
	assert.Equal(t, int64(7), msgs[0].Get("id").Int())
	assert.Equal(t, int64(MethodNotFound), msgs[0].Get("error.code").Int())
	assert.Contains(t, msgs[0].Get("error.message").String(), "textDocument/hover")
}

func TestMalformedJSON(t *testing.T) {
	s, out := newTestServer(frame(t, "{not json"), nil)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 1)
	assert.Equal(t, gjson.Null, msgs[0].Get("id").Type)
	assert.Equal(t, int64(ParseError), msgs[0].Get("error.code").Int())
}

func TestRequestsAfterShutdownRejected(t *testing.T) {
	in := frame(t,
		request(1, "shutdown", nil),
		request(2, "initialize", nil),
		notification("exit", nil),
	)
	s, out := newTestServer(in, nil)

	require.NoError(t, s.Start(context.Background()))

	msgs := readAll(t, out)
	require.Len(t, msgs, 2)
	assert.Equal(t, int64(InvalidRequest), msgs[1].Get("error.code").Int())
}

func TestServerDiagnose(t *testing.T) {
	provider := &mockDiagnosticProvider{}
	s := NewServer(Config{Name: "test-lsp", Linter: provider})
	ctx := context.Background()

	diags, err := s.Diagnose(ctx, "file:///missing.sh")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Empty(t, provider.calls, "closed documents are not linted")

	s.Documents().Set(Document{URI: "file:///x.sh", Text: "bad"})
	diags, err = s.Diagnose(ctx, "file:///x.sh")
	require.NoError(t, err)
	assert.Len(t, diags, 1)
}

func TestServerNilProvider(t *testing.T) {
	s := NewServer(Config{Name: "test-lsp"})
	s.Documents().Set(Document{URI: "file:///x.sh", Text: "bad"})

	diags, err := s.Diagnose(context.Background(), "file:///x.sh")
	require.NoError(t, err)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}

func TestDiagnosticProviderError(t *testing.T) {
	failing := DiagnosticProviderFunc(func(ctx context.Context, uri, text string) ([]Diagnostic, error) {
		return nil, errors.New("boom")
	})
	s, out := newTestServer(frame(t, openDoc("file:///a.sh", "x")), failing)

	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, readAll(t, out), "nothing is published when diagnosis fails")
}

func TestReadMessage(t *testing.T) {
	t.Run("extra headers are ignored", func(t *testing.T) {
		r := bufio.NewReader(strings.NewReader("Content-Type: application/vscode-jsonrpc\r\ncontent-length: 2\r\n\r\n{}"))
		body, err := readMessage(r)
		require.NoError(t, err)
		assert.Equal(t, "{}", string(body))
	})

	t.Run("missing length", func(t *testing.T) {
		r := bufio.NewReader(strings.NewReader("Content-Type: x\r\n\r\n{}"))
		_, err := readMessage(r)
		assert.Error(t, err)
	})

	t.Run("invalid length", func(t *testing.T) {
		r := bufio.NewReader(strings.NewReader("Content-Length: abc\r\n\r\n"))
		_, err := readMessage(r)
		assert.Error(t, err)
	})

	t.Run("truncated body", func(t *testing.T) {
		r := bufio.NewReader(strings.NewReader("Content-Length: 10\r\n\r\n{}"))
		_, err := readMessage(r)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("clean eof", func(t *testing.T) {
		_, err := readMessage(bufio.NewReader(strings.NewReader("")))
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestDocumentStore(t *testing.T) {
	store := NewDocumentStore()
	store.Set(Document{URI: "b", Text: "2"})
	store.Set(Document{URI: "a", Text: "1"})
	assert.Equal(t, []string{"a", "b"}, store.URIs())

	store.Set(Document{URI: "a", Text: "updated", Version: 3})
	doc, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "updated", doc.Text)
	assert.Equal(t, 3, doc.Version)

	store.Delete("a")
	_, ok = store.Get("a")
	assert.False(t, ok)
}

func TestDiagnosticSeverity(t *testing.T) {
	assert.Equal(t, DiagnosticSeverity(1), SeverityError)
	assert.Equal(t, DiagnosticSeverity(2), SeverityWarning)
	assert.Equal(t, DiagnosticSeverity(3), SeverityInformation)
	assert.Equal(t, DiagnosticSeverity(4), SeverityHint)
}
