package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/leapstack-labs/sqllens/internal/validate"
	"github.com/leapstack-labs/sqllens/pkg/dialect"
	"github.com/leapstack-labs/sqllens/pkg/format"
)

// ServerName is reported to clients in the initialize response.
const ServerName = "sqllens"

// DefaultDebounce is the quiescence delay before diagnostics are published
// for an edited document.
const DefaultDebounce = 600 * time.Millisecond

// JSON-RPC error codes.
const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
)

// Validator checks SQL syntax.
type Validator interface {
	Validate(ctx context.Context, sql string, tag dialect.Tag) []validate.ValidationError
}

// Options configures a Server.
type Options struct {
	Dialect dialect.Tag
	// Debounce delays diagnostics after didChange; zero means DefaultDebounce.
	Debounce  time.Duration
	Format    format.Options
	Validator Validator
	Logger    *slog.Logger
	Version   string
}

// Server implements the Language Server Protocol for SQL documents.
type Server struct {
	documents *DocumentStore
	validator Validator
	debounce  time.Duration
	format    format.Options
	version   string

	ctx    context.Context
	cancel context.CancelFunc

	// mu guards the dialect and pending diagnostics.
	mu     sync.Mutex
	tag    dialect.Tag
	timers map[string]*time.Timer
	gens   map[string]uint64

	initialized bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	logger *slog.Logger

	shutdown bool
	exited   bool
}

// NewServer creates a server reading requests from reader and writing
// responses to writer.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	v := opts.Validator
	if v == nil {
		v = validate.New(logger)
	}
	debounce := opts.Debounce
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		documents: NewDocumentStore(),
		validator: v,
		debounce:  debounce,
		format:    opts.Format,
		version:   opts.Version,
		ctx:       ctx,
		cancel:    cancel,
		tag:       opts.Dialect,
		timers:    make(map[string]*time.Timer),
		gens:      make(map[string]uint64),
		reader:    bufio.NewReader(reader),
		writer:    writer,
		logger:    logger,
	}
}

// Run processes JSON-RPC messages until the client sends exit, the input
// ends or ctx is cancelled. Cancellation is observed between messages.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("SQL Lens LSP server starting", "dialect", s.dialect().String())
	defer s.stopAll()

	for !s.exited {
		if err := ctx.Err(); err != nil {
			return err
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("Client disconnected")
				return nil
			}
			s.logger.Error("Error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("Error handling message", "method", msg.Method, "error", err)
		}
	}
	return nil
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break
		}

		if lengthStr, ok := strings.CutPrefix(line, "Content-Length: "); ok {
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}
	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, err *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if err != nil {
		msg.Error = err
	} else {
		resultBytes, _ := json.Marshal(result)
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, _ := json.Marshal(params)
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("Error marshaling message", "error", err)
		return
	}

	frame := fmt.Appendf(nil, "Content-Length: %d\r\n\r\n", len(body))
	if _, err := s.writer.Write(append(frame, body...)); err != nil {
		s.logger.Error("Error writing message", "error", err)
	}
}

// invalidParams answers a request whose params could not be decoded.
func (s *Server) invalidParams(msg *JSONRPCMessage, err error) error {
	s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
	return err
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("Received", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	if params.InitializationOptions != nil {
		s.applySettings(params.InitializationOptions)
	}
	s.logger.Info("Initialize", "root", URIToPath(params.RootURI), "dialect", s.dialect().String())

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{" ", "("},
			},
			HoverProvider:              true,
			FoldingRangeProvider:       true,
			DocumentFormattingProvider: true,
		},
		ServerInfo: &ServerInfo{Name: ServerName, Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleInitialized(_ *JSONRPCMessage) error {
	s.initialized = true
	s.sendNotification("window/showMessage", &ShowMessageParams{
		Type:    MessageTypeInfo,
		Message: "SQL Lens using the " + dialect.Lookup(s.dialect()).DisplayName + " dialect.",
	})
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdown = true
	s.stopAll()
	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("Server shutdown")
	return nil
}

func (s *Server) handleExit(_ *JSONRPCMessage) error {
	s.exited = true
	if !s.shutdown {
		s.logger.Warn("Exit without shutdown")
	}
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	s.logger.Debug("Opened", "uri", params.TextDocument.URI)

	s.validateNow(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	s.mu.Lock()
	s.stop(uri)
	delete(s.gens, uri)
	s.mu.Unlock()

	s.documents.Close(uri)
	s.logger.Debug("Closed", "uri", uri)

	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// Full sync: the last change holds the whole document.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	last := params.ContentChanges[len(params.ContentChanges)-1]
	if s.documents.Update(params.TextDocument.URI, last.Text, params.TextDocument.Version) == nil {
		return fmt.Errorf("change for unopened document %s", params.TextDocument.URI)
	}

	s.schedule(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	if params.Text != "" {
		if doc := s.documents.Get(uri); doc != nil && doc.Content != params.Text {
			s.documents.Update(uri, params.Text, doc.Version)
		}
	}
	s.logger.Debug("Saved", "path", URIToPath(uri))

	s.validateNow(uri)
	return nil
}

func (s *Server) handleDidChangeConfiguration(msg *JSONRPCMessage) error {
	var params DidChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}
	if params.Settings.SQLLens == nil {
		return nil
	}

	if !s.applySettings(params.Settings.SQLLens) {
		return nil
	}
	for _, uri := range s.documents.List() {
		s.validateNow(uri)
	}
	return nil
}

// applySettings switches the dialect and reports whether it changed.
// Unknown dialect names are reported to the client and ignored.
func (s *Server) applySettings(settings *ClientSettings) bool {
	if settings.Dialect == "" {
		return false
	}
	tag, ok := dialect.ParseTag(settings.Dialect)
	if !ok {
		s.sendNotification("window/showMessage", &ShowMessageParams{
			Type:    MessageTypeWarning,
			Message: fmt.Sprintf("Unknown SQL dialect %q; valid dialects: %s", settings.Dialect, strings.Join(dialect.Names(), ", ")),
		})
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tag == tag {
		return false
	}
	s.tag = tag
	s.logger.Info("Dialect changed", "dialect", tag.String())
	return true
}

// --- Feature handlers ---

func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	items := s.getCompletions(params)
	s.sendResponse(msg.ID, &CompletionList{Items: items}, nil)
	return nil
}

func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	hover := s.getHover(params)
	s.sendResponse(msg.ID, hover, nil)
	return nil
}

func (s *Server) handleFoldingRange(msg *JSONRPCMessage) error {
	var params FoldingRangeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	s.sendResponse(msg.ID, s.getFoldingRanges(params), nil)
	return nil
}

func (s *Server) handleFormatting(msg *JSONRPCMessage) error {
	var params DocumentFormattingParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.invalidParams(msg, err)
	}

	s.sendResponse(msg.ID, s.getFormattingEdits(params), nil)
	return nil
}

// --- Helper methods ---

func (s *Server) dialect() dialect.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tag
}

// stop cancels the pending diagnostics for uri. Caller holds mu.
func (s *Server) stop(uri string) {
	s.gens[uri]++
	if t := s.timers[uri]; t != nil {
		t.Stop()
		delete(s.timers, uri)
	}
}

func (s *Server) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri := range s.timers {
		s.stop(uri)
	}
	s.cancel()
}

// schedule replaces the pending diagnostics for uri with a run after the
// debounce delay.
func (s *Server) schedule(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return
	}
	s.stop(uri)
	gen := s.gens[uri]
	s.timers[uri] = time.AfterFunc(s.debounce, func() {
		s.publishDiagnostics(uri, gen)
	})
}

// validateNow cancels pending diagnostics for uri and publishes fresh ones
// before returning.
func (s *Server) validateNow(uri string) {
	s.mu.Lock()
	s.stop(uri)
	gen := s.gens[uri]
	s.mu.Unlock()
	s.publishDiagnostics(uri, gen)
}
