// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// RequestIDHeader carries the correlation id of a request.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend API base URL (default: http://localhost:8000)
	BaseURL string

	// Timeout is the deadline for every non-upload request (default: 30s)
	Timeout time.Duration

	// UploadTimeout is the deadline for file uploads (default: 5m)
	UploadTimeout time.Duration

	// RequestsPerSecond limits outbound requests (0 = unlimited)
	RequestsPerSecond float64
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://localhost:8000",
		Timeout:       30 * time.Second,
		UploadTimeout: 5 * time.Minute,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Cerebrum backend.
// It is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a new client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	// Fill in defaults for any zero values
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8000"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UploadTimeout == 0 {
		cfg.UploadTimeout = 5 * time.Minute
	}

	c := &Client{
		config:     &cfg,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

// WithLogger sets the logger used for request tracing.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger.Named("backend")
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST IDS
// =============================================================================

type requestIDKey struct{}

// WithRequestID attaches a correlation id that is sent as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation id attached to ctx, if any.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// Ping verifies that the backend is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/", op: "ping"}, nil)
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one user message and returns the bot reply.
func (c *Client) Chat(ctx context.Context, text string) (string, error) {
	var resp ChatResponse
	err := c.doJSON(ctx, http.MethodPost, "/chat/", "chat", ChatRequest{Text: text}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Reply == nil {
		return "", &ClientError{Type: ErrTypeDecode, Message: "chat: response has no reply"}
	}
	return *resp.Reply, nil
}

// =============================================================================
// NOTES
// =============================================================================

// ListNotes returns every note on the backend.
func (c *Client) ListNotes(ctx context.Context) ([]model.Note, error) {
	var notes []model.Note
	if err := c.do(ctx, request{method: http.MethodGet, path: "/notes/", op: "list notes"}, &notes); err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []model.Note{}
	}
	return notes, nil
}

// GetNote fetches a single note by filename.
func (c *Client) GetNote(ctx context.Context, filename string) (model.Note, error) {
	var note model.Note
	err := c.do(ctx, request{method: http.MethodGet, path: notePath(filename), op: "get note"}, &note)
	if err != nil {
		return model.Note{}, err
	}
	return note, nil
}

// CreateNote creates a note and returns the server's record, including
// the filename it assigned.
func (c *Client) CreateNote(ctx context.Context, draft model.NoteDraft) (model.Note, error) {
	var note model.Note
	if err := c.doJSON(ctx, http.MethodPost, "/notes/", "create note", draft, &note); err != nil {
		return model.Note{}, err
	}
	if note.Filename == "" {
		return model.Note{}, &ClientError{Type: ErrTypeDecode, Message: "create note: response has no filename"}
	}
	return note, nil
}

// UpdateNote writes title and content of an existing note.
// The response body is ignored.
func (c *Client) UpdateNote(ctx context.Context, filename string, draft model.NoteDraft) error {
	return c.doJSON(ctx, http.MethodPut, notePath(filename), "update note", draft, nil)
}

// DeleteNote removes a note. The response body is ignored.
func (c *Client) DeleteNote(ctx context.Context, filename string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: notePath(filename), op: "delete note"}, nil)
}

func notePath(filename string) string {
	return "/notes/" + url.PathEscape(filename)
}

// =============================================================================
// FILE REGISTRY
// =============================================================================

// ListRegistry returns the file registry. A response without a registry
// field yields an empty slice.
func (c *Client) ListRegistry(ctx context.Context) ([]model.FileEntry, error) {
	var resp RegistryResponse
	if err := c.do(ctx, request{method: http.MethodGet, path: "/process/", op: "list registry"}, &resp); err != nil {
		return nil, err
	}
	if resp.Registry == nil {
		return []model.FileEntry{}, nil
	}
	return resp.Registry, nil
}

// UploadFile posts a file as multipart field "file" and returns the
// server's message.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filepath.Base(name))
		if err == nil {
			_, err = io.Copy(part, content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	var resp MessageResponse
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/process/upload",
		op:          "upload",
		body:        pr,
		contentType: mw.FormDataContentType(),
		timeout:     c.config.UploadTimeout,
	}, &resp)
	// Unblocks the writer goroutine if the request ended before reading the body.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

// StartConversion queues markdown conversion of the knowledge base.
func (c *Client) StartConversion(ctx context.Context) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/process/markdowninator", op: "start conversion"}, &resp)
	return resp.Message, err
}

// StartEmbedding queues embedding of converted markdown files.
func (c *Client) StartEmbedding(ctx context.Context) (string, error) {
	var resp MessageResponse
	err := c.do(ctx, request{method: http.MethodPost, path: "/process/embeddinator", op: "start embedding"}, &resp)
	return resp.Message, err
}

// ResetRegistry clears a processing flag ("converted" or "embedded") for
// one entry, or for all entries when hashID is empty.
func (c *Client) ResetRegistry(ctx context.Context, status, hashID string) error {
	path := "/process/reset/" + url.PathEscape(status)
	if hashID != "" {
		path += "?hash_id=" + url.QueryEscape(hashID)
	}
	return c.do(ctx, request{method: http.MethodPost, path: path, op: "reset registry"}, nil)
}

// =============================================================================
// TRANSPORT
// =============================================================================

type request struct {
	method      string
	path        string
	op          string
	body        io.Reader
	contentType string
	timeout     time.Duration
}

func (c *Client) doJSON(ctx context.Context, method, path, op string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return &ClientError{Type: ErrTypeRequest, Message: op + ": failed to marshal request", Cause: err}
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		op:          op,
		body:        bytes.NewReader(body),
		contentType: "application/json",
	}, out)
}

// do runs one request under its deadline and decodes a 2xx body into out.
// A nil out discards the body.
func (c *Client) do(ctx context.Context, r request, out any) error {
	timeout := r.timeout
	if timeout == 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return classifyTransport(ctx, r.op, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.config.BaseURL+r.path, r.body)
	if err != nil {
		return &ClientError{Type: ErrTypeRequest, Message: r.op + ": failed to create request", Cause: err}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = model.NewCorrelationID()
	}
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		ce := classifyTransport(ctx, r.op, err)
		c.logger.Debug("request failed",
			zap.String("op", r.op),
			zap.String("request_id", requestID),
			zap.Stringer("kind", ce.Type),
			zap.Error(err))
		return ce
	}
	defer resp.Body.Close()

	c.logger.Debug("request complete",
		zap.String("op", r.op),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverError(r.op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return classifyTransport(ctx, r.op, err)
		}
		return &ClientError{Type: ErrTypeDecode, Message: r.op + ": failed to decode response", Cause: err}
	}
	return nil
}

func serverError(op string, resp *http.Response) *ClientError {
	ce := &ClientError{
		Type:    ErrTypeServer,
		Status:  resp.StatusCode,
		Message: op + " failed",
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ce
	}
	var body errorBody
	if json.Unmarshal(data, &body) == nil {
		if text := body.text(); text != "" {
			ce.Message = op + " failed: " + text
		}
	}
	return ce
}
