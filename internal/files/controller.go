// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/store"
)

// User-facing texts.
const (
	MsgNotPDF       = "Only PDF files are allowed"
	MsgUploadFailed = "Failed to upload PDF"
)

// ErrNotPDF is returned by Upload for names without a .pdf suffix.
var ErrNotPDF = errors.New(MsgNotPDF)

// Transport is the subset of the backend client used for the registry.
type Transport interface {
	ListRegistry(ctx context.Context) ([]model.FileEntry, error)
	UploadFile(ctx context.Context, name string, content io.Reader) (string, error)
	StartConversion(ctx context.Context) (string, error)
	StartEmbedding(ctx context.Context) (string, error)
	ResetRegistry(ctx context.Context, status, hashID string) error
}

// Controller owns the registry store.
type Controller struct {
	registry  *store.Registry
	transport Transport
	notifier  prompt.Notifier
	logger    *zap.Logger
}

// NewController creates a files controller. Nil notifier and logger are
// replaced with no-op implementations.
func NewController(registry *store.Registry, transport Transport, notifier prompt.Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = prompt.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		registry:  registry,
		transport: transport,
		notifier:  notifier,
		logger:    logger.Named("files"),
	}
}

// Entries returns a snapshot of the registry.
func (c *Controller) Entries() []model.FileEntry {
	return c.registry.All()
}

// =============================================================================
// REFRESH
// =============================================================================

// Refresh refetches the registry. A failure empties the store and is
// logged; the error is returned for callers that care but never alerted.
func (c *Controller) Refresh(ctx context.Context) error {
	entries, err := c.transport.ListRegistry(ctx)
	if err != nil {
		c.logger.Warn("failed to fetch registry", zap.Error(err))
		c.registry.Replace(nil)
		return fmt.Errorf("refresh registry: %w", err)
	}
	c.registry.Replace(entries)
	return nil
}

// Poll refreshes every interval until ctx is done. It returns ctx.Err().
func (c *Controller) Poll(ctx context.Context, interval time.Duration) error {
	return c.poll(ctx, interval, false)
}

// PollUntilSettled polls like Poll but returns nil as soon as every entry
// is both converted and embedded.
func (c *Controller) PollUntilSettled(ctx context.Context, interval time.Duration) error {
	return c.poll(ctx, interval, true)
}

func (c *Controller) poll(ctx context.Context, interval time.Duration, untilSettled bool) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := c.Refresh(ctx); err == nil && untilSettled && len(c.registry.Pending()) == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadResult describes a completed upload.
type UploadResult struct {
	Name    string
	Message string
}

// IsPDF reports whether name is accepted for upload.
func IsPDF(name string) bool {
	return strings.HasSuffix(name, ".pdf")
}

// Upload sends content as name. Names that do not end in .pdf are
// rejected before any request is made. A successful upload is followed
// by exactly one Refresh.
func (c *Controller) Upload(ctx context.Context, name string, content io.Reader) (UploadResult, error) {
	base := filepath.Base(name)
	if !IsPDF(base) {
		c.notifier.Alert(MsgNotPDF)
		return UploadResult{Name: base}, ErrNotPDF
	}

	msg, err := c.transport.UploadFile(ctx, base, content)
	if err != nil {
		c.logger.Warn("upload failed", zap.String("filename", base), zap.Error(err))
		c.notifier.Alert(MsgUploadFailed)
		return UploadResult{Name: base}, fmt.Errorf("upload %s: %w", base, err)
	}

	c.logger.Info("uploaded file", zap.String("filename", base))
	c.notifier.Alert(msg)
	_ = c.Refresh(ctx)
	return UploadResult{Name: base, Message: msg}, nil
}

// UploadFile uploads the file at path.
func (c *Controller) UploadFile(ctx context.Context, path string) (UploadResult, error) {
	if !IsPDF(filepath.Base(path)) {
		return c.Upload(ctx, path, nil)
	}
	f, err := os.Open(path)
	if err != nil {
		c.notifier.Alert(MsgUploadFailed)
		return UploadResult{Name: filepath.Base(path)}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return c.Upload(ctx, path, f)
}

// =============================================================================
// PROCESSING
// =============================================================================

// Convert starts markdown conversion of pending files.
func (c *Controller) Convert(ctx context.Context) (string, error) {
	return c.trigger(ctx, "conversion", c.transport.StartConversion)
}

// Embed starts embedding of converted files.
func (c *Controller) Embed(ctx context.Context) (string, error) {
	return c.trigger(ctx, "embedding", c.transport.StartEmbedding)
}

func (c *Controller) trigger(ctx context.Context, what string, start func(context.Context) (string, error)) (string, error) {
	msg, err := start(ctx)
	if err != nil {
		c.logger.Warn("failed to start "+what, zap.Error(err))
		c.notifier.Alert("Failed to start " + what)
		return "", fmt.Errorf("start %s: %w", what, err)
	}
	if msg != "" {
		c.notifier.Alert(msg)
	}
	_ = c.Refresh(ctx)
	return msg, nil
}

// Reset clears the converted or embedded flag for one entry, or for all
// entries when hashID is empty.
func (c *Controller) Reset(ctx context.Context, status, hashID string) error {
	switch status {
	case "converted", "embedded":
	default:
		return fmt.Errorf("unknown registry status %q (want converted or embedded)", status)
	}
	if err := c.transport.ResetRegistry(ctx, status, hashID); err != nil {
		c.logger.Warn("failed to reset registry", zap.String("status", status), zap.Error(err))
		return fmt.Errorf("reset %s: %w", status, err)
	}
	_ = c.Refresh(ctx)
	return nil
}
