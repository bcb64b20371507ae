// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/backend"
)

// Options configures a dev server.
type Options struct {
	// DataDir holds notes/, knowledgebase/, markdown/ and registry.db.
	DataDir string

	// ProcessDelay is how long each background conversion or embedding
	// step takes (default 2s).
	ProcessDelay time.Duration

	// AutoProcess queues conversion and embedding after every upload.
	AutoProcess bool

	// Responder produces chat replies (default EchoResponder).
	Responder Responder

	Logger *zap.Logger
}

// Server is the dev backend.
type Server struct {
	app       *fiber.App
	notes     *NoteStore
	registry  *Registry
	pipeline  *Pipeline
	responder Responder
	logger    *zap.Logger
	kbDir     string

	closeOnce sync.Once
}

// New creates the data directories, opens the registry and wires routes.
func New(opts Options) (*Server, error) {
	if opts.DataDir == "" {
		return nil, errors.New("data dir is required")
	}
	if opts.ProcessDelay <= 0 {
		opts.ProcessDelay = 2 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger.Named("devserver")

	kbDir := filepath.Join(opts.DataDir, "knowledgebase")
	mdDir := filepath.Join(opts.DataDir, "markdown")
	for _, dir := range []string{opts.DataDir, kbDir, mdDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	notes, err := NewNoteStore(filepath.Join(opts.DataDir, "notes"))
	if err != nil {
		return nil, err
	}
	registry, err := OpenRegistry(filepath.Join(opts.DataDir, "registry.db"))
	if err != nil {
		return nil, err
	}

	responder := opts.Responder
	if responder == nil {
		responder = EchoResponder{}
	}

	s := &Server{
		notes:     notes,
		registry:  registry,
		pipeline:  NewPipeline(registry, mdDir, opts.ProcessDelay, opts.AutoProcess, logger),
		responder: responder,
		logger:    logger,
		kbDir:     kbDir,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "cerebrum-dev",
		DisableStartupMessage: true,
		UnescapePath:          true,
		BodyLimit:             64 * 1024 * 1024,
		ErrorHandler:          s.errorHandler,
	})
	s.app.Use(recover.New())
	s.app.Use(requestid.New(requestid.Config{Header: backend.RequestIDHeader}))
	s.app.Use(s.logRequests)
	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Cerebrum dev server is running"})
	})

	NewNotesController(s.notes).RegisterRoutes(s.app)
	NewChatController(s.responder, s.notes, s.logger).RegisterRoutes(s.app)
	NewProcessController(s.registry, s.pipeline, s.kbDir, s.logger).RegisterRoutes(s.app)
}

// App exposes the fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Registry returns the file registry.
func (s *Server) Registry() *Registry {
	return s.registry
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("dev server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones and
// background jobs, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	if cerr := s.Close(); err == nil {
		err = cerr
	}
	return err
}

// Close stops background jobs and closes the registry.
func (s *Server) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.pipeline.Stop()
		err = s.registry.Close()
	})
	return err
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// errorHandler renders every error as {"detail": "..."}.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("request_id", requestID(c)),
			zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"detail": err.Error()})
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.String("request_id", requestID(c)),
		zap.Duration("latency", time.Since(start)))
	return err
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
