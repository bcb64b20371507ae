// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/util"
)

// ProcessController serves /process.
type ProcessController struct {
	registry *Registry
	pipeline *Pipeline
	kbDir    string
	logger   *zap.Logger
}

func NewProcessController(registry *Registry, pipeline *Pipeline, kbDir string, logger *zap.Logger) *ProcessController {
	return &ProcessController{registry: registry, pipeline: pipeline, kbDir: kbDir, logger: logger}
}

func (c *ProcessController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/process")
	h.Get("/", c.Stats)
	h.Post("/upload", c.Upload)
	h.Post("/markdowninator", c.Convert)
	h.Post("/embeddinator", c.Embed)
	h.Post("/reset/:status", c.Reset)
}

func (c *ProcessController) Stats(ctx *fiber.Ctx) error {
	entries, err := c.registry.All()
	if err != nil {
		return err
	}
	return ctx.JSON(fiber.Map{"registry": entries})
}

func (c *ProcessController) Upload(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Missing file field")
	}
	name := filepath.Base(header.Filename)
	if !strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return fiber.NewError(fiber.StatusBadRequest, "Only PDF files are allowed")
	}

	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	n, err := util.AtomicWriteReader(filepath.Join(c.kbDir, name), src, 0644)
	if err != nil {
		return fmt.Errorf("failed to save upload: %w", err)
	}
	entry, err := c.registry.Register(name)
	if err != nil {
		return err
	}
	c.logger.Info("file uploaded",
		zap.String("name", name),
		zap.Int64("bytes", n),
		zap.String("hash_id", entry.HashID),
		zap.String("request_id", requestID(ctx)))

	c.pipeline.Uploaded()
	return ctx.JSON(fiber.Map{"message": fmt.Sprintf("File '%s' uploaded successfully", name)})
}

func (c *ProcessController) Convert(ctx *fiber.Ctx) error {
	if !c.pipeline.Convert() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Server is shutting down")
	}
	return ctx.JSON(fiber.Map{"message": "Conversion started in background"})
}

func (c *ProcessController) Embed(ctx *fiber.Ctx) error {
	if !c.pipeline.Embed() {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Server is shutting down")
	}
	return ctx.JSON(fiber.Map{"message": "Embedding started in background"})
}

func (c *ProcessController) Reset(ctx *fiber.Ctx) error {
	status := ctx.Params("status")
	hashID := ctx.Query("hash_id")
	if err := c.registry.Reset(status, hashID); err != nil {
		if errors.Is(err, ErrInvalidStage) {
			return fiber.NewError(fiber.StatusBadRequest, "Status must be 'converted' or 'embedded'")
		}
		return err
	}
	return ctx.JSON(fiber.Map{"message": fmt.Sprintf("Reset %s", status)})
}
