// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// Responder answers a chat query. notes is the current note collection,
// available as retrieval context.
type Responder interface {
	Respond(ctx context.Context, text string, notes []model.Note) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, text string, notes []model.Note) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, text string, notes []model.Note) (string, error) {
	return f(ctx, text, notes)
}

// EchoResponder echoes the query and lists notes whose title or content
// mention any of its words.
type EchoResponder struct{}

func (EchoResponder) Respond(_ context.Context, text string, notes []model.Note) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "You said: %s", text)

	words := strings.Fields(strings.ToLower(text))
	var related []string
	for _, n := range notes {
		haystack := strings.ToLower(n.Title + "\n" + n.Content)
		for _, w := range words {
			if len(w) > 3 && strings.Contains(haystack, w) {
				related = append(related, n.Title)
				break
			}
		}
	}
	if len(related) > 0 {
		b.WriteString("\n\nRelated notes:\n")
		for _, title := range related {
			fmt.Fprintf(&b, "- %s\n", title)
		}
	}
	return b.String(), nil
}

// ChatController serves /chat.
type ChatController struct {
	responder Responder
	notes     *NoteStore
	logger    *zap.Logger
}

func NewChatController(responder Responder, notes *NoteStore, logger *zap.Logger) *ChatController {
	return &ChatController{responder: responder, notes: notes, logger: logger}
}

func (c *ChatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat/", c.Ask)
}

type chatQuery struct {
	Text string `json:"text"`
}

func (c *ChatController) Ask(ctx *fiber.Ctx) error {
	var q chatQuery
	if err := ctx.BodyParser(&q); err != nil || strings.TrimSpace(q.Text) == "" {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Field 'text' is required")
	}

	notes, err := c.notes.List()
	if err != nil {
		c.logger.Warn("chat without note context", zap.Error(err))
	}
	reply, err := c.responder.Respond(ctx.UserContext(), q.Text, notes)
	if err != nil {
		return err
	}
	c.logger.Debug("chat reply",
		zap.String("request_id", requestID(ctx)),
		zap.Int("reply_len", len(reply)))
	return ctx.JSON(fiber.Map{"reply": reply})
}
