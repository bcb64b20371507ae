// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/backend"
	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/store"
)

var (
	// ErrEmptyMessage is returned by Submit for blank input.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNotRetryable is returned by RetryMessage when the id does not name
	// a failed user message.
	ErrNotRetryable = errors.New("message is not a failed user message")
)

// Transport sends one chat message and returns the reply.
type Transport interface {
	Chat(ctx context.Context, text string) (string, error)
}

// Pending is a message that has been appended but not yet delivered.
type Pending struct {
	ID   string
	Text string
}

// Controller owns the message store.
type Controller struct {
	messages  *store.Messages
	transport Transport
	logger    *zap.Logger
}

// NewController creates a chat controller. A nil logger disables logging.
func NewController(messages *store.Messages, transport Transport, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		messages:  messages,
		transport: transport,
		logger:    logger.Named("chat"),
	}
}

// Messages returns a snapshot of the transcript.
func (c *Controller) Messages() []model.Message {
	return c.messages.All()
}

// Enqueue appends a pending user message. Blank text is rejected and
// nothing is appended.
func (c *Controller) Enqueue(text string) (*Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}
	msg := model.NewUserMessage(text)
	c.messages.Append(msg)
	return &Pending{ID: msg.ID, Text: text}, true
}

// Deliver sends a pending message. On success the message becomes sent
// and the reply is appended directly after the status change; on failure
// the message becomes failed and the error is returned.
func (c *Controller) Deliver(ctx context.Context, p *Pending) error {
	ctx = backend.WithRequestID(ctx, p.ID)

	reply, err := c.transport.Chat(ctx, p.Text)
	if err != nil {
		c.messages.SetStatus(p.ID, model.StatusFailed)
		c.logger.Warn("chat message failed",
			zap.String("request_id", p.ID),
			zap.Stringer("kind", backend.TypeOf(err)),
			zap.Error(err))
		return fmt.Errorf("send message: %w", err)
	}

	if !c.messages.AppendAfterStatus(p.ID, model.StatusSent, model.NewBotMessage(reply)) {
		// Transcript was cleared while the request was in flight.
		c.logger.Debug("reply dropped", zap.String("request_id", p.ID))
	}
	return nil
}

// Submit enqueues and delivers text, returning the final state of the
// user message. The message is returned on delivery failure too.
func (c *Controller) Submit(ctx context.Context, text string) (*model.Message, error) {
	p, ok := c.Enqueue(text)
	if !ok {
		return nil, ErrEmptyMessage
	}
	err := c.Deliver(ctx, p)
	msg, found := c.messages.Get(p.ID)
	if !found {
		return nil, err
	}
	return &msg, err
}

// Retry submits text again. The earlier failed message is left as is.
func (c *Controller) Retry(ctx context.Context, text string) (*model.Message, error) {
	return c.Submit(ctx, text)
}

// RetryPending is the two-phase form of RetryMessage.
func (c *Controller) RetryPending(id string) (*Pending, error) {
	msg, ok := c.messages.Get(id)
	if !ok || !msg.IsRetryable() {
		return nil, ErrNotRetryable
	}
	p, ok := c.Enqueue(msg.Content)
	if !ok {
		return nil, ErrNotRetryable
	}
	return p, nil
}

// RetryMessage retries the failed message with the given id.
func (c *Controller) RetryMessage(ctx context.Context, id string) (*model.Message, error) {
	msg, ok := c.messages.Get(id)
	if !ok || !msg.IsRetryable() {
		return nil, ErrNotRetryable
	}
	return c.Retry(ctx, msg.Content)
}

// Clear empties the transcript. History is not stored on the server.
func (c *Controller) Clear() {
	c.messages.Clear()
}
