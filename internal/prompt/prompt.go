// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package prompt provides the blocking user interactions controllers need:
// alerts and yes/no confirmations.
package prompt

import "sync"

// Notifier shows a message the user must see.
type Notifier interface {
	Alert(message string)
}

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Alert(message string) { f(message) }

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(question string) bool

func (f ConfirmerFunc) Confirm(question string) bool { return f(question) }

var (
	// Discard drops every alert.
	Discard Notifier = NotifierFunc(func(string) {})

	// AlwaysConfirm answers yes without asking.
	AlwaysConfirm Confirmer = ConfirmerFunc(func(string) bool { return true })

	// NeverConfirm answers no without asking.
	NeverConfirm Confirmer = ConfirmerFunc(func(string) bool { return false })
)

// =============================================================================
// QUEUE
// =============================================================================

// Queue is a Notifier that buffers alerts for a consumer running in
// another goroutine (the TUI event loop). When the buffer is full the
// oldest alert is dropped.
type Queue struct {
	mu sync.Mutex
	ch chan string
}

// NewQueue creates a queue holding up to size alerts.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan string, size)}
}

// Alert enqueues message.
func (q *Queue) Alert(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for {
		select {
		case q.ch <- message:
			return
		default:
		}
		select {
		case <-q.ch:
		default:
		}
	}
}

// C returns the channel alerts are delivered on.
func (q *Queue) C() <-chan string {
	return q.ch
}

// Recorder is a Notifier that keeps every alert. Useful in tests and
// headless runs.
type Recorder struct {
	mu     sync.Mutex
	alerts []string
}

func (r *Recorder) Alert(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, message)
}

// Alerts returns the recorded alerts in order.
func (r *Recorder) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}
