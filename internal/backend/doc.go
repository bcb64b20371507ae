// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Cerebrum backend API.
//
// Each backend resource (chat, notes, file registry) has one method on
// Client. Methods either return the decoded payload or a *ClientError
// whose Type says what went wrong: the backend was unreachable, answered
// with a non-2xx status, sent a body that could not be decoded, or did not
// answer before the request deadline.
//
// The client never retries. Callers apply their optimistic local changes
// first and decide how to reconcile when a call fails.
//
// # Key Types
//
//   - Client: HTTP client for the backend API
//   - ClientConfig: Base URL, request deadlines and rate limit
//   - ClientError: Typed failure (network, server, decode, timeout)
//
// # Usage
//
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: "http://localhost:8000",
//	})
//	reply, err := client.Chat(ctx, "What is a Fourier transform?")
//	if errors.Is(err, backend.ErrTimeout) {
//	    // the backend did not answer in time
//	}
//
// Requests carry an X-Request-ID header. Attach a correlation id with
// WithRequestID to have it propagated; otherwise a fresh one is generated.
package backend
