// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package files keeps the local copy of the backend's file registry and
// uploads PDFs into the knowledge base.
//
// The registry is read-only on the client: it is refetched as a whole
// after every upload or processing trigger, and can be polled while the
// backend converts and embeds files in the background.
package files
