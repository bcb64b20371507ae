// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package devserver is a self-contained Cerebrum backend for local
// development and end-to-end tests.
//
// It serves the same HTTP contract as the real backend: notes are markdown
// files on disk, uploads land in a knowledge base directory, and the file
// registry is a sqlite table whose converted and embedded flags are flipped
// by background workers. Chat replies come from a pluggable Responder.
//
// # Usage
//
//	srv, err := devserver.New(devserver.Options{DataDir: dir})
//	if err != nil {
//	    return err
//	}
//	defer srv.Close()
//	return srv.Listen("127.0.0.1:8000")
package devserver
