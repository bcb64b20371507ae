// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"fmt"
	"strings"
)

// Reconcile selects what happens after a failed write.
type Reconcile string

const (
	// ReconcileNone keeps the local copy as is (last write wins).
	ReconcileNone Reconcile = "none"

	// ReconcileMarkDirty flags the note until a later write succeeds.
	ReconcileMarkDirty Reconcile = "dirty"

	// ReconcileRefetch reloads the note from the server. If the reload
	// fails too the note is marked dirty.
	ReconcileRefetch Reconcile = "refetch"
)

// ParseReconcile converts a config value into a Reconcile policy.
// The empty string means ReconcileNone.
func ParseReconcile(s string) (Reconcile, error) {
	switch r := Reconcile(strings.ToLower(strings.TrimSpace(s))); r {
	case "", ReconcileNone:
		return ReconcileNone, nil
	case ReconcileMarkDirty, ReconcileRefetch:
		return r, nil
	default:
		return "", fmt.Errorf("unknown reconcile policy %q (want none, dirty or refetch)", s)
	}
}
