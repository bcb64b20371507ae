// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// FileEntry is one row of the backend's file registry.
// The client never mutates entries; it only refetches them.
type FileEntry struct {
	HashID        string `json:"hash_id"`
	OriginalName  string `json:"original_name"`
	SanitizedName string `json:"sanitized_name"`
	Converted     bool   `json:"converted"`
	Embedded      bool   `json:"embedded"`
}

// DisplayName prefers the sanitized name and falls back to the original.
func (f FileEntry) DisplayName() string {
	if f.SanitizedName != "" {
		return f.SanitizedName
	}
	return f.OriginalName
}

// Settled reports whether backend processing has finished for the file.
func (f FileEntry) Settled() bool {
	return f.Converted && f.Embedded
}
