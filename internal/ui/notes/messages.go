// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package notes

import (
	"github.com/jeranaias/cerebrum-tui/internal/model"
	notesctl "github.com/jeranaias/cerebrum-tui/internal/notes"
)

// ListedMsg reports the end of a list fetch.
type ListedMsg struct {
	Err error
}

// CreatedMsg reports the end of a create request.
type CreatedMsg struct {
	Note model.Note
	Err  error
}

// PersistedMsg reports the end of one note write.
type PersistedMsg struct {
	Filename string
	Result   notesctl.UpdateResult
}

// DeletedMsg reports the end of a delete request.
type DeletedMsg struct {
	Filename string
	Err      error
}
