// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/cerebrum-tui/internal/model"
)

// Processing stages tracked per registry entry.
const (
	StageConverted = "converted"
	StageEmbedded  = "embedded"
)

// ErrInvalidStage is returned for anything other than StageConverted or
// StageEmbedded.
var ErrInvalidStage = errors.New("invalid processing stage")

const registrySchema = `
CREATE TABLE IF NOT EXISTS registry (
    hash_id TEXT PRIMARY KEY,
    original_name TEXT NOT NULL,
    sanitized_name TEXT NOT NULL,
    converted INTEGER NOT NULL DEFAULT 0,
    embedded INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_registry_created_at ON registry(created_at);
`

// Registry tracks uploaded knowledge base files and how far each has been
// processed.
type Registry struct {
	db *sql.DB
}

// OpenRegistry opens or creates the registry database at path.
func OpenRegistry(path string) (*Registry, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(registrySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create registry schema: %w", err)
	}
	return &Registry{db: db}, nil
}

// Close closes the database.
func (r *Registry) Close() error {
	return r.db.Close()
}

// HashID derives the stable registry key for a sanitized name.
func HashID(sanitized string) string {
	sum := sha256.Sum256([]byte(sanitized))
	return hex.EncodeToString(sum[:])[:16]
}

// Register adds an entry for an uploaded file. Re-registering the same
// name keeps the existing row and its flags.
func (r *Registry) Register(originalName string) (model.FileEntry, error) {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	entry := model.FileEntry{
		OriginalName:  stem,
		SanitizedName: SanitizeTitle(stem),
	}
	entry.HashID = HashID(entry.SanitizedName)

	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO registry (hash_id, original_name, sanitized_name, created_at) VALUES (?, ?, ?, ?)`,
		entry.HashID, entry.OriginalName, entry.SanitizedName, time.Now().UnixNano(),
	)
	if err != nil {
		return model.FileEntry{}, fmt.Errorf("failed to register %s: %w", originalName, err)
	}
	return r.Get(entry.HashID)
}

// Get returns one entry.
func (r *Registry) Get(hashID string) (model.FileEntry, error) {
	row := r.db.QueryRow(
		`SELECT hash_id, original_name, sanitized_name, converted, embedded FROM registry WHERE hash_id = ?`,
		hashID,
	)
	var e model.FileEntry
	if err := row.Scan(&e.HashID, &e.OriginalName, &e.SanitizedName, &e.Converted, &e.Embedded); err != nil {
		return model.FileEntry{}, fmt.Errorf("failed to read registry entry %s: %w", hashID, err)
	}
	return e, nil
}

// All returns every entry in upload order.
func (r *Registry) All() ([]model.FileEntry, error) {
	return r.query(`SELECT hash_id, original_name, sanitized_name, converted, embedded FROM registry ORDER BY created_at, hash_id`)
}

// Pending returns entries whose stage flag is still unset.
func (r *Registry) Pending(stage string) ([]model.FileEntry, error) {
	if err := validStage(stage); err != nil {
		return nil, err
	}
	return r.query(`SELECT hash_id, original_name, sanitized_name, converted, embedded FROM registry WHERE ` +
		stage + ` = 0 ORDER BY created_at, hash_id`)
}

// Mark sets a stage flag on one entry.
func (r *Registry) Mark(stage, hashID string) error {
	return r.setFlag(stage, hashID, true)
}

// Reset clears a stage flag on one entry, or on all entries when hashID is
// empty. Clearing "converted" also clears "embedded".
func (r *Registry) Reset(stage, hashID string) error {
	if err := r.setFlag(stage, hashID, false); err != nil {
		return err
	}
	if stage == StageConverted {
		return r.setFlag(StageEmbedded, hashID, false)
	}
	return nil
}

func (r *Registry) setFlag(stage, hashID string, value bool) error {
	if err := validStage(stage); err != nil {
		return err
	}
	query := `UPDATE registry SET ` + stage + ` = ?`
	args := []any{value}
	if hashID != "" {
		query += ` WHERE hash_id = ?`
		args = append(args, hashID)
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update %s: %w", stage, err)
	}
	return nil
}

func (r *Registry) query(q string, args ...any) ([]model.FileEntry, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query registry: %w", err)
	}
	defer rows.Close()

	entries := []model.FileEntry{}
	for rows.Next() {
		var e model.FileEntry
		if err := rows.Scan(&e.HashID, &e.OriginalName, &e.SanitizedName, &e.Converted, &e.Embedded); err != nil {
			return nil, fmt.Errorf("failed to scan registry row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func validStage(stage string) error {
	if stage != StageConverted && stage != StageEmbedded {
		return fmt.Errorf("%w: %q", ErrInvalidStage, stage)
	}
	return nil
}
