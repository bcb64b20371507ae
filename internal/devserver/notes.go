// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package devserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/util"
)

// ErrNoteNotFound is returned for filenames with no backing file.
var ErrNoteNotFound = errors.New("note not found")

// ErrInvalidFilename is returned for names that are not plain .md files.
var ErrInvalidFilename = errors.New("invalid note filename")

// NoteStore keeps notes as markdown files in a single directory.
type NoteStore struct {
	mu  sync.Mutex
	dir string
}

// NewNoteStore creates dir if needed.
func NewNoteStore(dir string) (*NoteStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create notes dir: %w", err)
	}
	return &NoteStore{dir: dir}, nil
}

// List returns every note sorted by filename.
func (s *NoteStore) List() ([]model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read notes dir: %w", err)
	}

	notes := make([]model.Note, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		note, err := s.read(e.Name())
		if err != nil {
			continue
		}
		notes = append(notes, note)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Filename < notes[j].Filename })
	return notes, nil
}

// Get reads one note.
func (s *NoteStore) Get(filename string) (model.Note, error) {
	if err := validFilename(filename); err != nil {
		return model.Note{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(filename)
}

// Create writes a new note and returns it with its assigned filename.
// Colliding titles get a numeric suffix.
func (s *NoteStore) Create(draft model.NoteDraft) (model.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := SanitizeTitle(draft.Title)
	filename := base + ".md"
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(s.dir, filename)); errors.Is(err, os.ErrNotExist) {
			break
		}
		filename = fmt.Sprintf("%s_%d.md", base, n)
	}

	if err := util.AtomicWriteFile(filepath.Join(s.dir, filename), []byte(draft.Content), 0644); err != nil {
		return model.Note{}, fmt.Errorf("failed to write note: %w", err)
	}
	return s.read(filename)
}

// Update replaces the content of an existing note. The filename is kept
// even when the title changes.
func (s *NoteStore) Update(filename string, draft model.NoteDraft) error {
	if err := validFilename(filename); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return ErrNoteNotFound
	}
	if err := util.AtomicWriteFile(path, []byte(draft.Content), 0644); err != nil {
		return fmt.Errorf("failed to write note: %w", err)
	}
	return nil
}

// Delete removes a note.
func (s *NoteStore) Delete(filename string) error {
	if err := validFilename(filename); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}

func (s *NoteStore) read(filename string) (model.Note, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Note{}, ErrNoteNotFound
		}
		return model.Note{}, fmt.Errorf("failed to read note: %w", err)
	}
	content := string(data)
	return model.Note{
		Filename: filename,
		Title:    DeriveTitle(content, filename),
		Content:  content,
	}, nil
}

func validFilename(name string) error {
	if name == "" || name != filepath.Base(name) || filepath.Ext(name) != ".md" || strings.HasPrefix(name, ".") {
		return ErrInvalidFilename
	}
	return nil
}

// SanitizeTitle turns a title into a filename stem: NFC-normalized,
// trimmed, with whitespace and path separators replaced by underscores.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(norm.NFC.String(title))
	var b strings.Builder
	for _, r := range title {
		switch {
		case r == '/' || r == '\\' || unicode.IsSpace(r):
			b.WriteByte('_')
		case unicode.IsControl(r) || strings.ContainsRune(`:*?"<>|`, r):
		default:
			b.WriteRune(r)
		}
	}
	stem := strings.Trim(b.String(), "._")
	if stem == "" {
		return "Untitled"
	}
	return stem
}

// DeriveTitle returns the first non-empty line of content without leading
// heading markers, or the filename stem for empty notes.
func DeriveTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return strings.TrimSuffix(filename, ".md")
}

// =============================================================================
// ROUTES
// =============================================================================

// NotesController serves /notes.
type NotesController struct {
	store *NoteStore
}

func NewNotesController(store *NoteStore) *NotesController {
	return &NotesController{store: store}
}

func (c *NotesController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Get("/", c.List)
	h.Post("/", c.Create)
	h.Get("/:filename", c.Show)
	h.Put("/:filename", c.Update)
	h.Delete("/:filename", c.Delete)
}

func (c *NotesController) List(ctx *fiber.Ctx) error {
	notes, err := c.store.List()
	if err != nil {
		return err
	}
	return ctx.JSON(notes)
}

func (c *NotesController) Show(ctx *fiber.Ctx) error {
	note, err := c.store.Get(ctx.Params("filename"))
	if err != nil {
		return noteError(err)
	}
	return ctx.JSON(note)
}

func (c *NotesController) Create(ctx *fiber.Ctx) error {
	var draft model.NoteDraft
	if err := ctx.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid note body")
	}
	note, err := c.store.Create(draft)
	if err != nil {
		return err
	}
	note.Title = draft.Title
	return ctx.JSON(note)
}

func (c *NotesController) Update(ctx *fiber.Ctx) error {
	var draft model.NoteDraft
	if err := ctx.BodyParser(&draft); err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "Invalid note body")
	}
	filename := ctx.Params("filename")
	if err := c.store.Update(filename, draft); err != nil {
		return noteError(err)
	}
	return ctx.JSON(model.Note{Filename: filename, Title: draft.Title, Content: draft.Content})
}

func (c *NotesController) Delete(ctx *fiber.Ctx) error {
	if err := c.store.Delete(ctx.Params("filename")); err != nil {
		return noteError(err)
	}
	return ctx.JSON(fiber.Map{"detail": "Note deleted successfully"})
}

func noteError(err error) error {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Note not found")
	case errors.Is(err, ErrInvalidFilename):
		return fiber.NewError(fiber.StatusBadRequest, "Invalid note filename")
	}
	return err
}
