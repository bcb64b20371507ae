// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/prompt"
	"github.com/jeranaias/cerebrum-tui/internal/util"
)

func newNotesCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List, show, create, edit and delete notes",
		Example: `  cerebrum notes list
  cerebrum notes show Lecture_3.md
  cerebrum notes new --title "Lecture 4"
  cerebrum notes edit Lecture_4.md --content-file lecture4.md
  cerebrum notes rm Lecture_4.md`,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotesList(cmd, f)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNotesList(cmd, f)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <filename>",
		Short: "Print one note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotesShow(cmd, f, args[0])
		},
	})
	cmd.AddCommand(newNotesNewCmd(f))
	cmd.AddCommand(newNotesEditCmd(f))
	cmd.AddCommand(newNotesRmCmd(f))
	return cmd
}

func runNotesList(cmd *cobra.Command, f *rootFlags) error {
	sess, _, err := f.session(cmd, nil, nil)
	if err != nil {
		return err
	}
	err = sess.Notes.List(cmd.Context())
	notes := sess.Notes.Notes()

	if f.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), "notes list", func() (any, error) {
			return notes, err
		})
	}
	if err != nil {
		return err
	}

	p := NewPrinter(cmd.OutOrStdout())
	if len(notes) == 0 {
		p.Println(DimStyle.Render("No notes yet. Create one with 'cerebrum notes new'."))
		return nil
	}

	width := GetTerminalWidth()
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			n.Filename,
			util.TruncateWidth(n.Title, width/4),
			util.TruncateWidth(n.Preview(), width/3),
		})
	}
	p.Println(RenderTable([]string{"FILENAME", "TITLE", "PREVIEW"}, rows))
	return nil
}

func runNotesShow(cmd *cobra.Command, f *rootFlags, filename string) error {
	client := f.client()
	note, err := client.GetNote(cmd.Context(), filename)

	if f.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), "notes show", func() (any, error) {
			return note, err
		})
	}
	if err != nil {
		return err
	}

	p := NewPrinter(cmd.OutOrStdout())
	p.Println(TitleStyle.Render(note.Title))
	p.Println(note.Content)
	return nil
}

// =============================================================================
// NEW / EDIT
// =============================================================================

type noteContentFlags struct {
	title       string
	content     string
	contentFile string
}

func (n *noteContentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&n.title, "title", "t", "", "Note title")
	cmd.Flags().StringVar(&n.content, "content", "", "Note content")
	cmd.Flags().StringVarP(&n.contentFile, "content-file", "f", "", "Read content from a file ('-' for stdin)")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
}

// resolve returns the requested content and whether any was given.
func (n *noteContentFlags) resolve(cmd *cobra.Command) (string, bool, error) {
	switch {
	case n.contentFile == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", false, fmt.Errorf("read stdin: %w", err)
		}
		return string(data), true, nil
	case n.contentFile != "":
		data, err := os.ReadFile(n.contentFile)
		if err != nil {
			return "", false, err
		}
		return string(data), true, nil
	case cmd.Flags().Changed("content"):
		return n.content, true, nil
	}
	return "", false, nil
}

func newNotesNewCmd(f *rootFlags) *cobra.Command {
	var flags noteContentFlags
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Long:  "Create a note. Without flags the configured default title and content are used.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			content, hasContent, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if flags.title != "" {
				f.cfg.Notes.DefaultTitle = flags.title
				if !hasContent {
					content, hasContent = "# "+flags.title+"\n\n", true
				}
			}
			if hasContent {
				f.cfg.Notes.DefaultContent = content
			}

			sess, _, err := f.session(cmd, nil, nil)
			if err != nil {
				return err
			}
			note, err := sess.Notes.Create(cmd.Context())
			if f.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), "notes new", func() (any, error) {
					return note, err
				})
			}
			if err != nil {
				return reportedError{err}
			}
			NewPrinter(cmd.OutOrStdout()).Success("Created %s", bold(note.Filename))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newNotesEditCmd(f *rootFlags) *cobra.Command {
	var flags noteContentFlags
	cmd := &cobra.Command{
		Use:   "edit <filename>",
		Short: "Change the title or content of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			content, hasContent, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if flags.title == "" && !hasContent {
				return errors.New("nothing to change: pass --title, --content or --content-file")
			}

			sess, _, err := f.session(cmd, nil, nil)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := sess.Notes.List(ctx); err != nil {
				return err
			}

			var result model.Note
			if flags.title != "" {
				res := sess.Notes.UpdateNote(ctx, filename, model.FieldTitle, flags.title)
				if res.Err != nil {
					return res.Err
				}
				result = res.Note
			}
			if hasContent {
				res := sess.Notes.UpdateNote(ctx, filename, model.FieldContent, content)
				if res.Err != nil {
					return res.Err
				}
				result = res.Note
			}

			if f.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), "notes edit", func() (any, error) {
					return result, nil
				})
			}
			NewPrinter(cmd.OutOrStdout()).Success("Saved %s", bold(filename))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// =============================================================================
// DELETE
// =============================================================================

func newNotesRmCmd(f *rootFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <filename>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Long:    "Delete a note after confirmation. Use --yes to skip the prompt.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var confirmer prompt.Confirmer = &prompt.Terminal{Out: cmd.ErrOrStderr(), In: cmd.InOrStdin()}
			if yes {
				confirmer = prompt.AlwaysConfirm
			}
			sess, _, err := f.session(cmd, nil, confirmer)
			if err != nil {
				return err
			}

			deleted, err := sess.Notes.Delete(cmd.Context(), args[0])
			if err != nil {
				return reportedError{err}
			}
			p := NewPrinter(cmd.OutOrStdout())
			if !deleted {
				p.Println(DimStyle.Render("Cancelled."))
				return nil
			}
			p.Success("Deleted %s", bold(args[0]))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking")
	return cmd
}
