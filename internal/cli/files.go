// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/session"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

func newFilesCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Upload PDFs and follow their processing",
		Long: `Manage the backend's file registry. Uploaded PDFs are converted to
markdown and then embedded; each step shows up as a flag on the entry.`,
		Example: `  cerebrum files upload slides.pdf notes.pdf
  cerebrum files convert
  cerebrum files list --watch
  cerebrum files reset embedded --hash 3f2a9c01d4e5b6a7`,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilesList(cmd, f, false, 0)
		},
	}

	cmd.AddCommand(newFilesListCmd(f))
	cmd.AddCommand(&cobra.Command{
		Use:   "upload <file.pdf>...",
		Short: "Upload one or more PDF files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilesUpload(cmd, f, args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "convert",
		Short: "Start markdown conversion of pending files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilesTrigger(cmd, f, false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "embed",
		Short: "Start embedding of converted files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilesTrigger(cmd, f, true)
		},
	})
	cmd.AddCommand(newFilesResetCmd(f))
	return cmd
}

func newFilesListCmd(f *rootFlags) *cobra.Command {
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the file registry",
		Long:    "Show the file registry. With --watch the registry is polled until every file is converted and embedded.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilesList(cmd, f, watch, interval)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll until processing has finished")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Poll interval (default: files.poll_interval_secs)")
	return cmd
}

func runFilesList(cmd *cobra.Command, f *rootFlags, watch bool, interval time.Duration) error {
	sess, _, err := f.session(cmd, nil, nil)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if watch {
		err = watchRegistry(ctx, cmd, f, sess, interval)
	} else {
		err = sess.Files.Refresh(ctx)
	}

	entries := sess.Files.Entries()
	if f.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), "files list", func() (any, error) {
			return entries, err
		})
	}
	if err != nil {
		return err
	}
	printRegistry(NewPrinter(cmd.OutOrStdout()), entries)
	return nil
}

// watchRegistry polls until every entry is settled, printing progress on
// every change. Interrupting the wait is not an error.
func watchRegistry(ctx context.Context, cmd *cobra.Command, f *rootFlags, sess *session.Session, interval time.Duration) error {
	if interval <= 0 {
		interval = f.cfg.Files.PollInterval()
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	changes, unsubscribe := sess.Registry.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		done <- sess.Files.PollUntilSettled(ctx, interval)
	}()

	stderr := NewPrinter(cmd.ErrOrStderr())
	for {
		select {
		case <-changes:
			entries := sess.Files.Entries()
			settled := 0
			for _, e := range entries {
				if e.Settled() {
					settled++
				}
			}
			pct := 100.0
			if len(entries) > 0 {
				pct = float64(settled) * 100 / float64(len(entries))
			}
			stderr.Printf("%s %d/%d processed\n", styles.RenderProgressBar(30, pct), settled, len(entries))
		case err := <-done:
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

func printRegistry(p *Printer, entries []model.FileEntry) {
	if len(entries) == 0 {
		p.Println(DimStyle.Render("No files. Upload one with 'cerebrum files upload <file.pdf>'."))
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.HashID,
			e.DisplayName(),
			RenderStatus(e.Converted),
			RenderStatus(e.Embedded),
		})
	}
	p.Println(RenderTable([]string{"HASH", "NAME", "CONVERTED", "EMBEDDED"}, rows))
}

func runFilesUpload(cmd *cobra.Command, f *rootFlags, paths []string) error {
	sess, _, err := f.session(cmd, nil, nil)
	if err != nil {
		return err
	}

	// Results are alerted by the controller; only count failures here.
	failed := 0
	for _, path := range paths {
		if _, err := sess.Files.UploadFile(cmd.Context(), path); err != nil {
			failed++
		}
	}
	if failed > 0 {
		return reportedError{fmt.Errorf("%d of %d uploads failed", failed, len(paths))}
	}
	return nil
}

func runFilesTrigger(cmd *cobra.Command, f *rootFlags, embed bool) error {
	sess, _, err := f.session(cmd, nil, nil)
	if err != nil {
		return err
	}
	start := sess.Files.Convert
	if embed {
		start = sess.Files.Embed
	}
	if _, err := start(cmd.Context()); err != nil {
		return reportedError{err}
	}
	return nil
}

func newFilesResetCmd(f *rootFlags) *cobra.Command {
	var hashID string
	cmd := &cobra.Command{
		Use:       "reset <converted|embedded>",
		Short:     "Clear a processing flag so the step runs again",
		Long:      "Clear the converted or embedded flag of one entry (--hash) or of every entry. Resetting converted also resets embedded.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"converted", "embedded"},
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, _, err := f.session(cmd, nil, nil)
			if err != nil {
				return err
			}
			if err := sess.Files.Reset(cmd.Context(), args[0], hashID); err != nil {
				return err
			}
			target := "all entries"
			if hashID != "" {
				target = hashID
			}
			NewPrinter(cmd.OutOrStdout()).Success("Reset %s for %s", args[0], target)
			return nil
		},
	}
	cmd.Flags().StringVar(&hashID, "hash", "", "Only reset the entry with this hash id")
	return cmd
}
