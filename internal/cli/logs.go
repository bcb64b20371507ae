// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cerebrum-tui/internal/logging"
)

func newLogsCmd(f *rootFlags) *cobra.Command {
	var limit int
	var level string
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent log entries",
		Long:  "Show the newest entries of the log file (logging.path), newest first.",
		Example: `  cerebrum logs
  cerebrum logs -n 200 --level error`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if level != "" {
				if _, err := logging.ParseLevel(level); err != nil {
					return err
				}
			}
			entries, err := logging.ReadEntries(f.cfg.Logging.Path, level, limit)
			if f.jsonOutput {
				return outputJSON(cmd.OutOrStdout(), "logs", func() (any, error) {
					return entries, err
				})
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", f.cfg.Logging.Path, err)
			}

			p := NewPrinter(cmd.OutOrStdout())
			if len(entries) == 0 {
				p.Println(DimStyle.Render("No log entries in " + f.cfg.Logging.Path))
				return nil
			}
			for _, e := range entries {
				p.Println(formatEntry(e))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "lines", "n", 50, "Number of entries to show")
	cmd.Flags().StringVar(&level, "level", "", "Only show entries of this level (debug, info, warn, error)")
	return cmd
}

func formatEntry(e logging.Entry) string {
	var b strings.Builder
	b.WriteString(DimStyle.Render(e.Timestamp))
	b.WriteByte(' ')
	switch e.Level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		b.WriteString(errorColor.Sprintf("%-5s", e.Level))
	case "WARN":
		b.WriteString(warnColor.Sprintf("%-5s", e.Level))
	default:
		fmt.Fprintf(&b, "%-5s", e.Level)
	}
	if e.Logger != "" {
		b.WriteString(" " + LabelStyle.Render(e.Logger))
	}
	b.WriteString(" " + e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}
