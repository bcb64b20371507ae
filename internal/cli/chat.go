// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/cerebrum-tui/internal/model"
	"github.com/jeranaias/cerebrum-tui/internal/ui/components"
	"github.com/jeranaias/cerebrum-tui/internal/ui/styles"
)

type chatReply struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Reply  string `json:"reply,omitempty"`
	Status string `json:"status"`
}

func newChatCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "chat <text...>",
		Short:   "Send one message and print the reply",
		Long:    "Send one chat message to the backend and print the reply. Exits non-zero if the message could not be delivered.",
		Example: `  cerebrum chat "what did lecture 3 cover?"`,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, f, strings.Join(args, " "))
		},
	}
}

func runChat(cmd *cobra.Command, f *rootFlags, text string) error {
	sess, _, err := f.session(cmd, nil, nil)
	if err != nil {
		return err
	}

	msg, err := sess.Chat.Submit(cmd.Context(), text)
	result := chatReply{Text: text}
	if msg != nil {
		result.ID = msg.ID
		result.Status = string(msg.Status)
	}
	if err == nil {
		for _, m := range sess.Chat.Messages() {
			if m.Role == model.RoleBot {
				result.Reply = m.Content
			}
		}
	}

	if f.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), "chat", func() (any, error) {
			return result, err
		})
	}
	if err != nil {
		return fmt.Errorf("message not delivered: %w", err)
	}

	out := result.Reply
	if isTerminalWriter(cmd.OutOrStdout()) && f.cfg.UI.RenderMarkdown {
		theme := styles.NewTheme()
		md := components.NewMarkdown(theme.GlamourStyle(f.cfg.UI.GlamourStyle), true)
		out = md.Render(out, GetTerminalWidth())
	}
	NewPrinter(cmd.OutOrStdout()).Println(out)
	return nil
}
