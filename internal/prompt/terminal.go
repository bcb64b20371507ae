// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"golang.org/x/term"
)

var (
	alertColor  = color.New(color.FgYellow, color.Bold)
	promptColor = color.New(color.FgCyan)
)

// Terminal implements Notifier and Confirmer on a terminal. Alerts go to
// Out. Confirmations use line editing when stdin is a TTY and fall back to
// reading a plain line from In otherwise.
type Terminal struct {
	Out io.Writer
	In  io.Reader

	// Interactive forces liner on or off. Nil means detect.
	Interactive *bool
}

// NewTerminal returns a Terminal on stdin and stderr.
func NewTerminal() *Terminal {
	return &Terminal{Out: os.Stderr, In: os.Stdin}
}

// Alert prints message highlighted.
func (t *Terminal) Alert(message string) {
	alertColor.Fprintln(t.Out, "! "+message)
}

// Confirm asks question and returns true for y or yes. Anything else,
// including EOF or Ctrl+C, is no.
func (t *Terminal) Confirm(question string) bool {
	text := question + " [y/N] "

	var answer string
	if t.interactive() {
		line := liner.NewLiner()
		line.SetCtrlCAborts(true)
		a, err := line.Prompt(text)
		line.Close()
		if err != nil {
			return false
		}
		answer = a
	} else {
		promptColor.Fprint(t.Out, text)
		a, err := bufio.NewReader(t.In).ReadString('\n')
		if err != nil && a == "" {
			fmt.Fprintln(t.Out)
			return false
		}
		answer = a
	}
	return IsYes(answer)
}

func (t *Terminal) interactive() bool {
	if t.Interactive != nil {
		return *t.Interactive
	}
	f, ok := t.In.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsYes reports whether answer is an affirmative reply.
func IsYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
