// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestIsYes(t *testing.T) {
	for _, in := range []string{"y", "Y", "yes", " YES \n"} {
		assert.True(t, IsYes(in), in)
	}
	for _, in := range []string{"", "n", "no", "yep", "ye s"} {
		assert.False(t, IsYes(in), in)
	}
}

func TestTerminal_ConfirmFromReader(t *testing.T) {
	color.NoColor = true
	off := false

	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		term := &Terminal{Out: &out, In: strings.NewReader(tt.input), Interactive: &off}

		got := term.Confirm("Are you sure you want to delete this note?")
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Contains(t, out.String(), "Are you sure you want to delete this note? [y/N]")
	}
}

func TestTerminal_Alert(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	term := &Terminal{Out: &out}

	term.Alert("Failed to create note")
	assert.Equal(t, "! Failed to create note\n", out.String())
}

func TestQueue_DropsOldest(t *testing.T) {
	q := NewQueue(2)
	q.Alert("one")
	q.Alert("two")
	q.Alert("three")

	assert.Equal(t, "two", <-q.C())
	assert.Equal(t, "three", <-q.C())
}

func TestRecorderAndFuncs(t *testing.T) {
	r := &Recorder{}
	var n Notifier = r
	n.Alert("a")
	n.Alert("b")
	assert.Equal(t, []string{"a", "b"}, r.Alerts())

	asked := ""
	c := ConfirmerFunc(func(q string) bool { asked = q; return true })
	assert.True(t, c.Confirm("sure?"))
	assert.Equal(t, "sure?", asked)

	assert.True(t, AlwaysConfirm.Confirm("x"))
	assert.False(t, NeverConfirm.Confirm("x"))
	Discard.Alert("ignored")
}
