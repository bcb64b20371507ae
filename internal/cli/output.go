// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// =============================================================================
// PRINTER
// =============================================================================

// Printer writes command output.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Success prints a green check line.
func (p *Printer) Success(format string, a ...any) {
	successColor.Fprint(p.out, "[OK] ")
	fmt.Fprintf(p.out, format+"\n", a...)
}

// Warn prints a yellow warning line.
func (p *Printer) Warn(format string, a ...any) {
	warnColor.Fprintf(p.out, "[!] "+format+"\n", a...)
}

// Error prints a red error line.
func (p *Printer) Error(err error) {
	errorColor.Fprint(p.out, "Error: ")
	fmt.Fprintln(p.out, err)
}

// Field prints one "label value" line.
func (p *Printer) Field(label string, value any) {
	fmt.Fprintf(p.out, "%s%s\n", RenderLabel(label), ValueStyle.Render(fmt.Sprint(value)))
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

// JSONResponse is the envelope of every --json output.
type JSONResponse struct {
	Success   bool    `json:"success"`
	Data      any     `json:"data"`
	Error     *string `json:"error"`
	Timestamp string  `json:"timestamp"`
	Command   string  `json:"command,omitempty"`
}

// NewJSONResponse creates a successful response.
func NewJSONResponse(command string, data any) *JSONResponse {
	return &JSONResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// NewJSONErrorResponse creates a failed response.
func NewJSONErrorResponse(command string, err error) *JSONResponse {
	msg := err.Error()
	return &JSONResponse{
		Error:     &msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Command:   command,
	}
}

// Write encodes the response as indented JSON.
func (r *JSONResponse) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// outputJSON runs handler and prints its result as a JSONResponse.
func outputJSON(w io.Writer, command string, handler func() (any, error)) error {
	data, err := handler()
	if err != nil {
		_ = NewJSONErrorResponse(command, err).Write(w)
		return err
	}
	return NewJSONResponse(command, data).Write(w)
}
