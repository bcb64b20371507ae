// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net"
	"strconv"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeNetwork
	ErrTypeServer
	ErrTypeDecode
	ErrTypeTimeout
	ErrTypeCanceled
	ErrTypeRequest
)

// String returns a short name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "network"
	case ErrTypeServer:
		return "server"
	case ErrTypeDecode:
		return "decode"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeCanceled:
		return "canceled"
	case ErrTypeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// ClientError represents a failed backend call.
type ClientError struct {
	Type    ErrorType
	Status  int // HTTP status, only set for ErrTypeServer
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg += " (HTTP " + strconv.Itoa(e.Status) + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches another *ClientError of the same type. A target with a
// non-zero Status additionally requires the same status.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	if !ok {
		return false
	}
	if t.Type != e.Type {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// Sentinel errors for errors.Is checks.
var (
	ErrNetwork  = &ClientError{Type: ErrTypeNetwork, Message: "backend unreachable"}
	ErrServer   = &ClientError{Type: ErrTypeServer, Message: "backend returned an error"}
	ErrDecode   = &ClientError{Type: ErrTypeDecode, Message: "malformed response body"}
	ErrTimeout  = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrCanceled = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
)

// TypeOf returns the ErrorType of err, or ErrTypeUnknown.
func TypeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsStatus reports whether err is a server failure with the given status.
func IsStatus(err error, status int) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeServer && ce.Status == status
}

// classifyTransport turns an error from http.Client.Do (or from reading the
// body) into a ClientError.
func classifyTransport(ctx context.Context, message string, err error) *ClientError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ClientError{Type: ErrTypeTimeout, Message: message + ": request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeCanceled, Message: message + ": request canceled", Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ClientError{Type: ErrTypeTimeout, Message: message + ": request timed out", Cause: err}
	}
	return &ClientError{Type: ErrTypeNetwork, Message: message + ": backend unreachable", Cause: err}
}
