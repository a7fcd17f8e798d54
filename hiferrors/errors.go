// Package hiferrors defines the tagged error kinds shared across the hif-core
// transport and coordination primitives.
package hiferrors

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Kind tags an Error with the category a caller should switch on.
type Kind string

const (
	InvalidArgument Kind = "invalid_argument"
	ConnectFailed   Kind = "connect_failed"
	TLSError        Kind = "tls_error"
	AlpnMismatch    Kind = "alpn_mismatch"
	HTTP2Error      Kind = "http2_error"
	Timeout         Kind = "timeout"
	GrpcStatus      Kind = "grpc_status"
	Truncated       Kind = "truncated"
	CorruptFilter   Kind = "corrupt_filter"
	Incompatible    Kind = "incompatible"
)

// Error is the single tagged result type every public operation returns on
// failure. It wraps an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Code    int32 // populated for GrpcStatus
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error of the given kind with a message, no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error of the given kind around an existing cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// GrpcStatusError builds a GrpcStatus error carrying the peer's status code
// and optional message, preferring grpc-message and falling back to the
// generic "gRPC error: status N" form per the unary-call contract.
func GrpcStatusError(code int32, message string) *Error {
	msg := message
	if msg == "" {
		msg = fmt.Sprintf("gRPC error: status %d", code)
	}
	return &Error{Kind: GrpcStatus, Message: msg, Code: code}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// LogError logs err with context and returns it unchanged, so the error is
// both observable at the point of failure and propagated to the caller.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) error {
	if logger != nil {
		logger.Error(msg, append(fields, zap.Error(err))...)
	}
	return err
}
