package app

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	// KindSourceUnavailable means no link/token could be resolved and
	// prompting is disallowed. It is not a failure.
	KindSourceUnavailable ErrorKind = "source_unavailable"
	KindFetch             ErrorKind = "fetch"
	KindFilesystem        ErrorKind = "filesystem"
	KindParse             ErrorKind = "parse"
	KindUsage             ErrorKind = "usage"
)

// Error is the structured error type shared by the pipeline stages.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err (or anything it wraps) is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// FetchError wraps a network or HTTP status failure.
func FetchError(err error, format string, args ...any) error {
	return newError(KindFetch, err, format, args...)
}

// FilesystemError wraps a local read/write failure.
func FilesystemError(err error, format string, args ...any) error {
	return newError(KindFilesystem, err, format, args...)
}

// ParseError wraps a malformed spec payload.
func ParseError(err error, format string, args ...any) error {
	return newError(KindParse, err, format, args...)
}

// UsageError reports input that parsed fine but cannot be used.
func UsageError(format string, args ...any) error {
	return newError(KindUsage, nil, format, args...)
}

// SourceUnavailable reports that nothing was provided and nothing can be asked.
func SourceUnavailable(format string, args ...any) error {
	return newError(KindSourceUnavailable, nil, format, args...)
}
