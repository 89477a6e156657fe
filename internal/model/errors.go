package model

import (
	"errors"
	"fmt"
	"time"
)

// HTTPError wraps a non-2xx response so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Detail     string        // server-provided {"detail": ...}, empty if the body had none
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return fmt.Sprintf("%v (HTTP %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies why a batch failed.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindUpload     ErrorKind = "upload"
	KindAnalysis   ErrorKind = "analysis"
	KindUnknown    ErrorKind = "unknown"
)

// Error is the single failure surfaced for a batch. File is the resume
// being processed, empty for job description and validation failures.
type Error struct {
	Kind ErrorKind
	File string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindValidation:
		return e.Err.Error()
	case e.Kind == KindUnknown:
		return "An unexpected error occurred"
	case e.File != "":
		return fmt.Sprintf("Failed to process resume %s: %v", e.File, e.Err)
	default:
		return fmt.Sprintf("Failed to upload job description: %v", e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError reports bad input detected before any request was made.
func ValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
// A nil error has no kind and yields "".
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
