// Package translation talks to the external translation services. It never
// retries; a failed attempt is reported to the caller as-is.
package translation

import (
	"context"
	"errors"
	"fmt"
)

// Translator translates text between two catalog language codes
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// Name returns the provider name
	Name() string
}

var (
	// ErrServiceRejected means the service answered but refused the request
	ErrServiceRejected = errors.New("translation service rejected the request")

	// ErrTransport covers network failures and unparseable responses
	ErrTransport = errors.New("translation transport failure")

	// ErrEmptyText is returned before any request is made
	ErrEmptyText = errors.New("text to translate is empty")
)

// Error carries the failure kind plus whatever detail the service or the
// transport reported. errors.Is matches it against its Kind.
type Error struct {
	Kind   error
	Status int
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func rejected(status int, detail string) error {
	if detail == "" {
		detail = "Translation failed"
	}
	return &Error{Kind: ErrServiceRejected, Status: status, Detail: detail}
}

func transport(detail string, err error) error {
	return &Error{Kind: ErrTransport, Detail: detail, Err: err}
}
