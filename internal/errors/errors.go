// Package errors defines typed errors with categories for user-friendly reporting.
// The api package returns transport and JSON errors untouched; the CLI wraps them
// here so commands can pick a message by kind while errors.Is/As still reach the cause.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConfigInvalid indicates unusable endpoint or project settings.
	ConfigInvalid Kind = "config_invalid"
	// RequestFailed indicates the webhook could not be reached.
	RequestFailed Kind = "request_failed"
	// DecodeFailed indicates the webhook answered with something that is not JSON.
	DecodeFailed Kind = "decode_failed"
	// CredentialStore indicates the OS keychain could not be used.
	CredentialStore Kind = "credential_store"
	// InputMissing indicates the user gave no query or message.
	InputMissing Kind = "input_missing"
	// InputInvalid indicates a query or message that cannot be sent as given.
	InputInvalid Kind = "input_invalid"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
