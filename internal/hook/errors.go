// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import "errors"

var (
	// ErrUnknownKind is returned when parsing an event kind name that does not exist.
	ErrUnknownKind = errors.New("unknown event kind")
	// ErrMissingPayload is returned when an event lacks the data its kind requires.
	ErrMissingPayload = errors.New("missing event payload")
	// ErrNotPostable is returned when posting a control event.
	ErrNotPostable = errors.New("event cannot be posted")
	// ErrNotRunning is returned when posting to a source that is not streaming.
	ErrNotRunning = errors.New("hook is not running")
)

// unsupportedSourceError signals that the configured source does not implement the required capability.
type unsupportedSourceError struct {
	Message string
}

func (e *unsupportedSourceError) Error() string {
	return e.Message
}

func (e *unsupportedSourceError) Unwrap() error {
	return errors.ErrUnsupported
}
