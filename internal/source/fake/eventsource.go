// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"testing"
	"time"

	"github.com/mia-platform/iohook/internal/hook"
)

// FakeEventSource combines event streaming and closing behaviour.
type FakeEventSource interface {
	hook.EventSource
	hook.ClosableSource
}

var _ hook.EventSource = &unclosableEventSource{}

// unclosableEventSource simulates an EventSource without close support.
type unclosableEventSource struct {
	tb testing.TB

	events         []hook.Event
	streamFinished chan<- struct{}
	stopChannel    chan struct{}
}

var _ FakeEventSource = &fakeEventSource{}

// fakeEventSource wraps an unclosableEventSource with a Close implementation.
type fakeEventSource struct {
	*unclosableEventSource
}

// NewFakeEventSource returns a closable fake event source. Once every event has been sent it
// signals streamFinished and blocks until Close is called or the context ends.
func NewFakeEventSource(tb testing.TB, events []hook.Event, streamFinished chan<- struct{}) FakeEventSource {
	tb.Helper()

	return &fakeEventSource{
		unclosableEventSource: &unclosableEventSource{
			tb:             tb,
			events:         events,
			streamFinished: streamFinished,
			stopChannel:    make(chan struct{}, 1),
		},
	}
}

// NewFakeUnclosableEventSource returns an EventSource that returns as soon as every event has been sent.
func NewFakeUnclosableEventSource(tb testing.TB, events []hook.Event) hook.EventSource {
	tb.Helper()

	return &unclosableEventSource{
		tb:     tb,
		events: events,
	}
}

// StartEventStream pushes queued events and blocks until Close is invoked or the context ends.
func (f *unclosableEventSource) StartEventStream(ctx context.Context, results chan<- hook.Event) error {
	f.tb.Helper()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, event := range f.events {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case results <- event:
		}
	}

	if f.stopChannel == nil {
		return nil
	}

	f.streamFinished <- struct{}{}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.stopChannel:
		return nil
	}
}

// Close signals the stream to exit.
func (f *fakeEventSource) Close(_ context.Context, _ time.Duration) error {
	f.tb.Helper()
	close(f.stopChannel)
	return nil
}

var _ hook.EventSource = &errorEventSource{}

// errorEventSource returns a configured error for every call.
type errorEventSource struct {
	tb  testing.TB
	err error
}

// NewFakeSourceWithError builds a source that always returns err.
func NewFakeSourceWithError(tb testing.TB, err error) hook.EventSource {
	tb.Helper()

	return &errorEventSource{
		tb:  tb,
		err: err,
	}
}

// StartEventStream satisfies the EventSource interface returning the configured error.
func (f *errorEventSource) StartEventStream(_ context.Context, _ chan<- hook.Event) error {
	f.tb.Helper()
	return f.err
}
