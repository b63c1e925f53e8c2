// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import (
	"context"
	"time"

	"github.com/mia-platform/iohook/internal/logger"
)

const (
	loggerName = "iohook:dispatcher"
)

// EventSource defines the interface for a producer of input events.
type EventSource interface {
	// StartEventStream sends events on results until the source is exhausted, closed or
	// ctx is cancelled. It must not close results.
	StartEventStream(ctx context.Context, results chan<- Event) (err error)
}

// ClosableSource defines the interface for a source that holds resources to release on shutdown.
// The timeout bounds how long the close operation can take.
type ClosableSource interface {
	Close(ctx context.Context, timeout time.Duration) (err error)
}

// Dispatcher moves events from a source to the handlers of a Registry.
type Dispatcher struct {
	source   any
	registry *Registry
}

// NewDispatcher returns a Dispatcher reading from source. source must implement EventSource
// for Start to succeed.
func NewDispatcher(source any, registry *Registry) *Dispatcher {
	return &Dispatcher{
		source:   source,
		registry: registry,
	}
}

// Start streams events to the registry until the source ends or ctx is done. Events received
// after a KindDisabled event are drained without being dispatched.
func (d *Dispatcher) Start(ctx context.Context) error {
	log := logger.Named(ctx, loggerName)

	streamSource, ok := d.source.(EventSource)
	if !ok {
		return &unsupportedSourceError{
			Message: "source does not support event streaming",
		}
	}

	log.Trace("starting event dispatcher")
	channel := make(chan Event)

	dispatchDone := make(chan struct{})
	go func() {
		log.Trace("starting dispatch goroutine")
		d.dispatchEvents(ctx, channel)
		close(dispatchDone)
	}()

	err := streamSource.StartEventStream(ctx, channel)
	log.Trace("event stream finished, closing event channel")
	close(channel)

	<-dispatchDone
	log.Trace("dispatch goroutine finished")
	return err
}

// Stop releases the source if it supports it.
func (d *Dispatcher) Stop(ctx context.Context, timeout time.Duration) error {
	log := logger.Named(ctx, loggerName)
	closableSource, ok := d.source.(ClosableSource)
	if !ok {
		log.Debug("source does not implement ClosableSource, skipping close")
		return nil
	}

	log.Debug("stop source")
	return closableSource.Close(ctx, timeout)
}

func (d *Dispatcher) dispatchEvents(ctx context.Context, channel <-chan Event) {
	log := logger.Named(ctx, loggerName)
	disabled := false
	for {
		select {
		case <-ctx.Done():
			log.Debug("dispatcher cancelled from context", "error", ctx.Err())
			// unblock a source still sending before it notices the cancellation
			for range channel {
			}
			return
		case event, ok := <-channel:
			if !ok {
				return
			}

			if disabled {
				log.Debug("hook disabled, dropping event", "kind", event.Kind.String())
				continue
			}

			log.Trace("dispatching event", "kind", event.Kind.String())
			d.registry.Dispatch(&event)
			if event.Kind == KindDisabled {
				log.Debug("hook disabled")
				disabled = true
			}
		}
	}
}
