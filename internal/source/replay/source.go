// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package replay

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mia-platform/iohook/internal/hook"
	"github.com/mia-platform/iohook/internal/logger"
	"github.com/mia-platform/iohook/internal/nativelog"
)

const (
	loggerName = "iohook:replay"
)

var (
	_ hook.EventSource    = &Source{}
	_ hook.ClosableSource = &Source{}
	_ hook.Poster         = &Source{}
	_ hook.PropertySource = &Source{}
	_ nativelog.Registrar = &Source{}
)

// Source replays a Script as if it was produced by the native library: log entries go to the
// registered logger procedure and events are streamed between an enabled and a disabled event.
// Events posted while the replay runs are interleaved with the scripted ones.
type Source struct {
	script *Script
	now    func() time.Time

	lock sync.Mutex
	proc nativelog.Proc

	posted       chan hook.Event
	running      atomic.Bool
	finishedOnce sync.Once
	finished     chan struct{}

	stopOnce    sync.Once
	stopChannel chan struct{}
}

// NewSource returns a Source for script.
func NewSource(script *Script) *Source {
	return &Source{
		script:      script,
		now:         time.Now,
		posted:      make(chan hook.Event),
		finished:    make(chan struct{}),
		stopChannel: make(chan struct{}),
	}
}

// SetLoggerProc stores the procedure log entries are sent to. A nil proc drops them.
func (s *Source) SetLoggerProc(proc nativelog.Proc) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.proc = proc
}

func (s *Source) loggerProc() nativelog.Proc {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.proc
}

// StartEventStream replays the script logs, then streams its events.
func (s *Source) StartEventStream(ctx context.Context, results chan<- hook.Event) error {
	log := logger.Named(ctx, loggerName)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.running.Store(true)
	defer s.finishedOnce.Do(func() {
		close(s.finished)
	})

	for _, entry := range s.script.Logs {
		proc := s.loggerProc()
		if proc == nil {
			log.Trace("no logger procedure registered, dropping message", "format", entry.Format)
			continue
		}

		if !proc(nativelog.Severity(entry.Level), entry.Format, entry.Args...) {
			log.Debug("native message not handled", "level", entry.Level, "format", entry.Format)
		}
	}

	base := s.now()
	events := make([]hook.Event, 0, len(s.script.Events)+2)
	events = append(events, hook.Event{Kind: hook.KindEnabled, Time: base})
	last := base
	for _, entry := range s.script.Events {
		event, err := entry.event(base)
		if err != nil {
			return err
		}
		events = append(events, event)
		last = event.Time
	}
	events = append(events, hook.Event{Kind: hook.KindDisabled, Time: last})

	log.Debug("replaying events", "count", len(s.script.Events))
	for _, event := range events {
		stopped, err := s.send(ctx, results, event)
		if err != nil || stopped {
			return err
		}
	}

	return nil
}

// send delivers event on results, forwarding any event posted in the meantime first.
// It reports whether the replay has been stopped.
func (s *Source) send(ctx context.Context, results chan<- hook.Event, event hook.Event) (bool, error) {
	log := logger.Named(ctx, loggerName)
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-s.stopChannel:
			log.Debug("replay stopped before the end of the script")
			return true, nil
		case posted := <-s.posted:
			log.Trace("forwarding posted event", "kind", posted.Kind.String())
			select {
			case <-ctx.Done():
				return false, ctx.Err()
			case <-s.stopChannel:
				return true, nil
			case results <- posted:
			}
		case results <- event:
			return false, nil
		}
	}
}

// PostEvent injects event into the running replay. The event is marked synthetic and, when
// it has no time, stamped with the current one.
func (s *Source) PostEvent(ctx context.Context, event hook.Event) error {
	if err := hook.Postable(&event); err != nil {
		return err
	}

	if !s.running.Load() {
		return hook.ErrNotRunning
	}

	event.Mode |= hook.ModeSynthetic
	if event.Time.IsZero() {
		event.Time = s.now()
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.finished:
		return hook.ErrNotRunning
	case <-s.stopChannel:
		return hook.ErrNotRunning
	case s.posted <- event:
		return nil
	}
}

// SystemProperties returns the properties declared by the script. Properties it does not
// declare are reported as unavailable.
func (s *Source) SystemProperties(_ context.Context) (hook.SystemProperties, error) {
	if s.script.Properties == nil {
		return hook.SystemProperties{}, nil
	}
	return *s.script.Properties, nil
}

// Close interrupts a running replay.
func (s *Source) Close(_ context.Context, _ time.Duration) error {
	s.stopOnce.Do(func() {
		close(s.stopChannel)
	})
	return nil
}
