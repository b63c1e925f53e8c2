// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import (
	"context"
	"fmt"
	"time"
)

// Poster is implemented by sources able to inject synthetic events, as if the user had
// produced them with the keyboard or the mouse.
type Poster interface {
	PostEvent(ctx context.Context, event Event) error
}

// Postable reports why event cannot be posted. Control events are internal to the hook and
// are rejected, every other event must carry its payload.
func Postable(event *Event) error {
	if event.Kind.Type() == TypeControl {
		return fmt.Errorf("%w: %s", ErrNotPostable, event.Kind)
	}
	return event.Validate()
}

// Post checks every event first and then posts them in order, so an invalid event in the
// list prevents all of them from being posted.
func Post(ctx context.Context, poster Poster, events ...Event) error {
	return PostDelayed(ctx, poster, 0, events...)
}

// PostDelayed works like Post waiting delay between two consecutive events.
// It blocks until the last event is posted or ctx is done.
func PostDelayed(ctx context.Context, poster Poster, delay time.Duration, events ...Event) error {
	for idx := range events {
		if err := Postable(&events[idx]); err != nil {
			return err
		}
	}

	for idx, event := range events {
		if idx > 0 && delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		if err := poster.PostEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Pair returns press followed by the matching release event with the same payload.
// Only key and mouse button press events have a release counterpart.
func Pair(press Event) ([]Event, error) {
	release := press
	switch press.Kind {
	case KindKeyPressed:
		release.Kind = KindKeyReleased
	case KindMousePressed:
		release.Kind = KindMouseReleased
	default:
		return nil, fmt.Errorf("%w: %s has no release event", ErrNotPostable, press.Kind)
	}
	return []Event{press, release}, nil
}
