// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPoster stores the posted events with the time they arrived.
type recordingPoster struct {
	events []Event
	times  []time.Time
	err    error
}

func (p *recordingPoster) PostEvent(_ context.Context, event Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	p.times = append(p.times, time.Now())
	return nil
}

func TestPostable(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		event         Event
		expectedError error
	}{
		"keyboard event": {
			event: Event{Kind: KindKeyTyped, Keyboard: &KeyboardData{KeyChar: 'a'}},
		},
		"enabled is a control event": {
			event:         Event{Kind: KindEnabled},
			expectedError: ErrNotPostable,
		},
		"disabled is a control event": {
			event:         Event{Kind: KindDisabled},
			expectedError: ErrNotPostable,
		},
		"wheel without payload": {
			event:         Event{Kind: KindMouseWheel},
			expectedError: ErrMissingPayload,
		},
		"mouse event with the wrong payload": {
			event:         Event{Kind: KindMousePressed, Keyboard: &KeyboardData{}},
			expectedError: ErrMissingPayload,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := Postable(&test.event)
			if test.expectedError == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, test.expectedError)
		})
	}
}

func TestPostIsAllOrNothing(t *testing.T) {
	t.Parallel()

	poster := &recordingPoster{}
	err := Post(t.Context(), poster,
		Event{Kind: KindKeyPressed, Keyboard: &KeyboardData{KeyCode: 1}},
		Event{Kind: KindKeyReleased},
	)

	assert.ErrorIs(t, err, ErrMissingPayload)
	assert.Empty(t, poster.events)

	poster.err = assert.AnError
	err = Post(t.Context(), poster, Event{Kind: KindKeyPressed, Keyboard: &KeyboardData{KeyCode: 1}})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPostDelayed(t *testing.T) {
	t.Parallel()

	events, err := Pair(Event{Kind: KindMousePressed, Mouse: &MouseData{Button: ButtonLeft}})
	require.NoError(t, err)

	poster := &recordingPoster{}
	delay := 20 * time.Millisecond
	require.NoError(t, PostDelayed(t.Context(), poster, delay, events...))

	require.Len(t, poster.events, 2)
	assert.Equal(t, KindMousePressed, poster.events[0].Kind)
	assert.Equal(t, KindMouseReleased, poster.events[1].Kind)
	assert.Equal(t, poster.events[0].Mouse, poster.events[1].Mouse)
	assert.GreaterOrEqual(t, poster.times[1].Sub(poster.times[0]), delay)
}

func TestPostDelayedCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	events, err := Pair(Event{Kind: KindKeyPressed, Keyboard: &KeyboardData{KeyCode: 1}})
	require.NoError(t, err)

	poster := &recordingPoster{}
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err = PostDelayed(ctx, poster, time.Minute, events...)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, poster.events, 1)
}

func TestPair(t *testing.T) {
	t.Parallel()

	events, err := Pair(Event{Kind: KindKeyPressed, Keyboard: &KeyboardData{KeyCode: 30}})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindKeyPressed, KindKeyReleased}, []Kind{events[0].Kind, events[1].Kind})

	_, err = Pair(Event{Kind: KindMouseMoved, Mouse: &MouseData{}})
	assert.ErrorIs(t, err, ErrNotPostable)
}

func TestReadProperties(t *testing.T) {
	t.Parallel()

	_, err := ReadProperties(t.Context(), "not a source")
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}
