// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package replay

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/iohook/internal/hook"
	"github.com/mia-platform/iohook/internal/nativelog"
)

var testBase = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestLoadScripts(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		paths          []string
		expectedLogs   int
		expectedEvents int
		expectedErr    error
	}{
		"multi document file": {
			paths:          []string{filepath.Join("testdata", "session.yaml")},
			expectedLogs:   2,
			expectedEvents: 3,
		},
		"same file twice is merged": {
			paths:          []string{filepath.Join("testdata", "session.yaml"), filepath.Join("testdata", "session.yaml")},
			expectedLogs:   4,
			expectedEvents: 6,
		},
		"invalid entries": {
			paths:       []string{filepath.Join("testdata", "invalid.yaml")},
			expectedErr: ErrParsing,
		},
		"unknown field": {
			paths:       []string{filepath.Join("testdata", "unknown-field.yaml")},
			expectedErr: ErrParsing,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			script, err := LoadScripts(test.paths)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, script.Logs, test.expectedLogs)
			assert.Len(t, script.Events, test.expectedEvents)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadScripts([]string{filepath.Join("testdata", "missing.yaml")})
		assert.Error(t, err)
	})
}

func TestSourceReplaysLogsAndEvents(t *testing.T) {
	t.Parallel()

	script, err := LoadScripts([]string{filepath.Join("testdata", "session.yaml")})
	require.NoError(t, err)

	source := NewSource(script)
	source.now = func() time.Time { return testBase }

	type received struct {
		severity nativelog.Severity
		text     string
	}
	messages := make([]received, 0)
	cell := nativelog.NewCell(source)
	cell.SetLogger(func(severity nativelog.Severity, text string) bool {
		messages = append(messages, received{severity: severity, text: text})
		return true
	})

	results := make(chan hook.Event, 10)
	require.NoError(t, source.StartEventStream(t.Context(), results))
	close(results)

	assert.Equal(t, []received{
		{severity: nativelog.SeverityInfo, text: "hook_run [412]: hook enabled"},
		{severity: nativelog.SeverityDebug, text: "load_input_helper [98]: keyboard layout 0X409"},
	}, messages)

	events := make([]hook.Event, 0)
	for event := range results {
		events = append(events, event)
	}

	require.Len(t, events, 5)
	assert.Equal(t, hook.KindEnabled, events[0].Kind)
	assert.Equal(t, testBase, events[0].Time)

	assert.Equal(t, hook.KindKeyPressed, events[1].Kind)
	assert.Equal(t, testBase.Add(10*time.Millisecond), events[1].Time)
	assert.Equal(t, hook.MaskShiftLeft, events[1].Mask)
	assert.True(t, events[1].Synthetic())
	assert.Equal(t, &hook.KeyboardData{KeyCode: 30, RawCode: 65}, events[1].Keyboard)

	assert.Equal(t, &hook.MouseData{Button: hook.ButtonLeft, Clicks: 1, X: 120, Y: 48}, events[2].Mouse)
	assert.Equal(t, &hook.WheelData{Clicks: 1, X: 120, Y: 48, Kind: hook.ScrollUnit, Amount: 3, Rotation: -1, Direction: hook.DirectionVertical}, events[3].Wheel)

	assert.Equal(t, hook.KindDisabled, events[4].Kind)
	assert.Equal(t, testBase.Add(40*time.Millisecond), events[4].Time)
}

func TestSourceDropsLogsWithoutLogger(t *testing.T) {
	t.Parallel()

	calls := 0
	source := NewSource(&Script{Logs: []LogEntry{{Level: 2, Format: "dropped"}}})
	cell := nativelog.NewCell(source)
	cell.SetLogger(func(nativelog.Severity, string) bool {
		calls++
		return true
	})
	cell.SetLogger(nil)

	results := make(chan hook.Event, 2)
	require.NoError(t, source.StartEventStream(t.Context(), results))
	assert.Zero(t, calls)
	assert.Len(t, results, 2)
}

func TestSourceClose(t *testing.T) {
	t.Parallel()

	source := NewSource(&Script{Events: []EventEntry{
		{Kind: "mouse_moved", Mouse: &hook.MouseData{X: 1, Y: 1}},
	}})

	results := make(chan hook.Event)
	done := make(chan error, 1)
	go func() {
		done <- source.StartEventStream(t.Context(), results)
	}()

	first := <-results
	assert.Equal(t, hook.KindEnabled, first.Kind)
	require.NoError(t, source.Close(t.Context(), time.Second))
	require.NoError(t, source.Close(t.Context(), time.Second))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("replay did not stop after close")
	}
}

func TestSourceCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	source := NewSource(&Script{})
	err := source.StartEventStream(ctx, make(chan hook.Event))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourcePostEvent(t *testing.T) {
	t.Parallel()

	source := NewSource(&Script{Events: []EventEntry{
		{Kind: "key_pressed", Offset: 5, Keyboard: &hook.KeyboardData{KeyCode: 30}},
	}})
	source.now = func() time.Time { return testBase }

	moved := hook.Event{Kind: hook.KindMouseMoved, Mouse: &hook.MouseData{X: 3, Y: 4}}
	assert.ErrorIs(t, source.PostEvent(t.Context(), moved), hook.ErrNotRunning)

	results := make(chan hook.Event)
	done := make(chan error, 1)
	go func() {
		done <- source.StartEventStream(t.Context(), results)
	}()

	assert.Equal(t, hook.KindEnabled, (<-results).Kind)
	require.NoError(t, source.PostEvent(t.Context(), moved))
	assert.ErrorIs(t, source.PostEvent(t.Context(), hook.Event{Kind: hook.KindDisabled}), hook.ErrNotPostable)
	assert.ErrorIs(t, source.PostEvent(t.Context(), hook.Event{Kind: hook.KindMouseMoved}), hook.ErrMissingPayload)

	posted := <-results
	assert.Equal(t, hook.KindMouseMoved, posted.Kind)
	assert.True(t, posted.Synthetic())
	assert.Equal(t, testBase, posted.Time)
	assert.Equal(t, moved.Mouse, posted.Mouse)

	assert.Equal(t, hook.KindKeyPressed, (<-results).Kind)
	assert.Equal(t, hook.KindDisabled, (<-results).Kind)
	require.NoError(t, <-done)

	assert.ErrorIs(t, source.PostEvent(t.Context(), moved), hook.ErrNotRunning)
}

func TestSourceSystemProperties(t *testing.T) {
	t.Parallel()

	script, err := LoadScripts([]string{filepath.Join("testdata", "session.yaml")})
	require.NoError(t, err)

	properties, err := hook.ReadProperties(t.Context(), NewSource(script))
	require.NoError(t, err)
	require.NotNil(t, properties.AutoRepeatRate)
	assert.Equal(t, uint64(30), *properties.AutoRepeatRate)
	require.NotNil(t, properties.MultiClickTime)
	assert.Equal(t, uint64(200), *properties.MultiClickTime)
	assert.Nil(t, properties.PointerSensitivity)
	assert.Equal(t, []hook.ScreenData{{Number: 1, Width: 1920, Height: 1080}}, properties.Screens)

	empty, err := NewSource(&Script{}).SystemProperties(t.Context())
	require.NoError(t, err)
	assert.Equal(t, hook.SystemProperties{}, empty)
}
