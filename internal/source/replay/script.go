// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package replay

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/iohook/internal/hook"
)

var (
	// ErrParsing reports failures that occur while decoding replay scripts.
	ErrParsing = errors.New("error parsing")
)

// Script is the decoded content of one or more replay files.
type Script struct {
	Logs       []LogEntry             `yaml:"logs,omitempty"`
	Events     []EventEntry           `yaml:"events,omitempty"`
	Properties *hook.SystemProperties `yaml:"properties,omitempty"`
}

// LogEntry is a message the native library would send to its logger procedure.
type LogEntry struct {
	Level  uint32 `yaml:"level"`
	Format string `yaml:"format"`
	Args   []any  `yaml:"args,omitempty"`
}

// EventEntry describes an input event relative to the start of the replay.
type EventEntry struct {
	Kind string `yaml:"kind"`
	// Offset is the number of milliseconds elapsed since the hook was enabled.
	Offset   uint64             `yaml:"offset"`
	Mask     uint16             `yaml:"mask,omitempty"`
	Keyboard *hook.KeyboardData `yaml:"keyboard,omitempty"`
	Mouse    *hook.MouseData    `yaml:"mouse,omitempty"`
	Wheel    *hook.WheelData    `yaml:"wheel,omitempty"`
}

// event converts the entry to a hook event anchored at base.
func (e EventEntry) event(base time.Time) (hook.Event, error) {
	kind, err := hook.ParseKind(e.Kind)
	if err != nil {
		return hook.Event{}, err
	}

	event := hook.Event{
		Kind: kind,
		Time: base.Add(time.Duration(e.Offset) * time.Millisecond),
		Mask: hook.Mask(e.Mask),
		// replayed events never come from a device
		Mode: hook.ModeSynthetic,
	}

	if kind.Type() == hook.TypeControl {
		return hook.Event{}, fmt.Errorf("control event %q cannot be replayed", e.Kind)
	}

	// only the payload matching the kind is kept
	switch kind.Type() {
	case hook.TypeKeyboard:
		event.Keyboard = e.Keyboard
	case hook.TypeMouse:
		event.Mouse = e.Mouse
	case hook.TypeMouseWheel:
		event.Wheel = e.Wheel
	}
	if err := event.Validate(); err != nil {
		return hook.Event{}, err
	}

	return event, nil
}

// validate checks every entry of the script.
func (s *Script) validate() error {
	errorsList := make([]string, 0)
	for idx, entry := range s.Logs {
		if entry.Format == "" {
			errorsList = append(errorsList, fmt.Sprintf("logs[%d]: missing format", idx))
		}
	}

	for idx, entry := range s.Events {
		if _, err := entry.event(time.Time{}); err != nil {
			errorsList = append(errorsList, fmt.Sprintf("events[%d]: %s", idx, err))
		}
	}

	if len(errorsList) > 0 {
		return errors.New(strings.Join(errorsList, "; "))
	}
	return nil
}

// LoadScripts reads every file in paths and merges their content in order.
// A file can contain multiple YAML documents.
func LoadScripts(paths []string) (*Script, error) {
	merged := new(Script)
	for _, path := range paths {
		scripts, err := scriptsFromPath(path)
		if err != nil {
			return nil, err
		}

		for _, script := range scripts {
			merged.Logs = append(merged.Logs, script.Logs...)
			merged.Events = append(merged.Events, script.Events...)
			// later documents override the properties of earlier ones
			if script.Properties != nil {
				merged.Properties = script.Properties
			}
		}
	}

	return merged, nil
}

func scriptsFromPath(path string) ([]*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	scripts := make([]*Script, 0)
	for {
		script := new(Script)
		if err := decoder.Decode(&script); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}

		// empty documents decode to nil
		if script == nil {
			continue
		}

		if err := script.validate(); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, path, err)
		}
		scripts = append(scripts, script)
	}

	return scripts, nil
}
