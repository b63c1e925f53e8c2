// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

// Match selects values either by inclusion or by exclusion.
type Match[T comparable] struct {
	values  map[T]struct{}
	exclude bool
}

// OneOf matches only the listed values.
func OneOf[T comparable](values ...T) Match[T] {
	return newMatch(values, false)
}

// NoneOf matches every value except the listed ones.
func NoneOf[T comparable](values ...T) Match[T] {
	return newMatch(values, true)
}

func newMatch[T comparable](values []T, exclude bool) Match[T] {
	set := make(map[T]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return Match[T]{values: set, exclude: exclude}
}

// Contains reports whether value is selected.
func (m Match[T]) Contains(value T) bool {
	_, found := m.values[value]
	return found != m.exclude
}

// KeyboardHandler receives keyboard events together with their payload.
type KeyboardHandler func(event *Event, data *KeyboardData)

// MouseHandler receives mouse button and motion events together with their payload.
type MouseHandler func(event *Event, data *MouseData)

// WheelHandler receives mouse wheel events together with their payload.
type WheelHandler func(event *Event, data *WheelData)

// Keyboard returns a Handler forwarding every keyboard event to handler.
func Keyboard(handler KeyboardHandler) Handler {
	return func(event *Event) {
		if event.Kind.Type() == TypeKeyboard && event.Keyboard != nil {
			handler(event, event.Keyboard)
		}
	}
}

// Keys returns a Handler forwarding keyboard events whose key code is selected by codes.
func Keys(codes Match[uint16], handler KeyboardHandler) Handler {
	return Keyboard(func(event *Event, data *KeyboardData) {
		if codes.Contains(data.KeyCode) {
			handler(event, data)
		}
	})
}

// Mouse returns a Handler forwarding every mouse button and motion event to handler.
func Mouse(handler MouseHandler) Handler {
	return func(event *Event) {
		if event.Kind.Type() == TypeMouse && event.Mouse != nil {
			handler(event, event.Mouse)
		}
	}
}

// MouseButtons returns a Handler forwarding click, press and release events of the
// buttons selected by buttons.
func MouseButtons(buttons Match[uint16], handler MouseHandler) Handler {
	return Mouse(func(event *Event, data *MouseData) {
		switch event.Kind {
		case KindMouseClicked, KindMousePressed, KindMouseReleased:
			if buttons.Contains(data.Button) {
				handler(event, data)
			}
		}
	})
}

// MouseMove returns a Handler forwarding pointer movements with no button held.
func MouseMove(handler MouseHandler) Handler {
	return mouseKind(KindMouseMoved, handler)
}

// MouseDrag returns a Handler forwarding pointer movements with a button held.
func MouseDrag(handler MouseHandler) Handler {
	return mouseKind(KindMouseDragged, handler)
}

// MouseDragButtons is MouseDrag restricted to the buttons selected by buttons.
func MouseDragButtons(buttons Match[uint16], handler MouseHandler) Handler {
	return MouseDrag(func(event *Event, data *MouseData) {
		if buttons.Contains(data.Button) {
			handler(event, data)
		}
	})
}

func mouseKind(kind Kind, handler MouseHandler) Handler {
	return Mouse(func(event *Event, data *MouseData) {
		if event.Kind == kind {
			handler(event, data)
		}
	})
}

// MouseWheel returns a Handler forwarding every wheel event to handler.
func MouseWheel(handler WheelHandler) Handler {
	return func(event *Event) {
		if event.Kind == KindMouseWheel && event.Wheel != nil {
			handler(event, event.Wheel)
		}
	}
}
