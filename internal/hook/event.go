// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import (
	"fmt"
	"time"
)

// Kind identifies what happened on the input device.
type Kind uint8

const (
	KindEnabled Kind = iota + 1
	KindDisabled
	KindKeyTyped
	KindKeyPressed
	KindKeyReleased
	KindMouseClicked
	KindMousePressed
	KindMouseReleased
	KindMouseMoved
	KindMouseDragged
	KindMouseWheel
)

var kindNames = map[Kind]string{
	KindEnabled:       "enabled",
	KindDisabled:      "disabled",
	KindKeyTyped:      "key_typed",
	KindKeyPressed:    "key_pressed",
	KindKeyReleased:   "key_released",
	KindMouseClicked:  "mouse_clicked",
	KindMousePressed:  "mouse_pressed",
	KindMouseReleased: "mouse_released",
	KindMouseMoved:    "mouse_moved",
	KindMouseDragged:  "mouse_dragged",
	KindMouseWheel:    "mouse_wheel",
}

// ParseKind returns the Kind matching name, as produced by Kind.String.
func ParseKind(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// MarshalText encodes the kind with its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Type groups kinds by the device that generated them.
type Type uint8

const (
	TypeControl Type = iota
	TypeKeyboard
	TypeMouse
	TypeMouseWheel
)

// Type returns the device family of k.
func (k Kind) Type() Type {
	switch k {
	case KindKeyTyped, KindKeyPressed, KindKeyReleased:
		return TypeKeyboard
	case KindMouseClicked, KindMousePressed, KindMouseReleased, KindMouseMoved, KindMouseDragged:
		return TypeMouse
	case KindMouseWheel:
		return TypeMouseWheel
	default:
		return TypeControl
	}
}

// Mask marks modifier keys and buttons held down when the event was generated.
type Mask uint16

const (
	MaskShiftLeft Mask = 1 << iota
	MaskControlLeft
	MaskMetaLeft
	MaskAltLeft
	MaskShiftRight
	MaskControlRight
	MaskMetaRight
	MaskAltRight
	MaskButton1
	MaskButton2
	MaskButton3
	MaskButton4
	MaskButton5
	MaskNumLock
	MaskCapsLock
	MaskScrollLock

	MaskShift   = MaskShiftLeft | MaskShiftRight
	MaskControl = MaskControlLeft | MaskControlRight
	MaskMeta    = MaskMetaLeft | MaskMetaRight
	MaskAlt     = MaskAltLeft | MaskAltRight
)

// Has reports whether any of the bits in other are set.
func (m Mask) Has(other Mask) bool {
	return m&other != 0
}

// Mode flags how the event travels through the system.
type Mode uint16

const (
	// ModeReserved events are not propagated to the rest of the system.
	ModeReserved Mode = 1 << iota
	// ModeSynthetic events were generated by software rather than a device.
	ModeSynthetic
)

// Mouse buttons as reported in MouseData.Button.
const (
	ButtonNone uint16 = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
	ButtonExtra1
	ButtonExtra2
)

// Scroll kinds and directions as reported in WheelData.
const (
	ScrollUnit  uint8 = 1
	ScrollBlock uint8 = 2

	DirectionVertical   uint8 = 3
	DirectionHorizontal uint8 = 4
)

// KeyboardData is the payload of keyboard events.
type KeyboardData struct {
	KeyCode uint16 `json:"keyCode" yaml:"keyCode"`
	RawCode uint16 `json:"rawCode" yaml:"rawCode"`
	KeyChar uint16 `json:"keyChar,omitempty" yaml:"keyChar,omitempty"`
}

// MouseData is the payload of mouse button and motion events.
type MouseData struct {
	Button uint16 `json:"button,omitempty" yaml:"button,omitempty"`
	Clicks uint16 `json:"clicks,omitempty" yaml:"clicks,omitempty"`
	X      int16  `json:"x" yaml:"x"`
	Y      int16  `json:"y" yaml:"y"`
}

// WheelData is the payload of mouse wheel events.
type WheelData struct {
	Clicks    uint16 `json:"clicks,omitempty" yaml:"clicks,omitempty"`
	X         int16  `json:"x" yaml:"x"`
	Y         int16  `json:"y" yaml:"y"`
	Kind      uint8  `json:"kind" yaml:"kind"`
	Amount    uint16 `json:"amount" yaml:"amount"`
	Rotation  int16  `json:"rotation" yaml:"rotation"`
	Direction uint8  `json:"direction" yaml:"direction"`
}

// Event is a single input event. Only the payload matching Kind.Type is set.
type Event struct {
	Kind     Kind          `json:"kind"`
	Time     time.Time     `json:"time"`
	Mask     Mask          `json:"mask"`
	Mode     Mode          `json:"mode"`
	Keyboard *KeyboardData `json:"keyboard,omitempty"`
	Mouse    *MouseData    `json:"mouse,omitempty"`
	Wheel    *WheelData    `json:"wheel,omitempty"`
}

// Reserved reports whether the event is kept from the rest of the system.
func (e *Event) Reserved() bool {
	return e.Mode&ModeReserved != 0
}

// Synthetic reports whether the event was generated by software.
func (e *Event) Synthetic() bool {
	return e.Mode&ModeSynthetic != 0
}

// Validate checks that the kind is known and that the payload its type requires is set.
func (e *Event) Validate() error {
	switch e.Kind.Type() {
	case TypeKeyboard:
		if e.Keyboard == nil {
			return fmt.Errorf("%w: %s requires keyboard data", ErrMissingPayload, e.Kind)
		}
	case TypeMouse:
		if e.Mouse == nil {
			return fmt.Errorf("%w: %s requires mouse data", ErrMissingPayload, e.Kind)
		}
	case TypeMouseWheel:
		if e.Wheel == nil {
			return fmt.Errorf("%w: %s requires wheel data", ErrMissingPayload, e.Kind)
		}
	case TypeControl:
		if _, ok := kindNames[e.Kind]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownKind, e.Kind)
		}
	}
	return nil
}
