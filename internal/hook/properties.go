// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package hook

import "context"

// ScreenData describes a single monitor.
type ScreenData struct {
	// Number is the screen number assigned by the operating system.
	Number uint8  `json:"number" yaml:"number"`
	X      int16  `json:"x" yaml:"x"`
	Y      int16  `json:"y" yaml:"y"`
	Width  uint16 `json:"width" yaml:"width"`
	Height uint16 `json:"height" yaml:"height"`
}

// SystemProperties holds the operating system settings that affect how events are
// interpreted. A nil value means the platform does not report it.
type SystemProperties struct {
	AutoRepeatRate                *uint64      `json:"autoRepeatRate,omitempty" yaml:"autoRepeatRate,omitempty"`
	AutoRepeatDelay               *uint64      `json:"autoRepeatDelay,omitempty" yaml:"autoRepeatDelay,omitempty"`
	PointerAccelerationMultiplier *uint64      `json:"pointerAccelerationMultiplier,omitempty" yaml:"pointerAccelerationMultiplier,omitempty"`
	PointerAccelerationThreshold  *uint64      `json:"pointerAccelerationThreshold,omitempty" yaml:"pointerAccelerationThreshold,omitempty"`
	PointerSensitivity            *uint64      `json:"pointerSensitivity,omitempty" yaml:"pointerSensitivity,omitempty"`
	MultiClickTime                *uint64      `json:"multiClickTime,omitempty" yaml:"multiClickTime,omitempty"`
	Screens                       []ScreenData `json:"screens" yaml:"screens,omitempty"`
}

// PropertySource is implemented by sources able to report the system properties.
type PropertySource interface {
	SystemProperties(ctx context.Context) (SystemProperties, error)
}

// ReadProperties returns the properties reported by source. A source without that
// capability returns an error wrapping errors.ErrUnsupported.
func ReadProperties(ctx context.Context, source any) (SystemProperties, error) {
	propertySource, ok := source.(PropertySource)
	if !ok {
		return SystemProperties{}, &unsupportedSourceError{
			Message: "source does not report system properties",
		}
	}
	return propertySource.SystemProperties(ctx)
}
