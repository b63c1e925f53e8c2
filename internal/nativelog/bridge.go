// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import (
	"unicode/utf8"

	"github.com/mia-platform/iohook/internal/logger"
)

const (
	bridgeLoggerName = "iohook:native"
)

// NewLoggerBridge returns a Callback that writes native messages to log using the matching level.
// Messages with an unknown severity or that are not valid UTF-8 are reported as unhandled.
func NewLoggerBridge(log logger.Logger) Callback {
	named := log.WithName(bridgeLoggerName)
	return func(severity Severity, message string) bool {
		if !utf8.ValidString(message) {
			return false
		}

		switch severity {
		case SeverityDebug:
			named.Debug(message)
		case SeverityInfo:
			named.Info(message)
		case SeverityWarn:
			named.Warn(message)
		case SeverityError:
			named.Error(message)
		default:
			return false
		}

		return true
	}
}
