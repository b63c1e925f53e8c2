// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import "strconv"

// Severity is the numeric log level reported by the native library. Values are forwarded
// to callbacks unmodified, including the ones without a named constant.
type Severity uint32

const (
	SeverityDebug Severity = iota + 1
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "Severity(" + strconv.FormatUint(uint64(s), 10) + ")"
	}
}
