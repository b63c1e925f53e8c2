// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

// Default is the process wide cell. The native library holds a single global logger
// procedure, so every binding attaches to this one.
var Default = NewCell(nil)

// SetLogger installs callback in the Default cell.
func SetLogger(callback Callback) {
	Default.SetLogger(callback)
}

// Log forwards a message through the Default cell.
func Log(severity Severity, format string, args ...any) bool {
	return Default.Log(severity, format, args...)
}
