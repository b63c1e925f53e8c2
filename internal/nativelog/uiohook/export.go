// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

//go:build cgo && uiohook

package uiohook

// #include <stdbool.h>
import "C"

import (
	"github.com/mia-platform/iohook/internal/nativelog"
)

//export goForwardMessage
func goForwardMessage(level C.uint, message *C.char, written C.int) C.bool {
	cell := target.Load()
	if cell == nil {
		return C.bool(false)
	}

	return C.bool(cell.ForwardRendered(nativelog.Severity(level), C.GoString(message), int(written)))
}
