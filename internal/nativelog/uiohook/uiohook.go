// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

//go:build cgo && uiohook

// Package uiohook registers a nativelog.Cell as the logger of libuiohook.
// The library expects a variadic C procedure, which Go cannot export, so a small C shim renders
// the message with vsnprintf and hands the text to Go.
package uiohook

/*
#cgo LDFLAGS: -luiohook
#include <stdarg.h>
#include <stdbool.h>
#include <stdio.h>
#include <uiohook.h>

#define LOGGER_BUFFER_SIZE 4096

extern bool goForwardMessage(unsigned int level, char *message, int written);

// one extra byte for the terminator, so a message of exactly LOGGER_BUFFER_SIZE bytes fits
static bool loggerShim(unsigned int level, const char *format, ...) {
	char message[LOGGER_BUFFER_SIZE + 1];
	va_list args;
	va_start(args, format);
	int written = vsnprintf(message, sizeof(message), format, args);
	va_end(args);

	if (written < 0) {
		return false;
	}
	return goForwardMessage(level, message, written);
}

static void setLoggerShim(bool enabled) {
	hook_set_logger_proc(enabled ? &loggerShim : NULL);
}
*/
import "C"

import (
	"sync/atomic"

	"github.com/mia-platform/iohook/internal/nativelog"
)

// target is the cell receiving messages from the shim; libuiohook keeps no user data for its logger.
var target atomic.Pointer[nativelog.Cell]

// registrar toggles the C shim on the library logger registration point.
type registrar struct{}

func (registrar) SetLoggerProc(proc nativelog.Proc) {
	C.setLoggerShim(C.bool(proc != nil))
}

// Attach makes cell the destination of every libuiohook log message.
func Attach(cell *nativelog.Cell) {
	target.Store(cell)
	cell.Attach(registrar{})
}
