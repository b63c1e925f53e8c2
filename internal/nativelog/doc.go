// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package nativelog bridges the logger hook of the native input library to plain Go callbacks.
// The native side only accepts a single printf-style logger procedure, so the package keeps one
// callback slot per Cell, renders each message into a bounded buffer and forwards the text to the
// callback currently installed.
package nativelog
