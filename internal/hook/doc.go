// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package hook models global keyboard and mouse events and fans them out to registered handlers.
// A Dispatcher reads events from a source and passes each one to a Registry, which applies the
// optional reserve filter and calls every handler in registration order.
package hook
