// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package writer provides a hook handler that prints events as JSON lines.
package writer
