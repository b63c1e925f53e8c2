// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package replay implements a software stand-in for the native input library.
// Replay scripts are YAML documents listing the log messages the library would emit and the
// input events it would capture; the source feeds both through the same contracts used by the
// real binding.
package replay
