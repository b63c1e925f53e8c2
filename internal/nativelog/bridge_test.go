// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/iohook/internal/logger"
)

func TestLoggerBridge(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewLogger(buffer)
	log.SetLevel(logger.DEBUG)

	cell := NewCell(nil)
	cell.SetLogger(NewLoggerBridge(log))

	assert.True(t, cell.Log(SeverityDebug, "%s [%u]: debug line", "hook_run", 10))
	assert.True(t, cell.Log(SeverityInfo, "info line"))
	assert.True(t, cell.Log(SeverityWarn, "warn line"))
	assert.True(t, cell.Log(SeverityError, "error line"))
	assert.False(t, cell.Log(Severity(12), "unknown level"))
	assert.False(t, cell.Forward(SeverityInfo, "invalid \xff utf-8"))

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 4)

	expected := []struct {
		level   string
		message string
	}{
		{level: "debug", message: "hook_run [10]: debug line"},
		{level: "info", message: "info line"},
		{level: "warn", message: "warn line"},
		{level: "error", message: "error line"},
	}

	for idx, line := range lines {
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, expected[idx].level, entry["@level"])
		assert.Equal(t, expected[idx].message, entry["@message"])
		assert.Equal(t, bridgeLoggerName, entry["@module"])
	}
}

func TestLoggerBridgeRespectsLevel(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewLogger(buffer)
	log.SetLevel(logger.WARN)

	bridge := NewLoggerBridge(log)
	assert.True(t, bridge(SeverityDebug, "silenced"))
	assert.True(t, bridge(SeverityError, "kept"))

	assert.Equal(t, 1, strings.Count(buffer.String(), "\n"))
}
