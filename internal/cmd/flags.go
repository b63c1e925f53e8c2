// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/iohook/internal/nativelog"
)

const (
	scriptPathFlagName  = "script"
	scriptPathFlagShort = "f"
	scriptPathFlagUsage = "Path to a file or directory containing replay scripts. Can be specified multiple times."

	nativeLogFlagName  = "native-log"
	nativeLogFlagUsage = "Forward the messages of the hook library to the logger, overrides NATIVE_LOG_ENABLED"

	// logLevelFlagName is the persistent flag registered by the root command.
	logLevelFlagName = "log-level"
)

// flags collects the CLI options of the listen command.
type flags struct {
	scriptPaths []string
	nativeLog   bool
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(
		&f.scriptPaths,
		scriptPathFlagName,
		scriptPathFlagShort,
		nil,
		scriptPathFlagUsage)

	cmd.Flags().BoolVar(&f.nativeLog, nativeLogFlagName, true, nativeLogFlagUsage)
}

// toOptions builds an options instance from the parsed flags and CLI arguments.
func (f *flags) toOptions(cmd *cobra.Command, args []string) (*options, error) {
	sourceName := ""
	if len(args) > 0 {
		sourceName = args[0]
	}

	scriptPaths, err := collectPaths(f.scriptPaths)
	if err != nil {
		return nil, err
	}

	var nativeLog *bool
	if cmd.Flags().Changed(nativeLogFlagName) {
		nativeLog = &f.nativeLog
	}

	return &options{
		sourceName:    strings.ToLower(sourceName),
		scriptPaths:   scriptPaths,
		nativeLog:     nativeLog,
		levelFromFlag: cmd.Flags().Changed(logLevelFlagName),
		output:        cmd.OutOrStdout(),
		cell:          nativelog.Default,
		sourceGetter:  sourceFromName,
	}, nil
}
