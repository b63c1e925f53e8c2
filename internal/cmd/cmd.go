// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	listenCmdUsageTemplate = "listen [%s]"
	listenCmdShort         = "listen to input events from a source"
	listenCmdLong          = `Listen to input events from a source and print them as JSON lines.
	Messages logged by the hook library are forwarded to the application logger
	unless disabled with the --native-log flag or the NATIVE_LOG_ENABLED
	environment variable.

	The available sources are:
	- replay: replay recorded sessions from YAML script files`

	listenCmdExample = `# Replay a recorded session
	iohook listen replay --script session.yaml

	# Replay every script in a folder without forwarding the library messages
	iohook listen replay -f ./sessions --native-log=false`
)

// ListenCmd returns the Cobra command that streams input events from a source.
func ListenCmd() *cobra.Command {
	flags := &flags{}
	allSources := slices.Sorted(maps.Keys(availableEventSources))
	cmd := &cobra.Command{
		Use:     fmt.Sprintf(listenCmdUsageTemplate, strings.Join(allSources, "|")),
		Short:   heredoc.Doc(listenCmdShort),
		Long:    heredoc.Doc(listenCmdLong),
		Example: heredoc.Doc(listenCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc(availableEventSources),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.toOptions(cmd, args)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
