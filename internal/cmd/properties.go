// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mia-platform/iohook/internal/hook"
)

const (
	propertiesCmdUsageTemplate = "properties [%s]"
	propertiesCmdShort         = "print the system properties reported by a source"
	propertiesCmdLong          = `Print as JSON the operating system settings reported by a source:
	keyboard auto repeat, pointer acceleration, multi click time and the
	attached screens. Settings the source does not report are omitted.`

	propertiesCmdExample = `# Print the properties recorded in a session
	iohook properties replay --script session.yaml`
)

// PropertiesCmd returns the Cobra command that prints the system properties of a source.
func PropertiesCmd() *cobra.Command {
	var scriptPaths []string
	allSources := slices.Sorted(maps.Keys(availableEventSources))
	cmd := &cobra.Command{
		Use:     fmt.Sprintf(propertiesCmdUsageTemplate, strings.Join(allSources, "|")),
		Short:   heredoc.Doc(propertiesCmdShort),
		Long:    heredoc.Doc(propertiesCmdLong),
		Example: heredoc.Doc(propertiesCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: validArgsFunc(availableEventSources),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := &options{sourceGetter: sourceFromName}
			if len(args) > 0 {
				opts.sourceName = strings.ToLower(args[0])
			}
			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			paths, err := collectPaths(scriptPaths)
			if err != nil {
				return handleError(cmd, err)
			}

			source, err := opts.sourceGetter(opts.sourceName, paths)
			if err != nil {
				return handleError(cmd, err)
			}

			properties, err := hook.ReadProperties(cmd.Context(), source)
			if err != nil {
				return handleError(cmd, err)
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(properties); err != nil {
				return handleError(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&scriptPaths, scriptPathFlagName, scriptPathFlagShort, nil, scriptPathFlagUsage)
	return cmd
}
