// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	internalcmd "github.com/mia-platform/iohook/internal/cmd"
	"github.com/mia-platform/iohook/internal/info"
	"github.com/mia-platform/iohook/internal/logger"
)

var (
	// Version is injected at build time via the Makefile.
	Version = info.Version
	// BuildDate is injected at build time via the Makefile.
	BuildDate = info.BuildDate

	appName      = info.AppName
	versionShort = "Print the " + appName + " version and the Go runtime it was built with"
)

const (
	appShort = "observe keyboard and mouse events"
	appLong  = `iohook observes keyboard and mouse events coming from an input hook source
	and prints them as JSON lines.

	Diagnostic messages emitted by the hook library are forwarded to the application
	logger, which writes JSON lines on standard error.`

	logLevelFlagName      = "log-level"
	logLevelShortFlagName = "v"

	versionCmdName = "version"
)

var (
	errInvalidLogLevel = errors.New("invalid log level")

	logLevels = []string{
		logger.TRACE.String(),
		logger.DEBUG.String(),
		logger.INFO.String(),
		logger.WARN.String(),
		logger.ERROR.String(),
	}
	logLevelFlagUsage = "logging level, one of " + strings.Join(logLevels, ", ") + "; overrides LOGGER_LEVEL"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := rootCmd()
	ctx = logger.WithContext(ctx, logger.NewLogger(cmd.ErrOrStderr()))
	err := cmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		os.Exit(1)
	}
}

// rootCmd builds the command tree. The log level flag is shared by every subcommand.
func rootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   appName,
		Short: heredoc.Doc(appShort),
		Long:  heredoc.Doc(appLong),

		SilenceErrors: true,
		SilenceUsage:  true,

		ValidArgsFunction: cobra.NoFileCompletions,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				cmd.PrintErrln(err)
				return err
			}

			logger.FromContext(cmd.Context()).SetLevel(level)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		c.PrintErrln(err)
		_ = c.Usage()
		return err
	})

	cmd.PersistentFlags().StringVarP(&logLevel, logLevelFlagName, logLevelShortFlagName, logger.INFO.String(), logLevelFlagUsage)
	_ = cmd.RegisterFlagCompletionFunc(logLevelFlagName, cobra.FixedCompletions(logLevels, cobra.ShellCompDirectiveNoFileComp))

	cmd.AddCommand(
		internalcmd.ListenCmd(),
		internalcmd.PropertiesCmd(),
		versionCmd(),
	)
	return cmd
}

// parseLogLevel accepts the level names case insensitively. LevelFromString alone would turn
// a typo into INFO.
func parseLogLevel(value string) (logger.Level, error) {
	name := strings.ToUpper(strings.TrimSpace(value))
	if name == "WARNING" {
		name = logger.WARN.String()
	}

	if !slices.Contains(logLevels, name) {
		return logger.INFO, fmt.Errorf("%w %q: must be one of %s", errInvalidLogLevel, value, strings.Join(logLevels, ", "))
	}
	return logger.LevelFromString(name), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   versionCmdName,
		Short: heredoc.Doc(versionShort),

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				cmd.PrintErrln(err)
				_ = cmd.Usage()
				return err
			}
			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), versionString(Version, BuildDate, runtime.Version()))
		},
	}
}

// versionString formats the version metadata for display.
func versionString(version, buildDate, runtimeVersion string) string {
	var builder strings.Builder
	builder.WriteString(version)
	if buildDate != "" {
		builder.WriteString(" (" + buildDate + ")")
	}

	builder.WriteString(", Go Version: " + runtimeVersion)
	return builder.String()
}
