// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/mia-platform/iohook/internal/config"
	"github.com/mia-platform/iohook/internal/hook"
	"github.com/mia-platform/iohook/internal/hook/writer"
	"github.com/mia-platform/iohook/internal/logger"
	"github.com/mia-platform/iohook/internal/nativelog"
)

const (
	sessionLogKey = "session"
)

// options configures a listening session.
type options struct {
	sourceName  string
	scriptPaths []string

	// nativeLog overrides NATIVE_LOG_ENABLED when set.
	nativeLog     *bool
	levelFromFlag bool

	output       io.Writer
	cell         *nativelog.Cell
	sourceGetter func(string, []string) (any, error)

	lock sync.Mutex
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if o.sourceName == "" {
		return errNoArguments
	}

	if _, ok := availableEventSources[o.sourceName]; !ok {
		return fmt.Errorf("%w: %s", errInvalidSource, o.sourceName)
	}

	return nil
}

// execute connects the source to the JSON writer and the native messages to the logger,
// then blocks until the source ends or ctx is cancelled.
func (o *options) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	envVars, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx).With(sessionLogKey, uuid.NewString())
	if !o.levelFromFlag {
		log.SetLevel(envVars.Level())
	}
	ctx = logger.WithContext(ctx, log)

	source, err := o.sourceGetter(o.sourceName, o.scriptPaths)
	if err != nil {
		return err
	}

	nativeLogEnabled := envVars.NativeLogEnabled
	if o.nativeLog != nil {
		nativeLogEnabled = *o.nativeLog
	}

	o.cell.SetOverflowPolicy(envVars.OverflowPolicy())
	if registrar, ok := source.(nativelog.Registrar); ok {
		o.cell.Attach(registrar)
		defer o.cell.Attach(nil)
	}

	if nativeLogEnabled {
		o.cell.SetLogger(nativelog.NewLoggerBridge(log))
		defer o.cell.SetLogger(nil)
	}

	registry := hook.NewRegistry()
	output := writer.New(o.output)
	registry.Register(output.Handle)

	log.Debug("start listening", "source", o.sourceName, "nativeLog", nativeLogEnabled)
	if err := hook.NewDispatcher(source, registry).Start(ctx); err != nil {
		return err
	}

	return output.Err()
}
