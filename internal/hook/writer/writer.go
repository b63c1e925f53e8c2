// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"io"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mia-platform/iohook/internal/hook"
)

// Writer prints every event it handles as a single JSON line.
type Writer struct {
	encoder *json.Encoder

	lock sync.Mutex
	err  error
}

// New returns a Writer printing to w.
func New(w io.Writer) *Writer {
	return &Writer{
		encoder: json.NewEncoder(w),
	}
}

// Handle is a hook.Handler encoding event. After the first write error further events are ignored.
func (w *Writer) Handle(event *hook.Event) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if w.err != nil {
		return
	}
	w.err = w.encoder.Encode(event)
}

// Err returns the first error met while writing.
func (w *Writer) Err() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.err
}
