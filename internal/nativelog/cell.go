// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

// MessageCapacity is the size in bytes of the buffer a single log message is rendered into.
const MessageCapacity = 4096

// Callback receives a fully rendered native log message. It reports whether the message
// has been handled.
type Callback func(severity Severity, message string) bool

// Proc is the printf-style logger procedure handed to the native library.
type Proc func(severity Severity, format string, args ...any) bool

// Registrar is the logger registration point exposed by the native library.
// A nil proc disables native logging callbacks entirely.
type Registrar interface {
	SetLoggerProc(proc Proc)
}

// RegistrarFunc adapts a plain function to the Registrar interface.
type RegistrarFunc func(proc Proc)

// SetLoggerProc calls f(proc).
func (f RegistrarFunc) SetLoggerProc(proc Proc) {
	f(proc)
}

// sameRegistrar compares two registrars without panicking on dynamic types that are not
// comparable, such as RegistrarFunc; those are never considered equal.
func sameRegistrar(a, b Registrar) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	typeA := reflect.TypeOf(a)
	if typeA != reflect.TypeOf(b) || !typeA.Comparable() {
		return false
	}
	return a == b
}

// OverflowPolicy selects what happens to a message that does not fit MessageCapacity.
type OverflowPolicy uint32

const (
	// OverflowReject drops the message without invoking the callback.
	OverflowReject OverflowPolicy = iota
	// OverflowTruncate forwards the message cut at the capacity and still reports a failure.
	OverflowTruncate
)

// OverflowPolicyFromString parses a policy name, falling back to OverflowReject.
func OverflowPolicyFromString(policy string) OverflowPolicy {
	if strings.EqualFold(strings.TrimSpace(policy), "truncate") {
		return OverflowTruncate
	}
	return OverflowReject
}

func (p OverflowPolicy) String() string {
	switch p {
	case OverflowReject:
		return "reject"
	case OverflowTruncate:
		return "truncate"
	default:
		return fmt.Sprintf("OverflowPolicy(%d)", uint32(p))
	}
}

// discard is the callback installed when nobody is listening.
func discard(Severity, string) bool {
	return false
}

var defaultCallback = Callback(discard)

// Cell is a single-slot logger registry. The slot always holds a callback: either the one
// installed with SetLogger or a no-op that reports every message as unhandled.
// Reads are lock free; writers are serialized so the registrar always sees the last SetLogger.
// The zero value is an empty cell with no registrar.
type Cell struct {
	slot   atomic.Pointer[Callback]
	policy atomic.Uint32

	lock      sync.Mutex
	registrar Registrar
}

// NewCell returns a Cell holding the no-op callback, bound to registrar. registrar can be nil
// when messages are only pushed from Go code.
func NewCell(registrar Registrar) *Cell {
	cell := &Cell{registrar: registrar}
	cell.slot.Store(&defaultCallback)
	return cell
}

// Attach binds the cell to a new registration point. If a callback is already installed
// the adapter is registered right away.
func (c *Cell) Attach(registrar Registrar) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.registrar != nil && !sameRegistrar(c.registrar, registrar) {
		c.registrar.SetLoggerProc(nil)
	}
	c.registrar = registrar
	if registrar == nil {
		return
	}

	if c.installed() {
		registrar.SetLoggerProc(c.Log)
	} else {
		registrar.SetLoggerProc(nil)
	}
}

// SetLogger installs callback and registers the adapter with the native library.
// A nil callback restores the no-op default and unregisters the adapter.
func (c *Cell) SetLogger(callback Callback) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if callback == nil {
		c.slot.Store(&defaultCallback)
		if c.registrar != nil {
			c.registrar.SetLoggerProc(nil)
		}
		return
	}

	c.slot.Store(&callback)
	if c.registrar != nil {
		c.registrar.SetLoggerProc(c.Log)
	}
}

// SetOverflowPolicy changes how messages larger than MessageCapacity are handled.
func (c *Cell) SetOverflowPolicy(policy OverflowPolicy) {
	c.policy.Store(uint32(policy))
}

// OverflowPolicy returns the policy in use.
func (c *Cell) OverflowPolicy() OverflowPolicy {
	return OverflowPolicy(c.policy.Load())
}

// Log renders format and args and forwards the text to the installed callback.
// It returns true only when rendering succeeded and the callback returned true; a template
// that cannot be rendered is never forwarded.
func (c *Cell) Log(severity Severity, format string, args ...any) bool {
	callback := c.load()
	if callback == &defaultCallback {
		return false
	}

	buf := renderPool.Get()
	defer renderPool.Put(buf)

	switch err := render(buf, MessageCapacity, format, args); err {
	case nil:
		return invoke(*callback, severity, string(buf.B))
	case errOverflow:
		return c.overflow(*callback, severity, string(buf.B))
	default:
		return false
	}
}

// Forward delivers a message the native side has already rendered, applying the
// same capacity rules as Log.
func (c *Cell) Forward(severity Severity, message string) bool {
	callback := c.load()
	if callback == &defaultCallback {
		return false
	}

	if len(message) > MessageCapacity {
		cut := trimPartialRune([]byte(message[:MessageCapacity]))
		return c.overflow(*callback, severity, string(cut))
	}
	return invoke(*callback, severity, message)
}

// ForwardOverflow delivers a message the native side had to cut at its own buffer size.
// The cut may have split a multibyte character, so the message is trimmed back to a rune boundary.
func (c *Cell) ForwardOverflow(severity Severity, message string) bool {
	callback := c.load()
	if callback == &defaultCallback {
		return false
	}

	if len(message) > MessageCapacity {
		message = message[:MessageCapacity]
	}
	return c.overflow(*callback, severity, string(trimPartialRune([]byte(message))))
}

// ForwardRendered delivers text produced by a bounded C formatter that reported written
// bytes for the complete message. A written count above MessageCapacity means text was cut.
func (c *Cell) ForwardRendered(severity Severity, text string, written int) bool {
	if written > MessageCapacity {
		return c.ForwardOverflow(severity, text)
	}
	return c.Forward(severity, text)
}

func (c *Cell) overflow(callback Callback, severity Severity, truncated string) bool {
	if c.OverflowPolicy() == OverflowTruncate {
		invoke(callback, severity, truncated)
	}
	return false
}

// load returns the callback in the slot; the zero Cell behaves as one holding the default.
func (c *Cell) load() *Callback {
	if callback := c.slot.Load(); callback != nil {
		return callback
	}
	return &defaultCallback
}

// installed reports whether a caller supplied callback is in the slot.
func (c *Cell) installed() bool {
	return c.load() != &defaultCallback
}

// invoke calls callback shielding the native caller from panics.
func invoke(callback Callback, severity Severity, message string) (handled bool) {
	defer func() {
		if recover() != nil {
			handled = false
		}
	}()

	return callback(severity, message)
}
