// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/valyala/bytebufferpool"
)

var (
	// errOverflow is returned when the rendered message does not fit the buffer capacity.
	errOverflow = errors.New("rendered message exceeds buffer capacity")
	// errTemplate is returned when the format template cannot be rendered with the given arguments.
	errTemplate = errors.New("invalid format template")
)

var renderPool bytebufferpool.Pool

// argClass is the kind of value a C conversion reads from the argument list.
type argClass uint8

const (
	classInteger argClass = iota + 1
	classFloat
	classString
	classPointer
	// classWidth is an integer read by a star width or precision.
	classWidth
)

// maxStarWidth mirrors the bound fmt applies before printing %!(BADWIDTH).
const maxStarWidth = 1e6

func (c argClass) String() string {
	switch c {
	case classInteger:
		return "integer"
	case classFloat:
		return "floating point"
	case classString:
		return "string"
	case classPointer:
		return "pointer"
	case classWidth:
		return "width"
	default:
		return fmt.Sprintf("argClass(%d)", uint8(c))
	}
}

// accepts reports whether fmt renders arg with a verb of class c without an error marker.
func (c argClass) accepts(arg any) bool {
	// custom formatting would replace the conversion the template asked for
	switch arg.(type) {
	case fmt.Formatter:
		return false
	case fmt.Stringer, error:
		if c != classString {
			return false
		}
	}

	value := reflect.ValueOf(arg)
	switch c {
	case classInteger:
		return isInteger(value.Kind())
	case classWidth:
		switch {
		case value.CanInt():
			return value.Int() >= -maxStarWidth && value.Int() <= maxStarWidth
		case value.CanUint():
			return value.Uint() <= maxStarWidth
		}
		return false
	case classFloat:
		return value.Kind() == reflect.Float32 || value.Kind() == reflect.Float64
	case classString:
		return value.Kind() == reflect.String ||
			(value.Kind() == reflect.Slice && value.Type().Elem().Kind() == reflect.Uint8)
	case classPointer:
		return (value.Kind() == reflect.Pointer || value.Kind() == reflect.UnsafePointer) && !value.IsNil()
	default:
		return false
	}
}

func isInteger(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// boundedWriter accepts bytes up to limit and reports errOverflow for everything past it.
type boundedWriter struct {
	buf   *bytebufferpool.ByteBuffer
	limit int
}

func (w *boundedWriter) Write(p []byte) (int, error) {
	free := w.limit - w.buf.Len()
	if len(p) <= free {
		return w.buf.Write(p)
	}

	if free > 0 {
		_, _ = w.buf.Write(p[:free])
	}
	return free, errOverflow
}

// render writes format and args into buf without growing it past limit bytes.
// When the message overflows, buf holds the longest valid UTF-8 prefix that fits.
func render(buf *bytebufferpool.ByteBuffer, limit int, format string, args []any) error {
	goFormat, classes, err := translateFormat(format)
	if err != nil {
		return err
	}

	if len(classes) != len(args) {
		return fmt.Errorf("%w: template consumes %d arguments, %d given", errTemplate, len(classes), len(args))
	}

	for idx, class := range classes {
		if !class.accepts(args[idx]) {
			return fmt.Errorf("%w: argument %d is %T, want %s", errTemplate, idx, args[idx], class)
		}
	}

	writer := &boundedWriter{buf: buf, limit: limit}
	if _, err := fmt.Fprintf(writer, goFormat, args...); err != nil {
		buf.B = trimPartialRune(buf.B)
		return err
	}

	return nil
}

// trimPartialRune drops a trailing incomplete UTF-8 sequence left by a cut at the buffer limit.
func trimPartialRune(b []byte) []byte {
	for back := 1; back <= utf8.UTFMax && back <= len(b); back++ {
		start := len(b) - back
		if !utf8.RuneStart(b[start]) {
			continue
		}

		if !utf8.FullRune(b[start:]) {
			return b[:start]
		}
		return b
	}

	return b
}

// translateFormat rewrites a printf template coming from C into its Go fmt equivalent and
// returns the class of every argument the template consumes, in order.
func translateFormat(format string) (string, []argClass, error) {
	if !strings.Contains(format, "%") {
		return format, nil, nil
	}

	builder := new(strings.Builder)
	builder.Grow(len(format))

	var classes []argClass
	for i := 0; i < len(format); i++ {
		char := format[i]
		if char != '%' {
			builder.WriteByte(char)
			continue
		}

		start := i
		i++
		if i < len(format) && format[i] == '%' {
			builder.WriteString("%%")
			continue
		}

		builder.WriteByte('%')
		for i < len(format) && strings.IndexByte("-+ #0", format[i]) >= 0 {
			builder.WriteByte(format[i])
			i++
		}

		i, classes = copyWidth(builder, format, i, classes)
		if i < len(format) && format[i] == '.' {
			builder.WriteByte('.')
			i, classes = copyWidth(builder, format, i+1, classes)
		}

		// C length modifiers, sizes are irrelevant once the value is in an interface
		for i < len(format) && strings.IndexByte("hlLjztq", format[i]) >= 0 {
			i++
		}

		if i >= len(format) {
			return "", nil, fmt.Errorf("%w: dangling directive at offset %d", errTemplate, start)
		}

		switch verb := format[i]; verb {
		case 'u', 'i':
			builder.WriteByte('d')
			classes = append(classes, classInteger)
		case 'd', 'o', 'x', 'X', 'c':
			builder.WriteByte(verb)
			classes = append(classes, classInteger)
		case 'f', 'F', 'e', 'E', 'g', 'G':
			builder.WriteByte(verb)
			classes = append(classes, classFloat)
		case 's':
			builder.WriteByte(verb)
			classes = append(classes, classString)
		case 'p':
			builder.WriteByte(verb)
			classes = append(classes, classPointer)
		default:
			return "", nil, fmt.Errorf("%w: unsupported conversion %q at offset %d", errTemplate, verb, start)
		}
	}

	return builder.String(), classes, nil
}

// copyWidth copies a width or precision field starting at i; a star consumes one argument.
func copyWidth(builder *strings.Builder, format string, i int, classes []argClass) (int, []argClass) {
	if i < len(format) && format[i] == '*' {
		builder.WriteByte('*')
		return i + 1, append(classes, classWidth)
	}

	for i < len(format) && format[i] >= '0' && format[i] <= '9' {
		builder.WriteByte(format[i])
		i++
	}
	return i, classes
}
