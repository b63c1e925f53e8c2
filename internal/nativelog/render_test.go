// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package nativelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateFormat(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		format          string
		expectedFormat  string
		expectedClasses []argClass
		expectedErr     error
	}{
		"no directives": {
			format:         "hook enabled",
			expectedFormat: "hook enabled",
		},
		"length modifiers are dropped": {
			format:          "%lu %lld %hhx %zu %ji",
			expectedFormat:  "%d %d %x %d %d",
			expectedClasses: []argClass{classInteger, classInteger, classInteger, classInteger, classInteger},
		},
		"ptrdiff and quad modifiers are dropped": {
			format:          "%td %qd %tx",
			expectedFormat:  "%d %d %x",
			expectedClasses: []argClass{classInteger, classInteger, classInteger},
		},
		"flags width and precision are kept": {
			format:          "%-8s|%08.3f|%+d|% d|%#x",
			expectedFormat:  "%-8s|%08.3f|%+d|% d|%#x",
			expectedClasses: []argClass{classString, classFloat, classInteger, classInteger, classInteger},
		},
		"star width and precision consume arguments": {
			format:          "%*.*s",
			expectedFormat:  "%*.*s",
			expectedClasses: []argClass{classWidth, classWidth, classString},
		},
		"escaped percent": {
			format:          "100%% of %s",
			expectedFormat:  "100%% of %s",
			expectedClasses: []argClass{classString},
		},
		"pointer and char": {
			format:          "%p %c",
			expectedFormat:  "%p %c",
			expectedClasses: []argClass{classPointer, classInteger},
		},
		"modifier without conversion": {
			format:      "%t",
			expectedErr: errTemplate,
		},
		"go only verbs are not conversions": {
			format:      "%v",
			expectedErr: errTemplate,
		},
		"dangling directive": {
			format:      "broken %l",
			expectedErr: errTemplate,
		},
		"unsupported conversion": {
			format:      "%a",
			expectedErr: errTemplate,
		},
		"explicit argument index": {
			format:      "%[1]d",
			expectedErr: errTemplate,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			format, classes, err := translateFormat(test.format)
			if test.expectedErr != nil {
				assert.ErrorIs(t, err, test.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedFormat, format)
			assert.Equal(t, test.expectedClasses, classes)
		})
	}
}

func TestTrimPartialRune(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []byte("abc"), trimPartialRune([]byte("abc")))
	assert.Equal(t, []byte("ab"), trimPartialRune([]byte("ab\xe2\x82")))
	assert.Equal(t, []byte("ab€"), trimPartialRune([]byte("ab€")))
	assert.Empty(t, trimPartialRune([]byte{}))
}

func TestRenderOverflow(t *testing.T) {
	t.Parallel()

	buf := renderPool.Get()
	defer renderPool.Put(buf)

	err := render(buf, 4, "%s-%d", []any{"abc", 12})
	assert.ErrorIs(t, err, errOverflow)
	assert.Equal(t, "abc-", string(buf.B))

	buf.Reset()
	require.NoError(t, render(buf, 6, "%s-%d", []any{"abc", 12}))
	assert.Equal(t, "abc-12", string(buf.B))
}

type stringerInt int

func (s stringerInt) String() string { return "stringer" }

func TestArgClassAccepts(t *testing.T) {
	t.Parallel()

	value := 7
	testCases := map[string]struct {
		class    argClass
		arg      any
		expected bool
	}{
		"integer accepts signed":         {class: classInteger, arg: int64(-3), expected: true},
		"integer accepts unsigned":       {class: classInteger, arg: uint8(3), expected: true},
		"integer rejects string":         {class: classInteger, arg: "forty-two"},
		"integer rejects float":          {class: classInteger, arg: 4.2},
		"integer rejects stringer":       {class: classInteger, arg: stringerInt(1)},
		"float accepts float32":          {class: classFloat, arg: float32(1.5), expected: true},
		"float rejects integer":          {class: classFloat, arg: 1},
		"string accepts string":          {class: classString, arg: "text", expected: true},
		"string accepts bytes":           {class: classString, arg: []byte("text"), expected: true},
		"string rejects nil":             {class: classString, arg: nil},
		"string rejects integer":         {class: classString, arg: 1},
		"pointer accepts pointer":        {class: classPointer, arg: &value, expected: true},
		"pointer rejects nil pointer":    {class: classPointer, arg: (*int)(nil)},
		"pointer rejects integer":        {class: classPointer, arg: 1},
		"width accepts small integer":    {class: classWidth, arg: -8, expected: true},
		"width rejects too large values": {class: classWidth, arg: uint64(2e6)},
		"width rejects string":           {class: classWidth, arg: "8"},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.expected, test.class.accepts(test.arg))
		})
	}
}
