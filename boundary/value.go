// Package boundary models values and callables that cross into this module
// from a dynamically-typed host.
//
// A boundary value is opaque: nothing in this module inspects it except to
// detect the two absence sentinels and to coerce a callable's result to a
// boolean.
package boundary

import (
	"fmt"
	"reflect"
)

// Value is an opaque value owned by the host.
type Value = any

type nullValue struct{}

func (nullValue) String() string { return "null" }

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

var (
	// Null is the host's canonical null sentinel.
	Null Value = nullValue{}
	// Undefined is the host's canonical undefined/absent sentinel.
	Undefined Value = undefinedValue{}
)

func IsNull(v Value) bool {
	_, ok := v.(nullValue)
	return ok
}

// IsUndefined reports whether v is the undefined sentinel. A Go nil counts as
// undefined.
func IsUndefined(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(undefinedValue)
	return ok
}

// IsAbsent reports whether v is either absence sentinel.
func IsAbsent(v Value) bool {
	return IsNull(v) || IsUndefined(v)
}

// AsBool coerces v to a boolean. Only values whose kind is bool coerce;
// numbers, strings and everything else are reported as not coercible.
func AsBool(v Value) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case nil:
		return false, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

// Format renders v for diagnostics. A String method that panics, or one
// called on a nil pointer, is rendered by fmt instead of escaping.
func Format(v Value) string {
	switch x := v.(type) {
	case nil:
		return Undefined.(fmt.Stringer).String()
	case string:
		return fmt.Sprintf("%q", x)
	}
	return fmt.Sprint(v)
}
