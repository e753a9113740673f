package adt

import (
	"context"
	"errors"
	"fmt"

	"github.com/partite-ai/wasmadt/boundary"
)

// ErrUnwrapNone is returned by Option.Unwrap on None.
var ErrUnwrapNone = errors.New("called unwrap on a None value")

// Option holds a boundary value that may be absent. The zero Option is None.
type Option struct {
	value   boundary.Value
	present bool
}

// NewOption wraps v. The null and undefined sentinels produce None; every
// other value, including false, 0 and the empty string, produces Some.
func NewOption(v boundary.Value) Option {
	if boundary.IsAbsent(v) {
		return Option{}
	}
	return Option{value: v, present: true}
}

// None returns the empty Option.
func None() Option {
	return Option{}
}

// IsSome reports whether o holds a value.
func (o Option) IsSome() bool {
	return o.present
}

// IsNone reports whether o is empty.
func (o Option) IsNone() bool {
	return !o.present
}

// IsSomeAnd reports whether o is Some and pred returns true for its value.
// A predicate that fails or returns a non-boolean counts as false.
func (o Option) IsSomeAnd(ctx context.Context, pred boundary.Callable) bool {
	if !o.present {
		return false
	}
	ok, err := boundary.Truthy(ctx, pred, o.value)
	if err != nil {
		tracer().Debugf("option is_some_and: predicate collapsed to false: %v", err)
		return false
	}
	return ok
}

// IsNoneOr reports true for None, and otherwise the negated predicate result.
// A predicate that fails or returns a non-boolean yields false.
func (o Option) IsNoneOr(ctx context.Context, pred boundary.Callable) bool {
	if !o.present {
		return true
	}
	ok, err := boundary.Truthy(ctx, pred, o.value)
	if err != nil {
		tracer().Debugf("option is_none_or: predicate collapsed to false: %v", err)
		return false
	}
	return !ok
}

// UnwrapOr returns the contained value, or def when o is None.
func (o Option) UnwrapOr(def boundary.Value) boundary.Value {
	if o.present {
		return o.value
	}
	return def
}

// UnwrapOrElse returns the contained value, or the result of producer when o
// is None. A failing producer is returned as an error.
func (o Option) UnwrapOrElse(ctx context.Context, producer boundary.Callable) (boundary.Value, error) {
	if o.present {
		return o.value, nil
	}
	v, err := boundary.Invoke(ctx, producer)
	if err != nil {
		tracer().Errorf("option unwrap_or_else: producer failed: %v", err)
		return nil, fmt.Errorf("unwrap_or_else producer: %w", err)
	}
	return v, nil
}

// MustUnwrapOrElse is like UnwrapOrElse but panics if the producer fails.
func (o Option) MustUnwrapOrElse(ctx context.Context, producer boundary.Callable) boundary.Value {
	v, err := o.UnwrapOrElse(ctx, producer)
	if err != nil {
		panic(err)
	}
	return v
}

// UnwrapOrDefault returns the contained value or boundary.Null.
func (o Option) UnwrapOrDefault() boundary.Value {
	if o.present {
		return o.value
	}
	return boundary.Null
}

// Map applies transform to the contained value and wraps the outcome with
// NewOption, so a transform returning null also yields None. None and a
// failing transform both yield None.
func (o Option) Map(ctx context.Context, transform boundary.Callable) Option {
	if !o.present {
		return None()
	}
	v, err := boundary.Invoke(ctx, transform, o.value)
	if err != nil {
		tracer().Debugf("option map: transform collapsed to None: %v", err)
		return None()
	}
	return NewOption(v)
}

// Unwrap returns the contained value, or ErrUnwrapNone.
func (o Option) Unwrap() (boundary.Value, error) {
	if !o.present {
		return nil, ErrUnwrapNone
	}
	return o.value, nil
}

// Get returns the contained value and whether it is present.
func (o Option) Get() (boundary.Value, bool) {
	return o.value, o.present
}

// String renders o as None or Some(value).
func (o Option) String() string {
	if !o.present {
		return "None"
	}
	return "Some(" + boundary.Format(o.value) + ")"
}
