package adt

import (
	"context"
	"errors"
	"fmt"

	"github.com/partite-ai/wasmadt/boundary"
)

// ErrUnwrapErr is wrapped by Result.Unwrap on an Err value.
var ErrUnwrapErr = errors.New("called unwrap on an Err value")

// Result holds either a success (Ok) or a failure (Err) boundary value. The
// zero Result is Err(undefined); use NewResult to build one.
type Result struct {
	value boundary.Value
	ok    bool
}

// NewResult wraps v as Ok(v), or as Err(null) when v is null or undefined.
// There is no constructor for an Err holding another payload.
func NewResult(v boundary.Value) Result {
	if boundary.IsAbsent(v) {
		return Result{value: boundary.Null}
	}
	return Result{value: v, ok: true}
}

// IsOk reports whether r is the success variant.
func (r Result) IsOk() bool {
	return r.ok
}

// IsErr reports whether r is the failure variant.
func (r Result) IsErr() bool {
	return !r.ok
}

// IsOkAnd reports whether r is Ok and pred returns true for its value.
func (r Result) IsOkAnd(ctx context.Context, pred boundary.Callable) bool {
	if !r.ok {
		return false
	}
	return r.test(ctx, "is_ok_and", pred)
}

// IsErrAnd reports whether r is Err and pred returns true for its payload.
func (r Result) IsErrAnd(ctx context.Context, pred boundary.Callable) bool {
	if r.ok {
		return false
	}
	return r.test(ctx, "is_err_and", pred)
}

func (r Result) test(ctx context.Context, op string, pred boundary.Callable) bool {
	ok, err := boundary.Truthy(ctx, pred, r.value)
	if err != nil {
		tracer().Debugf("result %s: predicate collapsed to false: %v", op, err)
		return false
	}
	return ok
}

// Ok projects the success value into an Option.
func (r Result) Ok() Option {
	if !r.ok {
		return None()
	}
	return NewOption(r.value)
}

// Err projects the failure payload into an Option. Since the payload of a
// constructed Err is null, this is None unless r came from elsewhere.
func (r Result) Err() Option {
	if r.ok {
		return None()
	}
	return NewOption(r.value)
}

// MapOk rebuilds the Result from transform applied to the Ok value. An Err
// input, or a failing transform, yields Err(null): the Err payload is not
// carried over.
func (r Result) MapOk(ctx context.Context, transform boundary.Callable) Result {
	if !r.ok {
		return NewResult(boundary.Null)
	}
	return r.apply(ctx, "map_ok", transform, boundary.Null)
}

// MapErr rebuilds the Result from transform applied to the Err payload, so a
// non-null outcome becomes an Ok value. An Ok input, or a failing transform,
// yields Err(null).
func (r Result) MapErr(ctx context.Context, transform boundary.Callable) Result {
	if r.ok {
		return NewResult(boundary.Null)
	}
	return r.apply(ctx, "map_err", transform, boundary.Null)
}

// MapOr returns transform applied to the Ok value, or def when r is Err. A
// failing transform yields boundary.Null.
func (r Result) MapOr(ctx context.Context, def boundary.Value, transform boundary.Callable) boundary.Value {
	if !r.ok {
		return def
	}
	v, err := boundary.Invoke(ctx, transform, r.value)
	if err != nil {
		tracer().Debugf("result map_or: transform collapsed to null: %v", err)
		return boundary.Null
	}
	return v
}

// MapErrOr rebuilds the Result from transform applied to the Err payload. An
// Ok input, or a failing transform, yields NewResult(def).
func (r Result) MapErrOr(ctx context.Context, transform boundary.Callable, def boundary.Value) Result {
	if r.ok {
		return NewResult(def)
	}
	return r.apply(ctx, "map_err_or", transform, def)
}

func (r Result) apply(ctx context.Context, op string, transform boundary.Callable, fallback boundary.Value) Result {
	v, err := boundary.Invoke(ctx, transform, r.value)
	if err != nil {
		tracer().Debugf("result %s: transform failed, using %s: %v", op, boundary.Format(fallback), err)
		return NewResult(fallback)
	}
	return NewResult(v)
}

// Unwrap returns the Ok value, or an error wrapping ErrUnwrapErr.
func (r Result) Unwrap() (boundary.Value, error) {
	if !r.ok {
		return nil, fmt.Errorf("%w: %s", ErrUnwrapErr, boundary.Format(r.value))
	}
	return r.value, nil
}

// UnwrapOr returns the Ok value, or def when r is Err.
func (r Result) UnwrapOr(def boundary.Value) boundary.Value {
	if r.ok {
		return r.value
	}
	return def
}

// Get returns the payload together with the variant tag.
func (r Result) Get() (boundary.Value, bool) {
	return r.value, r.ok
}

// String renders r as Ok(value) or Err(payload).
func (r Result) String() string {
	if r.ok {
		return "Ok(" + boundary.Format(r.value) + ")"
	}
	return "Err(" + boundary.Format(r.value) + ")"
}
