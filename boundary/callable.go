package boundary

import (
	"context"
	"fmt"
)

// Callable is a host function that takes zero or one argument and either
// returns a value or fails.
type Callable interface {
	Call(ctx context.Context, args ...Value) (Value, error)
}

// Func adapts a plain function to Callable.
type Func func(ctx context.Context, args ...Value) (Value, error)

func (f Func) Call(ctx context.Context, args ...Value) (Value, error) {
	return f(ctx, args...)
}

// Predicate lifts a Go predicate into a Callable of one argument.
func Predicate(fn func(Value) bool) Callable {
	return Func(func(ctx context.Context, args ...Value) (Value, error) {
		return fn(argument(args)), nil
	})
}

// Transform lifts a Go mapping function into a Callable of one argument.
func Transform(fn func(Value) Value) Callable {
	return Func(func(ctx context.Context, args ...Value) (Value, error) {
		return fn(argument(args)), nil
	})
}

// Producer lifts a Go function of no arguments into a Callable.
func Producer(fn func() Value) Callable {
	return Func(func(ctx context.Context, args ...Value) (Value, error) {
		return fn(), nil
	})
}

func argument(args []Value) Value {
	if len(args) == 0 {
		return Undefined
	}
	return args[0]
}

// Invoke calls c with args. A nil callable yields ErrNotCallable and a panic
// inside the callable is returned as an *InvocationError, so the caller only
// has to inspect the error.
func Invoke(ctx context.Context, c Callable, args ...Value) (result Value, err error) {
	if c == nil {
		return nil, ErrNotCallable
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InvocationError{Recovered: r}
		}
	}()
	return c.Call(ctx, args...)
}

// Truthy invokes the predicate c on v and coerces its result to a boolean.
func Truthy(ctx context.Context, c Callable, v Value) (bool, error) {
	result, err := Invoke(ctx, c, v)
	if err != nil {
		return false, err
	}
	b, ok := AsBool(result)
	if !ok {
		return false, fmt.Errorf("%w: got %s", ErrNotBoolean, Format(result))
	}
	return b, nil
}
