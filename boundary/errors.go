package boundary

import (
	"errors"
	"fmt"
)

var (
	ErrNotCallable = errors.New("value is not callable")
	ErrNotBoolean  = errors.New("callable result is not a boolean")
)

// InvocationError reports a callable that panicked. It is the Go form of a
// host exception or trap raised while the callable ran.
type InvocationError struct {
	Recovered any
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("callable failed: %v", e.Recovered)
}

// Unwrap exposes the recovered value when the callable panicked with an error.
func (e *InvocationError) Unwrap() error {
	if err, ok := e.Recovered.(error); ok {
		return err
	}
	return nil
}
