package wasmhost

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidHandle = errors.New("invalid handle")
	ErrMemoryAccess  = errors.New("guest memory access out of range")
	ErrBadSignature  = errors.New("guest callable has an unexpected signature")
)

func errInvalidHandle(idx uint32) error {
	return fmt.Errorf("%w: %d", ErrInvalidHandle, idx)
}
