package wasmhost

import (
	"context"
	"fmt"

	"github.com/partite-ai/wasmadt/boundary"
	"github.com/tetratelabs/wazero/api"
)

// guest is the part of a guest module instance the host relies on.
type guest interface {
	call(ctx context.Context, name string, params ...uint64) ([]uint64, error)
	read(ptr, size uint32) ([]byte, bool)
	write(ptr uint32, b []byte) bool
}

type moduleGuest struct {
	mod api.Module
}

func (g moduleGuest) call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := g.mod.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("%w: module %q has no export %q", boundary.ErrNotCallable, g.mod.Name(), name)
	}
	return fn.Call(ctx, params...)
}

func (g moduleGuest) read(ptr, size uint32) ([]byte, bool) {
	mem := g.mod.Memory()
	if mem == nil {
		return nil, false
	}
	return mem.Read(ptr, size)
}

func (g moduleGuest) write(ptr uint32, b []byte) bool {
	mem := g.mod.Memory()
	if mem == nil {
		return false
	}
	return mem.Write(ptr, b)
}

// guestCallable invokes a named guest export. Arguments are passed as value
// handles that stay valid only for the duration of the call; the handle the
// export returns is taken over by the host.
type guestCallable struct {
	s    *session
	g    guest
	name string
}

func (c *guestCallable) Call(ctx context.Context, args ...boundary.Value) (boundary.Value, error) {
	params := make([]uint64, len(args))
	for i, arg := range args {
		params[i] = uint64(c.s.putValue(arg))
	}
	defer func() {
		for _, p := range params {
			c.s.releaseValue(uint32(p))
		}
	}()

	results, err := c.g.call(ctx, c.name, params...)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: %q returned %d results", ErrBadSignature, c.name, len(results))
	}
	h := uint32(results[0])
	v, err := c.s.value(h)
	if err != nil {
		return nil, fmt.Errorf("%q returned: %w", c.name, err)
	}
	for _, p := range params {
		if uint32(p) == h {
			return v, nil
		}
	}
	c.s.releaseValue(h)
	return v, nil
}
