package wasmhost

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/partite-ai/wasmadt/boundary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGuest serves exports from Go functions over a plain byte slice.
type fakeGuest struct {
	mem     []byte
	exports map[string]func(params ...uint64) ([]uint64, error)
}

func (g *fakeGuest) call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, ok := g.exports[name]
	if !ok {
		return nil, boundary.ErrNotCallable
	}
	return fn(params...)
}

func (g *fakeGuest) read(ptr, size uint32) ([]byte, bool) {
	if uint64(ptr)+uint64(size) > uint64(len(g.mem)) {
		return nil, false
	}
	return g.mem[ptr : ptr+size], true
}

func (g *fakeGuest) write(ptr uint32, b []byte) bool {
	if uint64(ptr)+uint64(len(b)) > uint64(len(g.mem)) {
		return false
	}
	copy(g.mem[ptr:], b)
	return true
}

// place writes s at the start of memory and returns its (ptr, len).
func (g *fakeGuest) place(s string) (uint32, uint32) {
	copy(g.mem, s)
	return 0, uint32(len(s))
}

func newFakeGuest(s *session) *fakeGuest {
	g := &fakeGuest{mem: make([]byte, 256)}
	g.exports = map[string]func(params ...uint64) ([]uint64, error){
		"double": func(params ...uint64) ([]uint64, error) {
			v := s.asI64(uint32(params[0]))
			return []uint64{uint64(s.newI64(v * 2))}, nil
		},
		"positive": func(params ...uint64) ([]uint64, error) {
			return []uint64{uint64(s.newBool(b2i(s.asI64(uint32(params[0])) > 0)))}, nil
		},
		"to_null": func(params ...uint64) ([]uint64, error) {
			return []uint64{uint64(HandleNull)}, nil
		},
		"to_undefined": func(params ...uint64) ([]uint64, error) {
			return []uint64{uint64(HandleUndefined)}, nil
		},
		"fails": func(params ...uint64) ([]uint64, error) {
			return nil, errors.New("wasm error: unreachable")
		},
		"no_results": func(params ...uint64) ([]uint64, error) {
			return nil, nil
		},
		"seven": func(params ...uint64) ([]uint64, error) {
			return []uint64{uint64(s.newI64(7))}, nil
		},
		"describe": func(params ...uint64) ([]uint64, error) {
			v := s.mustValue(uint32(params[0]))
			return []uint64{uint64(s.putValue("error was " + boundary.Format(v)))}, nil
		},
	}
	return g
}

func TestSentinelHandles(t *testing.T) {
	s := newSession()
	assert.Equal(t, HandleNull, s.putValue(boundary.Null))
	assert.Equal(t, HandleUndefined, s.putValue(boundary.Undefined))
	assert.Equal(t, HandleUndefined, s.putValue(nil))
	assert.Equal(t, uint32(math.MaxUint32), HandleUndefined)
	assert.Zero(t, s.values.Len())

	v, err := s.value(HandleNull)
	require.NoError(t, err)
	assert.True(t, boundary.IsNull(v))
	v, err = s.value(HandleUndefined)
	require.NoError(t, err)
	assert.True(t, boundary.IsUndefined(v))

	assert.Equal(t, uint32(1), s.isNull(HandleNull))
	assert.Equal(t, uint32(1), s.isNull(HandleUndefined))
	assert.Equal(t, uint32(0), s.isNull(s.newBool(0)))

	_, err = s.value(99)
	assert.ErrorIs(t, err, ErrInvalidHandle)

	s.dropValue(HandleNull)
	s.dropValue(HandleUndefined)
	assert.Panics(t, func() { s.dropValue(99) })
}

func TestValueConversions(t *testing.T) {
	s := newSession()
	assert.Equal(t, int64(-3), s.asI64(s.newI64(-3)))
	assert.Equal(t, int64(2), s.asI64(s.newF64(2.9)))
	assert.Equal(t, int64(1), s.asI64(s.newBool(7)))
	assert.Equal(t, int64(0), s.asI64(s.putValue("x")))
	assert.Equal(t, 2.5, s.asF64(s.newF64(2.5)))
	assert.Equal(t, 4.0, s.asF64(s.newI64(4)))
	assert.True(t, math.IsNaN(s.asF64(HandleNull)))
	assert.Equal(t, uint32(1), s.asBool(s.newBool(1)))
	assert.Equal(t, uint32(0), s.asBool(s.newI64(1)), "numbers do not coerce to booleans")
	assert.Equal(t, uint32(len("null")), s.stringLen(stringEncodingUTF8, HandleNull))
}

func TestOptionOperations(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	g := newFakeGuest(s)

	some := s.optionNew(s.newI64(21))
	none := s.optionNew(HandleNull)
	assert.Equal(t, uint32(1), s.optionIsSome(some))
	assert.Equal(t, uint32(1), s.optionIsNone(none))
	assert.Equal(t, uint32(1), s.optionIsNone(s.optionNew(HandleUndefined)))
	assert.Equal(t, uint32(1), s.optionIsSome(s.optionNew(s.newBool(0))), "false is present")

	ptr, n := g.place("double")
	mapped := s.optionMap(ctx, g, some, ptr, n)
	assert.Equal(t, int64(42), s.asI64(s.optionUnwrapOr(mapped, HandleNull)))
	assert.Equal(t, uint32(1), s.optionIsNone(s.optionMap(ctx, g, none, ptr, n)))

	ptr, n = g.place("fails")
	assert.Equal(t, uint32(1), s.optionIsNone(s.optionMap(ctx, g, some, ptr, n)))
	assert.Equal(t, uint32(0), s.optionIsSomeAnd(ctx, g, some, ptr, n))
	assert.Equal(t, uint32(0), s.optionIsNoneOr(ctx, g, some, ptr, n))
	assert.Equal(t, uint32(1), s.optionIsNoneOr(ctx, g, none, ptr, n))

	ptr, n = g.place("no_results")
	assert.Equal(t, uint32(1), s.optionIsNone(s.optionMap(ctx, g, some, ptr, n)))

	ptr, n = g.place("to_undefined")
	assert.Equal(t, uint32(1), s.optionIsNone(s.optionMap(ctx, g, some, ptr, n)))

	ptr, n = g.place("positive")
	assert.Equal(t, uint32(1), s.optionIsSomeAnd(ctx, g, some, ptr, n))
	assert.Equal(t, uint32(0), s.optionIsNoneOr(ctx, g, some, ptr, n))

	assert.Equal(t, HandleNull, s.optionUnwrapOrDefault(none))
	assert.Equal(t, int64(21), s.asI64(s.optionUnwrapOrDefault(some)))

	ptr, n = g.place("seven")
	assert.Equal(t, int64(7), s.asI64(s.optionUnwrapOrElse(ctx, g, none, ptr, n)))
	assert.Equal(t, int64(21), s.asI64(s.optionUnwrapOrElse(ctx, g, some, ptr, n)))

	ptr, n = g.place("fails")
	assert.Panics(t, func() { s.optionUnwrapOrElse(ctx, g, none, ptr, n) })

	s.optionDrop(none)
	assert.Panics(t, func() { s.optionIsSome(none) }, "dropped handles trap")
}

func TestUnreadableCallableName(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	g := newFakeGuest(s)
	some := s.optionNew(s.newI64(1))
	assert.Equal(t, uint32(0), s.optionIsSomeAnd(ctx, g, some, 250, 100))
}

func TestResultOperations(t *testing.T) {
	ctx := context.Background()
	s := newSession()
	g := newFakeGuest(s)

	ok := s.resultNew(s.newI64(5))
	bad := s.resultNew(HandleUndefined)
	assert.Equal(t, uint32(1), s.resultIsOk(ok))
	assert.Equal(t, uint32(1), s.resultIsErr(bad))

	ptr, n := g.place("positive")
	assert.Equal(t, uint32(1), s.resultIsOkAnd(ctx, g, ok, ptr, n))
	assert.Equal(t, uint32(0), s.resultIsErrAnd(ctx, g, ok, ptr, n))

	ptr, n = g.place("to_null")
	assert.Equal(t, uint32(0), s.resultIsErrAnd(ctx, g, bad, ptr, n), "null is not a boolean")

	ptr, n = g.place("double")
	doubled := s.resultMapOk(ctx, g, ok, ptr, n)
	assert.Equal(t, uint32(1), s.resultIsOk(doubled))
	assert.Equal(t, int64(10), s.asI64(s.resultMapOr(ctx, g, ok, HandleNull, ptr, n)))
	assert.Equal(t, HandleNull, s.resultMapOr(ctx, g, bad, HandleNull, ptr, n))
	assert.Equal(t, uint32(1), s.resultIsErr(s.resultMapOk(ctx, g, bad, ptr, n)))
	assert.Equal(t, uint32(1), s.resultIsErr(s.resultMapErr(ctx, g, ok, ptr, n)))

	ptr, n = g.place("describe")
	described := s.resultMapErr(ctx, g, bad, ptr, n)
	assert.Equal(t, uint32(1), s.resultIsOk(described))
	opt := s.resultOk(described)
	assert.Equal(t, "error was null", s.mustValue(s.optionUnwrapOr(opt, HandleNull)))
	assert.Panics(t, func() { s.resultIsOk(described) }, "ok() consumes the result")

	fallback := s.putValue("fallback")
	recovered := s.resultMapErrOr(ctx, g, bad, ptr, n, fallback)
	assert.Equal(t, "error was null", s.mustValue(s.optionUnwrapOr(s.resultOk(recovered), HandleNull)))
	fromOk := s.resultMapErrOr(ctx, g, ok, ptr, n, fallback)
	assert.Equal(t, "fallback", s.mustValue(s.optionUnwrapOr(s.resultOk(fromOk), HandleNull)))

	ptr, n = g.place("fails")
	assert.Equal(t, HandleNull, s.resultMapOr(ctx, g, ok, s.newI64(3), ptr, n))
	failed := s.resultMapErrOr(ctx, g, bad, ptr, n, fallback)
	assert.Equal(t, uint32(1), s.resultIsOk(failed))

	errOpt := s.resultErr(bad)
	assert.Equal(t, uint32(1), s.optionIsNone(errOpt), "constructed Err holds null")

	s.resultDrop(ok)
	assert.Panics(t, func() { s.resultDrop(ok) })
}
