package wasmhost

import (
	"context"
	"fmt"
	"math"
	"reflect"

	"github.com/partite-ai/wasmadt/adt"
	"github.com/partite-ai/wasmadt/boundary"
)

// Reserved value handles for the two absence sentinels.
const (
	HandleNull      uint32 = 0
	HandleUndefined uint32 = math.MaxUint32
)

// session holds the handles issued to one guest module instance.
type session struct {
	values  *Table[boundary.Value]
	options *Table[adt.Option]
	results *Table[adt.Result]
}

func newSession() *session {
	return &session{
		values:  newTable[boundary.Value](),
		options: newTable[adt.Option](),
		results: newTable[adt.Result](),
	}
}

// putValue issues a handle for v. The sentinels map to their reserved
// handles and are never stored.
func (s *session) putValue(v boundary.Value) uint32 {
	switch {
	case boundary.IsNull(v):
		return HandleNull
	case boundary.IsUndefined(v):
		return HandleUndefined
	}
	return s.values.Add(v)
}

func (s *session) value(h uint32) (boundary.Value, error) {
	switch h {
	case HandleNull:
		return boundary.Null, nil
	case HandleUndefined:
		return boundary.Undefined, nil
	}
	v, ok := s.values.Lookup(h)
	if !ok {
		return nil, errInvalidHandle(h)
	}
	return v, nil
}

func (s *session) mustValue(h uint32) boundary.Value {
	v, err := s.value(h)
	if err != nil {
		panic(err)
	}
	return v
}

func (s *session) releaseValue(h uint32) {
	if h == HandleNull || h == HandleUndefined {
		return
	}
	s.values.Release(h)
}

// callable resolves the export name at ptr. An unreadable name yields a nil
// callable, which fails when invoked like any other non-callable.
func (s *session) callable(g guest, ptr, length uint32) boundary.Callable {
	name, err := readString(g, stringEncodingUTF8, ptr, length)
	if err != nil {
		tracer().Debugf("callable name: %v", err)
		return nil
	}
	return &guestCallable{s: s, g: g, name: name}
}

// --- values ----------------------------------------------------------------

func (s *session) newI64(v int64) uint32 {
	return s.putValue(v)
}

func (s *session) newF64(v float64) uint32 {
	return s.putValue(v)
}

func (s *session) newBool(v uint32) uint32 {
	return s.putValue(v != 0)
}

func (s *session) newString(g guest, enc stringEncoding, ptr, length uint32) uint32 {
	str, err := readString(g, enc, ptr, length)
	if err != nil {
		panic(err)
	}
	return s.putValue(str)
}

// asI64 converts numbers and booleans; anything else reads as 0.
func (s *session) asI64(h uint32) int64 {
	rv := reflect.ValueOf(s.mustValue(h))
	switch {
	case rv.CanInt():
		return rv.Int()
	case rv.CanUint():
		return int64(rv.Uint())
	case rv.CanFloat():
		return int64(rv.Float())
	case rv.Kind() == reflect.Bool:
		return int64(b2i(rv.Bool()))
	}
	return 0
}

func (s *session) asF64(h uint32) float64 {
	rv := reflect.ValueOf(s.mustValue(h))
	switch {
	case rv.CanInt():
		return float64(rv.Int())
	case rv.CanUint():
		return float64(rv.Uint())
	case rv.CanFloat():
		return rv.Float()
	}
	return math.NaN()
}

func (s *session) asBool(h uint32) uint32 {
	b, _ := boundary.AsBool(s.mustValue(h))
	return b2i(b)
}

func (s *session) isNull(h uint32) uint32 {
	return b2i(boundary.IsAbsent(s.mustValue(h)))
}

func (s *session) stringLen(enc stringEncoding, h uint32) uint32 {
	_, n, err := encodeString(enc, textOf(s.mustValue(h)))
	if err != nil {
		panic(err)
	}
	return n
}

// readStringInto copies at most limit units of the text of h to ptr and
// returns the number of units written.
func (s *session) readStringInto(g guest, enc stringEncoding, h, ptr, limit uint32) uint32 {
	encoded, n, err := encodeString(enc, textOf(s.mustValue(h)))
	if err != nil {
		panic(err)
	}
	unit := uint32(1)
	if enc == stringEncodingUTF16 {
		unit = 2
	}
	n = min(n, limit)
	if !g.write(ptr, encoded[:n*unit]) {
		panic(fmt.Errorf("%w: write of %d bytes at ptr %d", ErrMemoryAccess, n*unit, ptr))
	}
	return n
}

func (s *session) dropValue(h uint32) {
	if h == HandleNull || h == HandleUndefined {
		return
	}
	s.values.Remove(h)
}

// --- options ---------------------------------------------------------------

func (s *session) optionNew(h uint32) uint32 {
	return s.options.Add(adt.NewOption(s.mustValue(h)))
}

func (s *session) optionIsSome(o uint32) uint32 {
	return b2i(s.options.Get(o).IsSome())
}

func (s *session) optionIsNone(o uint32) uint32 {
	return b2i(s.options.Get(o).IsNone())
}

func (s *session) optionIsSomeAnd(ctx context.Context, g guest, o, ptr, length uint32) uint32 {
	return b2i(s.options.Get(o).IsSomeAnd(ctx, s.callable(g, ptr, length)))
}

func (s *session) optionIsNoneOr(ctx context.Context, g guest, o, ptr, length uint32) uint32 {
	return b2i(s.options.Get(o).IsNoneOr(ctx, s.callable(g, ptr, length)))
}

func (s *session) optionUnwrapOr(o, def uint32) uint32 {
	return s.putValue(s.options.Get(o).UnwrapOr(s.mustValue(def)))
}

// optionUnwrapOrElse traps the guest when the producer fails.
func (s *session) optionUnwrapOrElse(ctx context.Context, g guest, o, ptr, length uint32) uint32 {
	v, err := s.options.Get(o).UnwrapOrElse(ctx, s.callable(g, ptr, length))
	if err != nil {
		panic(err)
	}
	return s.putValue(v)
}

func (s *session) optionUnwrapOrDefault(o uint32) uint32 {
	return s.putValue(s.options.Get(o).UnwrapOrDefault())
}

func (s *session) optionMap(ctx context.Context, g guest, o, ptr, length uint32) uint32 {
	return s.options.Add(s.options.Get(o).Map(ctx, s.callable(g, ptr, length)))
}

func (s *session) optionDrop(o uint32) {
	s.options.Remove(o)
}

// --- results ---------------------------------------------------------------

func (s *session) resultNew(h uint32) uint32 {
	return s.results.Add(adt.NewResult(s.mustValue(h)))
}

func (s *session) resultIsOk(r uint32) uint32 {
	return b2i(s.results.Get(r).IsOk())
}

func (s *session) resultIsErr(r uint32) uint32 {
	return b2i(s.results.Get(r).IsErr())
}

func (s *session) resultIsOkAnd(ctx context.Context, g guest, r, ptr, length uint32) uint32 {
	return b2i(s.results.Get(r).IsOkAnd(ctx, s.callable(g, ptr, length)))
}

func (s *session) resultIsErrAnd(ctx context.Context, g guest, r, ptr, length uint32) uint32 {
	return b2i(s.results.Get(r).IsErrAnd(ctx, s.callable(g, ptr, length)))
}

// resultOk consumes r.
func (s *session) resultOk(r uint32) uint32 {
	return s.options.Add(s.results.Remove(r).Ok())
}

// resultErr consumes r.
func (s *session) resultErr(r uint32) uint32 {
	return s.options.Add(s.results.Remove(r).Err())
}

func (s *session) resultMapOk(ctx context.Context, g guest, r, ptr, length uint32) uint32 {
	return s.results.Add(s.results.Get(r).MapOk(ctx, s.callable(g, ptr, length)))
}

func (s *session) resultMapErr(ctx context.Context, g guest, r, ptr, length uint32) uint32 {
	return s.results.Add(s.results.Get(r).MapErr(ctx, s.callable(g, ptr, length)))
}

func (s *session) resultMapOr(ctx context.Context, g guest, r, def, ptr, length uint32) uint32 {
	return s.putValue(s.results.Get(r).MapOr(ctx, s.mustValue(def), s.callable(g, ptr, length)))
}

func (s *session) resultMapErrOr(ctx context.Context, g guest, r, ptr, length, def uint32) uint32 {
	return s.results.Add(s.results.Get(r).MapErrOr(ctx, s.callable(g, ptr, length), s.mustValue(def)))
}

func (s *session) resultDrop(r uint32) {
	s.results.Remove(r)
}

func b2i(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
