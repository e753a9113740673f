// Package wasmhost exposes adt.Option and adt.Result to WebAssembly guests
// running on wazero.
//
// Guests import the host module "adt". Boundary values and wrappers cross the
// boundary as i32 handles: value handle 0 is null and 0xFFFFFFFF is
// undefined. Callables are guest exports named by a (ptr, len) UTF-8 string
// in guest memory, with signature (i32) -> i32 for predicates and transforms
// and () -> i32 for producers.
package wasmhost

import (
	"context"
	"fmt"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// ModuleName is the import module name guests use.
const ModuleName = "adt"

// tracer traces with key 'wasmadt.wasmhost'.
func tracer() tracing.Trace {
	return tracing.Select("wasmadt.wasmhost")
}

// Host keeps one set of handle tables per guest module instance.
type Host struct {
	mu       sync.Mutex
	sessions map[api.Module]*session
}

func NewHost() *Host {
	return &Host{
		sessions: make(map[api.Module]*session),
	}
}

// HandleCounts reports the live handles a guest holds.
type HandleCounts struct {
	Values  int
	Options int
	Results int
}

func (h *Host) session(mod api.Module) *session {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[mod]
	if !ok {
		tracer().Debugf("new session for guest %q", mod.Name())
		s = newSession()
		h.sessions[mod] = s
	}
	return s
}

// Live returns the live handle counts of mod.
func (h *Host) Live(mod api.Module) HandleCounts {
	s := h.session(mod)
	return HandleCounts{
		Values:  s.values.Len(),
		Options: s.options.Len(),
		Results: s.results.Len(),
	}
}

// Release forgets every handle issued to mod. Call it once the guest is
// closed.
func (h *Host) Release(mod api.Module) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, mod)
}

// Instantiate registers the "adt" host module in r.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	b := r.NewHostModuleBuilder(ModuleName)
	for _, e := range h.exports() {
		b.NewFunctionBuilder().WithFunc(e.fn).Export(e.name)
	}
	mod, err := b.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate %s host module: %w", ModuleName, err)
	}
	return mod, nil
}

// MustInstantiate is like Instantiate but panics on error.
func (h *Host) MustInstantiate(ctx context.Context, r wazero.Runtime) api.Module {
	mod, err := h.Instantiate(ctx, r)
	if err != nil {
		panic(err)
	}
	return mod
}

type export struct {
	name string
	fn   any
}

func (h *Host) exports() []export {
	return []export{
		{"value.i64", func(ctx context.Context, mod api.Module, v int64) uint32 {
			return h.session(mod).newI64(v)
		}},
		{"value.f64", func(ctx context.Context, mod api.Module, v float64) uint32 {
			return h.session(mod).newF64(v)
		}},
		{"value.bool", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).newBool(v)
		}},
		{"value.string", func(ctx context.Context, mod api.Module, ptr, length uint32) uint32 {
			return h.session(mod).newString(moduleGuest{mod}, stringEncodingUTF8, ptr, length)
		}},
		{"value.string_utf16", func(ctx context.Context, mod api.Module, ptr, length uint32) uint32 {
			return h.session(mod).newString(moduleGuest{mod}, stringEncodingUTF16, ptr, length)
		}},
		{"value.string_latin1", func(ctx context.Context, mod api.Module, ptr, length uint32) uint32 {
			return h.session(mod).newString(moduleGuest{mod}, stringEncodingLatin1, ptr, length)
		}},
		{"value.as_i64", func(ctx context.Context, mod api.Module, v uint32) int64 {
			return h.session(mod).asI64(v)
		}},
		{"value.as_f64", func(ctx context.Context, mod api.Module, v uint32) float64 {
			return h.session(mod).asF64(v)
		}},
		{"value.as_bool", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).asBool(v)
		}},
		{"value.is_null", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).isNull(v)
		}},
		{"value.string_len", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).stringLen(stringEncodingUTF8, v)
		}},
		{"value.string_len_utf16", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).stringLen(stringEncodingUTF16, v)
		}},
		{"value.read_string", func(ctx context.Context, mod api.Module, v, ptr, limit uint32) uint32 {
			return h.session(mod).readStringInto(moduleGuest{mod}, stringEncodingUTF8, v, ptr, limit)
		}},
		{"value.read_string_utf16", func(ctx context.Context, mod api.Module, v, ptr, limit uint32) uint32 {
			return h.session(mod).readStringInto(moduleGuest{mod}, stringEncodingUTF16, v, ptr, limit)
		}},
		{"value.drop", func(ctx context.Context, mod api.Module, v uint32) {
			h.session(mod).dropValue(v)
		}},

		{"option.new", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).optionNew(v)
		}},
		{"option.is_some", func(ctx context.Context, mod api.Module, o uint32) uint32 {
			return h.session(mod).optionIsSome(o)
		}},
		{"option.is_none", func(ctx context.Context, mod api.Module, o uint32) uint32 {
			return h.session(mod).optionIsNone(o)
		}},
		{"option.is_some_and", func(ctx context.Context, mod api.Module, o, ptr, length uint32) uint32 {
			return h.session(mod).optionIsSomeAnd(ctx, moduleGuest{mod}, o, ptr, length)
		}},
		{"option.is_none_or", func(ctx context.Context, mod api.Module, o, ptr, length uint32) uint32 {
			return h.session(mod).optionIsNoneOr(ctx, moduleGuest{mod}, o, ptr, length)
		}},
		{"option.unwrap_or", func(ctx context.Context, mod api.Module, o, def uint32) uint32 {
			return h.session(mod).optionUnwrapOr(o, def)
		}},
		{"option.unwrap_or_else", func(ctx context.Context, mod api.Module, o, ptr, length uint32) uint32 {
			return h.session(mod).optionUnwrapOrElse(ctx, moduleGuest{mod}, o, ptr, length)
		}},
		{"option.unwrap_or_default", func(ctx context.Context, mod api.Module, o uint32) uint32 {
			return h.session(mod).optionUnwrapOrDefault(o)
		}},
		{"option.map", func(ctx context.Context, mod api.Module, o, ptr, length uint32) uint32 {
			return h.session(mod).optionMap(ctx, moduleGuest{mod}, o, ptr, length)
		}},
		{"option.drop", func(ctx context.Context, mod api.Module, o uint32) {
			h.session(mod).optionDrop(o)
		}},

		{"result.new", func(ctx context.Context, mod api.Module, v uint32) uint32 {
			return h.session(mod).resultNew(v)
		}},
		{"result.is_ok", func(ctx context.Context, mod api.Module, r uint32) uint32 {
			return h.session(mod).resultIsOk(r)
		}},
		{"result.is_err", func(ctx context.Context, mod api.Module, r uint32) uint32 {
			return h.session(mod).resultIsErr(r)
		}},
		{"result.is_ok_and", func(ctx context.Context, mod api.Module, r, ptr, length uint32) uint32 {
			return h.session(mod).resultIsOkAnd(ctx, moduleGuest{mod}, r, ptr, length)
		}},
		{"result.is_err_and", func(ctx context.Context, mod api.Module, r, ptr, length uint32) uint32 {
			return h.session(mod).resultIsErrAnd(ctx, moduleGuest{mod}, r, ptr, length)
		}},
		{"result.ok", func(ctx context.Context, mod api.Module, r uint32) uint32 {
			return h.session(mod).resultOk(r)
		}},
		{"result.err", func(ctx context.Context, mod api.Module, r uint32) uint32 {
			return h.session(mod).resultErr(r)
		}},
		{"result.map_ok", func(ctx context.Context, mod api.Module, r, ptr, length uint32) uint32 {
			return h.session(mod).resultMapOk(ctx, moduleGuest{mod}, r, ptr, length)
		}},
		{"result.map_err", func(ctx context.Context, mod api.Module, r, ptr, length uint32) uint32 {
			return h.session(mod).resultMapErr(ctx, moduleGuest{mod}, r, ptr, length)
		}},
		{"result.map_or", func(ctx context.Context, mod api.Module, r, def, ptr, length uint32) uint32 {
			return h.session(mod).resultMapOr(ctx, moduleGuest{mod}, r, def, ptr, length)
		}},
		{"result.map_err_or", func(ctx context.Context, mod api.Module, r, ptr, length, def uint32) uint32 {
			return h.session(mod).resultMapErrOr(ctx, moduleGuest{mod}, r, ptr, length, def)
		}},
		{"result.drop", func(ctx context.Context, mod api.Module, r uint32) {
			h.session(mod).resultDrop(r)
		}},
	}
}
