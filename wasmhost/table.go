package wasmhost

const maxTableSize = 1 << 28

// Table maps uint32 handles to entries. Index 0 is never handed out.
type Table[T any] struct {
	entries []tableEntry[T]
	free    []uint32
	live    int
	limit   uint32
}

func newTable[T any]() *Table[T] {
	return &Table[T]{
		entries: []tableEntry[T]{
			{
				set: false,
			},
		},
		limit: maxTableSize,
	}
}

// Add stores entry and returns its handle. It panics once the table holds
// its limit of entries, leaving the table unchanged.
func (t *Table[T]) Add(entry T) uint32 {
	if len(t.free) > 0 {
		idx := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.entries[idx] = tableEntry[T]{
			value: entry,
			set:   true,
		}
		t.live++
		return idx
	}
	idx := uint32(len(t.entries))
	if idx >= t.limit {
		panic("table size exceeded")
	}
	t.entries = append(t.entries, tableEntry[T]{
		value: entry,
		set:   true,
	})
	t.live++
	return idx
}

func (t *Table[T]) Lookup(idx uint32) (T, bool) {
	if idx >= uint32(len(t.entries)) || !t.entries[idx].set {
		var zero T
		return zero, false
	}
	return t.entries[idx].value, true
}

func (t *Table[T]) Get(idx uint32) T {
	v, ok := t.Lookup(idx)
	if !ok {
		panic(errInvalidHandle(idx))
	}
	return v
}

func (t *Table[T]) Remove(idx uint32) T {
	v, ok := t.Release(idx)
	if !ok {
		panic(errInvalidHandle(idx))
	}
	return v
}

// Release removes idx if it is set and reports whether it was.
func (t *Table[T]) Release(idx uint32) (T, bool) {
	v, ok := t.Lookup(idx)
	if !ok {
		return v, false
	}
	var zero T
	t.entries[idx] = tableEntry[T]{set: false, value: zero}
	t.free = append(t.free, idx)
	t.live--
	return v, true
}

// Len returns the number of live entries.
func (t *Table[T]) Len() int {
	return t.live
}

type tableEntry[T any] struct {
	value T
	set   bool
}
