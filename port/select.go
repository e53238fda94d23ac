package port

// selectPortStride is the fixed constant the port number is offset by,
// per selected index, to keep Select identities distinct (spec.md §3).
const selectPortStride uint32 = 1

// Selector marks a client that stores a full vector payload for some
// base identifier U and is willing to serve single-element Select[U,E]
// ports generically. A client opts in by embedding Selector and
// implementing nothing else; the kernel derives Select's Write for it
// through the Selecting adapter below, mirroring how the Rust
// `Select<T>` client reads the whole vector once and serves indexed
// writes from it.
type Selector interface{ selectorMarker() }

// Select is a derived identifier whose payload is still the vector type
// []E carried by the base identifier U, but whose Write only ever
// produces the single element at Index. The port number is offset by
// selectPortStride*Index to stay distinct from U and from other
// indices of the same base.
type Select[U Identifier[[]E], E any] struct {
	Index int
}

// PortNumber implements Identifier.
func (s Select[U, E]) PortNumber() uint32 {
	var u U
	return u.PortNumber() + selectPortStride*uint32(s.Index)
}

// Selecting adapts a client that already implements Write for the base
// identifier U into one that can also serve Select[U,E] at a fixed
// index, without the client writing any Select-specific code beyond
// implementing Selector.
type Selecting[U Identifier[[]E], E any] struct {
	// Source returns the current full vector for U, e.g. by delegating
	// to the client's own Write[U,[]E].
	Source func() (Data[U, []E], bool)
	Index  int
}

// Write produces the single-element payload at Index, or (zero, false)
// if the source is exhausted or the index is out of range.
func (s Selecting[U, E]) Write() (Data[Select[U, E], []E], bool) {
	d, ok := s.Source()
	if !ok {
		var zero Data[Select[U, E], []E]
		return zero, false
	}
	v := *d.Value()
	if s.Index < 0 || s.Index >= len(v) {
		var zero Data[Select[U, E], []E]
		return zero, false
	}
	return New[Select[U, E]]([]E{v[s.Index]}), true
}
