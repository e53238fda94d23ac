package port

// Alias declares a new identifier whose payload type and port number
// mirror an existing identifier Base. It stands in for the derive
// facility's `alias(name = Other, ...)` attribute (spec.md §4.1): in
// Rust the derive emits trivial forwarding impls of Read/Write/Size by
// transmuting the envelope; in Go the same forwarding is expressed as
// free functions (ReadAlias/WriteAlias below) that a client calls from
// the Read/Write methods it serves for the alias identifier.
//
// Alias carries no state of its own and reports the same port number
// as Base. Being a distinct Go type, it is a distinct identifier (and
// hashes under its own name) while remaining payload-compatible.
type Alias[Base Identifier[T], T any] struct{}

// PortNumber implements Identifier by forwarding to Base's port number.
func (Alias[Base, T]) PortNumber() uint32 {
	var b Base
	return b.PortNumber()
}

// ReadAlias adapts a Data[Alias[Base,T],T] into the Data[Base,T] that a
// client's existing Read<Base> method expects, via a zero-cost
// transmute. Go has no method overloading, so the alias's Read lives on
// a small adapter that forwards to the client's existing Read:
//
//	type aliasReader struct{ c *Client }
//
//	func (a aliasReader) Read(d port.Data[MyAlias, []float64]) {
//	    a.c.Read(port.ReadAlias[WindLoads](d))
//	}
func ReadAlias[Base Identifier[T], T any, A Identifier[T]](d Data[A, T]) Data[Base, T] {
	return Transmute[Base](d)
}

// WriteAlias adapts the Data[Base,T] produced by a client's existing
// Write<Base> method into the Data[Alias[Base,T],T] an alias identifier
// requires, via a zero-cost transmute.
func WriteAlias[A Identifier[T], Base Identifier[T], T any](d Data[Base, T]) Data[A, T] {
	return Transmute[A](d)
}
