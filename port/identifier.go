// Package port implements the compile-time port-identity scheme used to
// wire actor outputs to actor inputs: a port identifier is an uninhabited
// Go type tagging a payload type and an informational network port
// number, and Data is the reference-counted envelope that carries a
// payload tagged by its identifier through the channel fabric.
package port

import "sync/atomic"

// DefaultPortNumber is the network port number an identifier carries when
// none is declared explicitly.
const DefaultPortNumber uint32 = 50_000

// Identifier is implemented by every port-identity tag type. T is the
// payload type the identifier is bound to; identifier equality is by Go
// type identity alone, the port number is purely informational and is
// never used as a lookup key inside the kernel.
//
// Identifier tags are normally zero-size structs, e.g.:
//
//	type WindLoads struct{}
//	func (WindLoads) PortNumber() uint32 { return 51_003 }
type Identifier[T any] interface {
	// PortNumber reports the port used when this identifier is exposed
	// over the network transceiver or as a scope endpoint.
	PortNumber() uint32
}

// Default is an Identifier[T] with DataType T and the default port
// number; embed it to declare a new identifier without a custom port.
type Default[T any] struct{}

// PortNumber implements Identifier.
func (Default[T]) PortNumber() uint32 { return DefaultPortNumber }

// Data is a reference-counted envelope around a payload of type T, tagged
// at the type level by the identifier U. Construction is cheap; Clone
// only bumps a reference count, matching Rust's Arc<T> semantics even
// though the Go runtime's GC makes the counting advisory rather than a
// deallocation trigger.
type Data[U Identifier[T], T any] struct {
	id    U
	value *refCounted[T]
}

type refCounted[T any] struct {
	v   T
	_rc atomic.Int64
}

// New constructs a Data envelope wrapping v.
func New[U Identifier[T], T any](v T) Data[U, T] {
	rc := &refCounted[T]{v: v}
	rc._rc.Store(1)
	return Data[U, T]{value: rc}
}

// FromPointer wraps the payload v points to, mirroring the Rust
// `From<Arc<T>>` constructor. The value *v is copied into the envelope,
// so later assignments through v are not seen by it.
func FromPointer[U Identifier[T], T any](v *T) Data[U, T] {
	rc := &refCounted[T]{v: *v}
	rc._rc.Store(1)
	return Data[U, T]{value: rc}
}

// IsZero reports whether d was never constructed via New/FromPointer; a
// zero Data is the envelope-level stand-in for a default-constructed
// payload (used for bootstrap firings and gateway slot initialization).
func (d Data[U, T]) IsZero() bool { return d.value == nil }

// Clone bumps the reference count and returns a cheap copy that shares
// the same backing payload.
func (d Data[U, T]) Clone() Data[U, T] {
	if d.value != nil {
		d.value._rc.Add(1)
	}
	return d
}

// Value returns a pointer to the shared payload. Callers must not mutate
// it unless they are certain they hold the only reference.
func (d Data[U, T]) Value() *T {
	if d.value == nil {
		var zero T
		return &zero
	}
	return &d.value.v
}

// Into unwraps the envelope into its payload, copying it out.
func (d Data[U, T]) Into() T {
	return *d.Value()
}

// Transmute re-tags an envelope with a different identifier that shares
// the same payload type; it is zero-cost, used by aliasing and by
// reinterpreting data across sub-model gateway boundaries.
func Transmute[V Identifier[T], U Identifier[T], T any](d Data[U, T]) Data[V, T] {
	return Data[V, T]{value: d.value}
}

// Name returns the short type name of an identifier, used to compute
// edge hashes and in diagnostics (the Go stand-in for Rust's
// `type_name::<U>()` truncated to its last path segment).
func Name[U Identifier[T], T any]() string {
	var u U
	return typeName(u)
}
