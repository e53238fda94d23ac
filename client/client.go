// Package client declares the only surfaces through which the kernel
// interacts with user-supplied client code (spec.md §6): Update, plus
// Read/Write/Size per port identifier a client participates in. The
// kernel never reflects over a client; every capability is reached by
// interface dispatch, resolved at the call sites in package graph.
package client

import "github.com/segmentedscope/actors/port"

// Updater advances a client's internal state once per actor firing.
// Every client a graph.Actor wraps must implement it, even if Update is
// a no-op (the common case for pure transceivers and loggers).
type Updater interface {
	Update()
}

// Reader accepts a Data[U,T] envelope, called exactly once per arrival
// on the corresponding input port.
type Reader[U port.Identifier[T], T any] interface {
	Read(port.Data[U, T])
}

// Writer produces the next envelope for an output port. ok=false is the
// Option::None stream-end sentinel: once a Writer reports ok=false the
// owning output port is considered disconnected and downstream
// consumers observe end-of-stream.
type Writer[U port.Identifier[T], T any] interface {
	Write() (port.Data[U, T], bool)
}

// Sizer optionally reports a scalar length for a port's payload, used by
// loggers to preallocate storage. A producer's Writer that
// also implements Sizer lets graph.Pending.Log infer a one-shot log
// entry's size instead of requiring it spelled out via LogN.
type Sizer[U port.Identifier[T], T any] interface {
	Size() int
}

// Reserver optionally preallocates storage for a declared number of
// entries before a one-shot log attachment. graph.Pending.LogN calls
// Reserve on the consumer, if it implements this, before wiring the
// edge; graph.Pending.Log does the same only when the producer's Writer
// implements Sizer.
type Reserver interface {
	Reserve(size int)
}
