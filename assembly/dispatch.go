// Package assembly implements the fan-out/fan-in dispatch pair used to
// wire a whole-assembly port (e.g. the flat force vector driving a
// segmented mirror) to one independent sub-actor per segment, and back
// (spec.md §4.10). DispatchIn/DispatchOut are ordinary NI=NO=1 actors
// with several same-rate ports; no special scheduling is needed beyond
// the stock collect/update/distribute loop in package graph.
package assembly

import (
	"sync"

	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/port"
)

// WholePort is the identifier for the single whole-assembly edge a
// dispatch pair exposes to the rest of the graph.
type WholePort[T any] struct{}

func (WholePort[T]) PortNumber() uint32 { return port.DefaultPortNumber }

// SegmentPort is the identifier shared by every per-segment edge; the
// segment index lives on the per-slot adapter, not on the type, for the
// same reason subsystem.GatewayPort does (Go has no const generics to
// carry k at the type level the way Assembly::position::<k>() does).
type SegmentPort[T any] struct{}

func (SegmentPort[T]) PortNumber() uint32 { return port.DefaultPortNumber }

// Position returns the segment index addressed by dispatch slot k. It
// exists so call sites read the same way the derive-generated
// Assembly::position::<k>() helper does in the original notation, even
// though in Go it is the identity function.
func Position(k int) int { return k }

func split[T any](whole []T, n int) [][]T {
	if n <= 0 {
		return nil
	}
	shards := make([][]T, n)
	size := len(whole) / n
	for k := 0; k < n; k++ {
		start := k * size
		end := start + size
		if k == n-1 {
			end = len(whole)
		}
		if start < end && start < len(whole) {
			if end > len(whole) {
				end = len(whole)
			}
			shards[k] = append([]T(nil), whole[start:end]...)
		}
	}
	return shards
}

// DispatchIn decomposes one whole-assembly vector, delivered on its
// single input, into n segment shards handed out one per segment
// output.
type DispatchIn[T any] struct {
	mu     sync.Mutex
	n      int
	shards [][]T
}

// NewDispatchIn allocates a dispatcher splitting its whole input into n
// shards of len/n elements each, the last shard also taking the
// remainder.
func NewDispatchIn[T any](n int) *DispatchIn[T] {
	return &DispatchIn[T]{n: n}
}

func (d *DispatchIn[T]) Update() {}

// Read implements client.Reader[WholePort[T], []T].
func (d *DispatchIn[T]) Read(whole port.Data[WholePort[T], []T]) {
	d.mu.Lock()
	d.shards = split(whole.Into(), d.n)
	d.mu.Unlock()
}

// SegmentWriter returns the client.Writer for segment k's output port.
func (d *DispatchIn[T]) SegmentWriter(k int) client.Writer[SegmentPort[T], []T] {
	return &dispatchInSlot[T]{d: d, k: k}
}

type dispatchInSlot[T any] struct {
	d *DispatchIn[T]
	k int
}

func (s *dispatchInSlot[T]) Write() (port.Data[SegmentPort[T], []T], bool) {
	s.d.mu.Lock()
	var shard []T
	if s.k >= 0 && s.k < len(s.d.shards) {
		shard = s.d.shards[s.k]
	}
	s.d.mu.Unlock()
	return port.New[SegmentPort[T]](shard), true
}

// DispatchOut is the mirror operation: n segment inputs are collected
// by index and concatenated into one whole-assembly output.
type DispatchOut[T any] struct {
	mu     sync.Mutex
	shards [][]T
}

// NewDispatchOut allocates a dispatcher collecting n segment shards.
func NewDispatchOut[T any](n int) *DispatchOut[T] {
	return &DispatchOut[T]{shards: make([][]T, n)}
}

func (d *DispatchOut[T]) Update() {}

// SegmentReader returns the client.Reader for segment k's input port.
func (d *DispatchOut[T]) SegmentReader(k int) client.Reader[SegmentPort[T], []T] {
	return &dispatchOutSlot[T]{d: d, k: k}
}

type dispatchOutSlot[T any] struct {
	d *DispatchOut[T]
	k int
}

func (s *dispatchOutSlot[T]) Read(d port.Data[SegmentPort[T], []T]) {
	s.d.mu.Lock()
	s.d.shards[s.k] = d.Into()
	s.d.mu.Unlock()
}

// Write implements client.Writer[WholePort[T], []T], concatenating the
// current segment shards in index order.
func (d *DispatchOut[T]) Write() (port.Data[WholePort[T], []T], bool) {
	d.mu.Lock()
	var whole []T
	for _, shard := range d.shards {
		whole = append(whole, shard...)
	}
	d.mu.Unlock()
	return port.New[WholePort[T]](whole), true
}
