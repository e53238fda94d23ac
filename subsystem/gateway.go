// Package subsystem implements the system composer (spec.md §4.9): a
// group of actors sharing one gateway-crossing payload type can be
// embedded inside a larger graph behind an input gateway and an output
// gateway, each addressed by the rest of the graph exactly like any
// other actor's ports.
//
// The Rust source binds each external port to its internal slot index
// through a compile-time marker trait. Go has no const generics to
// express that binding as a type, so each slot is instead addressed by
// a small per-index adapter value (gatewaySlot) handed out by
// InputGateway/OutputGateway — the index lives on the adapter, not on
// the port identifier.
package subsystem

import (
	"sync"

	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/graph"
	"github.com/segmentedscope/actors/port"
)

// GatewayPort is the single port identifier shared by every edge that
// crosses a subsystem's boundary, since spec.md §4.9 requires one
// common payload datatype per gateway.
type GatewayPort[T any] struct{}

func (GatewayPort[T]) PortNumber() uint32 { return port.DefaultPortNumber }

type slotStore[T any] struct {
	mu    sync.Mutex
	slots []port.Data[GatewayPort[T], T]
}

func newSlotStore[T any](n int) *slotStore[T] {
	return &slotStore[T]{slots: make([]port.Data[GatewayPort[T], T], n)}
}

func (s *slotStore[T]) set(idx int, d port.Data[GatewayPort[T], T]) {
	s.mu.Lock()
	s.slots[idx] = d
	s.mu.Unlock()
}

func (s *slotStore[T]) get(idx int) port.Data[GatewayPort[T], T] {
	s.mu.Lock()
	d := s.slots[idx]
	s.mu.Unlock()
	return d
}

// gatewaySlot adapts one indexed slot of a gateway to the client.Reader
// and client.Writer interfaces a single port needs.
type gatewaySlot[T any] struct {
	store *slotStore[T]
	idx   int
}

func (g *gatewaySlot[T]) Read(d port.Data[GatewayPort[T], T]) { g.store.set(g.idx, d) }

// Write never signals end-of-stream on its own: an unfilled slot simply
// yields a zero-valued Data, the gateway's stand-in for a
// default-constructed payload.
func (g *gatewaySlot[T]) Write() (port.Data[GatewayPort[T], T], bool) {
	return g.store.get(g.idx), true
}

// InputGateway is the kernel-supplied client for a subsystem's input
// gateway actor: it stores each arriving external value by index and
// re-emits it to the matching internal consumer.
type InputGateway[T any] struct {
	store *slotStore[T]
}

// NewInputGateway allocates a gateway with n external/internal slots.
func NewInputGateway[T any](n int) *InputGateway[T] {
	return &InputGateway[T]{store: newSlotStore[T](n)}
}

// Update is a no-op; the gateway only relays values.
func (g *InputGateway[T]) Update() {}

// ExternalReader returns the client.Reader the outer graph attaches as
// the consumer of the external producer feeding slot idx.
func (g *InputGateway[T]) ExternalReader(idx int) client.Reader[GatewayPort[T], T] {
	return &gatewaySlot[T]{store: g.store, idx: idx}
}

// InternalWriter returns the client.Writer used to wire slot idx to its
// internal consumer.
func (g *InputGateway[T]) InternalWriter(idx int) client.Writer[GatewayPort[T], T] {
	return &gatewaySlot[T]{store: g.store, idx: idx}
}

// OutputGateway is the symmetric client for a subsystem's output
// gateway actor: internal producers write into slots by index, and the
// outer graph reads them back out by index.
type OutputGateway[T any] struct {
	store *slotStore[T]
}

// NewOutputGateway allocates a gateway with n internal/external slots.
func NewOutputGateway[T any](n int) *OutputGateway[T] {
	return &OutputGateway[T]{store: newSlotStore[T](n)}
}

func (g *OutputGateway[T]) Update() {}

// InternalReader returns the client.Reader an internal producer at
// index idx writes its result into.
func (g *OutputGateway[T]) InternalReader(idx int) client.Reader[GatewayPort[T], T] {
	return &gatewaySlot[T]{store: g.store, idx: idx}
}

// ExternalWriter returns the client.Writer the outer graph attaches as
// the producer feeding the external consumer of slot idx.
func (g *OutputGateway[T]) ExternalWriter(idx int) client.Writer[GatewayPort[T], T] {
	return &gatewaySlot[T]{store: g.store, idx: idx}
}

// InnerConsumer names one internal actor/reader pair that should
// receive the input gateway's slot idx (its position in the slice
// passed to Build).
type InnerConsumer[T any] struct {
	Actor  *graph.Actor
	Reader client.Reader[GatewayPort[T], T]
}

// InnerProducer names one internal actor/writer pair whose output
// should land in the output gateway's matching slot.
type InnerProducer[T any] struct {
	Actor  *graph.Actor
	Writer client.Writer[GatewayPort[T], T]
}

// SubSystem groups an inner graph behind an input and an output
// gateway actor, both addressable from the embedding graph like any
// other actor (spec.md §4.9).
type SubSystem[T any] struct {
	Name            string
	InGatewayActor  *graph.Actor
	OutGatewayActor *graph.Actor

	inGW  *InputGateway[T]
	outGW *OutputGateway[T]
	inner *graph.Unknown
}

// New declares a subsystem over an already-assembled inner graph, with
// nIn external inputs and nOut external outputs, all of payload type T.
func New[T any](name string, inner *graph.Unknown, nIn, nOut int) *SubSystem[T] {
	inGW := NewInputGateway[T](nIn)
	outGW := NewOutputGateway[T](nOut)
	return &SubSystem[T]{
		Name:            name,
		InGatewayActor:  graph.NewActor(name+".in-gateway", uint(nIn), uint(nIn), inGW),
		OutGatewayActor: graph.NewActor(name+".out-gateway", uint(nOut), uint(nOut), outGW),
		inGW:            inGW,
		outGW:           outGW,
		inner:           inner,
	}
}

// ExternalInputReader exposes slot idx of the input gateway so the
// embedding graph can wire an outer producer's output straight into it.
func (s *SubSystem[T]) ExternalInputReader(idx int) client.Reader[GatewayPort[T], T] {
	return s.inGW.ExternalReader(idx)
}

// ExternalOutputWriter exposes slot idx of the output gateway so the
// embedding graph can wire it as an outer producer for some consumer.
func (s *SubSystem[T]) ExternalOutputWriter(idx int) client.Writer[GatewayPort[T], T] {
	return s.outGW.ExternalWriter(idx)
}

// Build wires every gateway slot to its declared internal consumer or
// producer and flattens the subsystem into a single Model<Unknown>
// holding the inner actors plus the two gateway actors — the Go stand-in
// for the Rust source's `From<SubSystem> for Model<Unknown>`.
func (s *SubSystem[T]) Build(consumers []InnerConsumer[T], producers []InnerProducer[T]) (*graph.Unknown, error) {
	for i, c := range consumers {
		if err := graph.AddOutput[GatewayPort[T]](s.InGatewayActor, s.inGW.InternalWriter(i)).
			Build().IntoInput(c.Actor, c.Reader).Ok(); err != nil {
			return nil, err
		}
	}
	for i, p := range producers {
		if err := graph.AddOutput[GatewayPort[T]](p.Actor, p.Writer).
			Build().IntoInput(s.OutGatewayActor, s.outGW.InternalReader(i)).Ok(); err != nil {
			return nil, err
		}
	}
	return s.inner.Add(s.InGatewayActor, s.OutGatewayActor), nil
}
