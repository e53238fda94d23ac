package graph

import (
	"github.com/segmentedscope/actors/channel"
	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/port"
)

// OutputBuilder accumulates the fluent configuration of one output port
// before it is finalized with Build, mirroring the chain the teacher's
// own builder.go exposes for vertex wiring: add_output().unbounded()
// .bootstrap().multiplex(n).build::<U>() in the original notation.
type OutputBuilder[U port.Identifier[T], T any] struct {
	actor     *Actor
	write     client.Writer[U, T]
	unbounded bool
	boot      bool
	n         int
}

// AddOutput begins building an output port of the given identifier type
// backed by w. Call Build to finalize once Unbounded/Bootstrap/Multiplex
// have been set as needed.
func AddOutput[U port.Identifier[T], T any](a *Actor, w client.Writer[U, T]) *OutputBuilder[U, T] {
	return &OutputBuilder[U, T]{actor: a, write: w, n: 1}
}

// Unbounded switches every fan-out channel of this output to the
// unbounded variant, for decoupled decimation or logging edges.
func (b *OutputBuilder[U, T]) Unbounded() *OutputBuilder[U, T] {
	b.unbounded = true
	return b
}

// Bootstrap marks this output to fire once, unconditionally, before its
// actor's run-loop proper begins, breaking a feedback cycle.
func (b *OutputBuilder[U, T]) Bootstrap() *OutputBuilder[U, T] {
	b.boot = true
	return b
}

// Multiplex fans this output out to n independent channels, one per
// eventual IntoInput call. Every branch must be attached before Ok, or
// Ok reports an orphan output.
func (b *OutputBuilder[U, T]) Multiplex(n int) *OutputBuilder[U, T] {
	if n < 1 {
		n = 1
	}
	b.n = n
	return b
}

// Pending is the finalized-but-unattached state of an output: its
// fan-out channels exist, and IntoInput consumes them one at a time to
// wire each to a consumer actor's input port.
type Pending[U port.Identifier[T], T any] struct {
	producer *Actor
	label    string
	h        uint64
	boot     bool
	txs      []*channel.Chan[U, T]
	pending  []*channel.Chan[U, T]
	sizer    client.Sizer[U, T]
}

// Build allocates this output's fan-out channels and registers the
// output port on its owning actor. The returned Pending must have every
// channel consumed via IntoInput before Ok.
func (b *OutputBuilder[U, T]) Build() *Pending[U, T] {
	label := port.Name[U, T]()
	h := edgeHash(b.actor.Name(), label)

	capacity := 0
	if b.unbounded {
		capacity = channel.Unbounded
	}
	txs := make([]*channel.Chan[U, T], b.n)
	for i := range txs {
		txs[i] = channel.New[U, T](capacity)
	}

	b.actor.addOutput(newOutput[U, T](txs, &b.actor.mu, b.write, label, h, b.boot, b.actor.Name()))

	pending := make([]*channel.Chan[U, T], len(txs))
	copy(pending, txs)
	sizer, _ := b.write.(client.Sizer[U, T])
	return &Pending[U, T]{producer: b.actor, label: label, h: h, boot: b.boot, txs: txs, pending: pending, sizer: sizer}
}

// IntoInput consumes one pending fan-out branch and attaches it as an
// input port of consumer, delivering into r. Returns the same Pending
// so further branches (under Multiplex) can be attached by chaining.
func (p *Pending[U, T]) IntoInput(consumer *Actor, r client.Reader[U, T]) *Pending[U, T] {
	if len(p.pending) == 0 {
		return p
	}
	ch := p.pending[0]
	p.pending = p.pending[1:]
	consumer.addInput(newInput[U, T](ch, &consumer.mu, r, p.label, p.h, consumer.Name()))
	return p
}

// LogN is the one-shot variant of IntoInput: it reserves size entries
// on consumer's client (when it implements client.Reserver) before
// attaching, matching spec.md §4.7's "logn(&mut logger, size) first
// allocates a log entry of the declared size on the target, then
// attaches."
func (p *Pending[U, T]) LogN(consumer *Actor, r client.Reader[U, T], size int) *Pending[U, T] {
	if rsv, ok := r.(client.Reserver); ok {
		rsv.Reserve(size)
	}
	return p.IntoInput(consumer, r)
}

// Log is LogN with the size inferred from the producer's Sizer, per
// spec.md §4.7 ("The size is inferred from the producer's Size<U> when
// using log"). If the producer's writer never declared a Sizer, no
// reservation happens and Log behaves exactly like IntoInput.
func (p *Pending[U, T]) Log(consumer *Actor, r client.Reader[U, T]) *Pending[U, T] {
	if p.sizer == nil {
		return p.IntoInput(consumer, r)
	}
	return p.LogN(consumer, r, p.sizer.Size())
}

// Ok finalizes the output, reporting an OrphanOutputError if any
// multiplexed branch was never attached via IntoInput (spec.md §8
// scenario 4).
func (p *Pending[U, T]) Ok() error {
	if len(p.pending) > 0 {
		return &OrphanOutputError{Actor: p.producer.Name(), Output: p.label}
	}
	return nil
}
