package graph

import (
	"context"
	"sync"

	"github.com/segmentedscope/actors/channel"
	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/port"
)

// inputPort and outputPort are the non-generic faces every concrete,
// generic port implementation is stored behind so an Actor can hold a
// heterogeneous slice of them (spec.md §4.2's "dynamic dispatch for
// heterogeneous actors" note — Go has no trait objects, so an interface
// plays the same role the Rust source's boxed trait object does).
type inputPort interface {
	recv(ctx context.Context) error
	name() string
	hash() uint64
}

type outputPort interface {
	send(ctx context.Context) error
	name() string
	hash() uint64
	bootstrap() bool
	fanOut() int
}

// inputImpl is the concrete, typed input port: a channel to read from, a
// client.Reader to deliver into, and the actor's own state mutex. recv
// always completes the (possibly blocking) channel read before taking
// the lock, so a stalled input never holds up concurrent access to
// other ports' state — only the Read call itself is serialized against
// the actor's Update and other ports' Read/Write calls.
type inputImpl[U port.Identifier[T], T any] struct {
	ch    *channel.Chan[U, T]
	mu    *sync.Mutex
	read  client.Reader[U, T]
	label string
	h     uint64
	actor string
}

func newInput[U port.Identifier[T], T any](ch *channel.Chan[U, T], mu *sync.Mutex, r client.Reader[U, T], label string, h uint64, actor string) inputPort {
	return &inputImpl[U, T]{ch: ch, mu: mu, read: r, label: label, h: h, actor: actor}
}

func (p *inputImpl[U, T]) name() string { return p.label }
func (p *inputImpl[U, T]) hash() uint64 { return p.h }

func (p *inputImpl[U, T]) recv(ctx context.Context) error {
	d, err := p.ch.RecvAsync(ctx)
	if err != nil {
		return asShutdown(err, p.label)
	}
	p.mu.Lock()
	perr := guardPanic("read", p.actor, func() { p.read.Read(d) })
	p.mu.Unlock()
	return perr
}

// outputImpl is the concrete, typed output port: zero or more transmit
// channels (more than one once multiplex fans a value out to several
// consumers) sharing a single client.Writer. send takes the write under
// the actor's state lock — a Write call may legitimately read and
// mutate client state — then releases the lock before the potentially
// blocking broadcast, fanning the single produced value out to every
// tx concurrently and surfacing the first error any of them report.
type outputImpl[U port.Identifier[T], T any] struct {
	txs   []*channel.Chan[U, T]
	mu    *sync.Mutex
	write client.Writer[U, T]
	label string
	h     uint64
	boot  bool
	actor string
}

func newOutput[U port.Identifier[T], T any](txs []*channel.Chan[U, T], mu *sync.Mutex, w client.Writer[U, T], label string, h uint64, boot bool, actor string) outputPort {
	return &outputImpl[U, T]{txs: txs, mu: mu, write: w, label: label, h: h, boot: boot, actor: actor}
}

func (p *outputImpl[U, T]) name() string    { return p.label }
func (p *outputImpl[U, T]) hash() uint64    { return p.h }
func (p *outputImpl[U, T]) bootstrap() bool { return p.boot }
func (p *outputImpl[U, T]) fanOut() int     { return len(p.txs) }

func (p *outputImpl[U, T]) send(ctx context.Context) error {
	p.mu.Lock()
	var d port.Data[U, T]
	var ok bool
	perr := guardPanic("write", p.actor, func() { d, ok = p.write.Write() })
	p.mu.Unlock()
	if perr != nil {
		return perr
	}

	if !ok {
		for _, tx := range p.txs {
			_ = tx.Close(ctx)
		}
		return &ShutdownError{Kind: "disconnected", Msg: p.label}
	}

	if len(p.txs) == 1 {
		if err := p.txs[0].SendAsync(ctx, d); err != nil {
			return asShutdown(err, p.label)
		}
		return nil
	}

	results := make(chan error, len(p.txs))
	for _, tx := range p.txs {
		tx := tx
		go func() { results <- tx.SendAsync(ctx, d.Clone()) }()
	}
	var first error
	for range p.txs {
		if err := <-results; err != nil && first == nil {
			first = asShutdown(err, p.label)
		}
	}
	return first
}
