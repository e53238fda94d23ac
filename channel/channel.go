// Package channel implements the typed FIFO fabric that carries
// port.Data envelopes between actors (spec.md §3, §4.3): bounded
// channels that lock producer and consumer step for step at their
// default capacity of one message, and unbounded channels reserved for
// decoupled decimation/logging and the network transceiver's
// to-network queue.
package channel

import (
	"context"
	"errors"

	"github.com/segmentedscope/actors/port"
)

// ErrDisconnected is returned to a receiver once the producer side has
// signalled a clean end-of-stream (the Option::None sentinel).
var ErrDisconnected = errors.New("channel: disconnected")

// ErrDropSend is returned to a sender whose context is cancelled
// before the send completes. A receiver going away is not detected.
var ErrDropSend = errors.New("channel: send side dropped")

// ErrDropRecv is returned to a receiver whose context is cancelled, or
// whose unbounded channel was torn down, before a value arrives.
// Senders going away are not detected.
var ErrDropRecv = errors.New("channel: recv side dropped")

// envelope is the unit that actually travels down the native Go
// channel; end=true is the producer sentinel equivalent to Option::None
// in the Rust source, carried explicitly rather than overloading the Go
// channel's own close() so that send/close races stay observable.
type envelope[U port.Identifier[T], T any] struct {
	data port.Data[U, T]
	end  bool
}

// Unbounded is the sentinel capacity selecting an unbounded channel,
// playing the role of usize::MAX in the Rust source.
const Unbounded = -1

// Chan is a typed, many-producer/many-consumer FIFO. The kernel always
// uses it with exactly one consumer (one input port) and, through
// multiplexing, one or more independent producers feeding distinct
// Chan instances with the same payload.
type Chan[U port.Identifier[T], T any] struct {
	ch        chan envelope[U, T]
	unbounded bool
	in        chan envelope[U, T]
	closed    chan struct{}
}

// New creates a channel. capacity == Unbounded (or any capacity < 0)
// selects the unbounded variant; capacity == 0 behaves like the default
// bounded capacity of one in-flight message used throughout the kernel.
func New[U port.Identifier[T], T any](capacity int) *Chan[U, T] {
	if capacity < 0 {
		c := &Chan[U, T]{
			ch:        make(chan envelope[U, T]),
			unbounded: true,
			in:        make(chan envelope[U, T]),
			closed:    make(chan struct{}),
		}
		go c.pump()
		return c
	}
	if capacity == 0 {
		capacity = 1
	}
	return &Chan[U, T]{ch: make(chan envelope[U, T], capacity)}
}

// pump backs the unbounded variant with a growable slice buffer so a
// producer is never blocked on buffer space, only on the channel being
// closed.
func (c *Chan[U, T]) pump() {
	var queue []envelope[U, T]
	defer close(c.ch)
	for {
		if len(queue) == 0 {
			select {
			case e, ok := <-c.in:
				if !ok {
					return
				}
				queue = append(queue, e)
			case <-c.closed:
				return
			}
			continue
		}
		select {
		case e, ok := <-c.in:
			if !ok {
				return
			}
			queue = append(queue, e)
		case c.ch <- queue[0]:
			queue = queue[1:]
		case <-c.closed:
			return
		}
	}
}

// SendAsync yields while the buffer is full; it returns ErrDropSend if
// ctx is cancelled first.
func (c *Chan[U, T]) SendAsync(ctx context.Context, d port.Data[U, T]) error {
	return c.send(ctx, envelope[U, T]{data: d})
}

// Close signals a clean end-of-stream to the next receive, the channel
// analogue of a Write returning None.
func (c *Chan[U, T]) Close(ctx context.Context) error {
	return c.send(ctx, envelope[U, T]{end: true})
}

func (c *Chan[U, T]) send(ctx context.Context, e envelope[U, T]) error {
	target := c.ch
	if c.unbounded {
		target = c.in
	}
	select {
	case target <- e:
		return nil
	case <-ctx.Done():
		return ErrDropSend
	}
}

// RecvAsync yields while the buffer is empty and a sender exists. It
// returns ErrDisconnected on a clean end-of-stream and ErrDropRecv if
// the channel is torn down some other way (context cancellation).
func (c *Chan[U, T]) RecvAsync(ctx context.Context) (port.Data[U, T], error) {
	select {
	case e, ok := <-c.ch:
		if !ok {
			var zero port.Data[U, T]
			return zero, ErrDropRecv
		}
		if e.end {
			var zero port.Data[U, T]
			return zero, ErrDisconnected
		}
		return e.data, nil
	case <-ctx.Done():
		var zero port.Data[U, T]
		return zero, ErrDropRecv
	}
}

// TeardownUnbounded releases the background pump goroutine of an
// unbounded channel; bounded channels need no teardown.
func (c *Chan[U, T]) TeardownUnbounded() {
	if c.unbounded {
		close(c.closed)
	}
}
