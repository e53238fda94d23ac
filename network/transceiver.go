package network

import (
	"bufio"
	"context"
	"fmt"
	"sync"
	"time"

	quic "github.com/quic-go/quic-go"
	"github.com/segmentedscope/actors/port"
	"github.com/sirupsen/logrus"
)

// connectTimeout bounds how long a Receiver waits for its Transmitter
// to dial in (spec.md §4.11).
const connectTimeout = 10 * time.Second

// Transmitter is a terminator client: Read opens one unidirectional
// QUIC stream per arriving envelope, serializes it onto that stream
// alone, and closes the stream — spec.md §4.11's "connection-oriented
// encrypted datagrams; unidirectional streams per frame" over a
// QUIC-equivalent transport. Close opens one final stream carrying the
// framed end-of-stream sentinel, then tears down the connection.
type Transmitter[U port.Identifier[T], T any] struct {
	conn  quic.Connection
	mu    sync.Mutex
	log   *logrus.Entry
	touch func()
}

// Monitor attaches a Monitor's per-link touch callback, invoked on
// every frame sent. Optional; a Transmitter works unmonitored.
func (t *Transmitter[U, T]) Monitor(touch func()) { t.touch = touch }

// DialTransmitter opens the QUIC connection to addr.
func DialTransmitter[U port.Identifier[T], T any](ctx context.Context, addr string, cfg TLSConfig) (*Transmitter[U, T], error) {
	tlsCfg, err := cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	conn, err := quic.DialAddr(ctx, addr, tlsCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("network: dial %s: %w", addr, err)
	}
	return &Transmitter[U, T]{
		conn: conn,
		log:  logrus.WithField("transceiver", "transmitter"),
	}, nil
}

// Update is a no-op; the transmitter only reacts to arriving values.
func (t *Transmitter[U, T]) Update() {}

// Read implements client.Reader[U, T], opening a fresh unidirectional
// stream and serializing d onto it alone.
func (t *Transmitter[U, T]) Read(d port.Data[U, T]) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := d.Into()
	if err := t.sendFrame(func(w *bufio.Writer) error { return encodeFrame(w, &v) }); err != nil {
		t.log.WithError(err).Error("send frame")
		return
	}
	if t.touch != nil {
		t.touch()
	}
}

func (t *Transmitter[U, T]) sendFrame(encode func(*bufio.Writer) error) error {
	st, err := t.conn.OpenUniStreamSync(context.Background())
	if err != nil {
		return fmt.Errorf("network: open stream: %w", err)
	}
	w := bufio.NewWriter(st)
	if err := encode(w); err != nil {
		_ = st.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = st.Close()
		return err
	}
	return st.Close()
}

// Close sends the end-of-stream sentinel on its own stream and closes
// the connection; call it once the terminator actor wrapping this
// Transmitter has finished (its input reported disconnected).
func (t *Transmitter[U, T]) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_ = t.sendFrame(func(w *bufio.Writer) error { return encodeEnd(w) })
	return t.conn.CloseWithError(0, "transmitter closed")
}

// Receiver is an initiator client: Write accepts the next stream the
// peer opens, decodes the single frame it carries, and yields the
// envelope; a connection close or the end-of-stream sentinel yields
// ok=false, triggering normal downstream shutdown.
type Receiver[U port.Identifier[T], T any] struct {
	conn  quic.Connection
	mu    sync.Mutex
	log   *logrus.Entry
	touch func()
}

// Monitor attaches a Monitor's per-link touch callback, invoked on
// every frame received. Optional; a Receiver works unmonitored.
func (r *Receiver[U, T]) Monitor(touch func()) { r.touch = touch }

// ListenReceiver opens the server side of the transport on addr and
// waits up to connectTimeout for the matching Transmitter to connect.
func ListenReceiver[U port.Identifier[T], T any](ctx context.Context, addr string, cfg TLSConfig) (*Receiver[U, T], error) {
	tlsCfg, err := cfg.ServerConfig()
	if err != nil {
		return nil, err
	}
	ln, err := quic.ListenAddr(addr, tlsCfg, nil)
	if err != nil {
		return nil, fmt.Errorf("network: listen %s: %w", addr, err)
	}
	defer ln.Close()

	acceptCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	connCh := make(chan quic.Connection, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept(acceptCtx)
		if err != nil {
			errCh <- err
			return
		}
		connCh <- conn
	}()

	select {
	case conn := <-connCh:
		return &Receiver[U, T]{conn: conn, log: logrus.WithField("transceiver", "receiver")}, nil
	case err := <-errCh:
		return nil, err
	case <-acceptCtx.Done():
		return nil, fmt.Errorf("network: timed out waiting for transmitter: %w", acceptCtx.Err())
	}
}

// Update is a no-op; the receiver only produces values on demand.
func (r *Receiver[U, T]) Update() {}

// Write implements client.Writer[U, T]. A closed or reset connection
// yields ok=false, ordinary shutdown; a frame that decodes to garbage
// is not something the link can recover from, so Write panics and lets
// the actor's guardPanic wrapping surface it as a fatal transceiver
// decode failure (spec.md §7) instead of silently ending the stream.
func (r *Receiver[U, T]) Write() (port.Data[U, T], bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, err := r.conn.AcceptUniStream(context.Background())
	if err != nil {
		r.log.WithError(err).Debug("accept stream")
		return port.Data[U, T]{}, false
	}

	var v T
	ok, err := decodeFrame(bufio.NewReader(st), &v)
	if err != nil {
		if isDecodeCorruption(err) {
			panic(err)
		}
		r.log.WithError(err).Debug("decode frame")
		return port.Data[U, T]{}, false
	}
	if !ok {
		return port.Data[U, T]{}, false
	}
	if r.touch != nil {
		r.touch()
	}
	return port.New[U](v), true
}

// Close releases the underlying connection.
func (r *Receiver[U, T]) Close() error { return r.conn.CloseWithError(0, "receiver closed") }
