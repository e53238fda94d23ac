package channel

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentedscope/actors/port"
)

type testID struct{ port.Default[int] }

func TestBoundedSendRecv(t *testing.T) {
	ctx := context.Background()
	c := New[testID, int](1)
	if err := c.SendAsync(ctx, port.New[testID](3)); err != nil {
		t.Fatalf("SendAsync: %v", err)
	}
	d, err := c.RecvAsync(ctx)
	if err != nil {
		t.Fatalf("RecvAsync: %v", err)
	}
	if d.Into() != 3 {
		t.Fatalf("got %d, want 3", d.Into())
	}
}

func TestDisconnected(t *testing.T) {
	ctx := context.Background()
	c := New[testID, int](1)
	if err := c.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	_, err := c.RecvAsync(ctx)
	if !errors.Is(err, ErrDisconnected) {
		t.Fatalf("got %v, want ErrDisconnected", err)
	}
}

func TestDropRecvOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New[testID, int](1)
	cancel()
	_, err := c.RecvAsync(ctx)
	if !errors.Is(err, ErrDropRecv) {
		t.Fatalf("got %v, want ErrDropRecv", err)
	}
}

func TestDropSendOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := New[testID, int](1)
	_ = c.SendAsync(context.Background(), port.New[testID](1)) // fill the buffer
	cancel()
	err := c.SendAsync(ctx, port.New[testID](2))
	if !errors.Is(err, ErrDropSend) {
		t.Fatalf("got %v, want ErrDropSend", err)
	}
}

func TestUnbounded(t *testing.T) {
	ctx := context.Background()
	c := New[testID, int](Unbounded)
	defer c.TeardownUnbounded()

	for i := 0; i < 100; i++ {
		if err := c.SendAsync(ctx, port.New[testID](i)); err != nil {
			t.Fatalf("SendAsync(%d): %v", i, err)
		}
	}
	for i := 0; i < 100; i++ {
		d, err := c.RecvAsync(ctx)
		if err != nil {
			t.Fatalf("RecvAsync(%d): %v", i, err)
		}
		if d.Into() != i {
			t.Fatalf("got %d, want %d", d.Into(), i)
		}
	}
}
