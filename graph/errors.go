package graph

import (
	"errors"
	"fmt"

	"github.com/segmentedscope/actors/channel"
)

// ShutdownError is returned by an actor's task when its run-loop ended
// for one of the three ordinary graph-shutdown reasons (spec.md §7):
// an upstream producer signalled end-of-stream (Disconnected), or either
// side of a channel vanished unexpectedly (DropRecv/DropSend). Model.Wait
// classifies these as normal completion and logs them instead of
// failing the run.
type ShutdownError struct {
	Kind string // "disconnected", "drop_recv", or "drop_send"
	Msg  string
}

func (e *ShutdownError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func asShutdown(err error, portName string) error {
	switch {
	case errors.Is(err, channel.ErrDisconnected):
		return &ShutdownError{Kind: "disconnected", Msg: portName}
	case errors.Is(err, channel.ErrDropRecv):
		return &ShutdownError{Kind: "drop_recv", Msg: portName}
	case errors.Is(err, channel.ErrDropSend):
		return &ShutdownError{Kind: "drop_send", Msg: portName}
	default:
		return err
	}
}

// IsShutdown reports whether err is one of the three ordinary shutdown
// causes, as opposed to a fatal runtime error.
func IsShutdown(err error) bool {
	var s *ShutdownError
	return errors.As(err, &s)
}

// CheckError is returned by Unknown.Check when the graph fails
// structural validation (spec.md §7's Construction error kind).
type CheckError struct {
	Reason string
	Actor  string
	Port   string
}

func (e *CheckError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("graph check failed: %s (actor %q, port %q)", e.Reason, e.Actor, e.Port)
	}
	return fmt.Sprintf("graph check failed: %s (actor %q)", e.Reason, e.Actor)
}

// OrphanOutputError is returned by Ok() when a multiplexed output still
// has unassigned fan-out receivers (spec.md §4.7, §8 scenario 4).
type OrphanOutputError struct {
	Actor  string
	Output string
}

func (e *OrphanOutputError) Error() string {
	return fmt.Sprintf("orphan output %q on actor %q: not all multiplexed receivers were attached", e.Output, e.Actor)
}

// PanicError wraps a recovered panic from client code (spec.md §7's
// "client-internal panic" fatal runtime kind), grounded on the
// teacher's vertex.go recover() wrapping: a client's Read/Write/Update
// panicking is caught at the call site and turned into an ordinary
// error the run-loop can propagate, rather than crashing the whole
// process the way an unrecovered goroutine panic would.
type PanicError struct {
	Step  string // "read", "write", or "update"
	Actor string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("client panic during %s (actor %q): %v", e.Step, e.Actor, e.Value)
}

// guardPanic runs fn, recovering any panic into a *PanicError rather
// than letting it unwind past the actor's task goroutine.
func guardPanic(step, actor string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Step: step, Actor: actor, Value: r}
		}
	}()
	fn()
	return nil
}
