package graph

import (
	"context"
	"sync"

	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/internal/telemetry"
	"github.com/sirupsen/logrus"
)

// Actor is a runtime entity wrapping one client behind a fixed pair of
// compile-time rates (NI, NO) and its attached input/output ports
// (spec.md §4.3). Construct one with NewActor; attach ports with a
// Builder before the owning Model is checked.
type Actor struct {
	label   string
	ni, no  uint
	update  client.Updater
	mu      sync.Mutex
	inputs  []inputPort
	outputs []outputPort
	log     *logrus.Entry
}

// NewActor wraps a client behind fixed input/output rates. A zero NI
// makes the actor an initiator; a zero NO makes it a terminator; both
// zero makes it inert, and Ready.Run spawns no task for it.
func NewActor(label string, ni, no uint, update client.Updater) *Actor {
	return &Actor{
		label:  label,
		ni:     ni,
		no:     no,
		update: update,
		log:    logrus.WithField("actor", label),
	}
}

// Name returns the actor's human label, falling back to "actor" if
// none was given (mirrors the teacher's vertex naming fallback).
func (a *Actor) Name() string {
	if a.label == "" {
		return "actor"
	}
	return a.label
}

func (a *Actor) addInput(p inputPort)   { a.inputs = append(a.inputs, p) }
func (a *Actor) addOutput(p outputPort) { a.outputs = append(a.outputs, p) }

// inert reports whether the actor has both rates at zero, in which
// case Check skips its invariants and Ready.Run spawns no task for it.
func (a *Actor) inert() bool { return a.ni == 0 && a.no == 0 }

// inputsHashes and outputsHashes sum this actor's per-edge hashes and
// report the edge count, the per-actor contribution Model.Check
// accumulates into the graph-wide structural checksum (spec.md §4.5).
// A multiplexed output participates in one edge per fan-out branch, so
// its hash and count are weighted by fanOut to balance against the
// fanOut distinct consumer inputs it feeds.
func (a *Actor) inputsHashes() (sum uint64, count int) {
	for _, in := range a.inputs {
		sum += in.hash()
		count++
	}
	return sum, count
}

func (a *Actor) outputsHashes() (sum uint64, count int) {
	for _, out := range a.outputs {
		n := out.fanOut()
		sum += out.hash() * uint64(n)
		count += n
	}
	return sum, count
}

func (a *Actor) checkInvariants() error {
	if a.ni > 0 && len(a.inputs) == 0 {
		return &CheckError{Reason: "actor with NI>0 has no inputs", Actor: a.Name()}
	}
	if a.no > 0 && len(a.outputs) == 0 {
		return &CheckError{Reason: "actor with NO>0 has no outputs", Actor: a.Name()}
	}
	return nil
}

// collect runs one recv on every input port. Ports are read in
// declaration order; a shutdown on any port ends collect with that
// port's classified error.
func (a *Actor) collect(ctx context.Context) error {
	for _, in := range a.inputs {
		if err := in.recv(ctx); err != nil {
			return err
		}
	}
	return nil
}

// distribute runs one send on every output port.
func (a *Actor) distribute(ctx context.Context) error {
	for _, out := range a.outputs {
		if err := out.send(ctx); err != nil {
			return err
		}
	}
	return nil
}

// doUpdate runs the client's Update under the actor's state lock,
// recovering any panic into a *PanicError (spec.md §7's
// client-internal-panic fatal kind) rather than letting it crash the
// actor's task goroutine, grounded on the teacher's vertex.go
// recover() wrapping.
func (a *Actor) doUpdate(ctx context.Context) error {
	return a.step(ctx, "update", func(context.Context) error {
		a.mu.Lock()
		err := guardPanic("update", a.Name(), a.update.Update)
		a.mu.Unlock()
		return err
	})
}

// bootstrapFire sends once, unconditionally, on every output port whose
// bootstrap flag is set, before entering the run-loop proper. Per
// spec.md §9's open question, the client's Update is deliberately not
// called for this fire — the client's zero-value default is what the
// consumer receives on cycle 0.
func (a *Actor) bootstrapFire(ctx context.Context) error {
	for _, out := range a.outputs {
		if !out.bootstrap() {
			continue
		}
		if err := out.send(ctx); err != nil {
			return err
		}
	}
	return nil
}

// run is the task body spawned by Model.Run for every non-inert actor,
// branching on (NI, NO) exactly as spec.md §4.6 lays out. Any
// Disconnected/DropRecv/DropSend bubbling out of collect or distribute
// is ordinary graph shutdown: the run-loops return nil for it, and
// Running.Wait does not treat one returned from bootstrapFire as a
// failure either.
func (a *Actor) run(ctx context.Context) error {
	if err := a.bootstrapFire(ctx); err != nil {
		return err
	}
	hadBootstrap := a.anyBootstrap()

	switch {
	case a.ni == 0 && a.no > 0:
		return a.runInitiator(ctx)
	case a.ni > 0 && a.no == 0:
		return a.runTerminator(ctx)
	case a.ni > 0 && a.no > 0 && a.no >= a.ni:
		return a.runDecimation(ctx, hadBootstrap)
	case a.ni > 0 && a.no > 0:
		return a.runUpsampling(ctx)
	default:
		return nil // inert: never scheduled
	}
}

func (a *Actor) anyBootstrap() bool {
	for _, out := range a.outputs {
		if out.bootstrap() {
			return true
		}
	}
	return false
}

func (a *Actor) step(ctx context.Context, name string, fn func(context.Context) error) error {
	spanCtx, end := telemetry.Step(ctx, a.Name(), name)
	err := fn(spanCtx)
	end(err)
	return err
}

func (a *Actor) runInitiator(ctx context.Context) error {
	for {
		if err := a.doUpdate(ctx); err != nil {
			return err
		}
		if err := a.step(ctx, "distribute", a.distribute); err != nil {
			if IsShutdown(err) {
				a.log.WithError(err).Debug("initiator stopped")
				return nil
			}
			return err
		}
	}
}

func (a *Actor) runTerminator(ctx context.Context) error {
	for {
		if err := a.step(ctx, "collect", a.collect); err != nil {
			if IsShutdown(err) {
				a.log.WithError(err).Debug("terminator stopped")
				return nil
			}
			return err
		}
		if err := a.doUpdate(ctx); err != nil {
			return err
		}
	}
}

// runDecimation implements the NO>=NI branch: the client consumes
// NO/NI inputs per output it produces. When bootstrap did not already
// prime the downstream consumer, one extra unaveraged collect+update+
// distribute fires before the averaging loop proper (spec.md §9's
// second open question).
func (a *Actor) runDecimation(ctx context.Context, hadBootstrap bool) error {
	ratio := int(a.no / a.ni)
	if ratio < 1 {
		ratio = 1
	}

	if !hadBootstrap {
		if err := a.step(ctx, "collect", a.collect); err != nil {
			return a.shutdownOrErr(err)
		}
		if err := a.doUpdate(ctx); err != nil {
			return err
		}
		if err := a.step(ctx, "distribute", a.distribute); err != nil {
			return a.shutdownOrErr(err)
		}
	}

	for {
		for i := 0; i < ratio; i++ {
			if err := a.step(ctx, "collect", a.collect); err != nil {
				return a.shutdownOrErr(err)
			}
			if err := a.doUpdate(ctx); err != nil {
				return err
			}
		}
		if err := a.step(ctx, "distribute", a.distribute); err != nil {
			return a.shutdownOrErr(err)
		}
	}
}

// runUpsampling implements the NO<NI branch: one collect+update then
// NI/NO distributes, each re-invoking the client's Write so a client
// that buffers internally may refine or repeat the emitted value.
func (a *Actor) runUpsampling(ctx context.Context) error {
	ratio := int(a.ni / a.no)
	if ratio < 1 {
		ratio = 1
	}
	for {
		if err := a.step(ctx, "collect", a.collect); err != nil {
			return a.shutdownOrErr(err)
		}
		if err := a.doUpdate(ctx); err != nil {
			return err
		}
		for i := 0; i < ratio; i++ {
			if err := a.step(ctx, "distribute", a.distribute); err != nil {
				return a.shutdownOrErr(err)
			}
		}
	}
}

func (a *Actor) shutdownOrErr(err error) error {
	if IsShutdown(err) {
		a.log.WithError(err).Debug("actor stopped")
		return nil
	}
	return err
}
