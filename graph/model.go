package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Unknown is a Model being assembled: actors may still be added and
// wired. Check validates it into Ready; it is the only transition out
// of Unknown, mirroring the teacher's habit of keeping construction and
// validation as separate, non-reversible steps.
type Unknown struct {
	actors  []*Actor
	verbose bool
}

// NewModel begins assembling a graph from zero or more already-wired
// actors (spec.md §4.1's Model typestate).
func NewModel(actors ...*Actor) *Unknown {
	return &Unknown{actors: actors}
}

// Add attaches further actors to the graph while still Unknown.
func (u *Unknown) Add(actors ...*Actor) *Unknown {
	u.actors = append(u.actors, actors...)
	return u
}

// Verbose toggles per-firing debug logging once the graph is running.
func (u *Unknown) Verbose(v bool) *Unknown {
	u.verbose = v
	return u
}

// Join merges two graphs under construction into one, the Go stand-in
// for the Rust source's `+` operator overload on Model<Unknown>.
func Join(a, b *Unknown) *Unknown {
	return &Unknown{actors: append(append([]*Actor{}, a.actors...), b.actors...), verbose: a.verbose || b.verbose}
}

// Prepend adds actors before the existing set; order only affects
// diagnostic output, never scheduling, since every actor runs its own
// task.
func (u *Unknown) Prepend(actors ...*Actor) *Unknown {
	u.actors = append(append([]*Actor{}, actors...), u.actors...)
	return u
}

// Append is an alias for Add kept for symmetry with Prepend.
func (u *Unknown) Append(actors ...*Actor) *Unknown {
	return u.Add(actors...)
}

// Check skips inert actors, verifies that every other actor with NI>0
// has inputs and with NO>0 has outputs, then requires the total input
// count to equal the total (fan-out weighted) output count and the
// summed edge hashes to agree, and promotes the graph to Ready. It does
// not check rate ratios between connected actors or that every cycle
// carries a bootstrap output.
func (u *Unknown) Check() (*Ready, error) {
	var inSum, outSum uint64
	var inCount, outCount int

	for _, a := range u.actors {
		if a.inert() {
			continue
		}
		if err := a.checkInvariants(); err != nil {
			return nil, err
		}
		s, c := a.inputsHashes()
		inSum += s
		inCount += c
		s, c = a.outputsHashes()
		outSum += s
		outCount += c
	}

	if inCount != outCount {
		return nil, &CheckError{Reason: fmt.Sprintf(
			"port count mismatch: %d inputs, %d outputs", inCount, outCount)}
	}
	// spec.md §4.5: the kernel never walks the graph edge by edge to
	// confirm connectivity; it sums every output's edge hash and every
	// input's edge hash and requires the two sums to agree, after the
	// count check above has already ruled out a trivial count forgery.
	if inSum != outSum {
		return nil, &CheckError{Reason: "edge hash mismatch: structural checksum nonzero"}
	}

	return &Ready{actors: u.actors, verbose: u.verbose}, nil
}

// RunUnchecked skips Check and spawns tasks directly, the escape hatch
// for callers who already know their graph is sound (e.g. tests
// exercising a single hand-wired pair of actors).
func (u *Unknown) RunUnchecked(ctx context.Context) *Running {
	return (&Ready{actors: u.actors, verbose: u.verbose}).Run(ctx)
}

// Ready is a structurally validated graph. Run is its only transition,
// consuming it into Running.
type Ready struct {
	actors  []*Actor
	verbose bool
}

type taskResult struct {
	name string
	err  error
}

// Run spawns one goroutine per non-inert actor and returns immediately
// with a handle used to Wait for their completion.
func (r *Ready) Run(ctx context.Context) *Running {
	runCtx, cancel := context.WithCancel(ctx)
	results := make(chan taskResult, len(r.actors))
	var wg sync.WaitGroup

	for _, a := range r.actors {
		if a.inert() {
			continue
		}
		wg.Add(1)
		go func(a *Actor) {
			defer wg.Done()
			err := a.run(runCtx)
			results <- taskResult{name: a.Name(), err: err}
		}(a)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return &Running{
		started: time.Now(),
		cancel:  cancel,
		results: results,
		verbose: r.verbose,
	}
}

// Running holds the task join channel of a spawned graph. Wait is its
// only transition, consuming it into Completed.
type Running struct {
	started time.Time
	cancel  context.CancelFunc
	results chan taskResult
	verbose bool
}

// Wait blocks until every actor task has returned, classifying each
// result as ordinary shutdown or fatal error (spec.md §7). The first
// fatal error is returned; ordinary shutdowns are logged at debug level
// when Verbose was set.
func (r *Running) Wait() (*Completed, error) {
	var fatal error
	var names []string
	for res := range r.results {
		names = append(names, res.name)
		if res.err == nil {
			continue
		}
		if r.verbose {
			logrus.WithField("actor", res.name).WithError(res.err).Debug("task finished")
		}
		if IsShutdown(res.err) {
			continue
		}
		if fatal == nil {
			fatal = fmt.Errorf("actor %q: %w", res.name, res.err)
		}
	}
	r.cancel()
	return &Completed{started: r.started, finished: time.Now(), actors: names}, fatal
}

// Completed is the terminal typestate: every actor task has joined.
type Completed struct {
	started, finished time.Time
	actors            []string
}

// Elapsed reports the wall-clock duration the graph ran for.
func (c *Completed) Elapsed() time.Duration { return c.finished.Sub(c.started) }

// Actors lists the names of every actor task that was joined.
func (c *Completed) Actors() []string { return c.actors }
