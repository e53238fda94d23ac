package graph

import (
	"context"
	"testing"

	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/port"
)

type scalarID struct{ port.Default[float64] }

type constSource struct{ v float64 }

func (c *constSource) Update() {}
func (c *constSource) Write() (port.Data[scalarID, float64], bool) {
	return port.New[scalarID](c.v), true
}

type sink struct{ got []float64 }

func (s *sink) Update() {}
func (s *sink) Read(d port.Data[scalarID, float64]) { s.got = append(s.got, d.Into()) }

func TestOrphanOutput(t *testing.T) {
	producer := NewActor("producer", 0, 1, &constSource{v: 1})
	consumer := NewActor("consumer", 1, 0, &sink{})

	err := AddOutput[scalarID](producer, &constSource{v: 1}).
		Multiplex(2).
		Build().
		IntoInput(consumer, &sink{}).
		Ok()

	if err == nil {
		t.Fatal("expected an orphan output error")
	}
	if _, ok := err.(*OrphanOutputError); !ok {
		t.Fatalf("got %v (%T), want *OrphanOutputError", err, err)
	}
}

func TestCheckRejectsStarvedInputSide(t *testing.T) {
	starved := NewActor("starved", 1, 0, &sink{})
	u := NewModel(starved)
	if _, err := u.Check(); err == nil {
		t.Fatal("expected Check to reject an actor with NI>0 and no inputs")
	}
}

type updaterOnly struct{}

func (updaterOnly) Update() {}

func TestInertActorProducesNoTask(t *testing.T) {
	inert := NewActor("inert", 0, 0, updaterOnly{})
	ready, err := NewModel(inert).Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	ctx := context.Background()
	running := ready.Run(ctx)
	completed, err := running.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if len(completed.Actors()) != 0 {
		t.Fatalf("inert actor should not have produced a task, got %v", completed.Actors())
	}
}

var _ client.Updater = updaterOnly{}

// sizedSource additionally implements client.Sizer, letting Log infer
// a one-shot log entry's size instead of it being spelled out.
type sizedSource struct{ constSource }

func (sizedSource) Size() int { return 4 }

// reservingSink implements client.Reserver so Log/LogN's preallocation
// is observable.
type reservingSink struct {
	sink
	reserved int
}

func (r *reservingSink) Reserve(size int) { r.reserved = size }

var (
	_ client.Sizer[scalarID, float64] = sizedSource{}
	_ client.Reserver                 = (*reservingSink)(nil)
)

func TestLogInfersSizeFromProducer(t *testing.T) {
	producer := NewActor("producer", 0, 1, &sizedSource{constSource{v: 1}})
	consumer := NewActor("logger", 1, 0, &reservingSink{})
	rs := &reservingSink{}

	if err := AddOutput[scalarID](producer, &sizedSource{constSource{v: 1}}).
		Build().
		Log(consumer, rs).
		Ok(); err != nil {
		t.Fatalf("Log: %v", err)
	}
	if rs.reserved != 4 {
		t.Fatalf("reserved = %d, want 4 (inferred from Sizer.Size)", rs.reserved)
	}
}

func TestLogNReservesExplicitSize(t *testing.T) {
	producer := NewActor("producer", 0, 1, &constSource{v: 1})
	consumer := NewActor("logger", 1, 0, &reservingSink{})
	rs := &reservingSink{}

	if err := AddOutput[scalarID](producer, &constSource{v: 1}).
		Build().
		LogN(consumer, rs, 9).
		Ok(); err != nil {
		t.Fatalf("LogN: %v", err)
	}
	if rs.reserved != 9 {
		t.Fatalf("reserved = %d, want 9", rs.reserved)
	}
}
