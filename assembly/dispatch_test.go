package assembly

import (
	"context"
	"testing"
	"time"

	"github.com/segmentedscope/actors/client"
	"github.com/segmentedscope/actors/graph"
	"github.com/segmentedscope/actors/port"
)

type wholeSource struct {
	v     []float64
	sent  int
	limit int
}

func (s *wholeSource) Update() {}
func (s *wholeSource) Write() (port.Data[WholePort[float64], []float64], bool) {
	if s.sent >= s.limit {
		return port.Data[WholePort[float64], []float64]{}, false
	}
	s.sent++
	return port.New[WholePort[float64]](s.v), true
}

type segmentDoubler struct{ last []float64 }

func (d *segmentDoubler) Update() {}
func (d *segmentDoubler) Read(v port.Data[SegmentPort[float64], []float64]) { d.last = v.Into() }
func (d *segmentDoubler) Write() (port.Data[SegmentPort[float64], []float64], bool) {
	out := make([]float64, len(d.last))
	for i, v := range d.last {
		out[i] = v * 2
	}
	return port.New[SegmentPort[float64]](out), true
}

type wholeSink struct{ got []float64 }

func (s *wholeSink) Update() {}
func (s *wholeSink) Read(v port.Data[WholePort[float64], []float64]) { s.got = v.Into() }

func TestDispatchInOutRoundTrip(t *testing.T) {
	const segments = 7
	in := NewDispatchIn[float64](segments)
	out := NewDispatchOut[float64](segments)

	src := &wholeSource{v: []float64{1, 2, 3, 4, 5, 6, 7}, limit: 2}
	srcActor := graph.NewActor("source", 0, 1, src)
	inActor := graph.NewActor("dispatch-in", 1, 1, in)
	outActor := graph.NewActor("dispatch-out", 1, 1, out)
	sink := &wholeSink{}
	sinkActor := graph.NewActor("sink", 1, 0, sink)

	if err := graph.AddOutput[WholePort[float64]](srcActor, src).
		Build().IntoInput(inActor, in).Ok(); err != nil {
		t.Fatalf("wire source->dispatch-in: %v", err)
	}

	segActors := make([]*graph.Actor, segments)
	for k := 0; k < segments; k++ {
		seg := &segmentDoubler{}
		segActor := graph.NewActor("segment", 1, 1, seg)
		segActors[k] = segActor

		if err := graph.AddOutput[SegmentPort[float64]](inActor, in.SegmentWriter(Position(k))).
			Build().IntoInput(segActor, seg).Ok(); err != nil {
			t.Fatalf("wire dispatch-in->segment %d: %v", k, err)
		}
		if err := graph.AddOutput[SegmentPort[float64]](segActor, seg).
			Build().IntoInput(outActor, out.SegmentReader(Position(k))).Ok(); err != nil {
			t.Fatalf("wire segment->dispatch-out %d: %v", k, err)
		}
	}

	if err := graph.AddOutput[WholePort[float64]](outActor, out).
		Build().IntoInput(sinkActor, sink).Ok(); err != nil {
		t.Fatalf("wire dispatch-out->sink: %v", err)
	}

	model := graph.NewModel(srcActor, inActor, outActor, sinkActor)
	model.Add(segActors...)

	ready, err := model.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := ready.Run(ctx).Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	want := []float64{2, 4, 6, 8, 10, 12, 14}
	if len(sink.got) != len(want) {
		t.Fatalf("got %v, want %v", sink.got, want)
	}
	for i, w := range want {
		if sink.got[i] != w {
			t.Fatalf("got[%d] = %v, want %v (full: %v)", i, sink.got[i], w, sink.got)
		}
	}
}

var _ client.Reader[WholePort[float64], []float64] = (*wholeSink)(nil)
