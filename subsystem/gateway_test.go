package subsystem

import (
	"context"
	"testing"

	"github.com/segmentedscope/actors/graph"
	"github.com/segmentedscope/actors/port"
)

type doubler struct{ last float64 }

func (d *doubler) Update() {}
func (d *doubler) Read(v port.Data[GatewayPort[float64], float64]) { d.last = v.Into() }
func (d *doubler) Write() (port.Data[GatewayPort[float64], float64], bool) {
	return port.New[GatewayPort[float64]](d.last * 2), true
}

type extSource struct {
	v     float64
	sent  int
	limit int
}

func (s *extSource) Update() {}
func (s *extSource) Write() (port.Data[GatewayPort[float64], float64], bool) {
	if s.sent >= s.limit {
		return port.Data[GatewayPort[float64], float64]{}, false
	}
	s.sent++
	return port.New[GatewayPort[float64]](s.v), true
}

type extSink struct{ got float64 }

func (s *extSink) Update() {}
func (s *extSink) Read(v port.Data[GatewayPort[float64], float64]) { s.got = v.Into() }

func TestSubsystemFlattenAndWire(t *testing.T) {
	inner := &doubler{}
	innerActor := graph.NewActor("doubler", 1, 1, inner)

	sys := New[float64]("sys", graph.NewModel(innerActor), 1, 1)

	flat, err := sys.Build(
		[]InnerConsumer[float64]{{Actor: innerActor, Reader: inner}},
		[]InnerProducer[float64]{{Actor: innerActor, Writer: inner}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	source := &extSource{v: 21, limit: 3}
	sourceActor := graph.NewActor("source", 0, 1, source)
	sink := &extSink{}
	sinkActor := graph.NewActor("sink", 1, 0, sink)

	if err := graph.AddOutput[GatewayPort[float64]](sourceActor, source).
		Build().IntoInput(sys.InGatewayActor, sys.ExternalInputReader(0)).Ok(); err != nil {
		t.Fatalf("wire source->gateway: %v", err)
	}
	if err := graph.AddOutput[GatewayPort[float64]](sys.OutGatewayActor,
		sys.ExternalOutputWriter(0)).
		Build().IntoInput(sinkActor, sink).Ok(); err != nil {
		t.Fatalf("wire gateway->sink: %v", err)
	}

	flat.Add(sourceActor, sinkActor)

	ready, err := flat.Check()
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if _, err := ready.Run(context.Background()).Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if sink.got != 42 {
		t.Fatalf("got %v, want 42", sink.got)
	}
}
