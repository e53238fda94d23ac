package graph

// PlainInput and PlainOutput are flowchart-friendly projections of a
// port: just the name and edge hash a renderer needs to draw an edge,
// stripped of the generic type parameters that make the live port
// types impossible to store in a single homogeneous slice for display.
type PlainInput struct {
	Name string
	Hash uint64
}

type PlainOutput struct {
	Name      string
	Hash      uint64
	Bootstrap bool
	FanOut    int
}

// PlainActor is the non-generic projection of an Actor used for
// rendering a graph (e.g. as Graphviz dot) without needing the
// concrete port identifier types in scope.
type PlainActor struct {
	Name    string
	NI, NO  uint
	Inputs  []PlainInput
	Outputs []PlainOutput
}

// Plain projects an Actor into its PlainActor view.
func Plain(a *Actor) PlainActor {
	p := PlainActor{Name: a.Name(), NI: a.ni, NO: a.no}
	for _, in := range a.inputs {
		p.Inputs = append(p.Inputs, PlainInput{Name: in.name(), Hash: in.hash()})
	}
	for _, out := range a.outputs {
		p.Outputs = append(p.Outputs, PlainOutput{
			Name:      out.name(),
			Hash:      out.hash(),
			Bootstrap: out.bootstrap(),
			FanOut:    out.fanOut(),
		})
	}
	return p
}

// PlainModel projects every actor in a graph under construction,
// useful for diagnostics before Check has even run.
func PlainModel(u *Unknown) []PlainActor {
	out := make([]PlainActor, 0, len(u.actors))
	for _, a := range u.actors {
		out = append(out, Plain(a))
	}
	return out
}
