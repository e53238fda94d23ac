package port

import "testing"

type vecID struct{ Default[[]float64] }

func (vecID) selectorMarker() {}

func TestSelectPortNumberOffset(t *testing.T) {
	var base vecID
	s0 := Select[vecID, float64]{Index: 0}
	s1 := Select[vecID, float64]{Index: 1}

	if s0.PortNumber() != base.PortNumber() {
		t.Fatalf("Select index 0 should match the base port number: got %d, want %d", s0.PortNumber(), base.PortNumber())
	}
	if s1.PortNumber() != base.PortNumber()+selectPortStride {
		t.Fatalf("Select index 1 = %d, want %d", s1.PortNumber(), base.PortNumber()+selectPortStride)
	}
}

func TestSelectingWritesSingleElement(t *testing.T) {
	vec := []float64{10, 20, 30}
	source := func() (Data[vecID, []float64], bool) {
		return New[vecID](vec), true
	}

	for i, want := range vec {
		sel := Selecting[vecID, float64]{Source: source, Index: i}
		d, ok := sel.Write()
		if !ok {
			t.Fatalf("Write(%d): expected ok", i)
		}
		got := d.Into()
		if len(got) != 1 || got[0] != want {
			t.Fatalf("Write(%d) = %v, want [%v]", i, got, want)
		}
	}
}

func TestSelectingOutOfRangeYieldsFalse(t *testing.T) {
	source := func() (Data[vecID, []float64], bool) {
		return New[vecID]([]float64{1, 2}), true
	}
	sel := Selecting[vecID, float64]{Source: source, Index: 5}
	if _, ok := sel.Write(); ok {
		t.Fatal("expected out-of-range index to yield ok=false")
	}
}

func TestSelectingExhaustedSourceYieldsFalse(t *testing.T) {
	source := func() (Data[vecID, []float64], bool) {
		return Data[vecID, []float64]{}, false
	}
	sel := Selecting[vecID, float64]{Source: source, Index: 0}
	if _, ok := sel.Write(); ok {
		t.Fatal("expected an exhausted source to yield ok=false")
	}
}
