package port

import "testing"

type windLoads struct{ Default[[]float64] }

type windLoadsAlias struct{ Alias[windLoads, []float64] }

func TestAliasSharesPortNumber(t *testing.T) {
	var base windLoads
	var alias windLoadsAlias
	if alias.PortNumber() != base.PortNumber() {
		t.Fatalf("alias port number = %d, want %d", alias.PortNumber(), base.PortNumber())
	}
}

func TestReadWriteAliasRoundTrip(t *testing.T) {
	d := New[windLoads]([]float64{1, 2, 3})

	aliased := WriteAlias[windLoadsAlias](d)
	back := ReadAlias[windLoads](aliased)

	got := back.Into()
	want := d.Into()
	if len(got) != len(want) {
		t.Fatalf("round trip = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("round trip[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
