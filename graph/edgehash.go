package graph

import (
	"github.com/OneOfOne/xxhash"
)

// edgeHash computes the 64-bit structural checksum stamped on an output
// port and every input port it feeds (spec.md §4.5): a hash of the
// producing actor's name and the output identifier's short name. It is
// purely a structural checksum — Check sums (Σ outputs − Σ inputs) and
// requires zero, after first verifying the port counts match — never a
// lookup key.
func edgeHash(actorName, portShortName string) uint64 {
	h := xxhash.New64()
	_, _ = h.Write([]byte(actorName))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(portShortName))
	return h.Sum64()
}
