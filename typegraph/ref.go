package typegraph

import "fmt"

// Ref is a stable identity for a Type within one TypeGraph: an index into
// the graph's arena. Refs from different graphs are not comparable — a Ref
// only has meaning paired with the TypeGraph that produced it.
type Ref int32

// InvalidRef is the zero value of a Ref variable that has not yet been
// assigned; it never names a real arena slot.
const InvalidRef Ref = -1

// IsValid reports whether r could name a slot in some graph. It does not
// check bounds against any particular graph.
func (r Ref) IsValid() bool { return r >= 0 }

func (r Ref) String() string {
	if !r.IsValid() {
		return "<invalid-ref>"
	}
	return fmt.Sprintf("#%d", int32(r))
}
