package rewrite

import (
	"sort"

	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// GarbageCollect rebuilds g keeping only nodes reachable from a top-level,
// renumbering them in first-discovery order. Reconstitute already gives
// this for free: a node never reached by a Walk call starting from the
// top-levels is simply never written to the destination graph. When
// alphabetize is set, class and object properties are additionally sorted
// by name, for renderers that want a stable, human-friendly property order
// independent of sample arrival order.
func GarbageCollect(g *typegraph.TypeGraph, alphabetize bool) *typegraph.TypeGraph {
	mapFn := recon.IdentityMap
	if alphabetize {
		mapFn = func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
			out := recon.IdentityMap(w, ref, t)
			if out.Kind == typegraph.KindClass || out.Kind == typegraph.KindObject {
				props := append([]typegraph.ClassProperty(nil), out.Properties...)
				sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
				out.Properties = props
			}
			return out
		}
	}
	return recon.Reconstitute(g, mapFn, false)
}
