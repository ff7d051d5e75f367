package rewrite

import (
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// minMapProperties is the smallest property count at which a class is even
// considered for map inference. Below this, uniform-valued-type classes are
// too common by chance to be a reliable signal of an open string-keyed
// dictionary rather than a genuinely fixed small shape.
const minMapProperties = 3

// InferMaps converts classes whose properties all share one value type into
// maps whose values have that type, a heuristic for distinguishing a genuine
// dictionary from a deliberately small fixed record when the source format
// gives no other signal (e.g. raw JSON samples, which make no class/map
// distinction at all). Runs after combineClasses so that partial
// per-sample observations have already been merged into one candidate
// shape before this heuristic judges it.
func InferMaps(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindClass || !looksLikeMap(t) {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		elem := w.Walk(t.Properties[0].Type)
		return typegraph.Type{Kind: typegraph.KindMap, Elem: elem, Attributes: t.Attributes}
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}

func looksLikeMap(t typegraph.Type) bool {
	if len(t.Properties) < minMapProperties {
		return false
	}
	first := t.Properties[0].Type
	for _, p := range t.Properties {
		if p.Type != first || p.Optional {
			return false
		}
	}
	return true
}
