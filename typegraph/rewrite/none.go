package rewrite

import (
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// NoneToAny replaces every KindNone (the bottom type: a slot for which no
// observation was ever made) with KindAny, once the graph is done growing
// and an un-observed slot needs a concrete, renderable type.
func NoneToAny(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindNone {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		return typegraph.Type{Kind: typegraph.KindAny, Attributes: t.Attributes}
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}
