package rewrite

import (
	"fmt"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// RemoveIndirectionIntersections eliminates every intersection node that is
// pure indirection: a single-member intersection left behind once a
// forwarding intersection's cycle has closed. Every reference to such a
// node is rewritten to point at its sole member directly, transitively
// through chains of indirection.
//
// Returns an error carrying diag.E_FORWARDER_SURVIVED if any forwarding
// placeholder (attr.ForwardingRef) is still unresolved — the builder
// promises every forwarder it creates gets resolved before finish, so a
// survivor here is a bug in the builder, not in this pass.
func RemoveIndirectionIntersections(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool, error) {
	for i := 0; i < g.Len(); i++ {
		ref := typegraph.Ref(i)
		if t := g.At(ref); t.Kind == typegraph.KindIntersection && t.Attributes.IsForwardingRef() {
			return nil, false, structuralError(diag.E_FORWARDER_SURVIVED, fmt.Sprintf("forwarding intersection %s was never resolved", ref))
		}
	}

	changed := false
	dest := build.New(g.StringTypeMapping(), false)
	var w *recon.Walker
	mapFn := func(ww *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		return t.WithMappedRefs(func(child typegraph.Ref) typegraph.Ref {
			resolved := resolveIndirectionTarget(g, child)
			if resolved != child {
				changed = true
			}
			return ww.Walk(resolved)
		})
	}
	w = recon.NewWalker(g, dest, mapFn)

	for _, tl := range g.TopLevels() {
		resolved := resolveIndirectionTarget(g, tl.Type)
		if resolved != tl.Type {
			changed = true
		}
		dest.AddTopLevel(tl.Name, w.Walk(resolved))
	}

	if !changed {
		return g, false, nil
	}
	return dest.Finish(), true, nil
}

// resolveIndirectionTarget follows a chain of single-member intersections
// to the first node that is not pure indirection. seen guards against a
// pathological cycle of indirection nodes pointing at each other.
func resolveIndirectionTarget(g *typegraph.TypeGraph, ref typegraph.Ref) typegraph.Ref {
	seen := map[typegraph.Ref]bool{}
	for {
		if seen[ref] {
			return ref
		}
		seen[ref] = true
		t := g.At(ref)
		if t.Kind != typegraph.KindIntersection || len(t.Members) != 1 {
			return ref
		}
		ref = t.Members[0]
	}
}
