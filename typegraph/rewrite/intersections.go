package rewrite

import (
	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// ResolveIntersections replaces every intersection node with the concrete
// meet of its members. Meets are computed bottom-up within a single
// reconstitution pass: walking a member fully resolves any intersection it
// is itself built from before this node's own meet is computed.
//
// Where an exact meet exists (identical primitive kinds, or classes merged
// property-by-property) it is used; where member kinds are incompatible
// (e.g. integer meets string) the pass falls back to any, consistent with
// the pipeline's broader philosophy of over-approximating where a rewrite
// cannot narrow precisely and leaving narrowing to a later pass or the
// user's own schema corrections.
func ResolveIntersections(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindIntersection {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		destMembers := make([]typegraph.Ref, len(t.Members))
		for i, m := range t.Members {
			destMembers[i] = w.Walk(m)
		}
		return meetTypes(w, destMembers, t.Attributes)
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}

// meetTypes computes the meet of already-walked destination refs. It reads
// the destination types through w.DestKind and w.DestAt; every member has
// already been filled before this function runs (the recursive w.Walk calls
// in ResolveIntersections' mapFn guarantee that).
func meetTypes(w *recon.Walker, members []typegraph.Ref, attrs attr.Bundle) typegraph.Type {
	kept := make([]typegraph.Ref, 0, len(members))
	for _, r := range members {
		k := w.DestKind(r)
		if k == typegraph.KindAny || k == typegraph.KindNone {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return typegraph.Type{Kind: typegraph.KindAny, Attributes: attrs}
	}
	if len(kept) == 1 {
		t := w.DestAt(kept[0])
		t.Attributes = t.Attributes.Combine(attrs)
		return t
	}

	allClasses := true
	for _, r := range kept {
		if w.DestKind(r) != typegraph.KindClass {
			allClasses = false
			break
		}
	}
	if allClasses {
		return mergeClassMeet(w, kept, attrs)
	}

	first := w.DestKind(kept[0])
	same := true
	for _, r := range kept[1:] {
		if w.DestKind(r) != first {
			same = false
			break
		}
	}
	if same {
		t := w.DestAt(kept[0])
		t.Attributes = attrs
		return t
	}
	return typegraph.Type{Kind: typegraph.KindAny, Attributes: attrs}
}

func mergeClassMeet(w *recon.Walker, members []typegraph.Ref, attrs attr.Bundle) typegraph.Type {
	var order []string
	byName := map[string]typegraph.ClassProperty{}
	presentIn := map[string]int{}

	for _, m := range members {
		cls := w.DestAt(m)
		for _, p := range cls.Properties {
			presentIn[p.Name]++
			if existing, ok := byName[p.Name]; ok {
				if existing.Type != p.Type {
					merged, _ := w.Builder().AddUnion([]typegraph.Ref{existing.Type, p.Type}, attr.Empty)
					existing.Type = merged
				}
				existing.Optional = existing.Optional || p.Optional
				byName[p.Name] = existing
			} else {
				byName[p.Name] = p
				order = append(order, p.Name)
			}
		}
	}

	props := make([]typegraph.ClassProperty, 0, len(order))
	for _, name := range order {
		p := byName[name]
		if presentIn[name] < len(members) {
			p.Optional = true
		}
		props = append(props, p)
	}
	return typegraph.Type{Kind: typegraph.KindClass, Properties: props, Attributes: attrs}
}
