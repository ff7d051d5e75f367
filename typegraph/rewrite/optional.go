package rewrite

import (
	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// OptionalToNullable rewrites every optional class or object property into a
// required property of type union{T, null}, for targets whose property
// model has no separate concept of optionality.
func OptionalToNullable(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindClass && t.Kind != typegraph.KindObject {
			return recon.IdentityMap(w, ref, t)
		}
		out := t
		props := make([]typegraph.ClassProperty, len(t.Properties))
		for i, p := range t.Properties {
			destType := w.Walk(p.Type)
			if p.Optional {
				changed = true
				nullRef, err := w.Builder().AddPrimitive(typegraph.KindNull, attr.Empty)
				if err == nil {
					unionRef, err := w.Builder().AddUnion([]typegraph.Ref{destType, nullRef}, attr.Empty)
					if err == nil {
						destType = unionRef
					}
				}
				p.Optional = false
			}
			p.Type = destType
			props[i] = p
		}
		out.Properties = props
		if t.Kind == typegraph.KindObject && t.Additional.IsValid() {
			out.Additional = w.Walk(t.Additional)
		}
		return out
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}

// AllPropertiesOptional marks every class and object property optional,
// for callers that want generated accessors to tolerate absent fields
// regardless of what the input observed.
func AllPropertiesOptional(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindClass && t.Kind != typegraph.KindObject {
			return recon.IdentityMap(w, ref, t)
		}
		out := t
		props := make([]typegraph.ClassProperty, len(t.Properties))
		for i, p := range t.Properties {
			p.Type = w.Walk(p.Type)
			if !p.Optional {
				changed = true
				p.Optional = true
			}
			props[i] = p
		}
		out.Properties = props
		if t.Kind == typegraph.KindObject && t.Additional.IsValid() {
			out.Additional = w.Walk(t.Additional)
		}
		return out
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}
