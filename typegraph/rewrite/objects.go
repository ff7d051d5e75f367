package rewrite

import (
	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// additionalPropertiesName is the synthetic property ReplaceObjectType adds
// to carry an object's additional-properties type once that object has been
// downgraded to a class. No input schema is expected to already use this
// name; a collision would simply be overwritten, same as any other
// duplicate-property situation the builder rejects upstream of this pass.
const additionalPropertiesName = "additionalProperties"

// ReplaceObjectType downgrades every open object ({known properties} plus an
// arbitrary-key tail) into a closed class once lang reports it cannot render
// an open object type natively. The arbitrary-key tail survives as an
// optional map-typed property named "additionalProperties", so the
// information is not lost, only reshaped into something every target can
// express with a plain class.
func ReplaceObjectType(g *typegraph.TypeGraph, lang target.Language) (*typegraph.TypeGraph, bool) {
	if lang.SupportsFullObjectType {
		return g, false
	}

	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindObject {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true

		props := make([]typegraph.ClassProperty, len(t.Properties))
		for i, p := range t.Properties {
			p.Type = w.Walk(p.Type)
			props[i] = p
		}
		if t.Additional.IsValid() {
			mapRef, err := w.Builder().AddMap(w.Walk(t.Additional), attr.Empty)
			if err == nil {
				extra := typegraph.ClassProperty{
					Name:     additionalPropertiesName,
					Type:     mapRef,
					Optional: true,
				}
				replaced := false
				for i := range props {
					if props[i].Name == additionalPropertiesName {
						props[i] = extra
						replaced = true
					}
				}
				if !replaced {
					props = append(props, extra)
				}
			}
		}
		return typegraph.Type{Kind: typegraph.KindClass, Properties: props, Nominal: true, Attributes: t.Attributes}
	}

	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}
