package rewrite

import (
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// semanticTransformerTags maps each canonical semantic string kind to the
// transformer tag a target's StringTypeMapping uses to recognize it.
var semanticTransformerTags = map[typegraph.Kind]string{
	typegraph.KindDate:          "date",
	typegraph.KindTime:          "time",
	typegraph.KindDateTime:      "date-time",
	typegraph.KindIntegerString: "integer-string",
	typegraph.KindBoolString:    "bool-string",
}

// MakeTransformations reconciles the canonical semantic string kinds with
// what lang can actually render. A semantic kind whose tag lang's
// StringTypeMapping recognizes becomes a TransformedString carrying that
// tag; a semantic kind lang does not recognize at all collapses to a plain
// string, since the distinction would otherwise be unrenderable.
func MakeTransformations(g *typegraph.TypeGraph, lang target.Language) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		tag, ok := semanticTransformerTags[t.Kind]
		if !ok {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		if !lang.StringTypeMapping.Supports(tag) {
			return typegraph.Type{Kind: typegraph.KindString, Attributes: t.Attributes}
		}
		return typegraph.Type{Kind: typegraph.KindTransformedString, Transformer: tag, Attributes: t.Attributes}
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}
