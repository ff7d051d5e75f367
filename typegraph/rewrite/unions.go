package rewrite

import (
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// FlattenUnions flattens nested unions, drops duplicate members, and
// collapses singleton unions to their sole member. When strict is true it
// additionally unifies integer and double members into double when lang
// does not support unions of distinct numeric types.
func FlattenUnions(g *typegraph.TypeGraph, strict bool, lang target.Language) (*typegraph.TypeGraph, bool) {
	changed := false

	var flattenMembers func(members []typegraph.Ref, seen map[typegraph.Ref]bool, out *[]typegraph.Ref)
	flattenMembers = func(members []typegraph.Ref, seen map[typegraph.Ref]bool, out *[]typegraph.Ref) {
		for _, m := range members {
			mt := g.At(m)
			if mt.Kind == typegraph.KindUnion {
				changed = true
				flattenMembers(mt.Members, seen, out)
				continue
			}
			if seen[m] {
				changed = true
				continue
			}
			seen[m] = true
			*out = append(*out, m)
		}
	}

	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindUnion {
			return recon.IdentityMap(w, ref, t)
		}

		var flat []typegraph.Ref
		flattenMembers(t.Members, map[typegraph.Ref]bool{}, &flat)

		if strict {
			var numChanged bool
			flat, numChanged = unifyNumericMembers(g, lang, flat)
			if numChanged {
				changed = true
			}
		}

		if len(flat) == 0 {
			changed = true
			return typegraph.Type{Kind: typegraph.KindAny, Attributes: t.Attributes}
		}
		if len(flat) == 1 {
			changed = true
			merged := recon.IdentityMap(w, flat[0], g.At(flat[0]))
			merged.Attributes = merged.Attributes.Combine(t.Attributes)
			return merged
		}

		members := make([]typegraph.Ref, len(flat))
		for i, m := range flat {
			members[i] = w.Walk(m)
		}
		return typegraph.Type{Kind: typegraph.KindUnion, Members: members, Attributes: t.Attributes}
	}

	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}

func unifyNumericMembers(g *typegraph.TypeGraph, lang target.Language, members []typegraph.Ref) ([]typegraph.Ref, bool) {
	if lang.SupportsUnionsWithBothNumberTypes {
		return members, false
	}
	hasInt, hasDouble := false, false
	for _, m := range members {
		switch g.At(m).Kind {
		case typegraph.KindInteger:
			hasInt = true
		case typegraph.KindDouble:
			hasDouble = true
		}
	}
	if !hasInt || !hasDouble {
		return members, false
	}
	out := make([]typegraph.Ref, 0, len(members))
	for _, m := range members {
		if g.At(m).Kind == typegraph.KindInteger {
			continue
		}
		out = append(out, m)
	}
	return out, true
}
