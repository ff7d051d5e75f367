// Package namer assigns human-readable names to the named types (classes,
// enums, open objects) of a post-garbage-collection TypeGraph. It is the
// in-core half of "name gathering": input readers are responsible for
// picking candidate name strings out of raw documents and attaching them to
// types as attr.TypeNames; namer.GatherNames turns those candidates (or,
// failing that, a synthesized name) into one final, unique name per type.
package namer

import (
	"github.com/kestrel-oss/typegraph/internal/ident"
	"github.com/kestrel-oss/typegraph/registry"
	"github.com/kestrel-oss/typegraph/typegraph"
)

// NamedTypeGraph pairs a TypeGraph with the name assigned to each of its
// named types. Types not present in Names (maps, arrays, unions,
// primitives) have no name of their own; a renderer names them inline at
// their use site instead.
type NamedTypeGraph struct {
	Graph *typegraph.TypeGraph
	Names map[typegraph.Ref]string
}

// NameOf returns the name assigned to ref, or "" if ref was never a named
// type (not a class, enum, or object).
func (n *NamedTypeGraph) NameOf(ref typegraph.Ref) string {
	return n.Names[ref]
}

// isNamedKind reports whether a Type gets an entry in Names at all.
func isNamedKind(k typegraph.Kind) bool {
	switch k {
	case typegraph.KindClass, typegraph.KindEnum, typegraph.KindObject:
		return true
	default:
		return false
	}
}

// GatherNames walks g in canonical order (top-levels first, in their
// declared order, then every other reachable type in first-discovered
// order) and assigns each named type a final name. A top-level's own name
// is used verbatim (and reserved, so no synthesized name will ever collide
// with it); every other named type takes its first attr.TypeNames
// candidate, cased to UpperCamel via internal/ident, or a synthesized name
// if it carried none.
//
// assumeNamesFromSamples only affects interpretation upstream, at the input
// reader: it decides whether attr.TypeNames candidates came from sampled
// property names (heuristic, lower confidence) or schema titles/definition
// keys (authoritative). By the time a graph reaches GatherNames both look
// identical — a StringSet of candidate names — so this function treats them
// the same way.
func GatherNames(g *typegraph.TypeGraph, assumeNamesFromSamples bool, reg *registry.Registry) *NamedTypeGraph {
	_ = assumeNamesFromSamples // documented above: affects candidate provenance only, not this walk.
	names := make(map[typegraph.Ref]string)

	for _, tl := range g.TopLevels() {
		reg.Reserve(tl.Name)
		if isNamedKind(g.At(tl.Type).Kind) {
			names[tl.Type] = tl.Name
		}
	}

	visited := make(map[typegraph.Ref]bool)
	var visit func(ref typegraph.Ref)
	visit = func(ref typegraph.Ref) {
		if !ref.IsValid() || visited[ref] {
			return
		}
		visited[ref] = true
		t := g.At(ref)
		if isNamedKind(t.Kind) {
			if _, ok := names[ref]; !ok {
				names[ref] = nameFor(t, reg)
			}
		}
		for _, child := range t.Refs() {
			visit(child)
		}
	}
	for _, tl := range g.TopLevels() {
		visit(tl.Type)
	}

	return &NamedTypeGraph{Graph: g, Names: names}
}

func nameFor(t typegraph.Type, reg *registry.Registry) string {
	candidates := t.Attributes.TypeNames()
	if len(candidates) > 0 {
		slice := candidates.Slice()
		return reg.Uniquify(ident.ToUpperCamel(slice[0]))
	}
	return reg.Synthesize()
}
