// Package recon implements the Reconstitutor: the generic graph-copy
// machinery every rewrite pass is built on top of. A pass supplies a
// MapFunc describing how it wants to transform one Type at a time; the
// Reconstitutor drives the walk, handles memoization (so unchanged subtrees
// keep a stable identity and are never copied twice), and breaks cycles by
// reserving a destination Ref for a node before recursing into its
// children.
//
// Grounded on the teacher's graph.Graph.Snapshot/cloneMap discipline: clone
// on demand, memoize by source identity, never mutate the source.
package recon

import (
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
)

// MapFunc transforms one source Type into its destination-graph
// replacement. Implementations recurse into children by calling w.Walk on
// the child Refs they want to keep (or drop, or redirect) rather than
// copying them by hand; the Walker's memo table ensures a given source Ref
// is only ever walked once.
//
// A MapFunc that wants to leave a node's shape untouched should delegate to
// IdentityMap.
type MapFunc func(w *Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type

// Walker drives one reconstitution pass over a single source graph.
type Walker struct {
	source *typegraph.TypeGraph
	dest   *build.Builder
	memo   map[typegraph.Ref]typegraph.Ref
	mapFn  MapFunc
}

// NewWalker constructs a Walker over source, writing into dest using mapFn.
// Most callers want Reconstitute instead, which also handles top-levels and
// Finish.
func NewWalker(source *typegraph.TypeGraph, dest *build.Builder, mapFn MapFunc) *Walker {
	return &Walker{
		source: source,
		dest:   dest,
		memo:   make(map[typegraph.Ref]typegraph.Ref),
		mapFn:  mapFn,
	}
}

// Builder exposes the destination builder so a MapFunc can intern new nodes
// (AddUnion, AddClass, etc.) rather than constructing a typegraph.Type by
// hand when it wants the destination graph's deduplication.
func (w *Walker) Builder() *build.Builder { return w.dest }

// Source exposes the graph being copied, for MapFuncs that need to inspect
// more than the single Type they were handed (e.g. to look up a sibling).
func (w *Walker) Source() *typegraph.TypeGraph { return w.source }

// Walk returns the destination Ref for ref, computing and memoizing it on
// first visit. Safe to call re-entrantly, including from within the
// MapFunc invocation for ref itself (the case that arises when a type
// refers back to itself, directly or through a cycle).
func (w *Walker) Walk(ref typegraph.Ref) typegraph.Ref {
	if !ref.IsValid() {
		return typegraph.InvalidRef
	}
	if mapped, ok := w.memo[ref]; ok {
		return mapped
	}
	placeholder := w.dest.Reserve()
	w.memo[ref] = placeholder

	srcType := w.source.At(ref)
	newType := w.mapFn(w, ref, srcType)
	w.dest.Fill(placeholder, newType)

	return placeholder
}

// DestAt returns the destination Type already written for ref, for a
// MapFunc that needs to inspect a member it has just finished walking (the
// member's Fill has necessarily already run by the time its Walk call
// returns).
func (w *Walker) DestAt(ref typegraph.Ref) typegraph.Type {
	return w.dest.Peek(ref)
}

// DestKind is a shorthand for DestAt(ref).Kind.
func (w *Walker) DestKind(ref typegraph.Ref) typegraph.Kind {
	return w.DestAt(ref).Kind
}

// Alias pre-seeds the memo table so that a future Walk(source) resolves
// directly to dest without ever invoking the MapFunc for source. Used by
// passes that fold several source nodes into a single destination node
// (combineClasses) and need every one of them to land on the same Ref,
// including the representative node that supplies the merged content.
func (w *Walker) Alias(source, dest typegraph.Ref) {
	if _, ok := w.memo[source]; !ok {
		w.memo[source] = dest
	}
}

// IdentityMap copies t verbatim except for its child Refs, which are routed
// through w.Walk. It is the default case every pass-specific MapFunc falls
// back to for the node kinds it does not itself rewrite.
func IdentityMap(w *Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
	return t.WithMappedRefs(w.Walk)
}

// Reconstitute copies source through mapFn into a freshly built TypeGraph,
// preserving top-level names (with their Refs remapped) and the source's
// StringTypeMapping. fixedTopLevels is forwarded to the destination
// Builder, matching whatever setting built the original graph.
func Reconstitute(source *typegraph.TypeGraph, mapFn MapFunc, fixedTopLevels bool) *typegraph.TypeGraph {
	dest := build.New(source.StringTypeMapping(), fixedTopLevels)
	w := NewWalker(source, dest, mapFn)
	for _, tl := range source.TopLevels() {
		dest.AddTopLevel(tl.Name, w.Walk(tl.Type))
	}
	return dest.Finish()
}
