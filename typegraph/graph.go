package typegraph

import "fmt"

// TopLevel is one named entry point exposed to code generation.
type TopLevel struct {
	Name string
	Type Ref
}

// TypeGraph is an immutable, possibly-cyclic graph of Types. Once returned
// by a TypeBuilder or a Reconstitutor it is never mutated; every rewrite
// pass produces a new TypeGraph rather than editing this one in place.
type TypeGraph struct {
	arena      []Type
	topLevels  []TopLevel
	topByName  map[string]int // name -> index into topLevels
	stringType StringTypeMapping
}

// New constructs a TypeGraph from a finished arena and top-level list. It
// is the Reconstitutor's and TypeBuilder's sole construction path; callers
// assembling a graph by hand elsewhere in this module should go through one
// of those two instead.
func New(arena []Type, topLevels []TopLevel, stringType StringTypeMapping) *TypeGraph {
	byName := make(map[string]int, len(topLevels))
	for i, tl := range topLevels {
		byName[tl.Name] = i
	}
	return &TypeGraph{
		arena:      arena,
		topLevels:  topLevels,
		topByName:  byName,
		stringType: stringType,
	}
}

// Len returns the number of Types in the arena, including unreachable ones
// (a graph prior to garbage collection may have dead entries).
func (g *TypeGraph) Len() int { return len(g.arena) }

// At returns the Type stored at ref. Panics if ref is out of range: a
// dangling Ref reaching this far is a structural-invariant violation that
// should have been caught by a self-check assertion before the graph left
// the pass that produced it.
func (g *TypeGraph) At(ref Ref) Type {
	if !ref.IsValid() || int(ref) >= len(g.arena) {
		panic(fmt.Sprintf("typegraph: dangling reference %s (arena len %d)", ref, len(g.arena)))
	}
	return g.arena[ref]
}

// TryAt is the non-panicking form of At, for callers (self-check
// assertions, diagnostics) that need to report a dangling reference rather
// than crash on one.
func (g *TypeGraph) TryAt(ref Ref) (Type, bool) {
	if !ref.IsValid() || int(ref) >= len(g.arena) {
		return Type{}, false
	}
	return g.arena[ref], true
}

// TopLevels returns the graph's top-level entries in declaration order.
func (g *TypeGraph) TopLevels() []TopLevel {
	out := make([]TopLevel, len(g.topLevels))
	copy(out, g.topLevels)
	return out
}

// TopLevelByName returns the Ref registered under name, if any.
func (g *TypeGraph) TopLevelByName(name string) (Ref, bool) {
	i, ok := g.topByName[name]
	if !ok {
		return InvalidRef, false
	}
	return g.topLevels[i].Type, true
}

// StringTypeMapping returns the graph's recognized transformed-string kinds.
func (g *TypeGraph) StringTypeMapping() StringTypeMapping {
	return g.stringType
}

// Arena exposes the raw backing slice for callers that need to walk every
// slot regardless of reachability (the Reconstitutor, self-check
// assertions). The returned slice must not be mutated.
func (g *TypeGraph) Arena() []Type {
	return g.arena
}
