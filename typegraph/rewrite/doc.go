// Package rewrite implements the independent graph-to-graph rewrite passes
// that turn a raw, over-approximated TypeGraph into a minimal, canonical
// one. Every pass is a pure function over a *typegraph.TypeGraph: it either
// returns its input graph unchanged (same pointer, so callers can detect
// "no change" by reference equality) or a wholly new graph built through
// typegraph/recon.
//
// Grounded on the teacher's schema/internal/complete package: linearize.go's
// DFS-with-visited-states dedup/merge shape grounds combineClasses and
// resolveIntersections; collision.go's merge-with-conflict-reporting
// grounds the property-merging in both; complete.go's repeat-until-stable
// sub-pass loop grounds inferMaps and rewriteFixedPoint.
package rewrite
