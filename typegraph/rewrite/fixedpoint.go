package rewrite

import (
	"fmt"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
)

// maxFixedPointIterations bounds RewriteFixedPoint. FlattenUnions strictly
// reduces member count or nesting depth on every iteration that reports a
// change, so a real input converges in far fewer rounds than this; hitting
// the cap means a pass is oscillating and indicates a bug in this package,
// not in caller input.
const maxFixedPointIterations = 64

// RewriteFixedPoint repeatedly flattens unions until a pass reports no
// further change. FlattenUnions flattens nested members recursively, so one
// application already leaves no union as a direct member of another; the
// loop repeats it until a pass reports no change, confirming the
// postcondition every other pass relies on: no union anywhere in the graph
// contains another union as a direct member.
func RewriteFixedPoint(g *typegraph.TypeGraph, lang target.Language) (*typegraph.TypeGraph, error) {
	cur := g
	for i := 0; i < maxFixedPointIterations; i++ {
		next, changed := FlattenUnions(cur, false, lang)
		if !changed {
			return cur, nil
		}
		cur = next
	}
	return nil, structuralError(diag.E_FIXED_POINT_DID_NOT_CONVERGE, fmt.Sprintf("union flattening did not converge after %d iterations", maxFixedPointIterations))
}
