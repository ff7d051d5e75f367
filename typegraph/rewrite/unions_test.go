package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
)

func TestFlattenUnions_FlattensNestedAndDedupes(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	n, err := b.AddPrimitive(typegraph.KindNull, attr.Empty)
	require.NoError(t, err)
	inner, err := b.AddUnion([]typegraph.Ref{s, n}, attr.Empty)
	require.NoError(t, err)
	i, err := b.AddPrimitive(typegraph.KindInteger, attr.Empty)
	require.NoError(t, err)
	// AddUnion only dedups by Ref identity, not by recursively inspecting
	// member kinds, so this union really does end up containing another
	// union as a direct member.
	outer, err := b.AddUnion([]typegraph.Ref{inner, i}, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", outer)
	g := b.Finish()

	out, changed := FlattenUnions(g, false, target.SchemaPassthrough)
	require.True(t, changed)
	tl, _ := out.TopLevelByName("T")
	flat := out.At(tl)
	require.Equal(t, typegraph.KindUnion, flat.Kind)
	assert.Len(t, flat.Members, 3)
	for _, m := range flat.Members {
		assert.NotEqual(t, typegraph.KindUnion, out.At(m).Kind)
	}
}

func TestFlattenUnions_NoChangeOnAlreadyFlatUnion(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	n, err := b.AddPrimitive(typegraph.KindNull, attr.Empty)
	require.NoError(t, err)
	u, err := b.AddUnion([]typegraph.Ref{s, n}, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", u)
	g := b.Finish()

	out, changed := FlattenUnions(g, false, target.SchemaPassthrough)
	assert.False(t, changed)
	assert.Same(t, g, out)
}

// General property: applying a pass to its own fixed point and applying it
// again must report no further change (idempotence).
func TestFlattenUnions_IdempotentAtFixedPoint(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	n, err := b.AddPrimitive(typegraph.KindNull, attr.Empty)
	require.NoError(t, err)
	i, err := b.AddPrimitive(typegraph.KindInteger, attr.Empty)
	require.NoError(t, err)
	inner, err := b.AddUnion([]typegraph.Ref{s, n}, attr.Empty)
	require.NoError(t, err)
	outer, err := b.AddUnion([]typegraph.Ref{inner, i}, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", outer)
	g := b.Finish()

	once, changed := FlattenUnions(g, false, target.SchemaPassthrough)
	require.True(t, changed)

	twice, changedAgain := FlattenUnions(once, false, target.SchemaPassthrough)
	assert.False(t, changedAgain)
	assert.Same(t, once, twice)
}

func TestFlattenUnions_StrictDropsIntegerWhenDoublePresent(t *testing.T) {
	b := newRewriteBuilder()
	i, err := b.AddPrimitive(typegraph.KindInteger, attr.Empty)
	require.NoError(t, err)
	d, err := b.AddPrimitive(typegraph.KindDouble, attr.Empty)
	require.NoError(t, err)
	u, err := b.AddUnion([]typegraph.Ref{i, d}, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", u)
	g := b.Finish()

	restrictive := target.SchemaPassthrough
	restrictive.SupportsUnionsWithBothNumberTypes = false

	out, changed := FlattenUnions(g, true, restrictive)
	require.True(t, changed)
	tl, _ := out.TopLevelByName("T")
	assert.Equal(t, typegraph.KindDouble, out.At(tl).Kind)
}
