package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
)

func TestNoneToAny_ReplacesBottomType(t *testing.T) {
	b := newRewriteBuilder()
	none, err := b.AddPrimitive(typegraph.KindNone, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", none)
	g := b.Finish()

	out, changed := NoneToAny(g)
	require.True(t, changed)
	tl, _ := out.TopLevelByName("T")
	assert.Equal(t, typegraph.KindAny, out.At(tl).Kind)
}

func TestNoneToAny_NoChangeWithoutNone(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", s)
	g := b.Finish()

	out, changed := NoneToAny(g)
	assert.False(t, changed)
	assert.Same(t, g, out)
}
