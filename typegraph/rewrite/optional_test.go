package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
)

func TestOptionalToNullable_RewritesOptionalProperty(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	c, err := b.AddClass([]typegraph.ClassProperty{{Name: "nickname", Type: s, Optional: true}}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", c)
	g := b.Finish()

	out, changed := OptionalToNullable(g)
	require.True(t, changed)
	tl, _ := out.TopLevelByName("T")
	cls := out.At(tl)
	require.Len(t, cls.Properties, 1)
	p := cls.Properties[0]
	assert.False(t, p.Optional)
	u := out.At(p.Type)
	require.Equal(t, typegraph.KindUnion, u.Kind)
	assert.Len(t, u.Members, 2)
	hasNull := false
	for _, m := range u.Members {
		if out.At(m).Kind == typegraph.KindNull {
			hasNull = true
		}
	}
	assert.True(t, hasNull)
}

func TestOptionalToNullable_NoChangeWithoutOptionalProperties(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	c, err := b.AddClass([]typegraph.ClassProperty{{Name: "id", Type: s}}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", c)
	g := b.Finish()

	out, changed := OptionalToNullable(g)
	assert.False(t, changed)
	assert.Same(t, g, out)
}

func TestAllPropertiesOptional_MarksRequiredPropertyOptional(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	c, err := b.AddClass([]typegraph.ClassProperty{{Name: "id", Type: s}}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", c)
	g := b.Finish()

	out, changed := AllPropertiesOptional(g)
	require.True(t, changed)
	tl, _ := out.TopLevelByName("T")
	cls := out.At(tl)
	require.Len(t, cls.Properties, 1)
	assert.True(t, cls.Properties[0].Optional)
}

func TestAllPropertiesOptional_NoChangeWhenAlreadyOptional(t *testing.T) {
	b := newRewriteBuilder()
	s, err := b.AddPrimitive(typegraph.KindString, attr.Empty)
	require.NoError(t, err)
	c, err := b.AddClass([]typegraph.ClassProperty{{Name: "nickname", Type: s, Optional: true}}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("T", c)
	g := b.Finish()

	out, changed := AllPropertiesOptional(g)
	assert.False(t, changed)
	assert.Same(t, g, out)
}
