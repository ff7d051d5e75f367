package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
)

func TestReconstitute_IdentityMapPreservesShape(t *testing.T) {
	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	str, _ := b.GetPrimitiveStringType(typegraph.KindString)
	i, _ := b.GetPrimitiveStringType(typegraph.KindInteger)
	cls, err := b.AddClass([]typegraph.ClassProperty{
		{Name: "a", Type: str},
		{Name: "b", Type: i},
	}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("Root", cls)
	src := b.Finish()

	dst := Reconstitute(src, IdentityMap, false)

	ref, ok := dst.TopLevelByName("Root")
	require.True(t, ok)
	got := dst.At(ref)
	assert.Equal(t, typegraph.KindClass, got.Kind)
	require.Len(t, got.Properties, 2)
	assert.Equal(t, "a", got.Properties[0].Name)
	assert.Equal(t, typegraph.KindString, dst.At(got.Properties[0].Type).Kind)
}

func TestReconstitute_PreservesSelfCycle(t *testing.T) {
	// Build a source graph with a self-referencing class by hand, since
	// TypeBuilder alone cannot express "array<Node> property on Node"
	// without the same forward-reference problem the Reconstitutor solves.
	arena := []typegraph.Type{
		{Kind: typegraph.KindArray, Elem: 0}, // self: array<array-of-self>... replaced below
	}
	// arena[0] is Node = class{children: array<Node>}; arena[1] is the array.
	arena = []typegraph.Type{
		{Kind: typegraph.KindClass, Nominal: true, Properties: []typegraph.ClassProperty{{Name: "children", Type: 1}}},
		{Kind: typegraph.KindArray, Elem: 0},
	}
	src := typegraph.New(arena, []typegraph.TopLevel{{Name: "Node", Type: 0}}, typegraph.DefaultStringTypeMapping())

	dst := Reconstitute(src, IdentityMap, false)

	ref, ok := dst.TopLevelByName("Node")
	require.True(t, ok)
	node := dst.At(ref)
	require.Len(t, node.Properties, 1)
	arr := dst.At(node.Properties[0].Type)
	assert.Equal(t, typegraph.KindArray, arr.Kind)
	assert.Equal(t, ref, arr.Elem, "the array's element must point back at the same Node ref, not a duplicate")
}

func TestReconstitute_MemoizesRepeatedRef(t *testing.T) {
	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	str, _ := b.GetPrimitiveStringType(typegraph.KindString)
	m1, err := b.AddMap(str, attr.Empty)
	require.NoError(t, err)
	m2, err := b.AddMap(str, attr.Empty)
	require.NoError(t, err)
	require.Equal(t, m1, m2, "precondition: both maps share the interned str ref")

	cls, err := b.AddClass([]typegraph.ClassProperty{
		{Name: "a", Type: m1},
		{Name: "b", Type: m2},
	}, true, attr.Empty)
	require.NoError(t, err)
	b.AddTopLevel("Root", cls)
	src := b.Finish()

	dst := Reconstitute(src, IdentityMap, false)
	ref, _ := dst.TopLevelByName("Root")
	got := dst.At(ref)
	assert.Equal(t, got.Properties[0].Type, got.Properties[1].Type, "memoization must route both property types to the same destination ref")
}

func TestReconstitute_CustomMapFuncRewritesKind(t *testing.T) {
	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	i, _ := b.GetPrimitiveStringType(typegraph.KindInteger)
	b.AddTopLevel("Root", i)
	src := b.Finish()

	noneToDouble := func(w *Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind == typegraph.KindInteger {
			return typegraph.Type{Kind: typegraph.KindDouble}
		}
		return IdentityMap(w, ref, t)
	}

	dst := Reconstitute(src, noneToDouble, false)
	ref, _ := dst.TopLevelByName("Root")
	assert.Equal(t, typegraph.KindDouble, dst.At(ref).Kind)
}

func TestWalker_Walk_InvalidRefPassesThrough(t *testing.T) {
	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	src := b.Finish()
	w := NewWalker(src, build.New(typegraph.DefaultStringTypeMapping(), false), IdentityMap)
	assert.Equal(t, typegraph.InvalidRef, w.Walk(typegraph.InvalidRef))
}
