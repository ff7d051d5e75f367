package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
)

// A malformed schema document's diag.Issue carries the real line/column of
// the decode failure.
func TestSchemaReader_MalformedJSONCarriesSpan(t *testing.T) {
	r := NewSchemaReader("Root", true)
	require.NoError(t, r.SetSchema([]byte(`{"type": }`)))

	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	addErr := r.AddTypes(context.Background(), b, Flags{})
	require.Error(t, addErr)
	var ie IssueError
	require.ErrorAs(t, addErr, &ie)
	issue := ie.Issue()
	assert.Equal(t, diag.E_MALFORMED_SCHEMA, issue.Code())
	require.True(t, issue.HasSpan(), "decode error should carry a known position")
	assert.Equal(t, 1, issue.Span().Start.Line)
}

func TestSchemaReader_BuildsObjectWithProperties(t *testing.T) {
	r := NewSchemaReader("Person", false)
	require.NoError(t, r.SetSchema([]byte(`{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer"}
		},
		"required": ["name"]
	}`)))

	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	require.NoError(t, r.AddTypes(context.Background(), b, Flags{}))
	g := b.Finish()

	top := g.At(g.TopLevels()[0].Type)
	require.Equal(t, typegraph.KindClass, top.Kind)
	require.Len(t, top.Properties, 2)
	byName := map[string]typegraph.ClassProperty{}
	for _, p := range top.Properties {
		byName[p.Name] = p
	}
	assert.False(t, byName["name"].Optional)
	assert.True(t, byName["age"].Optional)
}

func TestSchemaReader_ResolvesDefinitionRef(t *testing.T) {
	r := NewSchemaReader("Root", false)
	require.NoError(t, r.SetSchema([]byte(`{
		"definitions": {
			"Address": {"type": "object", "properties": {"city": {"type": "string"}}}
		},
		"type": "object",
		"properties": {
			"home": {"$ref": "#/definitions/Address"}
		}
	}`)))

	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	require.NoError(t, r.AddTypes(context.Background(), b, Flags{}))
	g := b.Finish()

	top := g.At(g.TopLevels()[0].Type)
	home := g.At(top.Properties[0].Type)
	assert.Equal(t, typegraph.KindClass, home.Kind)
	assert.Equal(t, "city", home.Properties[0].Name)
}

func TestSchemaReader_EnumBecomesEnumKind(t *testing.T) {
	r := NewSchemaReader("Root", false)
	require.NoError(t, r.SetSchema([]byte(`{
		"type": "object",
		"properties": {
			"color": {"enum": ["red", "green", "blue"]}
		}
	}`)))

	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	require.NoError(t, r.AddTypes(context.Background(), b, Flags{}))
	g := b.Finish()

	top := g.At(g.TopLevels()[0].Type)
	color := g.At(top.Properties[0].Type)
	assert.Equal(t, typegraph.KindEnum, color.Kind)
	assert.Len(t, color.Cases, 3)
}

func TestSchemaReader_SingleStringSchemaSource(t *testing.T) {
	r := NewSchemaReader("Root", false)
	_, ok := r.SingleStringSchemaSource()
	assert.False(t, ok)

	require.NoError(t, r.SetSchema([]byte(`{"type": "string"}`)))
	src, ok := r.SingleStringSchemaSource()
	assert.True(t, ok)
	assert.Contains(t, src, "string")
}

func TestSchemaReader_CyclicRefsResolveViaForwarding(t *testing.T) {
	r := NewSchemaReader("Root", false)
	require.NoError(t, r.SetSchema([]byte(`{
		"definitions": {
			"A": {"type": "object", "properties": {"b": {"$ref": "#/definitions/B"}}},
			"B": {"type": "object", "properties": {"a": {"$ref": "#/definitions/A"}}}
		},
		"$ref": "#/definitions/A"
	}`)))

	b := build.New(typegraph.DefaultStringTypeMapping(), false)
	require.NoError(t, r.AddTypes(context.Background(), b, Flags{}))
	g := b.Finish()
	assert.True(t, b.DidAddForwardingIntersection())
	assert.NotEqual(t, typegraph.InvalidRef, g.TopLevels()[0].Type)
}
