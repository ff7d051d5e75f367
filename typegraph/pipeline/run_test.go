package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/input"
	"github.com/kestrel-oss/typegraph/typegraph"
)

func sampleReaderWith(t *testing.T, samples ...string) *input.SampleReader {
	t.Helper()
	r := input.NewSampleReader("Root", false)
	for _, s := range samples {
		require.NoError(t, r.AddSample([]byte(s)))
	}
	return r
}

// S1: schema passthrough reproduces the document pretty-printed, 4-space
// indent, with a trailing empty line, and runs no rewrite pass at all.
func TestRun_SchemaPassthrough(t *testing.T) {
	r := input.NewSchemaReader("Root", false)
	require.NoError(t, r.SetSchema([]byte(`{"type":"object","properties":{"a":{"type":"string"}}}`)))

	out, err := Run(context.Background(), NewOptions("schema", r))
	require.NoError(t, err)
	require.Nil(t, out.Graph, "fast path never builds a graph")

	res, ok := out.Results["stdout"]
	require.True(t, ok)
	text := strings.Join(res.Lines, "\n")
	assert.Contains(t, text, "    \"a\"")
	assert.True(t, strings.HasSuffix(text, "\n") || res.Lines[len(res.Lines)-1] == "")
}

// S2: an empty array infers none, which noneToAny promotes to any; no
// KindNone may survive anywhere in the final graph.
func TestRun_NoneToAnyPostcondition(t *testing.T) {
	r := sampleReaderWith(t, `{"x": []}`)
	out, err := Run(context.Background(), NewOptions("go", r))
	require.NoError(t, err)
	require.NotNil(t, out.Graph)

	g := out.Graph.Graph
	for i := 0; i < g.Len(); i++ {
		assert.NotEqual(t, typegraph.KindNone, g.At(typegraph.Ref(i)).Kind, "no none type may survive past step 11")
	}
}

// S3: six uniform integer properties become a map when inferMaps is on,
// and stay a six-property class when it is off.
func TestRun_MapInferenceTogglesOnFlag(t *testing.T) {
	sample := `{"a":1,"b":2,"c":3,"d":4,"e":5,"f":6}`

	onOpts := NewOptions("go", sampleReaderWith(t, sample))
	onOpts.InferMaps = true
	onOut, err := Run(context.Background(), onOpts)
	require.NoError(t, err)
	rootOn := onOut.Graph.Graph.At(rootRef(t, onOut))
	assert.Equal(t, typegraph.KindMap, rootOn.Kind)

	offOpts := NewOptions("go", sampleReaderWith(t, sample))
	offOpts.InferMaps = false
	offOut, err := Run(context.Background(), offOpts)
	require.NoError(t, err)
	rootOff := offOut.Graph.Graph.At(rootRef(t, offOut))
	assert.Equal(t, typegraph.KindClass, rootOff.Kind)
	assert.Len(t, rootOff.Properties, 6)
}

// S4: a three-value string property becomes an enum when inferEnums is on,
// and stays a plain string when it is off.
func TestRun_EnumInferenceTogglesOnFlag(t *testing.T) {
	samples := []string{`{"c":"r"}`, `{"c":"g"}`, `{"c":"b"}`}

	onOpts := NewOptions("go", sampleReaderWith(t, samples...))
	onOpts.InferEnums = true
	onOut, err := Run(context.Background(), onOpts)
	require.NoError(t, err)
	cls := onOut.Graph.Graph.At(rootRef(t, onOut))
	require.Equal(t, typegraph.KindClass, cls.Kind)
	require.Len(t, cls.Properties, 1)
	assert.Equal(t, typegraph.KindEnum, onOut.Graph.Graph.At(cls.Properties[0].Type).Kind)

	offOpts := NewOptions("go", sampleReaderWith(t, samples...))
	offOpts.InferEnums = false
	offOut, err := Run(context.Background(), offOpts)
	require.NoError(t, err)
	clsOff := offOut.Graph.Graph.At(rootRef(t, offOut))
	require.Len(t, clsOff.Properties, 1)
	assert.Equal(t, typegraph.KindString, offOut.Graph.Graph.At(clsOff.Properties[0].Type).Kind)
}

// S5: a target without optional class properties turns a sometimes-absent
// property into a required union{T, null}.
func TestRun_OptionalToNullableOnUnsupportingTarget(t *testing.T) {
	r := sampleReaderWith(t, `{"a":1}`, `{}`)
	opts := NewOptions("go", r) // go target: SupportsOptionalClassProperties=false
	out, err := Run(context.Background(), opts)
	require.NoError(t, err)

	cls := out.Graph.Graph.At(rootRef(t, out))
	require.Equal(t, typegraph.KindClass, cls.Kind)
	require.Len(t, cls.Properties, 1)
	p := cls.Properties[0]
	assert.False(t, p.Optional)
	u := out.Graph.Graph.At(p.Type)
	require.Equal(t, typegraph.KindUnion, u.Kind)
}

// S6: a union of int/string/int/string/null normalizes to three flat,
// deduplicated members.
func TestRun_UnionNormalization(t *testing.T) {
	r := sampleReaderWith(t, `1`, `"x"`, `2`, `"y"`, `null`)
	out, err := Run(context.Background(), NewOptions("go", r))
	require.NoError(t, err)

	u := out.Graph.Graph.At(rootRef(t, out))
	require.Equal(t, typegraph.KindUnion, u.Kind)
	kinds := map[typegraph.Kind]bool{}
	for _, m := range u.Members {
		kinds[out.Graph.Graph.At(m).Kind] = true
	}
	assert.Len(t, u.Members, 3)
	assert.True(t, kinds[typegraph.KindInteger])
	assert.True(t, kinds[typegraph.KindString])
	assert.True(t, kinds[typegraph.KindNull])
}

// General property: running the same input twice with the same Options
// produces the same set of names and the same graph shape.
func TestRun_Deterministic(t *testing.T) {
	sample := `{"a":1,"b":"x","c":[1,2,3]}`
	out1, err := Run(context.Background(), NewOptions("go", sampleReaderWith(t, sample)))
	require.NoError(t, err)
	out2, err := Run(context.Background(), NewOptions("go", sampleReaderWith(t, sample)))
	require.NoError(t, err)

	assert.Equal(t, out1.Graph.Graph.Len(), out2.Graph.Graph.Len())
	root1 := out1.Graph.Graph.At(rootRef(t, out1))
	root2 := out2.Graph.Graph.At(rootRef(t, out2))
	assert.Equal(t, root1.Kind, root2.Kind)
	assert.Equal(t, len(root1.Properties), len(root2.Properties))
}

// General property: garbage collection leaves only reachable nodes behind.
func TestRun_GarbageCollectedGraphIsFullyReachable(t *testing.T) {
	r := sampleReaderWith(t, `{"a":1,"b":{"c":"x"}}`)
	out, err := Run(context.Background(), NewOptions("go", r))
	require.NoError(t, err)

	reachable := map[typegraph.Ref]bool{}
	var visit func(ref typegraph.Ref)
	visit = func(ref typegraph.Ref) {
		if !ref.IsValid() || reachable[ref] {
			return
		}
		reachable[ref] = true
		t := out.Graph.Graph.At(ref)
		for _, p := range t.Properties {
			visit(p.Type)
		}
		visit(t.Elem)
		visit(t.Additional)
		for _, m := range t.Members {
			visit(m)
		}
	}
	for _, tl := range out.Graph.Graph.TopLevels() {
		visit(tl.Type)
	}
	assert.Equal(t, len(reachable), out.Graph.Graph.Len(), "every node in the GC'd arena must be reachable from a top level")
}

// Unknown target language is a ConfigurationError, not a panic.
func TestRun_UnknownLanguageIsConfigurationError(t *testing.T) {
	r := sampleReaderWith(t, `{"a":1}`)
	_, err := Run(context.Background(), NewOptions("cobol", r))
	require.Error(t, err)
	var cfgErr ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

// An unrecognized RendererOptions key is a ConfigurationError raised before
// the driver ever touches the graph, not a silently ignored option.
func TestRun_UnknownRendererOptionIsConfigurationError(t *testing.T) {
	r := sampleReaderWith(t, `{"a":1}`)
	opts := NewOptions("go", r)
	opts.RendererOptions = map[string]string{"frobnicate": "yes"}
	_, err := Run(context.Background(), opts)
	require.Error(t, err)
	var cfgErr ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, diag.E_UNKNOWN_RENDERER_OPTION, cfgErr.Issue.Code())
}

// A recognized RendererOptions key is accepted and the run proceeds
// normally.
func TestRun_KnownRendererOptionIsAccepted(t *testing.T) {
	r := sampleReaderWith(t, `{"a":1}`)
	opts := NewOptions("go", r)
	opts.RendererOptions = map[string]string{"package": "models"}
	_, err := Run(context.Background(), opts)
	require.NoError(t, err)
}

// Malformed input is rejected by the sample reader itself, before Run, as
// an input.IssueError (not a panic) that keeps its diag.Issue reachable.
func TestRun_MalformedSampleIsInputError(t *testing.T) {
	r := input.NewSampleReader("Root", true)
	err := r.AddSample([]byte(`{not json`))
	require.Error(t, err)
	var ie input.IssueError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, diag.E_MALFORMED_SAMPLE, ie.Issue().Code())
}

// No-intersection postcondition: after step 3 in schema-mode, no
// intersection type may survive, regardless of how many allOf branches the
// source schema declared.
func TestRun_NoIntersectionPostconditionInSchemaMode(t *testing.T) {
	r := input.NewSchemaReader("Root", false)
	require.NoError(t, r.SetSchema([]byte(`{
		"allOf": [
			{"type": "object", "properties": {"a": {"type": "string"}}},
			{"type": "object", "properties": {"b": {"type": "integer"}}}
		]
	}`)))

	out, err := Run(context.Background(), NewOptions("go", r))
	require.NoError(t, err)
	require.NotNil(t, out.Graph)

	g := out.Graph.Graph
	for i := 0; i < g.Len(); i++ {
		assert.NotEqual(t, typegraph.KindIntersection, g.At(typegraph.Ref(i)).Kind, "no intersection type may survive schema-mode's step 3 fixed point")
	}

	root := g.At(rootRef(t, out))
	require.Equal(t, typegraph.KindClass, root.Kind)
	assert.Len(t, root.Properties, 2, "allOf's two object branches must have been merged into one class")
}

// Class ordering: AlphabetizeProperties reaches all the way through the
// driver to the final GarbageCollect call. Both readers already sort
// decoded object keys before the first class is even built (map[string]any
// has no stable order of its own), so this exercises wiring rather than
// rewrite.GarbageCollect's own sort, which typegraph/rewrite/gc_test.go
// covers directly against out-of-order input.
func TestRun_ClassOrderingAlphabetizeFlagReachesFinalGraph(t *testing.T) {
	sample := `{"zebra":1,"apple":2,"mango":3}`
	opts := NewOptions("go", sampleReaderWith(t, sample))
	opts.AlphabetizeProperties = true
	out, err := Run(context.Background(), opts)
	require.NoError(t, err)

	root := out.Graph.Graph.At(rootRef(t, out))
	require.Len(t, root.Properties, 3)
	names := make([]string, len(root.Properties))
	for i, p := range root.Properties {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"apple", "mango", "zebra"}, names)
}

func rootRef(t *testing.T, out *Output) typegraph.Ref {
	t.Helper()
	require.Len(t, out.Graph.Graph.TopLevels(), 1)
	return out.Graph.Graph.TopLevels()[0].Type
}
