// Package input defines the driver's input collaborator contract and ships
// two concrete implementations of it: a sample-document reader and a JSON
// Schema reader. Parsing input documents into a TypeGraph is treated as an
// external collaborator's job — the driver only calls back
// into whatever satisfies Data. SampleReader and SchemaReader exist as the
// reference collaborator every test in this module drives the pipeline
// through, not as the one true way to feed it.
package input

import (
	"context"

	"github.com/kestrel-oss/typegraph/typegraph/build"
)

// Flags carries the subset of pipeline.Options that changes how a Data
// implementation interprets raw values while it calls TypeBuilder.Add*.
// Map and enum inference happen later, as graph rewrites; these flags only
// affect choices that need the original literal in hand to make at all
// (recognizing a date-looking or integer-looking string).
type Flags struct {
	InferDates          bool
	InferIntegerStrings bool
}

// Data is the driver's input collaborator contract. A Data value is added
// to pipeline.Options once; the driver calls FinishAddingInputs exactly
// once, when every document has been added, then AddTypes, before any
// rewrite pass runs.
type Data interface {
	// FinishAddingInputs signals that every document this Data will ever
	// see has been added; the driver calls it before AddTypes. May block
	// if the implementation streams documents lazily.
	FinishAddingInputs(ctx context.Context) error

	// AddTypes walks whatever documents this call represents and records
	// types into builder, honoring flags. May block.
	AddTypes(ctx context.Context, builder *build.Builder, flags Flags) error

	// NeedIR reports whether the driver must run the full rewrite pipeline
	// over the graph this Data produces, as opposed to passing it through
	// unmodified (the schema-passthrough fast path).
	NeedIR() bool

	// NeedSchemaProcessing reports whether the driver should treat this
	// Data's graph as schema-derived: the stricter schema-mode fixed point
	// (resolveIntersections/flattenUnions with strict numeric unification)
	// instead of the looser sample-mode rewrite sequence.
	NeedSchemaProcessing() bool

	// SingleStringSchemaSource returns the raw text of the one schema
	// document this Data wraps, and true, when it wraps exactly one JSON
	// Schema document and nothing else — the condition for the driver's
	// schema-passthrough fast path. Any other shape (samples, multiple
	// schemas) returns ("", false).
	SingleStringSchemaSource() (string, bool)
}
