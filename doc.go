// Package typegraph provides a language-agnostic type-graph intermediate
// representation and a pipeline of structural rewrites that turn
// over-approximated, possibly cyclic observations (sample JSON documents, a
// JSON Schema document) into a canonical graph ready for a code generator to
// render.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no internal dependencies):
//	  - location: Source positions and spans, used by render annotations
//	  - diag: Structured diagnostics with stable error codes
//	  - attr: Commutative attribute bundles attached to type-graph nodes
//
//	Core IR tier:
//	  - typegraph: The Type tagged variant, Ref identity, and TypeGraph
//	  - typegraph/build: TypeBuilder, the sole construction path for a graph
//	  - typegraph/recon: cycle-safe memoized graph reconstitution
//	  - typegraph/rewrite: the individual structural passes
//	  - typegraph/pipeline: the ordered driver that runs passes to a fixed point
//
//	Supporting tier:
//	  - target: per-output-language capability descriptors
//	  - registry: per-run synthesized name allocation
//	  - namer: final name assignment
//	  - render: the renderer's output-file contract shape
//	  - input: the Data collaborator contract, plus sample/schema readers
//
// # Entry Point
//
//	import "github.com/kestrel-oss/typegraph/typegraph/pipeline"
//
//	out, err := pipeline.Run(ctx, pipeline.NewOptions("go", sampleReader))
//	if err != nil {
//	    // a ConfigurationError or an InputError; a
//	    // StructuralInvariantViolation is a panic, not a returned error
//	}
//	for filename, result := range out.Results {
//	    // result.Lines is the rendered file content
//	}
//
// # Subpackages
//
// See the individual package documentation for detailed usage:
//
//   - [github.com/kestrel-oss/typegraph/diag]: Structured diagnostics
//   - [github.com/kestrel-oss/typegraph/location]: Source location tracking
//   - [github.com/kestrel-oss/typegraph/attr]: Attribute bundles
//   - [github.com/kestrel-oss/typegraph/typegraph]: The IR itself
//   - [github.com/kestrel-oss/typegraph/typegraph/build]: Graph construction
//   - [github.com/kestrel-oss/typegraph/typegraph/recon]: Cycle-safe graph copying
//   - [github.com/kestrel-oss/typegraph/typegraph/rewrite]: Structural passes
//   - [github.com/kestrel-oss/typegraph/typegraph/pipeline]: The ordered driver
//   - [github.com/kestrel-oss/typegraph/target]: Output-language capabilities
//   - [github.com/kestrel-oss/typegraph/registry]: Name allocation
//   - [github.com/kestrel-oss/typegraph/namer]: Naming
//   - [github.com/kestrel-oss/typegraph/render]: Output contract shape
//   - [github.com/kestrel-oss/typegraph/input]: Input collaborator contract
package typegraph
