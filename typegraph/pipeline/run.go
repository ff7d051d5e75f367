package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/input"
	"github.com/kestrel-oss/typegraph/internal/trace"
	"github.com/kestrel-oss/typegraph/namer"
	"github.com/kestrel-oss/typegraph/registry"
	"github.com/kestrel-oss/typegraph/render"
	"github.com/kestrel-oss/typegraph/target"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
	"github.com/kestrel-oss/typegraph/typegraph/rewrite"
)

// Output bundles everything a Run call produces: the final named graph
// (nil on the schema-passthrough fast path, which never builds one) and
// whatever Options.Render (or the NoRender placeholder) produced.
type Output struct {
	Graph   *namer.NamedTypeGraph
	Results map[string]render.Result
}

// Run executes the full driver program against opts. It builds a fresh
// registry.Registry for this call only — concurrent Run calls in the same
// process never share name state — and returns a ConfigurationError or
// InputError as a normal error value. A StructuralInvariantViolation is
// never returned; the driver panics with one instead, since it indicates a
// bug in the pipeline rather than a problem with opts or the input
// documents.
func Run(ctx context.Context, opts Options) (*Output, error) {
	lang, ok := opts.languages().Lookup(opts.Lang)
	if !ok {
		issue := diag.NewIssue(diag.Fatal, diag.E_UNKNOWN_OUTPUT_LANGUAGE,
			fmt.Sprintf("unknown output language %q", opts.Lang)).Build()
		return nil, ConfigurationError{Issue: issue}
	}
	if err := checkRendererOptions(opts, lang); err != nil {
		return nil, err
	}

	op := trace.Begin(ctx, opts.Logger, "typegraph.pipeline.run", slog.String("lang", opts.Lang))
	var runErr error
	defer func() { op.End(runErr) }()

	if opts.InputData == nil {
		runErr = ConfigurationError{Issue: diag.NewIssue(diag.Fatal, diag.E_UNKNOWN_OUTPUT_LANGUAGE, "no InputData configured").Build()}
		return nil, runErr
	}

	if lang.IsSchemaPassthrough() {
		if src, ok := opts.InputData.SingleStringSchemaSource(); ok {
			out, err := passthroughResult(opts, src)
			runErr = err
			return out, err
		}
	}

	if err := opts.InputData.FinishAddingInputs(ctx); err != nil {
		runErr = wrapInputError(err)
		return nil, runErr
	}

	builder := build.New(lang.StringTypeMapping, opts.FixedTopLevels)
	flags := input.Flags{InferDates: opts.InferDates, InferIntegerStrings: opts.InferIntegerStrings}
	if err := opts.InputData.AddTypes(ctx, builder, flags); err != nil {
		runErr = wrapInputError(err)
		return nil, runErr
	}
	g := builder.Finish()

	if opts.AllPropertiesOptional {
		g, _ = rewrite.AllPropertiesOptional(g)
	}

	if opts.InputData.NeedIR() {
		g = runRewritePipeline(ctx, opts, g, lang, opts.InputData.NeedSchemaProcessing(), builder.DidAddForwardingIntersection())
	}

	reg := registry.New()
	named := namer.GatherNames(g, !opts.InputData.NeedSchemaProcessing(), reg)

	if opts.NoRender {
		return &Output{Graph: named, Results: placeholderResults(opts)}, nil
	}
	if opts.Render == nil {
		return &Output{Graph: named, Results: placeholderResults(opts)}, nil
	}
	results, err := opts.Render(named)
	if err != nil {
		issue := diag.NewIssue(diag.Error, diag.E_RENDER_FAILED, err.Error()).Build()
		runErr = InputError{Issue: issue, Err: err}
		return nil, runErr
	}
	return &Output{Graph: named, Results: results}, nil
}

// runRewritePipeline executes the driver's full rewrite sequence: every
// pass after the initial graph is built and before names are gathered.
func runRewritePipeline(ctx context.Context, opts Options, g *typegraph.TypeGraph, lang target.Language, schemaMode, forwarded bool) *typegraph.TypeGraph {
	op := trace.Begin(ctx, opts.Logger, "typegraph.pipeline.rewrite")
	defer op.End(nil)

	if forwarded {
		ng, _, err := rewrite.RemoveIndirectionIntersections(g)
		if err != nil {
			raiseStructural(diag.E_FORWARDER_SURVIVED, "%s", err)
		}
		g = ng
	}

	if schemaMode {
		g = schemaModeFixedPoint(g, lang)
	}

	g, _ = rewrite.ReplaceObjectType(g, lang)

	g = loopFlattenUnions(g, false, lang)

	if opts.CombineClasses {
		first, changed := rewrite.CombineClasses(g, true, false)
		g = first
		if changed {
			g, _ = rewrite.CombineClasses(g, false, true)
		}
	}

	if opts.InferMaps {
		for {
			ng, changed := rewrite.InferMaps(g)
			g = ng
			if !changed {
				break
			}
		}
	}

	g, _ = rewrite.ExpandStrings(g, expandPolicy(schemaMode, opts.InferEnums))

	stepG, changed := rewrite.FlattenUnions(g, false, lang)
	if changed {
		raiseStructural(diag.E_FIXED_POINT_DID_NOT_CONVERGE, "flattenUnions found work to do after expandStrings; expandStrings must never re-create nested unions")
	}
	g = stepG

	if schemaMode {
		g, _ = rewrite.FlattenStrings(g)
	}

	g, _ = rewrite.NoneToAny(g)

	if !lang.SupportsOptionalClassProperties {
		g, _ = rewrite.OptionalToNullable(g)
	}

	g, err := rewrite.RewriteFixedPoint(g, lang)
	if err != nil {
		raiseStructural(diag.E_FIXED_POINT_DID_NOT_CONVERGE, "%s", err)
	}

	g, _ = rewrite.MakeTransformations(g, lang)

	stepG, changed = rewrite.FlattenUnions(g, false, lang)
	if changed {
		raiseStructural(diag.E_FIXED_POINT_DID_NOT_CONVERGE, "flattenUnions found work to do after makeTransformations; makeTransformations must never re-create nested unions")
	}
	g = stepG

	return rewrite.GarbageCollect(g, opts.AlphabetizeProperties)
}

// schemaModeFixedPoint alternates resolveIntersections and
// flattenUnions(strict=true) until both report no further change,
// asserting the progress guarantee each iteration.
func schemaModeFixedPoint(g *typegraph.TypeGraph, lang target.Language) *typegraph.TypeGraph {
	intersectionsDone, unionsDone := false, false
	for !intersectionsDone || !unionsDone {
		changedThisIteration := false

		if !intersectionsDone {
			ng, changed := rewrite.ResolveIntersections(g)
			g = ng
			if changed {
				changedThisIteration = true
			} else {
				intersectionsDone = true
			}
		}

		if !unionsDone {
			ng, changed := rewrite.FlattenUnions(g, true, lang)
			g = ng
			if changed {
				changedThisIteration = true
			} else {
				unionsDone = true
			}
		}

		if !changedThisIteration && !(intersectionsDone && unionsDone) {
			raiseStructural(diag.E_FIXED_POINT_DID_NOT_CONVERGE,
				"schema-mode fixed point made no progress (intersectionsDone=%v unionsDone=%v)", intersectionsDone, unionsDone)
		}
	}
	return g
}

func loopFlattenUnions(g *typegraph.TypeGraph, strict bool, lang target.Language) *typegraph.TypeGraph {
	for {
		ng, changed := rewrite.FlattenUnions(g, strict, lang)
		g = ng
		if !changed {
			return g
		}
	}
}

func expandPolicy(schemaMode bool, inferEnums bool) rewrite.StringPolicy {
	switch {
	case schemaMode:
		return rewrite.StringPolicyAll
	case inferEnums:
		return rewrite.StringPolicyInfer
	default:
		return rewrite.StringPolicyNone
	}
}

func hasForwarder(g *typegraph.TypeGraph) bool {
	for i := 0; i < g.Len(); i++ {
		if t := g.At(typegraph.Ref(i)); t.Kind == typegraph.KindIntersection && t.Attributes.IsForwardingRef() {
			return true
		}
	}
	return false
}

// checkRendererOptions rejects any Options.RendererOptions key the target
// does not recognize, returning a ConfigurationError.
func checkRendererOptions(opts Options, lang target.Language) error {
	keys := make([]string, 0, len(opts.RendererOptions))
	for k := range opts.RendererOptions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !lang.AcceptsRendererOption(k) {
			issue := diag.NewIssue(diag.Fatal, diag.E_UNKNOWN_RENDERER_OPTION,
				fmt.Sprintf("unknown renderer option %q for target %q", k, opts.Lang)).Build()
			return ConfigurationError{Issue: issue}
		}
	}
	return nil
}

func outputFilename(opts Options) string {
	if opts.OutputFilename == "" {
		return "stdout"
	}
	return opts.OutputFilename
}

func placeholderResults(opts Options) map[string]render.Result {
	return map[string]render.Result{outputFilename(opts): {}}
}

// passthroughResult implements the schema-passthrough fast path: a
// schema-passthrough target with exactly one schema document bypasses
// every rewrite pass and returns the document pretty-printed with
// 4-space indentation.
func passthroughResult(opts Options, src string) (*Output, error) {
	var v any
	if err := json.Unmarshal([]byte(src), &v); err != nil {
		issue := diag.NewIssue(diag.Error, diag.E_MALFORMED_SCHEMA, err.Error()).Build()
		return nil, InputError{Issue: issue, Err: err}
	}
	pretty, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		issue := diag.NewIssue(diag.Error, diag.E_MALFORMED_SCHEMA, err.Error()).Build()
		return nil, InputError{Issue: issue, Err: err}
	}
	lines := strings.Split(string(pretty), "\n")
	lines = append(lines, "")
	return &Output{Results: map[string]render.Result{outputFilename(opts): {Lines: lines}}}, nil
}

func wrapInputError(err error) error {
	if ie, ok := err.(input.IssueError); ok {
		return InputError{Issue: ie.Issue(), Err: err}
	}
	return InputError{Err: err}
}
