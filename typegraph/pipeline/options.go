// Package pipeline implements the ordered driver program: it builds an
// initial TypeGraph from an input.Data collaborator, runs the
// typegraph/rewrite passes in a fixed sequence with two internal fixed
// points and three self-check assertions, then hands the canonical graph
// to namer.GatherNames. Rendering itself is out of scope (render only
// carries the output contract's shape); Run returns a placeholder result
// per output file when Options.NoRender is set.
package pipeline

import (
	"log/slog"

	"github.com/kestrel-oss/typegraph/input"
	"github.com/kestrel-oss/typegraph/namer"
	"github.com/kestrel-oss/typegraph/render"
	"github.com/kestrel-oss/typegraph/target"
)

// Options configures one driver run. The zero value is not directly usable
// (Lang and InputData have no sensible default); use NewOptions to start
// from the documented defaults.
type Options struct {
	// Lang selects the target language by name, looked up in Languages.
	Lang string

	// Languages is consulted to resolve Lang. Defaults to target.Default()
	// when left nil.
	Languages target.Registry

	// InputData supplies the documents the graph is built from.
	InputData input.Data

	CombineClasses bool
	InferMaps      bool
	InferEnums     bool

	InferDates          bool
	InferIntegerStrings bool

	AlphabetizeProperties bool
	AllPropertiesOptional bool
	FixedTopLevels        bool

	NoRender       bool
	OutputFilename string

	LeadingComments []string
	RendererOptions map[string]string
	Indentation     string

	DebugPrintGraph          bool
	DebugPrintReconstitution bool
	CheckProvenance          bool
	DebugPrintTimes          bool

	// Logger receives per-step operation boundary logs via internal/trace
	// when non-nil. Left nil (the default), the driver logs nothing.
	Logger *slog.Logger

	// Render is the downstream code emitter, an external collaborator
	// ("emitting code" is a non-goal of this module). When nil,
	// Run still produces the canonical NamedTypeGraph but returns a
	// placeholder Result per OutputFilename instead of real file content.
	Render func(*namer.NamedTypeGraph) (map[string]render.Result, error)
}

// NewOptions returns an Options with every documented default applied,
// for a given target language name and input collaborator.
func NewOptions(lang string, data input.Data) Options {
	return Options{
		Lang:                lang,
		InputData:           data,
		CombineClasses:      true,
		InferMaps:           true,
		InferEnums:          true,
		InferDates:          true,
		InferIntegerStrings: true,
		OutputFilename:      "stdout",
	}
}

func (o Options) languages() target.Registry {
	if o.Languages != nil {
		return o.Languages
	}
	return target.Default()
}
