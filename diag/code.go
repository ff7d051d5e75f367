package diag

// CodeCategory represents the semantic domain of an error code.
//
// Categories correspond to the four error kinds of the type graph pipeline's
// error handling design: configuration, structural invariant violations,
// input, and render.
type CodeCategory uint8

const (
	// CategorySentinel is for sentinel codes like E_LIMIT_REACHED and E_INTERNAL.
	CategorySentinel CodeCategory = iota

	// CategoryConfiguration is for invalid pipeline configuration: unknown
	// target languages, unknown renderer options. Fatal, no recovery.
	CategoryConfiguration

	// CategoryStructural is for violations of a TypeGraph invariant detected
	// by a self-check assertion. These indicate a bug in a rewrite pass, not
	// a problem with user input; they are fatal and never caught.
	CategoryStructural

	// CategoryInput is for malformed sample or schema documents supplied to
	// the pipeline. Propagated as a returned error.
	CategoryInput

	// CategoryRender is for failures in the downstream renderer.
	CategoryRender
)

// String returns a human-readable label for the category.
func (c CodeCategory) String() string {
	switch c {
	case CategorySentinel:
		return "sentinel"
	case CategoryConfiguration:
		return "configuration"
	case CategoryStructural:
		return "structural"
	case CategoryInput:
		return "input"
	case CategoryRender:
		return "render"
	default:
		return "unknown"
	}
}

// Code is a stable programmatic identifier for an Issue.
//
// Error codes are stable identifiers that tools can match on, even when
// message text changes. The Code type uses unexported fields to enforce
// a closed set of valid codes—only codes defined in this package are valid.
type Code struct {
	value string
	cat   CodeCategory
}

// String returns the code's string representation (e.g., "E_EMPTY_UNION").
func (c Code) String() string {
	return c.value
}

// Category returns the programmatic category for this code.
func (c Code) Category() CodeCategory {
	return c.cat
}

// IsZero reports whether the code is unset.
func (c Code) IsZero() bool {
	return c.value == ""
}

// code is the unexported constructor—callers cannot create arbitrary codes.
func code(value string, cat CodeCategory) Code {
	return Code{value: value, cat: cat}
}

// Sentinel codes.
var (
	// E_LIMIT_REACHED is a sentinel code for explicit limit notification.
	E_LIMIT_REACHED = code("E_LIMIT_REACHED", CategorySentinel)

	// E_INTERNAL indicates an unexpected invariant failure (internal bug indicator).
	E_INTERNAL = code("E_INTERNAL", CategorySentinel)
)

// Configuration codes (ConfigurationError — fatal, no recovery).
var (
	// E_UNKNOWN_OUTPUT_LANGUAGE indicates Options.Lang names a target
	// language the pipeline has no capability descriptor for.
	E_UNKNOWN_OUTPUT_LANGUAGE = code("E_UNKNOWN_OUTPUT_LANGUAGE", CategoryConfiguration)

	// E_UNKNOWN_RENDERER_OPTION indicates Options.RendererOptions contains
	// a key the selected target does not recognize.
	E_UNKNOWN_RENDERER_OPTION = code("E_UNKNOWN_RENDERER_OPTION", CategoryConfiguration)
)

// Structural invariant codes (StructuralInvariantViolation — fatal, assertion-style).
var (
	// E_EMPTY_UNION indicates a union type was constructed with zero members.
	E_EMPTY_UNION = code("E_EMPTY_UNION", CategoryStructural)

	// E_EMPTY_INTERSECTION indicates an intersection type was constructed
	// with zero members.
	E_EMPTY_INTERSECTION = code("E_EMPTY_INTERSECTION", CategoryStructural)

	// E_DANGLING_REFERENCE indicates a Ref points at an index with no
	// corresponding Type in the graph's arena.
	E_DANGLING_REFERENCE = code("E_DANGLING_REFERENCE", CategoryStructural)

	// E_FORWARDER_SURVIVED indicates a forwarding intersection placeholder
	// was still present after removeIndirectionIntersections ran.
	E_FORWARDER_SURVIVED = code("E_FORWARDER_SURVIVED", CategoryStructural)

	// E_FIXED_POINT_DID_NOT_CONVERGE indicates a rewrite loop did not reach a
	// stable graph: the schema-mode intersection/union loop stopped making
	// progress, rewriteFixedPoint hit its iteration cap, or a flattenUnions
	// self-check still found work after a single pass.
	E_FIXED_POINT_DID_NOT_CONVERGE = code("E_FIXED_POINT_DID_NOT_CONVERGE", CategoryStructural)

	// E_DUPLICATE_PROPERTY indicates a class was constructed with the same
	// property name twice.
	E_DUPLICATE_PROPERTY = code("E_DUPLICATE_PROPERTY", CategoryStructural)

	// E_UNREACHABLE_TOP_LEVEL indicates a top-level entry's Ref does not
	// resolve to any Type in the graph.
	E_UNREACHABLE_TOP_LEVEL = code("E_UNREACHABLE_TOP_LEVEL", CategoryStructural)

	// E_NON_CANONICAL_DUPLICATE indicates two structurally identical,
	// non-nominal types survived interning as distinct Refs.
	E_NON_CANONICAL_DUPLICATE = code("E_NON_CANONICAL_DUPLICATE", CategoryStructural)
)

// Input codes (InputError — propagated as a returned error).
var (
	// E_MALFORMED_SAMPLE indicates a sample document is not valid
	// JSON/JSONC.
	E_MALFORMED_SAMPLE = code("E_MALFORMED_SAMPLE", CategoryInput)

	// E_MALFORMED_SCHEMA indicates a JSON Schema document is not valid
	// JSON/JSONC, or its root is not an object.
	E_MALFORMED_SCHEMA = code("E_MALFORMED_SCHEMA", CategoryInput)

	// E_UNSUPPORTED_SCHEMA_SHAPE indicates a JSON Schema construct this
	// reader does not understand (e.g. an unsupported keyword combination).
	E_UNSUPPORTED_SCHEMA_SHAPE = code("E_UNSUPPORTED_SCHEMA_SHAPE", CategoryInput)
)

// Render codes (RenderError — surfaced by the downstream renderer).
var (
	// E_RENDER_FAILED indicates the downstream renderer could not produce
	// output for the canonical graph.
	E_RENDER_FAILED = code("E_RENDER_FAILED", CategoryRender)
)

// allCodes contains all defined codes for AllCodes() and uniqueness verification.
var allCodes = []Code{
	E_LIMIT_REACHED,
	E_INTERNAL,
	E_UNKNOWN_OUTPUT_LANGUAGE,
	E_UNKNOWN_RENDERER_OPTION,
	E_EMPTY_UNION,
	E_EMPTY_INTERSECTION,
	E_DANGLING_REFERENCE,
	E_FORWARDER_SURVIVED,
	E_FIXED_POINT_DID_NOT_CONVERGE,
	E_DUPLICATE_PROPERTY,
	E_UNREACHABLE_TOP_LEVEL,
	E_NON_CANONICAL_DUPLICATE,
	E_MALFORMED_SAMPLE,
	E_MALFORMED_SCHEMA,
	E_UNSUPPORTED_SCHEMA_SHAPE,
	E_RENDER_FAILED,
}

// AllCodes returns all defined codes.
//
// The returned slice is a copy; modifications do not affect the original.
func AllCodes() []Code {
	result := make([]Code, len(allCodes))
	copy(result, allCodes)
	return result
}

// CodesByCategory returns codes in the given category.
//
// The returned slice is a new allocation; modifications do not affect
// internal state.
func CodesByCategory(cat CodeCategory) []Code {
	var result []Code
	for _, c := range allCodes {
		if c.cat == cat {
			result = append(result, c)
		}
	}
	return result
}
