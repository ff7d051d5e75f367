package diag

import "strconv"

// Detail provides key-value context for diagnostic issues.
//
// Details are used to add structured information to issues that can be
// programmatically inspected by tools. Use the standard detail key constants
// to ensure consistent key naming across the codebase.
type Detail struct {
	Key   string
	Value string
}

// Standard detail keys for consistent diagnostic metadata.
//
// Use these constants to avoid stringly-typed drift and enable programmatic
// inspection of diagnostic details. Custom detail keys are permitted for
// domain-specific diagnostics; use lower_snake_case for custom keys.
const (
	// DetailKeyExpected is the expected value or type.
	DetailKeyExpected = "expected"

	// DetailKeyGot is the actual value or type received.
	DetailKeyGot = "got"

	// DetailKeyTypeName is the synthesized or nominal type name involved
	// in the diagnostic.
	DetailKeyTypeName = "type"

	// DetailKeyPropertyName is the class property name involved.
	DetailKeyPropertyName = "property"

	// DetailKeyRefIndex is the arena index of a dangling or offending Ref.
	DetailKeyRefIndex = "ref_index"

	// DetailKeyMemberIndex is the position of a union or intersection
	// member involved in the diagnostic.
	DetailKeyMemberIndex = "member_index"

	// DetailKeyPassName is the name of the rewrite pass that raised or
	// detected the condition.
	DetailKeyPassName = "pass"

	// DetailKeyIterationCount is the number of fixed-point iterations
	// performed before a convergence failure.
	DetailKeyIterationCount = "iterations"

	// DetailKeyReason is the failure reason discriminant.
	DetailKeyReason = "reason"

	// DetailKeyField is the data-level field name (for malformed input
	// diagnostics).
	DetailKeyField = "field"

	// DetailKeyJSONPointer is a JSON Pointer into the offending sample or
	// schema document.
	DetailKeyJSONPointer = "json_pointer"

	// DetailKeyDetail is the specific error description (parse error,
	// schema-shape mismatch).
	DetailKeyDetail = "detail"

	// DetailKeyTargetLanguage is the target language identifier (for
	// configuration and render diagnostics).
	DetailKeyTargetLanguage = "target_language"

	// DetailKeyRendererOption is the unrecognized renderer option key.
	DetailKeyRendererOption = "renderer_option"

	// DetailKeyName is the invalid or colliding identifier name.
	DetailKeyName = "name"

	// DetailKeyContext is contextual information (e.g., "TypeBuilder",
	// "Reconstitutor").
	DetailKeyContext = "context"

	// DetailKeyId is the identifier value (e.g., synthetic SourceID).
	DetailKeyId = "id"

	// DetailKeySourceName is the name of the sample or schema document
	// a Type's provenance attribute bundle traces back to.
	DetailKeySourceName = "source_name"
)

// ExpectedGot creates a pair of details for type mismatch diagnostics.
//
// This is the standard pattern for reporting "expected X, got Y" errors.
func ExpectedGot(expected, got string) []Detail {
	return []Detail{
		{Key: DetailKeyExpected, Value: expected},
		{Key: DetailKeyGot, Value: got},
	}
}

// TypeProp creates detail entries for type+property diagnostics.
//
// Use for diagnostics involving a specific property on a class type.
func TypeProp(typeName, propName string) []Detail {
	return []Detail{
		{Key: DetailKeyTypeName, Value: typeName},
		{Key: DetailKeyPropertyName, Value: propName},
	}
}

// RefAt creates detail entries for diagnostics pinpointing a Ref by arena
// index and the pass that observed it.
func RefAt(refIndex int, passName string) []Detail {
	return []Detail{
		{Key: DetailKeyRefIndex, Value: strconv.Itoa(refIndex)},
		{Key: DetailKeyPassName, Value: passName},
	}
}
