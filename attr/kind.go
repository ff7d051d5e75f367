// Package attr implements the attribute bundles attached to every
// typegraph.Type: sets of metadata (origin names, descriptions,
// provenance, forwarding markers) that survive graph rewrites by
// combining commutatively and associatively whenever two types merge.
package attr

// Kind is a stable identifier for an attribute slot in a Bundle.
//
// Like diag.Code, Kind uses an unexported field so only the kinds
// declared in this package are valid; callers cannot fabricate a Kind
// that collides with a future addition.
type Kind struct {
	name string
}

func (k Kind) String() string { return k.name }

var (
	// KindTypeNames holds the set of candidate names a type was inferred
	// under (property names, schema titles, sample top-level keys).
	KindTypeNames = Kind{"type_names"}

	// KindDescriptions holds free-text descriptions harvested from schema
	// "description" keywords.
	KindDescriptions = Kind{"descriptions"}

	// KindProvenance holds the set of source documents (sample or schema)
	// that contributed to a type's inference.
	KindProvenance = Kind{"provenance"}

	// KindForwardingRef marks a Type as a forwarding-intersection
	// placeholder pending resolution by a rewrite pass.
	KindForwardingRef = Kind{"forwarding_ref"}

	// KindObservedValues holds the literal string values a string-typed
	// slot was observed to take on, gathered while samples are read.
	// expandStrings promotes a string carrying this attribute to an enum
	// of its observed cases, subject to the driver's expansion policy.
	KindObservedValues = Kind{"observed_values"}
)
