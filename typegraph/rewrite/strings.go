package rewrite

import (
	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/recon"
)

// StringPolicy controls whether and how ExpandStrings promotes observed
// string values into enums.
type StringPolicy string

const (
	// StringPolicyAll promotes every string carrying observed values,
	// regardless of how many distinct values were seen.
	StringPolicyAll StringPolicy = "all"
	// StringPolicyInfer promotes only strings whose observed-value count
	// stayed within maxInferredEnumCases, on the theory that a string that
	// took on more distinct values than that was never meant to be a closed
	// enumeration.
	StringPolicyInfer StringPolicy = "infer"
	// StringPolicyNone never promotes; every string stays KindString.
	StringPolicyNone StringPolicy = "none"
)

// maxInferredEnumCases bounds StringPolicyInfer promotion.
const maxInferredEnumCases = 10

// ExpandStrings promotes a KindString carrying attr.KindObservedValues to a
// KindEnum of those cases, subject to policy.
func ExpandStrings(g *typegraph.TypeGraph, policy StringPolicy) (*typegraph.TypeGraph, bool) {
	if policy == StringPolicyNone {
		return g, false
	}
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindString {
			return recon.IdentityMap(w, ref, t)
		}
		v, ok := t.Attributes.Get(attr.KindObservedValues)
		if !ok {
			return recon.IdentityMap(w, ref, t)
		}
		ss, ok := v.(attr.StringSet)
		if !ok || len(ss) == 0 {
			return recon.IdentityMap(w, ref, t)
		}
		if policy == StringPolicyInfer && len(ss) > maxInferredEnumCases {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		return typegraph.Type{Kind: typegraph.KindEnum, Cases: ss.Slice(), Attributes: t.Attributes}
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}

// stringFamily is the set of kinds FlattenStrings treats as interchangeable
// with plain KindString once a target forces the distinction away.
func stringFamily(k typegraph.Kind) bool {
	switch k {
	case typegraph.KindString, typegraph.KindEnum, typegraph.KindTransformedString,
		typegraph.KindDate, typegraph.KindTime, typegraph.KindDateTime,
		typegraph.KindIntegerString, typegraph.KindBoolString:
		return true
	default:
		return false
	}
}

// FlattenStrings collapses a union whose members are entirely drawn from the
// string family (plain strings, enums, semantic strings, transformed
// strings) down to a single plain KindString, for targets that cannot
// distinguish them once unioned.
func FlattenStrings(g *typegraph.TypeGraph) (*typegraph.TypeGraph, bool) {
	changed := false
	mapFn := func(w *recon.Walker, ref typegraph.Ref, t typegraph.Type) typegraph.Type {
		if t.Kind != typegraph.KindUnion || len(t.Members) < 2 {
			return recon.IdentityMap(w, ref, t)
		}
		allStringFamily := true
		for _, m := range t.Members {
			if !stringFamily(g.At(m).Kind) {
				allStringFamily = false
				break
			}
		}
		if !allStringFamily {
			return recon.IdentityMap(w, ref, t)
		}
		changed = true
		return typegraph.Type{Kind: typegraph.KindString, Attributes: t.Attributes}
	}
	out := recon.Reconstitute(g, mapFn, false)
	if !changed {
		return g, false
	}
	return out, true
}
