package typegraph

import "github.com/kestrel-oss/typegraph/attr"

// ClassProperty is one entry of a class's ordered property list.
type ClassProperty struct {
	Name     string
	Type     Ref
	Optional bool
}

// Type is a tagged variant node in a TypeGraph. The zero Type is not
// meaningful on its own; Types are always constructed by a TypeBuilder or
// copied by a Reconstitutor.
type Type struct {
	Kind Kind

	// Enum
	Cases []string

	// Class / Object
	Properties []ClassProperty
	Nominal    bool // classes are nominal unless explicitly interned structurally
	Additional Ref  // Object's additional-properties type; InvalidRef if none

	// Map / Array
	Elem Ref

	// Union / Intersection
	Members []Ref

	// TransformedString
	Transformer string

	Attributes attr.Bundle
}

// IsPrimitive reports whether t is a childless primitive.
func (t Type) IsPrimitive() bool { return t.Kind.IsPrimitive() }

// Refs returns every Ref this Type directly points at, in a stable order.
// Used by the Reconstitutor and by reachability sweeps.
func (t Type) Refs() []Ref {
	switch t.Kind {
	case KindClass:
		refs := make([]Ref, len(t.Properties))
		for i, p := range t.Properties {
			refs[i] = p.Type
		}
		return refs
	case KindObject:
		refs := make([]Ref, 0, len(t.Properties)+1)
		for _, p := range t.Properties {
			refs = append(refs, p.Type)
		}
		if t.Additional.IsValid() {
			refs = append(refs, t.Additional)
		}
		return refs
	case KindMap, KindArray:
		if t.Elem.IsValid() {
			return []Ref{t.Elem}
		}
		return nil
	case KindUnion, KindIntersection:
		return append([]Ref(nil), t.Members...)
	default:
		return nil
	}
}

// WithMappedRefs returns a copy of t with every Ref field passed through f,
// preserving Kind, Cases, Nominal, Transformer, and Attributes unchanged.
// This is the building block every Reconstitutor pass uses for the parts of
// a Type it does not itself rewrite.
func (t Type) WithMappedRefs(f func(Ref) Ref) Type {
	out := t
	switch t.Kind {
	case KindClass:
		props := make([]ClassProperty, len(t.Properties))
		for i, p := range t.Properties {
			p.Type = f(p.Type)
			props[i] = p
		}
		out.Properties = props
	case KindObject:
		props := make([]ClassProperty, len(t.Properties))
		for i, p := range t.Properties {
			p.Type = f(p.Type)
			props[i] = p
		}
		out.Properties = props
		if t.Additional.IsValid() {
			out.Additional = f(t.Additional)
		}
	case KindMap, KindArray:
		if t.Elem.IsValid() {
			out.Elem = f(t.Elem)
		}
	case KindUnion, KindIntersection:
		members := make([]Ref, len(t.Members))
		for i, m := range t.Members {
			members[i] = f(m)
		}
		out.Members = members
	}
	return out
}

// Equal reports structural equality ignoring Attributes: same kind, same
// children in the same order, same flags. Two classes are never Equal
// unless both are non-nominal (nominal classes have identity, not
// structure).
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindEnum:
		return equalStringSlices(t.Cases, o.Cases)
	case KindClass:
		if t.Nominal || o.Nominal {
			return false
		}
		return equalProperties(t.Properties, o.Properties)
	case KindObject:
		return equalProperties(t.Properties, o.Properties) && t.Additional == o.Additional
	case KindMap, KindArray:
		return t.Elem == o.Elem
	case KindUnion, KindIntersection:
		return equalRefSets(t.Members, o.Members)
	case KindTransformedString:
		return t.Transformer == o.Transformer
	default:
		return true // primitives: kind equality is the whole story
	}
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalProperties(a, b []ClassProperty) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// equalRefSets compares two Ref slices as sets (order-independent): union
// and intersection members have no meaningful order.
func equalRefSets(a, b []Ref) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[Ref]int, len(a))
	for _, r := range a {
		seen[r]++
	}
	for _, r := range b {
		seen[r]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}
