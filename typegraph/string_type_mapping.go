package typegraph

// StringTypeMapping declares which transformed-string kinds a target
// language recognizes, keyed by transformer tag. A TypeGraph carries one so
// that rewrite passes (expandStrings, makeTransformations) know which
// specializations are legal to introduce or must be collapsed back to a
// plain string.
type StringTypeMapping map[string]Kind

// DefaultStringTypeMapping recognizes every built-in transformer tag as a
// primitive string variant.
func DefaultStringTypeMapping() StringTypeMapping {
	return StringTypeMapping{
		"date":           KindDate,
		"time":           KindTime,
		"date-time":      KindDateTime,
		"integer-string": KindIntegerString,
		"bool-string":    KindBoolString,
	}
}

// Supports reports whether the mapping recognizes the given transformer tag.
func (m StringTypeMapping) Supports(transformer string) bool {
	_, ok := m[transformer]
	return ok
}

// Clone returns an independent copy.
func (m StringTypeMapping) Clone() StringTypeMapping {
	out := make(StringTypeMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
