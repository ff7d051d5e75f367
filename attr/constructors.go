package attr

// TypeNames builds a Bundle carrying the given candidate names.
func TypeNames(names ...string) Bundle {
	return Bundle{}.With(KindTypeNames, NewStringSet(names...))
}

// Descriptions builds a Bundle carrying the given descriptions.
func Descriptions(descriptions ...string) Bundle {
	return Bundle{}.With(KindDescriptions, NewStringSet(descriptions...))
}

// Provenance builds a Bundle carrying the given source document names.
func Provenance(sources ...string) Bundle {
	return Bundle{}.With(KindProvenance, NewStringSet(sources...))
}

// ForwardingRef builds a Bundle marked as a forwarding-intersection
// placeholder.
func ForwardingRef() Bundle {
	return Bundle{}.With(KindForwardingRef, Flag{})
}

// ObservedValues builds a Bundle carrying the given literal string values
// observed for a string-typed slot.
func ObservedValues(values ...string) Bundle {
	return Bundle{}.With(KindObservedValues, NewStringSet(values...))
}
