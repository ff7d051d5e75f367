package attr

// Bundle is the metadata attached to a single typegraph.Type. Bundles are
// immutable once returned from Combine or the constructors below; callers
// that need to grow a bundle always get a new one back.
type Bundle struct {
	slots map[Kind]Value
}

// Empty is the zero bundle: no attributes.
var Empty = Bundle{}

// New builds a Bundle from the given kind/value pairs, dropping any value
// that reports itself empty.
func New(pairs ...struct {
	Kind  Kind
	Value Value
}) Bundle {
	b := Bundle{}
	for _, p := range pairs {
		b = b.With(p.Kind, p.Value)
	}
	return b
}

// With returns a new Bundle with kind set to value, combined with whatever
// value kind already held. A value that reports IsEmpty() is not stored.
func (b Bundle) With(kind Kind, value Value) Bundle {
	if value == nil || value.IsEmpty() {
		return b
	}
	slots := make(map[Kind]Value, len(b.slots)+1)
	for k, v := range b.slots {
		slots[k] = v
	}
	if existing, ok := slots[kind]; ok {
		slots[kind] = existing.Combine(value)
	} else {
		slots[kind] = value
	}
	return Bundle{slots: slots}
}

// Get returns the value stored under kind, if any.
func (b Bundle) Get(kind Kind) (Value, bool) {
	v, ok := b.slots[kind]
	return v, ok
}

// TypeNames returns the StringSet stored under KindTypeNames, or an empty
// set if none was recorded.
func (b Bundle) TypeNames() StringSet {
	return b.stringSet(KindTypeNames)
}

// Descriptions returns the StringSet stored under KindDescriptions.
func (b Bundle) Descriptions() StringSet {
	return b.stringSet(KindDescriptions)
}

// Provenance returns the StringSet stored under KindProvenance.
func (b Bundle) Provenance() StringSet {
	return b.stringSet(KindProvenance)
}

// IsForwardingRef reports whether KindForwardingRef is set.
func (b Bundle) IsForwardingRef() bool {
	_, ok := b.slots[KindForwardingRef]
	return ok
}

func (b Bundle) stringSet(kind Kind) StringSet {
	v, ok := b.slots[kind]
	if !ok {
		return nil
	}
	ss, ok := v.(StringSet)
	if !ok {
		return nil
	}
	return ss
}

// Combine merges two bundles kind-by-kind using each kind's own combiner.
// Combine is commutative and associative as long as every stored Value is,
// which is the contract every attr.Value implementation must honor.
func (b Bundle) Combine(other Bundle) Bundle {
	if len(b.slots) == 0 {
		return other
	}
	if len(other.slots) == 0 {
		return b
	}
	slots := make(map[Kind]Value, len(b.slots)+len(other.slots))
	for k, v := range b.slots {
		slots[k] = v
	}
	for k, v := range other.slots {
		if existing, ok := slots[k]; ok {
			slots[k] = existing.Combine(v)
		} else {
			slots[k] = v
		}
	}
	return Bundle{slots: slots}
}

// IsEmpty reports whether the bundle carries no attributes.
func (b Bundle) IsEmpty() bool {
	return len(b.slots) == 0
}

// WithoutForwardingRef returns a copy of b with KindForwardingRef cleared,
// used once a forwarding placeholder has been resolved.
func (b Bundle) WithoutForwardingRef() Bundle {
	if !b.IsForwardingRef() {
		return b
	}
	slots := make(map[Kind]Value, len(b.slots))
	for k, v := range b.slots {
		if k != KindForwardingRef {
			slots[k] = v
		}
	}
	return Bundle{slots: slots}
}
