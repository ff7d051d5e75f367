// Package build implements TypeBuilder, the sole construction path for a
// typegraph.TypeGraph: structural interning of non-nominal kinds, stable
// Ref assignment, and the forwarding-intersection mechanism used while
// building cyclic intersections whose members are not all known yet.
//
// Grounded on the Vanadium vdl.TypeBuilder's "cons the outer type first,
// then recurse" discipline: a caller building a cyclic shape reserves a Ref
// with AddForwardingIntersection before it has built the members that refer
// back to it, then fills the placeholder in with ResolveForwardingIntersection
// once the cycle closes.
package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/diag"
)

// Builder constructs a typegraph.TypeGraph. The zero value is not usable;
// construct with New.
type Builder struct {
	arena      []typegraph.Type
	intern     map[string]typegraph.Ref
	primitives map[typegraph.Kind]typegraph.Ref
	topLevels  []typegraph.TopLevel
	topSeen    map[string]bool
	stringType typegraph.StringTypeMapping

	fixedTopLevels bool

	didAddForwardingIntersection bool
}

// New creates an empty Builder. fixedTopLevels disables structural
// interning across distinct top-level classes, matching
// pipeline.Options.FixedTopLevels.
func New(stringType typegraph.StringTypeMapping, fixedTopLevels bool) *Builder {
	return &Builder{
		intern:         make(map[string]typegraph.Ref),
		primitives:     make(map[typegraph.Kind]typegraph.Ref),
		topSeen:        make(map[string]bool),
		stringType:     stringType,
		fixedTopLevels: fixedTopLevels,
	}
}

// DidAddForwardingIntersection reports whether the driver must run
// removeIndirectionIntersections before handing the graph to later passes.
func (b *Builder) DidAddForwardingIntersection() bool {
	return b.didAddForwardingIntersection
}

// GetPrimitiveStringType returns the interned Ref for a primitive kind,
// creating it on first use. All primitive kinds (including the string
// specializations date/time/date-time/integer-string/bool-string) are
// singletons within a graph: there is exactly one Ref for KindInteger,
// reused everywhere that kind occurs.
func (b *Builder) GetPrimitiveStringType(kind typegraph.Kind) (typegraph.Ref, error) {
	if !kind.IsPrimitive() {
		return typegraph.InvalidRef, fmt.Errorf("typegraph/build: %s is not a primitive kind", kind)
	}
	return b.addPrimitiveRef(kind, attr.Empty), nil
}

// AddPrimitive is an alias of GetPrimitiveStringType that also merges the
// given attribute bundle into the interned primitive's attributes.
func (b *Builder) AddPrimitive(kind typegraph.Kind, attrs attr.Bundle) (typegraph.Ref, error) {
	if !kind.IsPrimitive() {
		return typegraph.InvalidRef, fmt.Errorf("typegraph/build: %s is not a primitive kind", kind)
	}
	return b.addPrimitiveRef(kind, attrs), nil
}

func (b *Builder) addPrimitiveRef(kind typegraph.Kind, attrs attr.Bundle) typegraph.Ref {
	if ref, ok := b.primitives[kind]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref
	}
	ref := b.push(typegraph.Type{Kind: kind, Attributes: attrs})
	b.primitives[kind] = ref
	return ref
}

// AddEnum interns a finite set of string cases, deduplicating and ordering
// the stored slice by structural key so that two calls with the same case
// set in different orders intern to the same Ref.
func (b *Builder) AddEnum(cases []string, attrs attr.Bundle) (typegraph.Ref, error) {
	if len(cases) == 0 {
		return typegraph.InvalidRef, structuralError(diag.E_EMPTY_UNION, "enum has no cases")
	}
	sorted := dedupSortedStrings(cases)
	key := "enum:" + strings.Join(sorted, "\x00")
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindEnum, Cases: sorted, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddClass adds a class type. Non-nominal classes are structurally
// interned like every other non-nominal kind; nominal classes (the
// default) always get a fresh Ref — distinct classes have nominal
// identity unless combined.
func (b *Builder) AddClass(properties []typegraph.ClassProperty, nominal bool, attrs attr.Bundle) (typegraph.Ref, error) {
	if err := checkDuplicateProperties(properties); err != nil {
		return typegraph.InvalidRef, err
	}
	props := append([]typegraph.ClassProperty(nil), properties...)

	if b.fixedTopLevels {
		nominal = true
	}

	if !nominal {
		key := classKey(props)
		if ref, ok := b.intern[key]; ok {
			b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
			return ref, nil
		}
		ref := b.push(typegraph.Type{Kind: typegraph.KindClass, Properties: props, Attributes: attrs})
		b.intern[key] = ref
		return ref, nil
	}
	return b.push(typegraph.Type{Kind: typegraph.KindClass, Properties: props, Nominal: true, Attributes: attrs}), nil
}

// AddMap interns a map type by its value type.
func (b *Builder) AddMap(value typegraph.Ref, attrs attr.Bundle) (typegraph.Ref, error) {
	key := fmt.Sprintf("map:%d", value)
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindMap, Elem: value, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddArray interns an array type by its element type.
func (b *Builder) AddArray(elem typegraph.Ref, attrs attr.Bundle) (typegraph.Ref, error) {
	key := fmt.Sprintf("array:%d", elem)
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindArray, Elem: elem, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddUnion interns a union of members. Members are deduplicated; if only
// one distinct member remains after deduplication, AddUnion returns that
// member directly rather than wrapping it — singletons are collapsed to
// the member.
func (b *Builder) AddUnion(members []typegraph.Ref, attrs attr.Bundle) (typegraph.Ref, error) {
	if len(members) == 0 {
		return typegraph.InvalidRef, structuralError(diag.E_EMPTY_UNION, "union has no members")
	}
	deduped := dedupRefs(members)
	if len(deduped) == 1 {
		ref := deduped[0]
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	key := "union:" + refSetKey(deduped)
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindUnion, Members: deduped, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddIntersection interns an intersection of members. Intersections are
// transient: resolveIntersections eliminates every one of them before the
// graph moves on.
func (b *Builder) AddIntersection(members []typegraph.Ref, attrs attr.Bundle) (typegraph.Ref, error) {
	if len(members) == 0 {
		return typegraph.InvalidRef, structuralError(diag.E_EMPTY_INTERSECTION, "intersection has no members")
	}
	deduped := dedupRefs(members)
	key := "intersection:" + refSetKey(deduped)
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindIntersection, Members: deduped, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddForwardingIntersection reserves a Ref for an intersection whose
// members are not yet known (one of them will, eventually, refer back to
// this Ref). The placeholder is tagged with attr.ForwardingRef so
// removeIndirectionIntersections can find and eliminate it later.
func (b *Builder) AddForwardingIntersection() typegraph.Ref {
	b.didAddForwardingIntersection = true
	return b.push(typegraph.Type{Kind: typegraph.KindIntersection, Attributes: attr.ForwardingRef()})
}

// ResolveForwardingIntersection fills in the members of a Ref previously
// returned by AddForwardingIntersection, clearing its forwarding marker.
// It is an error to call this on a Ref that is not an unresolved forwarder.
func (b *Builder) ResolveForwardingIntersection(ref typegraph.Ref, members []typegraph.Ref) error {
	if int(ref) < 0 || int(ref) >= len(b.arena) {
		return fmt.Errorf("typegraph/build: ref %s out of range", ref)
	}
	t := b.arena[ref]
	if t.Kind != typegraph.KindIntersection || !t.Attributes.IsForwardingRef() {
		return fmt.Errorf("typegraph/build: ref %s is not an unresolved forwarding intersection", ref)
	}
	if len(members) == 0 {
		return structuralError(diag.E_EMPTY_INTERSECTION, "forwarding intersection resolved with no members")
	}
	t.Members = dedupRefs(members)
	t.Attributes = t.Attributes.WithoutForwardingRef()
	b.arena[ref] = t
	return nil
}

// AddObject adds an open-record type: class-like properties plus an
// optional additional-properties type. Objects are not structurally
// interned (replaceObjectType erases them early in the driver program when
// the target lacks full object support, so interning offers little and
// complicates GC's additional-ref walk).
func (b *Builder) AddObject(properties []typegraph.ClassProperty, additional typegraph.Ref, attrs attr.Bundle) (typegraph.Ref, error) {
	if err := checkDuplicateProperties(properties); err != nil {
		return typegraph.InvalidRef, err
	}
	props := append([]typegraph.ClassProperty(nil), properties...)
	return b.push(typegraph.Type{Kind: typegraph.KindObject, Properties: props, Additional: additional, Attributes: attrs}), nil
}

// AddTransformedString interns a string specialized by transformer, which
// must be recognized by the graph's StringTypeMapping.
func (b *Builder) AddTransformedString(transformer string, attrs attr.Bundle) (typegraph.Ref, error) {
	if !b.stringType.Supports(transformer) {
		return typegraph.InvalidRef, fmt.Errorf("typegraph/build: transformer %q not in string type mapping", transformer)
	}
	key := "xstring:" + transformer
	if ref, ok := b.intern[key]; ok {
		b.arena[ref].Attributes = b.arena[ref].Attributes.Combine(attrs)
		return ref, nil
	}
	ref := b.push(typegraph.Type{Kind: typegraph.KindTransformedString, Transformer: transformer, Attributes: attrs})
	b.intern[key] = ref
	return ref, nil
}

// AddTopLevel registers name as a top-level entry pointing at ref. Adding
// the same name twice overwrites the earlier entry's Ref but preserves its
// position, matching "first-observed-insertion order" semantics for
// top-level declaration order.
func (b *Builder) AddTopLevel(name string, ref typegraph.Ref) {
	if !b.topSeen[name] {
		b.topSeen[name] = true
		b.topLevels = append(b.topLevels, typegraph.TopLevel{Name: name, Type: ref})
		return
	}
	for i, tl := range b.topLevels {
		if tl.Name == name {
			b.topLevels[i].Type = ref
			return
		}
	}
}

// Reserve pushes an empty placeholder slot and returns its Ref without
// interning it under any structural key. It exists for the Reconstitutor,
// which must hand out a stable Ref for a node before it has finished
// copying that node's children, so that a cycle reaching back to the node
// resolves to the same Ref instead of recursing forever.
func (b *Builder) Reserve() typegraph.Ref {
	return b.push(typegraph.Type{})
}

// Fill overwrites a Ref previously returned by Reserve with its final
// value. Fill bypasses structural interning deliberately: the caller
// (Reconstitutor) is responsible for whatever deduplication its pass
// requires, since interning a node under a key after the fact could collide
// with, and silently alias, an unrelated reserved-but-not-yet-filled slot.
func (b *Builder) Fill(ref typegraph.Ref, t typegraph.Type) {
	b.arena[ref] = t
}

// Peek returns the Type currently stored at ref, including a Reserve'd
// slot not yet Fill'd (which reads as the zero Type). It exists for
// passes that need to inspect a node's already-computed content mid-walk,
// such as a rewrite pass computing the meet of several already-visited
// member types.
func (b *Builder) Peek(ref typegraph.Ref) typegraph.Type {
	return b.arena[ref]
}

// Finish produces the built TypeGraph. The Builder must not be used again
// afterward; its arena becomes the new graph's backing storage.
func (b *Builder) Finish() *typegraph.TypeGraph {
	return typegraph.New(b.arena, b.topLevels, b.stringType)
}

func (b *Builder) push(t typegraph.Type) typegraph.Ref {
	ref := typegraph.Ref(len(b.arena))
	b.arena = append(b.arena, t)
	return ref
}

func checkDuplicateProperties(props []typegraph.ClassProperty) error {
	seen := make(map[string]bool, len(props))
	for _, p := range props {
		if seen[p.Name] {
			return structuralError(diag.E_DUPLICATE_PROPERTY, fmt.Sprintf("duplicate property %q", p.Name))
		}
		seen[p.Name] = true
	}
	return nil
}

func classKey(props []typegraph.ClassProperty) string {
	var sb strings.Builder
	sb.WriteString("class:")
	for _, p := range props {
		fmt.Fprintf(&sb, "%s:%d:%t,", p.Name, p.Type, p.Optional)
	}
	return sb.String()
}

func refSetKey(refs []typegraph.Ref) string {
	sorted := append([]typegraph.Ref(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var sb strings.Builder
	for _, r := range sorted {
		fmt.Fprintf(&sb, "%d,", r)
	}
	return sb.String()
}

func dedupRefs(refs []typegraph.Ref) []typegraph.Ref {
	seen := make(map[typegraph.Ref]bool, len(refs))
	out := make([]typegraph.Ref, 0, len(refs))
	for _, r := range refs {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

func dedupSortedStrings(ss []string) []string {
	seen := make(map[string]bool, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// structuralError builds a StructuralInvariantViolation-style error. The
// Builder surfaces structural problems as plain errors rather than
// diag.Issue values because they occur during construction, outside any
// diag.Collector's scope; the pipeline driver wraps them with the
// appropriate code when it propagates them.
func structuralError(code diag.Code, msg string) error {
	return fmt.Errorf("%s: %s", code, msg)
}
