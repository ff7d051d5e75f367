package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/internal/source"
	"github.com/kestrel-oss/typegraph/location"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
)

// SchemaReader is a Data implementation that reads a single JSON Schema
// document, the schema side of sample-vs-schema input. Its graph is
// schema-derived (NeedSchemaProcessing reports true) so the driver runs the
// stricter schema-mode fixed point over it, and when the document is the
// only input added it is eligible for the passthrough fast path via
// SingleStringSchemaSource.
type SchemaReader struct {
	mu           sync.Mutex
	topLevelName string
	strictJSON   bool
	raw          string
	added        bool
	sourceID     location.SourceID
	sources      *source.Registry

	defs map[string]typegraph.Ref
	pend map[string]typegraph.Ref // $ref pointer -> forwarding intersection Ref, while still being built
}

// NewSchemaReader creates a reader whose top-level entry, once built, is
// named topLevelName.
func NewSchemaReader(topLevelName string, strictJSON bool) *SchemaReader {
	return &SchemaReader{
		topLevelName: topLevelName,
		strictJSON:   strictJSON,
		sourceID:     location.NewSourceID(fmt.Sprintf("schema:%s", topLevelName)),
		sources:      source.NewRegistry(),
		defs:         make(map[string]typegraph.Ref),
		pend:         make(map[string]typegraph.Ref),
	}
}

// SetSchema records the one schema document this reader wraps.
func (r *SchemaReader) SetSchema(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.added {
		return fmt.Errorf("input: SchemaReader accepts only one schema document")
	}
	processed := data
	if !r.strictJSON {
		processed = jsonc.ToJSON(data)
	}
	r.raw = string(processed)
	r.added = true
	_ = r.sources.Register(r.sourceID, processed)
	return nil
}

func (r *SchemaReader) FinishAddingInputs(ctx context.Context) error { return nil }

func (r *SchemaReader) AddTypes(ctx context.Context, builder *build.Builder, flags Flags) error {
	r.mu.Lock()
	raw := r.raw
	r.mu.Unlock()
	if raw == "" {
		return fmt.Errorf("input: SchemaReader.AddTypes called with no schema set")
	}

	var doc map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return decodeErrorIssue(r.sources, r.sourceID, diag.E_MALFORMED_SCHEMA, "schema", err)
	}

	if err := r.buildDefinitions(builder, doc, "definitions"); err != nil {
		return err
	}
	if err := r.buildDefinitions(builder, doc, "$defs"); err != nil {
		return err
	}

	top, err := r.buildSchema(builder, doc, r.topLevelName)
	if err != nil {
		return err
	}
	builder.AddTopLevel(r.topLevelName, top)
	return nil
}

// buildDefinitions walks a "definitions" or "$defs" map ahead of the root
// schema body, so a $ref to a sibling definition resolves to a real Ref
// (or, for defs that reference each other cyclically, a forwarding
// intersection that gets filled in as each definition finishes building).
func (r *SchemaReader) buildDefinitions(b *build.Builder, doc map[string]any, field string) error {
	defs, _ := doc[field].(map[string]any)
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		node, _ := defs[name].(map[string]any)
		ref, err := r.buildSchema(b, node, name)
		if err != nil {
			return err
		}
		if err := r.defineRef(b, "#/"+field+"/"+name, ref); err != nil {
			return err
		}
	}
	return nil
}

func (r *SchemaReader) NeedIR() bool               { return true }
func (r *SchemaReader) NeedSchemaProcessing() bool { return true }

// SingleStringSchemaSource satisfies the passthrough fast path: a
// SchemaReader always wraps exactly one document.
func (r *SchemaReader) SingleStringSchemaSource() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.added {
		return "", false
	}
	return r.raw, true
}

// buildSchema walks one JSON Schema node, recursing through
// properties/items/$ref/oneOf/allOf. nameHint seeds the node's
// attr.TypeNames candidate (a definition key or enclosing property name).
func (r *SchemaReader) buildSchema(b *build.Builder, node map[string]any, nameHint string) (typegraph.Ref, error) {
	if len(node) == 0 {
		return b.AddPrimitive(typegraph.KindAny, attr.Empty)
	}

	if ref, ok := stringField(node, "$ref"); ok {
		return r.resolveRef(b, ref)
	}

	if enum, ok := node["enum"]; ok {
		return buildEnum(b, enum)
	}

	if members, ok := node["allOf"].([]any); ok {
		return r.buildCombinator(b, members, nameHint, true)
	}
	if members, ok := node["oneOf"].([]any); ok {
		return r.buildCombinator(b, members, nameHint, false)
	}
	if members, ok := node["anyOf"].([]any); ok {
		return r.buildCombinator(b, members, nameHint, false)
	}

	typeName, _ := stringField(node, "type")
	switch typeName {
	case "object", "":
		return r.buildObjectSchema(b, node, nameHint)
	case "array":
		return r.buildArraySchema(b, node, nameHint)
	case "string":
		return b.AddPrimitive(typegraph.KindString, attr.Empty)
	case "integer":
		return b.AddPrimitive(typegraph.KindInteger, attr.Empty)
	case "number":
		return b.AddPrimitive(typegraph.KindDouble, attr.Empty)
	case "boolean":
		return b.AddPrimitive(typegraph.KindBool, attr.Empty)
	case "null":
		return b.AddPrimitive(typegraph.KindNull, attr.Empty)
	default:
		return b.AddPrimitive(typegraph.KindAny, attr.Empty)
	}
}

func (r *SchemaReader) buildObjectSchema(b *build.Builder, node map[string]any, nameHint string) (typegraph.Ref, error) {
	rawProps, _ := node["properties"].(map[string]any)
	required := stringSetField(node, "required")

	keys := make([]string, 0, len(rawProps))
	for k := range rawProps {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]typegraph.ClassProperty, 0, len(keys))
	for _, k := range keys {
		childNode, _ := rawProps[k].(map[string]any)
		childRef, err := r.buildSchema(b, childNode, k)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		props = append(props, typegraph.ClassProperty{Name: k, Type: childRef, Optional: !required[k]})
	}

	additional, hasAdditional := node["additionalProperties"].(map[string]any)
	if hasAdditional {
		addlRef, err := r.buildSchema(b, additional, nameHint+"Value")
		if err != nil {
			return typegraph.InvalidRef, err
		}
		return b.AddObject(props, addlRef, attr.TypeNames(nameHint))
	}
	return b.AddClass(props, true, attr.TypeNames(nameHint))
}

func (r *SchemaReader) buildArraySchema(b *build.Builder, node map[string]any, nameHint string) (typegraph.Ref, error) {
	items, ok := node["items"].(map[string]any)
	if !ok {
		anyRef, err := b.AddPrimitive(typegraph.KindAny, attr.Empty)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		return b.AddArray(anyRef, attr.Empty)
	}
	elem, err := r.buildSchema(b, items, nameHint)
	if err != nil {
		return typegraph.InvalidRef, err
	}
	return b.AddArray(elem, attr.Empty)
}

func (r *SchemaReader) buildCombinator(b *build.Builder, members []any, nameHint string, intersect bool) (typegraph.Ref, error) {
	refs := make([]typegraph.Ref, 0, len(members))
	for _, m := range members {
		node, _ := m.(map[string]any)
		ref, err := r.buildSchema(b, node, nameHint)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		refs = append(refs, ref)
	}
	if intersect {
		return b.AddIntersection(refs, attr.TypeNames(nameHint))
	}
	return b.AddUnion(refs, attr.TypeNames(nameHint))
}

// resolveRef resolves a "#/definitions/Name"-style pointer. The first
// reference to a not-yet-built definition reserves a forwarding
// intersection so cyclic definitions (A references B which references A)
// do not recurse forever; removeIndirectionIntersections collapses the
// resulting single-member indirection once the graph is complete.
func (r *SchemaReader) resolveRef(b *build.Builder, pointer string) (typegraph.Ref, error) {
	r.mu.Lock()
	if ref, ok := r.defs[pointer]; ok {
		r.mu.Unlock()
		return ref, nil
	}
	if ref, ok := r.pend[pointer]; ok {
		r.mu.Unlock()
		return ref, nil
	}
	placeholder := b.AddForwardingIntersection()
	r.pend[pointer] = placeholder
	r.mu.Unlock()
	return placeholder, nil
}

// defineRef records the built Ref for a "#/definitions/Name" pointer and
// resolves any forwarding placeholder earlier $ref occurrences reserved for
// it. Callers populate definitions before walking the document body that
// references them (SchemaReader does this internally for "definitions"/
// "$defs" siblings of the root schema).
func (r *SchemaReader) defineRef(b *build.Builder, pointer string, ref typegraph.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[pointer] = ref
	if placeholder, ok := r.pend[pointer]; ok {
		delete(r.pend, pointer)
		return b.ResolveForwardingIntersection(placeholder, []typegraph.Ref{ref})
	}
	return nil
}

func buildEnum(b *build.Builder, enum any) (typegraph.Ref, error) {
	values, _ := enum.([]any)
	cases := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			cases = append(cases, s)
		}
	}
	if len(cases) == 0 {
		return b.AddPrimitive(typegraph.KindString, attr.Empty)
	}
	return b.AddEnum(cases, attr.Empty)
}

func stringField(node map[string]any, key string) (string, bool) {
	s, ok := node[key].(string)
	return s, ok
}

func stringSetField(node map[string]any, key string) map[string]bool {
	out := map[string]bool{}
	if list, ok := node[key].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				out[s] = true
			}
		}
	}
	return out
}
