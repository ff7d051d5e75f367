package input

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/tidwall/jsonc"

	"github.com/kestrel-oss/typegraph/attr"
	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/internal/source"
	"github.com/kestrel-oss/typegraph/location"
	"github.com/kestrel-oss/typegraph/typegraph"
	"github.com/kestrel-oss/typegraph/typegraph/build"
)

// SampleReader is a Data implementation that infers a type from one or more
// example documents, over-approximating where documents disagree: it is
// the sample side of sample-vs-schema input. Every document
// added under the same top-level name is unioned together, relying on later
// rewrite passes (flattenUnions, combineClasses, expandStrings) to collapse
// that union down to a single coherent shape.
//
// Grounded on adapter/json's decoder-with-UseNumber/jsonc-preprocessing
// idiom, adapted from instance-document parsing to type inference: where
// the adapter built instance.RawInstance values against an already-known
// schema, SampleReader walks the same JSON shape to build the schema
// itself.
type SampleReader struct {
	mu           sync.Mutex
	topLevelName string
	strictJSON   bool
	samples      []any
	sourceN      int
	sources      *source.Registry
}

// NewSampleReader creates a reader whose eventual single top-level entry is
// named topLevelName. strictJSON disables jsonc preprocessing (comments,
// trailing commas) for callers that want to reject anything but strict
// JSON.
func NewSampleReader(topLevelName string, strictJSON bool) *SampleReader {
	return &SampleReader{
		topLevelName: topLevelName,
		strictJSON:   strictJSON,
		sources:      source.NewRegistry(),
	}
}

// AddSample decodes one sample document and queues it for AddTypes.
func (r *SampleReader) AddSample(data []byte) error {
	processed := data
	if !r.strictJSON {
		processed = jsonc.ToJSON(data)
	}

	r.mu.Lock()
	r.sourceN++
	sourceID := location.NewSourceID(fmt.Sprintf("sample:%s:%d", r.topLevelName, r.sourceN))
	r.mu.Unlock()
	_ = r.sources.Register(sourceID, processed)

	dec := json.NewDecoder(bytes.NewReader(processed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return decodeErrorIssue(r.sources, sourceID, diag.E_MALFORMED_SAMPLE, "sample", err)
	}
	r.mu.Lock()
	r.samples = append(r.samples, v)
	r.mu.Unlock()
	return nil
}

func (r *SampleReader) FinishAddingInputs(ctx context.Context) error { return nil }

func (r *SampleReader) AddTypes(ctx context.Context, builder *build.Builder, flags Flags) error {
	r.mu.Lock()
	samples := append([]any(nil), r.samples...)
	r.mu.Unlock()

	if len(samples) == 0 {
		none, err := builder.AddPrimitive(typegraph.KindNone, attr.Empty)
		if err != nil {
			return err
		}
		builder.AddTopLevel(r.topLevelName, none)
		return nil
	}

	refs := make([]typegraph.Ref, 0, len(samples))
	for _, s := range samples {
		ref, err := inferValue(builder, s, flags, r.topLevelName)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	top := refs[0]
	if len(refs) > 1 {
		merged, err := builder.AddUnion(refs, attr.Empty)
		if err != nil {
			return err
		}
		top = merged
	}
	builder.AddTopLevel(r.topLevelName, top)
	return nil
}

func (r *SampleReader) NeedIR() bool                            { return true }
func (r *SampleReader) NeedSchemaProcessing() bool               { return false }
func (r *SampleReader) SingleStringSchemaSource() (string, bool) { return "", false }

// IssueError is an error carrying the structured diag.Issue that caused it.
// Callers that want the code and severity rather than just the message text
// should use errors.As against this interface.
type IssueError interface {
	error
	Issue() diag.Issue
}

type issueError struct{ issue diag.Issue }

func (e issueError) Error() string     { return e.issue.Message() }
func (e issueError) Issue() diag.Issue { return e.issue }

var (
	integerStringRe = regexp.MustCompile(`^-?[0-9]+$`)
	dateRe          = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe          = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
	dateTimeRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[Tt]\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})?$`)
)

// inferValue builds a Ref for one decoded JSON value, recursing into
// objects and arrays. nameHint is the enclosing property name (or the
// top-level name), attached to newly built classes as an attr.TypeNames
// candidate so namer.GatherNames has something to titlecase.
func inferValue(b *build.Builder, v any, flags Flags, nameHint string) (typegraph.Ref, error) {
	switch val := v.(type) {
	case nil:
		return b.AddPrimitive(typegraph.KindNone, attr.Empty)
	case bool:
		return b.AddPrimitive(typegraph.KindBool, attr.Empty)
	case json.Number:
		return inferNumber(b, val)
	case string:
		return inferString(b, val, flags)
	case []any:
		return inferArray(b, val, flags, nameHint)
	case map[string]any:
		return inferObject(b, val, flags, nameHint)
	default:
		return b.AddPrimitive(typegraph.KindAny, attr.Empty)
	}
}

func inferNumber(b *build.Builder, n json.Number) (typegraph.Ref, error) {
	if !strings.ContainsAny(n.String(), ".eE") {
		if _, err := n.Int64(); err == nil {
			return b.AddPrimitive(typegraph.KindInteger, attr.Empty)
		}
	}
	return b.AddPrimitive(typegraph.KindDouble, attr.Empty)
}

func inferString(b *build.Builder, s string, flags Flags) (typegraph.Ref, error) {
	if flags.InferDates {
		switch {
		case dateTimeRe.MatchString(s):
			return b.AddPrimitive(typegraph.KindDateTime, attr.Empty)
		case dateRe.MatchString(s):
			return b.AddPrimitive(typegraph.KindDate, attr.Empty)
		case timeRe.MatchString(s):
			return b.AddPrimitive(typegraph.KindTime, attr.Empty)
		}
	}
	if flags.InferIntegerStrings && integerStringRe.MatchString(s) {
		return b.AddPrimitive(typegraph.KindIntegerString, attr.Empty)
	}
	if s == "true" || s == "false" {
		return b.AddPrimitive(typegraph.KindBoolString, attr.ObservedValues(s))
	}
	return b.AddPrimitive(typegraph.KindString, attr.ObservedValues(s))
}

func inferArray(b *build.Builder, elems []any, flags Flags, nameHint string) (typegraph.Ref, error) {
	if len(elems) == 0 {
		none, err := b.AddPrimitive(typegraph.KindNone, attr.Empty)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		return b.AddArray(none, attr.Empty)
	}
	elemRefs := make([]typegraph.Ref, 0, len(elems))
	for _, e := range elems {
		ref, err := inferValue(b, e, flags, nameHint)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		elemRefs = append(elemRefs, ref)
	}
	elem := elemRefs[0]
	if len(elemRefs) > 1 {
		merged, err := b.AddUnion(elemRefs, attr.Empty)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		elem = merged
	}
	return b.AddArray(elem, attr.Empty)
}

func inferObject(b *build.Builder, obj map[string]any, flags Flags, nameHint string) (typegraph.Ref, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	props := make([]typegraph.ClassProperty, 0, len(keys))
	for _, k := range keys {
		ref, err := inferValue(b, obj[k], flags, k)
		if err != nil {
			return typegraph.InvalidRef, err
		}
		props = append(props, typegraph.ClassProperty{Name: k, Type: ref})
	}
	return b.AddClass(props, true, attr.TypeNames(nameHint))
}
