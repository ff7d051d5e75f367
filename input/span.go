package input

import (
	"encoding/json"
	"fmt"

	"github.com/kestrel-oss/typegraph/diag"
	"github.com/kestrel-oss/typegraph/internal/source"
	"github.com/kestrel-oss/typegraph/location"
)

// decodeErrorIssue builds an issueError for a failed json.Decoder.Decode
// call, attaching a real location.Span when the error carries a byte offset
// (the common case for *json.SyntaxError) and reg has content registered
// under sourceID. Readers that decode several documents under one Data
// (SampleReader) or exactly one (SchemaReader) both route through here so
// every malformed-input diagnostic points at a line and column instead of
// naming only the input as a whole.
func decodeErrorIssue(reg *source.Registry, sourceID location.SourceID, code diag.Code, label string, err error) error {
	b := diag.NewIssue(diag.Error, code, fmt.Sprintf("invalid %s JSON: %s", label, err))
	if offset, ok := decodeErrorOffset(err); ok {
		pos := reg.PositionAt(sourceID, offset)
		if pos.IsKnown() {
			b = b.WithSpan(location.PointWithByte(sourceID, pos.Line, pos.Column, offset))
		}
	}
	return issueError{b.Build()}
}

// decodeErrorOffset extracts the byte offset encoding/json attaches to a
// decode error, if any.
func decodeErrorOffset(err error) (int, bool) {
	switch e := err.(type) {
	case *json.SyntaxError:
		return int(e.Offset), true
	case *json.UnmarshalTypeError:
		return int(e.Offset), true
	default:
		return 0, false
	}
}
