package pipeline

import (
	"fmt"

	"github.com/kestrel-oss/typegraph/diag"
)

// ConfigurationError reports an Options value the driver cannot act on at
// all: an unrecognized target language name, or a renderer option the
// target does not accept. Returned from Run, never panicked.
type ConfigurationError struct {
	Issue diag.Issue
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Issue.Code(), e.Issue.Message())
}

// InputError wraps a failure reported by the input.Data collaborator
// itself (a malformed sample or schema document). Returned from Run
// unchanged, never panicked.
type InputError struct {
	Issue diag.Issue
	Err   error
}

func (e InputError) Error() string { return e.Err.Error() }
func (e InputError) Unwrap() error { return e.Err }

// StructuralInvariantViolation indicates a pass or the driver itself
// produced an illegal shape: an empty union, a dangling reference, a
// forwarder that survived past removeIndirectionIntersections, or a fixed
// point that failed to converge. This is assertion-style and fatal — Run
// never returns it as an error value. Instead the driver panics with a
// value of this type; it is a bug in the pipeline itself, not a problem
// with caller input, so recovering from it is the caller's choice, not
// the driver's.
type StructuralInvariantViolation struct {
	Issue diag.Issue
}

func (e StructuralInvariantViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Issue.Code(), e.Issue.Message())
}

func raiseStructural(code diag.Code, format string, args ...any) {
	issue := diag.NewIssue(diag.Fatal, code, fmt.Sprintf(format, args...)).Build()
	panic(StructuralInvariantViolation{Issue: issue})
}
