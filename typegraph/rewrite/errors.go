package rewrite

import (
	"fmt"

	"github.com/kestrel-oss/typegraph/diag"
)

// structuralError builds a plain error carrying a StructuralInvariantViolation
// code, for the handful of conditions (a surviving forwarder, a non-converging
// fixed point) that indicate a bug in a pass rather than a problem with user
// input. The pipeline driver wraps these with diag.Issue details as it
// propagates them.
func structuralError(code diag.Code, msg string) error {
	return fmt.Errorf("%s: %s", code, msg)
}
