package trace

import "context"

type requestIDKey struct{}

// WithRequestID returns a context carrying the given request ID, for
// inclusion in operation start/end log lines by [Begin] and [Op.End].
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the request ID stored in ctx, if any.
func RequestIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
