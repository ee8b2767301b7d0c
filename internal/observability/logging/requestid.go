package logging

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// ValidateAndExtractRequestID returns the given id, or a fresh one when the
// caller supplied none, so outbound requests always carry a correlation id.
func ValidateAndExtractRequestID(requestID string) string {
	if requestID == "" {
		return uuid.NewString()
	}
	return requestID
}
