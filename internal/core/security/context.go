package security

import "context"

// SystemActor is recorded in audit columns when no authenticated user is present,
// e.g. for updates driven by the message consumer.
const SystemActor = "system"

type userIDKey struct{}

// WithUserID adds user ID to context.
// Used by middleware to propagate authenticated user through request chain.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID retrieves user ID from context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	if uid, ok := ctx.Value(userIDKey{}).(string); ok {
		return uid
	}
	return ""
}

// Actor returns the user ID from context or SystemActor.
func Actor(ctx context.Context) string {
	if uid := GetUserID(ctx); uid != "" {
		return uid
	}
	return SystemActor
}
