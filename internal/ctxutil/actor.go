// Package ctxutil carries the acting user's identity (USR-XXX) through
// context so audit notes on cancellations and rollbacks can name who acted.
// It has no internal dependencies and is safe to import anywhere.
package ctxutil

import "context"

// ActorKey is the context key under which the actor ID travels.
type ActorKey struct{}

// WithActorID returns a context carrying the given actor ID. The CLI
// bootstrap attaches the configured identity once per invocation.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, ActorKey{}, actorID)
}

// ActorFromContext returns the actor ID from context, or empty string when
// the caller is anonymous.
func ActorFromContext(ctx context.Context) string {
	if v := ctx.Value(ActorKey{}); v != nil {
		return v.(string)
	}
	return ""
}
