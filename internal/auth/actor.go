package auth

import (
	"context"
)

// Actor is the authenticated identity attached to a request, if any.
// The gate only checks for its presence; resolving one is the job of
// an external authentication collaborator.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type contextKey struct{}

var actorKey contextKey

// WithActor returns a context carrying the given actor identity.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext returns the actor attached to the context, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey).(Actor)
	return actor, ok
}
