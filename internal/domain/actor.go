package domain

import "context"

// Actor identifies the caller for ownership and visibility decisions.
// It is passed explicitly into the layers that need it; the core never
// authenticates anyone itself.
type Actor struct {
	ID       string
	Elevated bool
}

// Owns reports whether the actor is the given owner.
func (a Actor) Owns(ownerID string) bool {
	return a.ID != "" && a.ID == ownerID
}

type actorCtxKey struct{}

// ContextWithActor stores the actor in the context.
func ContextWithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, a)
}

// ActorFromContext extracts the actor from the context.
// Returns a zero (anonymous, unprivileged) actor if none is set.
func ActorFromContext(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorCtxKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}
