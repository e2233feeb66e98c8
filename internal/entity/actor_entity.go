package entity

type ActorKind string

const (
	ActorAuthenticated ActorKind = "authenticated"
	ActorAnonymous     ActorKind = "anonymous"
)

// Actor is the identity a request is attributed to: a logged-in user id or
// a long-lived anonymous cookie id. Ownership checks compare the opaque Id,
// the Kind exists so call sites cannot mix the two up silently.
type Actor struct {
	Kind ActorKind
	Id   string
}

func AuthenticatedActor(id string) Actor {
	return Actor{Kind: ActorAuthenticated, Id: id}
}

func AnonymousActor(id string) Actor {
	return Actor{Kind: ActorAnonymous, Id: id}
}

// IsZero reports whether no identity could be resolved at all.
func (a Actor) IsZero() bool {
	return a.Id == ""
}
