// Package models contains domain models for the public chat service.
package models

// PrincipalKind distinguishes registered users from anonymous trial sessions.
type PrincipalKind string

const (
	// KindAuthenticated is a registered user with a stable identifier.
	KindAuthenticated PrincipalKind = "authenticated"
	// KindAnonymous is a trial session identified only by a session id.
	KindAnonymous PrincipalKind = "anonymous"
)

// Principal is the identity a request acts as, extracted from a verified
// bearer token. It is immutable for the lifetime of the request.
type Principal struct {
	Kind PrincipalKind
	// ID is the user id for authenticated principals and the session id
	// for anonymous ones. It is the key for rate limiting and conversation
	// ownership either way.
	ID string
}

// NewAuthenticated creates a principal for a registered user.
func NewAuthenticated(userID string) Principal {
	return Principal{Kind: KindAuthenticated, ID: userID}
}

// NewAnonymous creates a principal for an anonymous trial session.
func NewAnonymous(sessionID string) Principal {
	return Principal{Kind: KindAnonymous, ID: sessionID}
}

// IsAnonymous reports whether the principal is an anonymous trial session.
func (p Principal) IsAnonymous() bool {
	return p.Kind == KindAnonymous
}
