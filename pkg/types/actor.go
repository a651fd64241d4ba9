package types

import "errors"

// RoleAdmin is the one privileged role. Any other role string is an
// ordinary user.
const RoleAdmin = "admin"

// Actor is the authenticated identity attached to every mutating call.
// The core never authenticates; it authorizes with the values given.
type Actor struct {
	ID   string
	Role string
}

// CanMutate is the single authorization rule for sub-resource mutation:
// the actor may mutate a resource iff they own it or hold the admin role.
func CanMutate(actor Actor, ownerID string) bool {
	return actor.ID == ownerID || actor.Role == RoleAdmin
}

// ErrForbidden is returned when the authorization rule rejects a mutation.
var ErrForbidden = errors.New("actor may not mutate this resource")
